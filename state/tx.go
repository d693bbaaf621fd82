package state

import (
	"fmt"

	"github.com/holiman/uint256"

	"chainstd/db"
	"chainstd/events"
	"chainstd/types"
)

// Tx buffers writes and emitted events on top of committed state. Reads see
// the buffered writes first, so multi-step operations observe their own
// effects before anything is persisted. Commit applies every write and the
// journaled events through one provider batch; until then the committed
// state is untouched, which makes a failed operation a guaranteed no-op.
//
// A Tx is single-use and not safe for concurrent use. Callers hold their
// component lock for the whole begin-to-commit window.
type Tx struct {
	store   *Store
	pending map[string][]byte
	deletes map[string]struct{}
	emitted []events.Event
	closed  bool
}

// Begin opens a transaction over the store.
func (s *Store) Begin() *Tx {
	return &Tx{
		store:   s,
		pending: make(map[string][]byte),
		deletes: make(map[string]struct{}),
	}
}

func (t *Tx) getRaw(parts ...string) ([]byte, error) {
	key := string(t.store.key(parts...))
	if _, ok := t.deletes[key]; ok {
		return nil, nil
	}
	if val, ok := t.pending[key]; ok {
		return val, nil
	}
	return t.store.provider.Get([]byte(key))
}

func (t *Tx) put(value []byte, parts ...string) {
	key := string(t.store.key(parts...))
	t.pending[key] = value
	delete(t.deletes, key)
}

// Delete stages removal of a key.
func (t *Tx) Delete(parts ...string) {
	key := string(t.store.key(parts...))
	t.deletes[key] = struct{}{}
	delete(t.pending, key)
}

// Has reports key existence through the overlay.
func (t *Tx) Has(parts ...string) (bool, error) {
	key := string(t.store.key(parts...))
	if _, ok := t.deletes[key]; ok {
		return false, nil
	}
	if _, ok := t.pending[key]; ok {
		return true, nil
	}
	return t.store.provider.Has([]byte(key))
}

// GetUint256 reads an amount through the overlay.
func (t *Tx) GetUint256(parts ...string) (*uint256.Int, error) {
	raw, err := t.getRaw(parts...)
	if err != nil {
		return nil, err
	}
	return DecodeUint256(raw)
}

// PutUint256 stages an amount write.
func (t *Tx) PutUint256(v *uint256.Int, parts ...string) {
	t.put(encodeUint256(v), parts...)
}

// GetUint64 reads a counter through the overlay.
func (t *Tx) GetUint64(parts ...string) (uint64, error) {
	raw, err := t.getRaw(parts...)
	if err != nil {
		return 0, err
	}
	return DecodeUint64(raw)
}

// PutUint64 stages a counter write.
func (t *Tx) PutUint64(v uint64, parts ...string) {
	t.put(encodeUint64(v), parts...)
}

// GetBool reads a flag through the overlay.
func (t *Tx) GetBool(parts ...string) (bool, error) {
	raw, err := t.getRaw(parts...)
	if err != nil {
		return false, err
	}
	return decodeBool(raw)
}

// PutBool stages a flag write.
func (t *Tx) PutBool(v bool, parts ...string) {
	t.put(encodeBool(v), parts...)
}

// GetAddress reads an address through the overlay.
func (t *Tx) GetAddress(parts ...string) (types.Address, error) {
	raw, err := t.getRaw(parts...)
	if err != nil {
		return types.ZeroAddress, err
	}
	return DecodeAddress(raw)
}

// PutAddress stages an address write.
func (t *Tx) PutAddress(a types.Address, parts ...string) {
	t.put(encodeAddress(a), parts...)
}

// Emit buffers an event. Events reach the journal, and subscribers, only if
// the transaction commits.
func (t *Tx) Emit(ev events.Event) {
	t.emitted = append(t.emitted, ev)
}

// Commit assigns journal sequence numbers to the buffered events, stages
// their records alongside the state writes, and applies everything through
// one provider batch. It returns the sealed records so the caller can
// publish them after the state is durable.
func (t *Tx) Commit() ([]events.Record, error) {
	if t.closed {
		return nil, fmt.Errorf("transaction already closed")
	}
	t.closed = true

	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	var records []events.Record
	if len(t.emitted) > 0 {
		seq, err := t.GetUint64(journalSeqKey)
		if err != nil {
			return nil, err
		}
		records = make([]events.Record, 0, len(t.emitted))
		for _, ev := range t.emitted {
			seq++
			rec := events.NewRecord(seq, ev)
			enc, err := events.EncodeRecord(rec)
			if err != nil {
				return nil, err
			}
			t.put(enc, JournalPrefix, fmt.Sprintf("%020d", seq))
			records = append(records, rec)
		}
		t.PutUint64(seq, journalSeqKey)
	}

	err := db.WithBatch(t.store.provider, func(batch db.DatabaseBatch) error {
		for key, value := range t.pending {
			batch.Put([]byte(key), value)
		}
		for key := range t.deletes {
			batch.Delete([]byte(key))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Discard drops the buffered writes and events. It is a no-op after Commit,
// so callers can defer it unconditionally.
func (t *Tx) Discard() {
	if t.closed {
		return
	}
	t.closed = true
	t.pending = nil
	t.deletes = nil
	t.emitted = nil
}

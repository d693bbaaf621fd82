package state

import (
	"fmt"
	"strings"
	"sync"

	"github.com/holiman/uint256"

	"chainstd/db"
	"chainstd/errors"
	"chainstd/events"
	"chainstd/types"
)

// Journal key layout inside a namespace. The sequence counter lives beside
// the records, not under the record prefix.
const (
	JournalPrefix = "contract_events"
	journalSeqKey = "contract_events_seq"
)

// Store is the per-contract storage facade: every key it touches is scoped
// under the contract namespace, so independent contracts share one provider
// without touching each other's state. All components of one contract
// (ledger and capabilities) share one Store instance.
type Store struct {
	// mu serializes transaction commits so journal sequence numbers stay
	// contiguous across components sharing the namespace.
	mu       sync.Mutex
	ns       string
	provider db.DatabaseProvider
}

// NewStore scopes the provider under the given namespace.
func NewStore(provider db.DatabaseProvider, namespace string) (*Store, error) {
	if provider == nil {
		return nil, fmt.Errorf("provider cannot be nil")
	}
	if namespace == "" {
		return nil, fmt.Errorf("namespace cannot be empty")
	}
	return &Store{ns: namespace, provider: provider}, nil
}

// Namespace returns the contract namespace.
func (s *Store) Namespace() string {
	return s.ns
}

// Provider returns the underlying database provider.
func (s *Store) Provider() db.DatabaseProvider {
	return s.provider
}

func (s *Store) key(parts ...string) []byte {
	return []byte(s.ns + "/" + strings.Join(parts, "/"))
}

// GetRaw reads a committed value. Missing keys return (nil, nil).
func (s *Store) GetRaw(parts ...string) ([]byte, error) {
	return s.provider.Get(s.key(parts...))
}

// Has reports whether a committed key exists.
func (s *Store) Has(parts ...string) (bool, error) {
	return s.provider.Has(s.key(parts...))
}

// GetUint256 reads a committed amount. Absent keys decode to zero.
func (s *Store) GetUint256(parts ...string) (*uint256.Int, error) {
	raw, err := s.GetRaw(parts...)
	if err != nil {
		return nil, err
	}
	return DecodeUint256(raw)
}

// GetUint64 reads a committed counter. Absent keys decode to zero.
func (s *Store) GetUint64(parts ...string) (uint64, error) {
	raw, err := s.GetRaw(parts...)
	if err != nil {
		return 0, err
	}
	return DecodeUint64(raw)
}

// GetBool reads a committed flag. Absent keys decode to false.
func (s *Store) GetBool(parts ...string) (bool, error) {
	raw, err := s.GetRaw(parts...)
	if err != nil {
		return false, err
	}
	return decodeBool(raw)
}

// GetAddress reads a committed address. Absent keys decode to the zero
// address.
func (s *Store) GetAddress(parts ...string) (types.Address, error) {
	raw, err := s.GetRaw(parts...)
	if err != nil {
		return types.ZeroAddress, err
	}
	return DecodeAddress(raw)
}

// ForEachPrefix iterates committed pairs under <ns>/<prefix>/ in ascending
// key order, passing the key remainder after that prefix. The provider must
// support iteration.
func (s *Store) ForEachPrefix(prefix string, fn func(rest string, value []byte) bool) error {
	iterable, ok := s.provider.(db.IterableProvider)
	if !ok {
		return errors.NewError(errors.ErrCodeStoreUnavailable, "state: provider does not support iteration")
	}

	full := s.ns + "/" + prefix + "/"
	return iterable.IteratePrefix([]byte(full), func(key, value []byte) bool {
		return fn(string(key[len(full):]), value)
	})
}

// Events reads the journal back in sequence order, skipping records at or
// below afterSeq. limit <= 0 means no limit.
func (s *Store) Events(afterSeq uint64, limit int) ([]events.Record, error) {
	var out []events.Record
	var decodeErr error

	err := s.ForEachPrefix(JournalPrefix, func(rest string, value []byte) bool {
		rec, err := events.DecodeRecord(value)
		if err != nil {
			decodeErr = errors.NewError(errors.ErrCodeCorruptState,
				fmt.Sprintf("state: undecodable journal record %s/%s/%s", s.ns, JournalPrefix, rest))
			return false
		}
		if rec.Seq <= afterSeq {
			return true
		}
		out = append(out, rec)
		return limit <= 0 || len(out) < limit
	})
	if err != nil {
		return nil, err
	}
	if decodeErr != nil {
		return nil, decodeErr
	}
	return out, nil
}

// LastSeq returns the sequence number of the most recently journaled event,
// zero when nothing has been emitted.
func (s *Store) LastSeq() (uint64, error) {
	return s.GetUint64(journalSeqKey)
}

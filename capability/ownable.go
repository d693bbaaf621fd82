package capability

import (
	"fmt"
	"sync"

	"chainstd/errors"
	"chainstd/events"
	"chainstd/logx"
	"chainstd/state"
	"chainstd/types"
)

const keyOwner = "ownable_owner"

// Ownable is the single-owner access gate. The owner slot is persistent
// contract state: attaching over an existing namespace picks up the stored
// owner, including the zero address of a renounced contract.
type Ownable struct {
	mu   sync.Mutex
	st   *state.Store
	sink events.Sink
}

// NewOwnable attaches ownership to the store. On the first attachment the
// caller is seeded as owner and the OwnershipTransferred event from the zero
// address is emitted. Later attachments change nothing and emit nothing.
func NewOwnable(c types.CallContext, st *state.Store, sink events.Sink) (*Ownable, error) {
	if st == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	o := &Ownable{st: st, sink: sink}

	seeded, err := st.Has(keyOwner)
	if err != nil {
		return nil, err
	}
	if seeded {
		return o, nil
	}

	tx := st.Begin()
	defer tx.Discard()
	tx.PutAddress(c.Caller, keyOwner)
	tx.Emit(events.NewOwnershipTransferred(types.ZeroAddress, c.Caller))
	records, err := tx.Commit()
	if err != nil {
		return nil, err
	}
	events.PublishAll(sink, records)
	logx.Info("OWNABLE", fmt.Sprintf("Owner of %s seeded to %s", st.Namespace(), c.Caller.Hex()))
	return o, nil
}

// Owner returns the current owner, the zero address once renounced.
func (o *Ownable) Owner() (types.Address, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.st.GetAddress(keyOwner)
}

// RequireOwner fails NotOwner unless the caller is the current owner. After
// renouncement no caller passes.
func (o *Ownable) RequireOwner(c types.CallContext) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.requireOwnerWithoutLocking(c)
}

// requireOwnerWithoutLocking checks ownership for methods already holding
// the mutex.
func (o *Ownable) requireOwnerWithoutLocking(c types.CallContext) error {
	owner, err := o.st.GetAddress(keyOwner)
	if err != nil {
		return err
	}
	if c.Caller != owner {
		return errors.NewError(errors.ErrCodeNotOwner, errors.ErrMsgOwnableNotOwner)
	}
	return nil
}

// TransferOwnership hands ownership to newOwner. Only the current owner may
// call, and the zero address is not a valid successor.
func (o *Ownable) TransferOwnership(c types.CallContext, newOwner types.Address) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.requireOwnerWithoutLocking(c); err != nil {
		return err
	}
	if newOwner.IsZero() {
		return errors.NewError(errors.ErrCodeInvalidAddress, errors.ErrMsgOwnableZeroOwner)
	}
	return o.rewriteOwner(c.Caller, newOwner)
}

// RenounceOwnership sets the owner to the zero address. The transition is
// permanent: every owner-gated operation fails from then on.
func (o *Ownable) RenounceOwnership(c types.CallContext) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.requireOwnerWithoutLocking(c); err != nil {
		return err
	}
	return o.rewriteOwner(c.Caller, types.ZeroAddress)
}

func (o *Ownable) rewriteOwner(oldOwner, newOwner types.Address) error {
	tx := o.st.Begin()
	defer tx.Discard()
	tx.PutAddress(newOwner, keyOwner)
	tx.Emit(events.NewOwnershipTransferred(oldOwner, newOwner))
	records, err := tx.Commit()
	if err != nil {
		return err
	}
	events.PublishAll(o.sink, records)
	logx.Info("OWNABLE", fmt.Sprintf("Owner of %s changed %s -> %s", o.st.Namespace(), oldOwner.Hex(), newOwner.Hex()))
	return nil
}

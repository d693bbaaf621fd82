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

const keyPaused = "pausable_paused"

// Pausable is the binary circuit breaker. It supplies the guards; gating
// operations behind them, and gating Pause/Unpause themselves behind an
// owner check, is the composition layer's job.
type Pausable struct {
	mu   sync.Mutex
	st   *state.Store
	sink events.Sink
}

// NewPausable attaches pause state to the store. A fresh namespace starts
// active.
func NewPausable(st *state.Store, sink events.Sink) (*Pausable, error) {
	if st == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	return &Pausable{st: st, sink: sink}, nil
}

// Paused reports the current state.
func (p *Pausable) Paused() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.st.GetBool(keyPaused)
}

// RequireNotPaused fails ContractPaused while paused.
func (p *Pausable) RequireNotPaused() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.requireNotPausedWithoutLocking()
}

// RequirePaused fails ContractNotPaused while active.
func (p *Pausable) RequirePaused() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.requirePausedWithoutLocking()
}

func (p *Pausable) requireNotPausedWithoutLocking() error {
	paused, err := p.st.GetBool(keyPaused)
	if err != nil {
		return err
	}
	if paused {
		return errors.NewError(errors.ErrCodePaused, errors.ErrMsgPausablePaused)
	}
	return nil
}

func (p *Pausable) requirePausedWithoutLocking() error {
	paused, err := p.st.GetBool(keyPaused)
	if err != nil {
		return err
	}
	if !paused {
		return errors.NewError(errors.ErrCodeNotPaused, errors.ErrMsgPausableNotPaused)
	}
	return nil
}

// Pause transitions to the paused state. Pausing twice fails with the same
// ContractPaused the guard raises.
func (p *Pausable) Pause(c types.CallContext) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.requireNotPausedWithoutLocking(); err != nil {
		return err
	}
	return p.flip(true, events.NewPaused(c.Caller))
}

// Unpause transitions back to the active state.
func (p *Pausable) Unpause(c types.CallContext) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.requirePausedWithoutLocking(); err != nil {
		return err
	}
	return p.flip(false, events.NewUnpaused(c.Caller))
}

func (p *Pausable) flip(paused bool, ev events.Event) error {
	tx := p.st.Begin()
	defer tx.Discard()
	tx.PutBool(paused, keyPaused)
	tx.Emit(ev)
	records, err := tx.Commit()
	if err != nil {
		return err
	}
	events.PublishAll(p.sink, records)
	logx.Info("PAUSABLE", fmt.Sprintf("Contract %s paused=%t", p.st.Namespace(), paused))
	return nil
}

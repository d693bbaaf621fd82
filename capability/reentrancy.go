package capability

import (
	"sync/atomic"

	"chainstd/errors"
)

const (
	statusNotEntered int32 = 1
	statusEntered    int32 = 2
)

// Guard is the reentrancy latch: at most one protected operation per
// contract instance is in flight at a time. The latch lives in process
// memory and is always released when the protected body returns.
type Guard struct {
	status int32
}

// NewGuard creates a released latch.
func NewGuard() *Guard {
	return &Guard{status: statusNotEntered}
}

// Enter acquires the latch, failing ReentrantCall when it is already held.
// Every successful Enter must be paired with an Exit on all return paths;
// Do wraps that pairing.
func (g *Guard) Enter() error {
	if !atomic.CompareAndSwapInt32(&g.status, statusNotEntered, statusEntered) {
		return errors.NewError(errors.ErrCodeReentrantCall, errors.ErrMsgReentrantCall)
	}
	return nil
}

// Exit releases the latch.
func (g *Guard) Exit() {
	atomic.StoreInt32(&g.status, statusNotEntered)
}

// Entered reports whether a protected operation is in flight.
func (g *Guard) Entered() bool {
	return atomic.LoadInt32(&g.status) == statusEntered
}

// Do runs fn while holding the latch and releases it on every return path,
// panics included. A nested Do on the same guard fails ReentrantCall and
// leaves the outer acquisition held.
func (g *Guard) Do(fn func() error) error {
	if err := g.Enter(); err != nil {
		return err
	}
	defer g.Exit()
	return fn()
}

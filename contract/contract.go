package contract

import (
	"fmt"

	"github.com/holiman/uint256"

	"chainstd/capability"
	"chainstd/db"
	"chainstd/errors"
	"chainstd/events"
	"chainstd/logx"
	"chainstd/nft"
	"chainstd/state"
	"chainstd/token"
	"chainstd/types"
)

// Kind identifies the ledger family of a composition.
type Kind string

const (
	KindFungible    Kind = "fungible"
	KindNonFungible Kind = "nonfungible"
)

type fungibleSpec struct {
	name     string
	symbol   string
	decimals uint8
}

type nonFungibleSpec struct {
	name   string
	symbol string
}

type config struct {
	fungible    *fungibleSpec
	nonFungible *nonFungibleSpec
	ledgers     int
	ownable     bool
	pausable    bool
	guard       bool
	mintable    bool
	burnable    bool
	sinks       []events.Sink
}

// Option configures a composition. Attachment order between capabilities is
// irrelevant: construction normalizes it.
type Option func(*config)

// WithFungible selects a fungible ledger as the composition's base.
func WithFungible(name, symbol string, decimals uint8) Option {
	return func(c *config) {
		c.fungible = &fungibleSpec{name: name, symbol: symbol, decimals: decimals}
		c.ledgers++
	}
}

// WithNFT selects a non-fungible ledger as the composition's base.
func WithNFT(name, symbol string) Option {
	return func(c *config) {
		c.nonFungible = &nonFungibleSpec{name: name, symbol: symbol}
		c.ledgers++
	}
}

// WithOwnable attaches single-owner access control. The deployer becomes
// owner on first attachment.
func WithOwnable() Option {
	return func(c *config) { c.ownable = true }
}

// WithPausable attaches the pause circuit breaker. Mutating ledger surface
// operations and mint/burn are gated behind it.
func WithPausable() Option {
	return func(c *config) { c.pausable = true }
}

// WithReentrancyGuard attaches the reentrancy latch used by Guarded.
func WithReentrancyGuard() Option {
	return func(c *config) { c.guard = true }
}

// WithMintable attaches the mint capability, gated behind the owner when
// Ownable is attached.
func WithMintable() Option {
	return func(c *config) { c.mintable = true }
}

// WithBurnable attaches the burn capability.
func WithBurnable() Option {
	return func(c *config) { c.burnable = true }
}

// WithSink attaches an event sink. All committed events of the composition,
// ledger and capabilities alike, fan out to every attached sink in order.
// An events.Bus satisfies Sink and can be attached directly.
func WithSink(s events.Sink) Option {
	return func(c *config) {
		if s != nil {
			c.sinks = append(c.sinks, s)
		}
	}
}

// Contract is one composed asset: exactly one ledger plus the attached
// capabilities, sharing one namespaced store. The contract wires the guard
// checks in front of the ledger primitives; the pieces themselves stay
// independent.
type Contract struct {
	name     string
	kind     Kind
	st       *state.Store
	router   *events.Router
	fungible *token.Ledger
	nft      *nft.Ledger
	ownable  *capability.Ownable
	pausable *capability.Pausable
	guard    *capability.Guard
	mintable *capability.Mintable
	burnable *capability.Burnable
}

// New composes a contract named name over the provider. The name doubles as
// the storage namespace, so constructing with the same name and provider
// re-attaches to the existing state. Capabilities initialize in a fixed
// order (ledger, ownable, pausable, guard, mintable, burnable) no matter
// how the options were passed.
func New(c types.CallContext, name string, provider db.DatabaseProvider, opts ...Option) (*Contract, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.ledgers == 0 {
		return nil, errors.NewError(errors.ErrCodeNoLedger, "Contract: composition requires a ledger")
	}
	if cfg.ledgers > 1 {
		return nil, errors.NewError(errors.ErrCodeLedgerConflict, "Contract: at most one ledger per composition")
	}

	st, err := state.NewStore(provider, name)
	if err != nil {
		return nil, err
	}
	ct := &Contract{
		name:   name,
		st:     st,
		router: events.NewRouter(cfg.sinks...),
	}

	var ledger any
	switch {
	case cfg.fungible != nil:
		ct.kind = KindFungible
		ct.fungible, err = token.New(st, ct.router, cfg.fungible.name, cfg.fungible.symbol, cfg.fungible.decimals)
		ledger = ct.fungible
	default:
		ct.kind = KindNonFungible
		ct.nft, err = nft.New(st, ct.router, cfg.nonFungible.name, cfg.nonFungible.symbol)
		ledger = ct.nft
	}
	if err != nil {
		return nil, err
	}

	if cfg.ownable {
		ct.ownable, err = capability.NewOwnable(c, st, ct.router)
		if err != nil {
			return nil, err
		}
	}
	if cfg.pausable {
		ct.pausable, err = capability.NewPausable(st, ct.router)
		if err != nil {
			return nil, err
		}
	}
	if cfg.guard {
		ct.guard = capability.NewGuard()
	}
	if cfg.mintable {
		ct.mintable, err = capability.NewMintable(ledger)
		if err != nil {
			return nil, err
		}
	}
	if cfg.burnable {
		ct.burnable, err = capability.NewBurnable(ledger)
		if err != nil {
			return nil, err
		}
	}

	logx.Info("CONTRACT", fmt.Sprintf("Composed %s contract %s (ownable=%t pausable=%t guard=%t mintable=%t burnable=%t)",
		ct.kind, name, cfg.ownable, cfg.pausable, cfg.guard, cfg.mintable, cfg.burnable))
	return ct, nil
}

// Name returns the contract instance name.
func (ct *Contract) Name() string { return ct.name }

// Kind returns the ledger family.
func (ct *Contract) Kind() Kind { return ct.kind }

// Namespace returns the storage namespace, which equals the instance name.
func (ct *Contract) Namespace() string { return ct.st.Namespace() }

// Store returns the contract's namespaced store.
func (ct *Contract) Store() *state.Store { return ct.st }

// AttachSink adds an event sink after construction.
func (ct *Contract) AttachSink(s events.Sink) {
	if s != nil {
		ct.router.Attach(s)
	}
}

// Fungible returns the gated fungible surface, failing on a non-fungible
// composition.
func (ct *Contract) Fungible() (*Fungible, error) {
	if ct.fungible == nil {
		return nil, errors.NewError(errors.ErrCodeNoLedger, "Contract: not a fungible composition")
	}
	return &Fungible{ct: ct}, nil
}

// NFT returns the gated non-fungible surface, failing on a fungible
// composition.
func (ct *Contract) NFT() (*NFT, error) {
	if ct.nft == nil {
		return nil, errors.NewError(errors.ErrCodeNoLedger, "Contract: not a non-fungible composition")
	}
	return &NFT{ct: ct}, nil
}

// Mint creates supply for to: an amount on fungible compositions, a token
// id on non-fungible ones. The owner gate applies when Ownable is attached,
// then the pause gate.
func (ct *Contract) Mint(c types.CallContext, to types.Address, value *uint256.Int) error {
	if ct.mintable == nil {
		return errors.NewError(errors.ErrCodeCapabilityMissing, "Contract: mintable capability not attached")
	}
	if err := ct.requireOwner(c); err != nil {
		return err
	}
	if err := ct.requireNotPaused(); err != nil {
		return err
	}
	return ct.mintable.Mint(to, value)
}

// MintNext mints the next id from a non-fungible composition's counter.
func (ct *Contract) MintNext(c types.CallContext, to types.Address) (uint64, error) {
	if ct.mintable == nil {
		return 0, errors.NewError(errors.ErrCodeCapabilityMissing, "Contract: mintable capability not attached")
	}
	if err := ct.requireOwner(c); err != nil {
		return 0, err
	}
	if err := ct.requireNotPaused(); err != nil {
		return 0, err
	}
	return ct.mintable.MintNext(to)
}

// Burn destroys the caller's own holdings: an amount on fungible
// compositions, an owned token id on non-fungible ones.
func (ct *Contract) Burn(c types.CallContext, value *uint256.Int) error {
	if ct.burnable == nil {
		return errors.NewError(errors.ErrCodeCapabilityMissing, "Contract: burnable capability not attached")
	}
	if err := ct.requireNotPaused(); err != nil {
		return err
	}
	return ct.burnable.Burn(c, value)
}

// BurnFrom destroys holdings of account on the caller's allowance or
// approval standing.
func (ct *Contract) BurnFrom(c types.CallContext, account types.Address, value *uint256.Int) error {
	if ct.burnable == nil {
		return errors.NewError(errors.ErrCodeCapabilityMissing, "Contract: burnable capability not attached")
	}
	if err := ct.requireNotPaused(); err != nil {
		return err
	}
	return ct.burnable.BurnFrom(c, account, value)
}

// Pause trips the circuit breaker. Owner-gated when Ownable is attached.
func (ct *Contract) Pause(c types.CallContext) error {
	if ct.pausable == nil {
		return errors.NewError(errors.ErrCodeCapabilityMissing, "Contract: pausable capability not attached")
	}
	if err := ct.requireOwner(c); err != nil {
		return err
	}
	return ct.pausable.Pause(c)
}

// Unpause resets the circuit breaker. Owner-gated when Ownable is attached.
func (ct *Contract) Unpause(c types.CallContext) error {
	if ct.pausable == nil {
		return errors.NewError(errors.ErrCodeCapabilityMissing, "Contract: pausable capability not attached")
	}
	if err := ct.requireOwner(c); err != nil {
		return err
	}
	return ct.pausable.Unpause(c)
}

// Paused reports the circuit breaker state. A composition without Pausable
// is never paused.
func (ct *Contract) Paused() (bool, error) {
	if ct.pausable == nil {
		return false, nil
	}
	return ct.pausable.Paused()
}

// Owner returns the current owner of an Ownable composition.
func (ct *Contract) Owner() (types.Address, error) {
	if ct.ownable == nil {
		return types.ZeroAddress, errors.NewError(errors.ErrCodeCapabilityMissing, "Contract: ownable capability not attached")
	}
	return ct.ownable.Owner()
}

// TransferOwnership hands the composition to newOwner.
func (ct *Contract) TransferOwnership(c types.CallContext, newOwner types.Address) error {
	if ct.ownable == nil {
		return errors.NewError(errors.ErrCodeCapabilityMissing, "Contract: ownable capability not attached")
	}
	return ct.ownable.TransferOwnership(c, newOwner)
}

// RenounceOwnership permanently abandons the composition's owner slot.
func (ct *Contract) RenounceOwnership(c types.CallContext) error {
	if ct.ownable == nil {
		return errors.NewError(errors.ErrCodeCapabilityMissing, "Contract: ownable capability not attached")
	}
	return ct.ownable.RenounceOwnership(c)
}

// Guarded runs fn under the reentrancy latch: a nested Guarded call from
// inside fn fails ReentrantCall, and the latch is released when fn returns
// on any path.
func (ct *Contract) Guarded(fn func() error) error {
	if ct.guard == nil {
		return errors.NewError(errors.ErrCodeCapabilityMissing, "Contract: reentrancy guard not attached")
	}
	return ct.guard.Do(fn)
}

// Events reads the contract's journal in sequence order, skipping records
// at or below afterSeq. limit <= 0 means no limit.
func (ct *Contract) Events(afterSeq uint64, limit int) ([]events.Record, error) {
	return ct.st.Events(afterSeq, limit)
}

// Audit re-derives the ledger's accounting invariant from storage.
func (ct *Contract) Audit() error {
	if ct.fungible != nil {
		return ct.fungible.Audit()
	}
	return ct.nft.Audit()
}

func (ct *Contract) requireOwner(c types.CallContext) error {
	if ct.ownable == nil {
		return nil
	}
	return ct.ownable.RequireOwner(c)
}

func (ct *Contract) requireNotPaused() error {
	if ct.pausable == nil {
		return nil
	}
	return ct.pausable.RequireNotPaused()
}

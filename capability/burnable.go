package capability

import (
	"fmt"

	"github.com/holiman/uint256"

	"chainstd/errors"
	"chainstd/types"
)

// FungibleBurner is the supply-contraction surface of a fungible ledger.
type FungibleBurner interface {
	Burn(account types.Address, amount *uint256.Int) error
	BurnFrom(account, spender types.Address, amount *uint256.Int) error
}

// TokenBurner is the burn surface of a non-fungible ledger, together with
// the ownership lookups the capability gates on.
type TokenBurner interface {
	Burn(tokenID uint64) error
	OwnerOf(tokenID uint64) (types.Address, error)
	IsApprovedOrOwner(spender types.Address, tokenID uint64) (bool, error)
}

// Burnable adapts a ledger's burn primitive behind one value-typed surface,
// enforcing the per-ledger authorization rules: fungible burns spend the
// caller's balance or allowance, non-fungible burns demand ownership or
// approval standing on the token.
type Burnable struct {
	fungible FungibleBurner
	token    TokenBurner
}

// NewBurnable wires the capability to whichever burn primitive the ledger
// exposes, failing MissingLedgerPrimitive when there is none.
func NewBurnable(ledger any) (*Burnable, error) {
	b := &Burnable{}
	if f, ok := ledger.(FungibleBurner); ok {
		b.fungible = f
		return b, nil
	}
	if tb, ok := ledger.(TokenBurner); ok {
		b.token = tb
		return b, nil
	}
	return nil, errors.NewError(errors.ErrCodeMissingPrimitive, "Burnable: ledger does not implement a burn primitive")
}

// Burn destroys value from the caller's own holdings. On a fungible ledger
// value is an amount taken from the caller's balance. On a non-fungible
// ledger it is a token id and the caller must own the token outright; a
// mere delegate must use BurnFrom.
func (b *Burnable) Burn(c types.CallContext, value *uint256.Int) error {
	if value == nil {
		value = uint256.NewInt(0)
	}
	if b.fungible != nil {
		return b.fungible.Burn(c.Caller, value)
	}
	id, err := b.tokenID(value)
	if err != nil {
		return err
	}
	owner, err := b.token.OwnerOf(id)
	if err != nil {
		return err
	}
	if owner != c.Caller {
		return errors.NewError(errors.ErrCodeNotAuthorized, errors.ErrMsgBurnableNotTokenOwner)
	}
	return b.token.Burn(id)
}

// BurnFrom destroys value held by account on the caller's standing. On a
// fungible ledger the caller spends its allowance granted by account. On a
// non-fungible ledger approved-or-owner standing on the token id decides
// and the account argument carries no weight.
func (b *Burnable) BurnFrom(c types.CallContext, account types.Address, value *uint256.Int) error {
	if value == nil {
		value = uint256.NewInt(0)
	}
	if b.fungible != nil {
		return b.fungible.BurnFrom(account, c.Caller, value)
	}
	id, err := b.tokenID(value)
	if err != nil {
		return err
	}
	authorized, err := b.token.IsApprovedOrOwner(c.Caller, id)
	if err != nil {
		return err
	}
	if !authorized {
		return errors.NewError(errors.ErrCodeNotAuthorized, errors.ErrMsgBurnableNotOwnerNorApproved)
	}
	return b.token.Burn(id)
}

func (b *Burnable) tokenID(value *uint256.Int) (uint64, error) {
	id, overflow := value.Uint64WithOverflow()
	if overflow {
		return 0, errors.NewError(errors.ErrCodeInvalidAmount,
			fmt.Sprintf("Burnable: token id %s does not fit in 64 bits", value.Dec()))
	}
	return id, nil
}

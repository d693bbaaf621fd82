package capability

import (
	"fmt"

	"github.com/holiman/uint256"

	"chainstd/errors"
	"chainstd/types"
)

// FungibleMinter is the supply-expansion primitive of a fungible ledger.
type FungibleMinter interface {
	Mint(to types.Address, amount *uint256.Int) error
}

// TokenMinter mints a specific token id on a non-fungible ledger.
type TokenMinter interface {
	Mint(to types.Address, tokenID uint64) error
}

// NextTokenMinter mints from a monotonic id counter.
type NextTokenMinter interface {
	MintNext(to types.Address) (uint64, error)
}

// Mintable adapts a ledger's mint primitive behind one value-typed surface.
// It carries no access control of its own: the composition layer gates it.
type Mintable struct {
	fungible FungibleMinter
	token    TokenMinter
	next     NextTokenMinter
}

// NewMintable wires the capability to whichever mint primitive the ledger
// exposes, failing MissingLedgerPrimitive when there is none. This is a
// construction-time integrity check, not a runtime path.
func NewMintable(ledger any) (*Mintable, error) {
	m := &Mintable{}
	if f, ok := ledger.(FungibleMinter); ok {
		m.fungible = f
		return m, nil
	}
	if tm, ok := ledger.(TokenMinter); ok {
		m.token = tm
		if n, ok := ledger.(NextTokenMinter); ok {
			m.next = n
		}
		return m, nil
	}
	return nil, errors.NewError(errors.ErrCodeMissingPrimitive, "Mintable: ledger does not implement a mint primitive")
}

// Mint delegates to the ledger primitive. On a fungible ledger value is the
// amount; on a non-fungible ledger it is the token id and must fit in 64
// bits.
func (m *Mintable) Mint(to types.Address, value *uint256.Int) error {
	if value == nil {
		value = uint256.NewInt(0)
	}
	if m.fungible != nil {
		return m.fungible.Mint(to, value)
	}
	id, overflow := value.Uint64WithOverflow()
	if overflow {
		return errors.NewError(errors.ErrCodeInvalidAmount,
			fmt.Sprintf("Mintable: token id %s does not fit in 64 bits", value.Dec()))
	}
	return m.token.Mint(to, id)
}

// MintNext mints the next id from the counter of a non-fungible ledger.
func (m *Mintable) MintNext(to types.Address) (uint64, error) {
	if m.next == nil {
		return 0, errors.NewError(errors.ErrCodeMissingPrimitive, "Mintable: ledger does not implement counter minting")
	}
	return m.next.MintNext(to)
}

package contract

import (
	"github.com/holiman/uint256"

	"chainstd/types"
)

// Fungible is the composed fungible surface. Mutating operations pass the
// contract's pause gate before reaching the ledger; queries never do.
type Fungible struct {
	ct *Contract
}

// Name returns the asset name.
func (f *Fungible) Name() string { return f.ct.fungible.Name() }

// Symbol returns the asset symbol.
func (f *Fungible) Symbol() string { return f.ct.fungible.Symbol() }

// Decimals returns the display exponent.
func (f *Fungible) Decimals() uint8 { return f.ct.fungible.Decimals() }

// TotalSupply returns the circulating supply.
func (f *Fungible) TotalSupply() (*uint256.Int, error) { return f.ct.fungible.TotalSupply() }

// BalanceOf returns account's balance.
func (f *Fungible) BalanceOf(account types.Address) (*uint256.Int, error) {
	return f.ct.fungible.BalanceOf(account)
}

// Allowance returns what spender may still move out of owner's balance.
func (f *Fungible) Allowance(owner, spender types.Address) (*uint256.Int, error) {
	return f.ct.fungible.Allowance(owner, spender)
}

// Transfer moves amount from the caller to to.
func (f *Fungible) Transfer(c types.CallContext, to types.Address, amount *uint256.Int) error {
	if err := f.ct.requireNotPaused(); err != nil {
		return err
	}
	return f.ct.fungible.Transfer(c, to, amount)
}

// Approve sets spender's allowance over the caller's balance to amount.
func (f *Fungible) Approve(c types.CallContext, spender types.Address, amount *uint256.Int) error {
	if err := f.ct.requireNotPaused(); err != nil {
		return err
	}
	return f.ct.fungible.Approve(c, spender, amount)
}

// TransferFrom moves amount from from to to on the caller's allowance.
func (f *Fungible) TransferFrom(c types.CallContext, from, to types.Address, amount *uint256.Int) error {
	if err := f.ct.requireNotPaused(); err != nil {
		return err
	}
	return f.ct.fungible.TransferFrom(c, from, to, amount)
}

// NFT is the composed non-fungible surface. Mutating operations pass the
// contract's pause gate before reaching the ledger; queries never do.
type NFT struct {
	ct *Contract
}

// Name returns the collection name.
func (n *NFT) Name() string { return n.ct.nft.Name() }

// Symbol returns the collection symbol.
func (n *NFT) Symbol() string { return n.ct.nft.Symbol() }

// BalanceOf returns how many tokens owner holds.
func (n *NFT) BalanceOf(owner types.Address) (uint64, error) {
	return n.ct.nft.BalanceOf(owner)
}

// OwnerOf returns the owner of tokenID.
func (n *NFT) OwnerOf(tokenID uint64) (types.Address, error) {
	return n.ct.nft.OwnerOf(tokenID)
}

// GetApproved returns tokenID's single approved delegate.
func (n *NFT) GetApproved(tokenID uint64) (types.Address, error) {
	return n.ct.nft.GetApproved(tokenID)
}

// IsApprovedForAll reports whether operator manages owner's whole holding.
func (n *NFT) IsApprovedForAll(owner, operator types.Address) (bool, error) {
	return n.ct.nft.IsApprovedForAll(owner, operator)
}

// IsApprovedOrOwner reports whether spender may move tokenID.
func (n *NFT) IsApprovedOrOwner(spender types.Address, tokenID uint64) (bool, error) {
	return n.ct.nft.IsApprovedOrOwner(spender, tokenID)
}

// TransferFrom moves tokenID from from to to on the caller's standing.
func (n *NFT) TransferFrom(c types.CallContext, from, to types.Address, tokenID uint64) error {
	if err := n.ct.requireNotPaused(); err != nil {
		return err
	}
	return n.ct.nft.TransferFrom(c, from, to, tokenID)
}

// SafeTransferFrom is TransferFrom under the receiver-check name.
func (n *NFT) SafeTransferFrom(c types.CallContext, from, to types.Address, tokenID uint64) error {
	if err := n.ct.requireNotPaused(); err != nil {
		return err
	}
	return n.ct.nft.SafeTransferFrom(c, from, to, tokenID)
}

// Approve names to as tokenID's single approved delegate.
func (n *NFT) Approve(c types.CallContext, to types.Address, tokenID uint64) error {
	if err := n.ct.requireNotPaused(); err != nil {
		return err
	}
	return n.ct.nft.Approve(c, to, tokenID)
}

// SetApprovalForAll grants or revokes operator over the caller's holding.
func (n *NFT) SetApprovalForAll(c types.CallContext, operator types.Address, approved bool) error {
	if err := n.ct.requireNotPaused(); err != nil {
		return err
	}
	return n.ct.nft.SetApprovalForAll(c, operator, approved)
}

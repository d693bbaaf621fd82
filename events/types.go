package events

import (
	"strconv"

	"github.com/holiman/uint256"

	"chainstd/types"
)

// Type is an enum-like string type for contract events
type Type string

const (
	EventTransfer             Type = "Transfer"
	EventApproval             Type = "Approval"
	EventApprovalForAll       Type = "ApprovalForAll"
	EventOwnershipTransferred Type = "OwnershipTransferred"
	EventPaused               Type = "Paused"
	EventUnpaused             Type = "Unpaused"
)

// Event is a single contract event: a type plus the positional attribute
// values the operation emitted, rendered to their canonical strings.
// Attribute order is significant and preserved through journal and fan-out.
type Event struct {
	Type  Type
	Attrs []string
}

// NewTransfer is a fungible value movement. Mints carry the zero address as
// from, burns carry it as to.
func NewTransfer(from, to types.Address, amount *uint256.Int) Event {
	return Event{Type: EventTransfer, Attrs: []string{from.Hex(), to.Hex(), amount.Dec()}}
}

// NewNFTTransfer is a single-token ownership movement.
func NewNFTTransfer(from, to types.Address, tokenID uint64) Event {
	return Event{Type: EventTransfer, Attrs: []string{from.Hex(), to.Hex(), formatID(tokenID)}}
}

// NewApproval records an allowance grant from owner to spender.
func NewApproval(owner, spender types.Address, amount *uint256.Int) Event {
	return Event{Type: EventApproval, Attrs: []string{owner.Hex(), spender.Hex(), amount.Dec()}}
}

// NewNFTApproval records a per-token approval.
func NewNFTApproval(owner, approved types.Address, tokenID uint64) Event {
	return Event{Type: EventApproval, Attrs: []string{owner.Hex(), approved.Hex(), formatID(tokenID)}}
}

// NewApprovalForAll records an operator grant or revocation.
func NewApprovalForAll(owner, operator types.Address, approved bool) Event {
	return Event{Type: EventApprovalForAll, Attrs: []string{owner.Hex(), operator.Hex(), strconv.FormatBool(approved)}}
}

// NewOwnershipTransferred records an owner change, including the initial
// seeding (from the zero address) and renouncement (to the zero address).
func NewOwnershipTransferred(previousOwner, newOwner types.Address) Event {
	return Event{Type: EventOwnershipTransferred, Attrs: []string{previousOwner.Hex(), newOwner.Hex()}}
}

// NewPaused records entry into the paused state.
func NewPaused(account types.Address) Event {
	return Event{Type: EventPaused, Attrs: []string{account.Hex()}}
}

// NewUnpaused records return to the active state.
func NewUnpaused(account types.Address) Event {
	return Event{Type: EventUnpaused, Attrs: []string{account.Hex()}}
}

func formatID(tokenID uint64) string {
	return strconv.FormatUint(tokenID, 10)
}

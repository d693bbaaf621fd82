package nft

import (
	"fmt"
	"strconv"
	"sync"

	"chainstd/errors"
	"chainstd/events"
	"chainstd/logx"
	"chainstd/state"
	"chainstd/types"
)

const (
	keyOwners            = "nft_owners"
	keyBalances          = "nft_balances"
	keyTokenApprovals    = "nft_token_approvals"
	keyOperatorApprovals = "nft_operator_approvals"
	keyNextTokenID       = "nft_next_token_id"
)

// firstTokenID is where the convenience mint counter starts.
const firstTokenID = 1

// stateReader is the read surface shared by the committed store and an open
// transaction, so authorization checks run identically in both positions.
type stateReader interface {
	Has(parts ...string) (bool, error)
	GetAddress(parts ...string) (types.Address, error)
	GetBool(parts ...string) (bool, error)
	GetUint64(parts ...string) (uint64, error)
}

// Ledger is the non-fungible asset ledger: per-token ownership, per-token
// approval and per-owner operator approval. Token ids are plain integers; an
// id without an owner entry does not exist. Burned ids may be re-minted by
// the explicit Mint, the MintNext counter never hands one out twice.
//
// Mint, MintNext and Burn are supply primitives with no access control of
// their own. The composition layer gates them.
type Ledger struct {
	mu     sync.RWMutex
	st     *state.Store
	sink   events.Sink
	name   string
	symbol string
}

// New creates a non-fungible ledger over the store. A nil sink drops events.
func New(st *state.Store, sink events.Sink, name, symbol string) (*Ledger, error) {
	if st == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	return &Ledger{st: st, sink: sink, name: name, symbol: symbol}, nil
}

// Name returns the collection name.
func (l *Ledger) Name() string { return l.name }

// Symbol returns the collection symbol.
func (l *Ledger) Symbol() string { return l.symbol }

// BalanceOf returns how many tokens owner holds.
func (l *Ledger) BalanceOf(owner types.Address) (uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if owner.IsZero() {
		return 0, errors.NewError(errors.ErrCodeInvalidAddress, errors.ErrMsgNFTBalanceQueryZero)
	}
	return l.st.GetUint64(keyBalances, owner.Hex())
}

// OwnerOf returns the owner of tokenID.
func (l *Ledger) OwnerOf(tokenID uint64) (types.Address, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return ownerAt(l.st, tokenID)
}

// GetApproved returns the approval slot of tokenID, the zero address when no
// delegate is set.
func (l *Ledger) GetApproved(tokenID uint64) (types.Address, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	exists, err := l.st.Has(keyOwners, idKey(tokenID))
	if err != nil {
		return types.ZeroAddress, err
	}
	if !exists {
		return types.ZeroAddress, errors.NewError(errors.ErrCodeNonexistentToken, errors.ErrMsgNFTApprovedQueryNonexistent)
	}
	return l.st.GetAddress(keyTokenApprovals, idKey(tokenID))
}

// IsApprovedForAll reports whether operator may manage every token of owner.
func (l *Ledger) IsApprovedForAll(owner, operator types.Address) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.st.GetBool(keyOperatorApprovals, owner.Hex(), operator.Hex())
}

// IsApprovedOrOwner reports whether spender is the owner of tokenID, its
// approved delegate, or an approved operator of the owner. A nonexistent
// token is nobody's to spend, reported as false rather than an error.
func (l *Ledger) IsApprovedOrOwner(spender types.Address, tokenID uint64) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return isApprovedOrOwner(l.st, spender, tokenID)
}

// TransferFrom moves tokenID from from to to and clears its approval slot.
// The caller must be the owner, the approved delegate or an operator.
func (l *Ledger) TransferFrom(c types.CallContext, from, to types.Address, tokenID uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx := l.st.Begin()
	defer tx.Discard()

	authorized, err := isApprovedOrOwner(tx, c.Caller, tokenID)
	if err != nil {
		return err
	}
	if !authorized {
		return errors.NewError(errors.ErrCodeNotAuthorized, errors.ErrMsgNFTTransferNotAuthorized)
	}
	if to.IsZero() {
		return errors.NewError(errors.ErrCodeInvalidAddress, errors.ErrMsgNFTTransferToZero)
	}
	owner, err := tx.GetAddress(keyOwners, idKey(tokenID))
	if err != nil {
		return err
	}
	if owner != from {
		return errors.NewError(errors.ErrCodeNotAuthorized, errors.ErrMsgNFTTransferIncorrectOwner)
	}

	tx.Delete(keyTokenApprovals, idKey(tokenID))

	fromBalance, err := tx.GetUint64(keyBalances, from.Hex())
	if err != nil {
		return err
	}
	if fromBalance == 0 {
		return errors.NewError(errors.ErrCodeCorruptState,
			fmt.Sprintf("nft: owner %s of token %d has zero balance", from.Hex(), tokenID))
	}
	// Stage the decrement first so a self-transfer reads its own effect and
	// nets to zero.
	tx.PutUint64(fromBalance-1, keyBalances, from.Hex())
	toBalance, err := tx.GetUint64(keyBalances, to.Hex())
	if err != nil {
		return err
	}
	tx.PutUint64(toBalance+1, keyBalances, to.Hex())
	tx.PutAddress(to, keyOwners, idKey(tokenID))
	tx.Emit(events.NewNFTTransfer(from, to, tokenID))

	records, err := tx.Commit()
	if err != nil {
		return err
	}
	events.PublishAll(l.sink, records)
	logx.Debug("NFT", fmt.Sprintf("Transfer %s: token %d %s -> %s", l.symbol, tokenID, from.Hex(), to.Hex()))
	return nil
}

// SafeTransferFrom is TransferFrom; there is no receiver hook to call here.
func (l *Ledger) SafeTransferFrom(c types.CallContext, from, to types.Address, tokenID uint64) error {
	return l.TransferFrom(c, from, to, tokenID)
}

// Approve sets to as the single delegate of tokenID. Only the owner or one
// of its operators may do so. Approving the zero address clears the slot.
func (l *Ledger) Approve(c types.CallContext, to types.Address, tokenID uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx := l.st.Begin()
	defer tx.Discard()

	owner, err := ownerAt(tx, tokenID)
	if err != nil {
		return err
	}
	if to == owner {
		return errors.NewError(errors.ErrCodeInvalidAddress, errors.ErrMsgNFTApprovalToOwner)
	}
	if c.Caller != owner {
		operator, err := operatorApproved(tx, owner, c.Caller)
		if err != nil {
			return err
		}
		if !operator {
			return errors.NewError(errors.ErrCodeNotAuthorized, errors.ErrMsgNFTApproveNotAuthorized)
		}
	}

	tx.PutAddress(to, keyTokenApprovals, idKey(tokenID))
	tx.Emit(events.NewNFTApproval(owner, to, tokenID))

	records, err := tx.Commit()
	if err != nil {
		return err
	}
	events.PublishAll(l.sink, records)
	logx.Debug("NFT", fmt.Sprintf("Approval %s: token %d owner %s delegate %s", l.symbol, tokenID, owner.Hex(), to.Hex()))
	return nil
}

// SetApprovalForAll grants or revokes operator over every token the caller
// owns now or later.
func (l *Ledger) SetApprovalForAll(c types.CallContext, operator types.Address, approved bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if operator == c.Caller {
		return errors.NewError(errors.ErrCodeInvalidAddress, errors.ErrMsgNFTApproveToCaller)
	}

	tx := l.st.Begin()
	defer tx.Discard()
	tx.PutBool(approved, keyOperatorApprovals, c.Caller.Hex(), operator.Hex())
	tx.Emit(events.NewApprovalForAll(c.Caller, operator, approved))

	records, err := tx.Commit()
	if err != nil {
		return err
	}
	events.PublishAll(l.sink, records)
	logx.Debug("NFT", fmt.Sprintf("ApprovalForAll %s: %s operator %s approved=%t", l.symbol, c.Caller.Hex(), operator.Hex(), approved))
	return nil
}

// Mint creates tokenID owned by to.
func (l *Ledger) Mint(to types.Address, tokenID uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx := l.st.Begin()
	defer tx.Discard()
	if err := l.mint(tx, to, tokenID); err != nil {
		return err
	}
	records, err := tx.Commit()
	if err != nil {
		return err
	}
	events.PublishAll(l.sink, records)
	logx.Info("NFT", fmt.Sprintf("Minted %s token %d to %s", l.symbol, tokenID, to.Hex()))
	return nil
}

// MintNext mints the next id from the monotonic counter and returns it.
func (l *Ledger) MintNext(to types.Address) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx := l.st.Begin()
	defer tx.Discard()

	next, err := tx.GetUint64(keyNextTokenID)
	if err != nil {
		return 0, err
	}
	if next == 0 {
		next = firstTokenID
	}
	if err := l.mint(tx, to, next); err != nil {
		return 0, err
	}
	tx.PutUint64(next+1, keyNextTokenID)

	records, err := tx.Commit()
	if err != nil {
		return 0, err
	}
	events.PublishAll(l.sink, records)
	logx.Info("NFT", fmt.Sprintf("Minted %s token %d to %s", l.symbol, next, to.Hex()))
	return next, nil
}

// Burn destroys tokenID, clearing its approval and owner entries. The id
// itself is not blocked from a later explicit re-mint.
func (l *Ledger) Burn(tokenID uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx := l.st.Begin()
	defer tx.Discard()

	owner, err := tx.GetAddress(keyOwners, idKey(tokenID))
	if err != nil {
		return err
	}
	if owner.IsZero() {
		return errors.NewError(errors.ErrCodeNonexistentToken, errors.ErrMsgNFTBurnNonexistent)
	}

	tx.Delete(keyTokenApprovals, idKey(tokenID))

	ownerBalance, err := tx.GetUint64(keyBalances, owner.Hex())
	if err != nil {
		return err
	}
	if ownerBalance == 0 {
		return errors.NewError(errors.ErrCodeCorruptState,
			fmt.Sprintf("nft: owner %s of token %d has zero balance", owner.Hex(), tokenID))
	}
	tx.PutUint64(ownerBalance-1, keyBalances, owner.Hex())
	tx.Delete(keyOwners, idKey(tokenID))
	tx.Emit(events.NewNFTTransfer(owner, types.ZeroAddress, tokenID))

	records, err := tx.Commit()
	if err != nil {
		return err
	}
	events.PublishAll(l.sink, records)
	logx.Info("NFT", fmt.Sprintf("Burned %s token %d from %s", l.symbol, tokenID, owner.Hex()))
	return nil
}

// Audit walks ownership and balance entries and checks that every owner's
// recorded count matches the tokens actually owned.
func (l *Ledger) Audit() error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	counts := make(map[types.Address]uint64)
	var innerErr error
	err := l.st.ForEachPrefix(keyOwners, func(rest string, value []byte) bool {
		owner, err := state.DecodeAddress(value)
		if err != nil {
			innerErr = err
			return false
		}
		counts[owner]++
		return true
	})
	if err != nil {
		return err
	}
	if innerErr != nil {
		return innerErr
	}

	err = l.st.ForEachPrefix(keyBalances, func(rest string, value []byte) bool {
		owner, err := types.ParseAddress(rest)
		if err != nil {
			innerErr = errors.NewError(errors.ErrCodeCorruptState,
				fmt.Sprintf("nft audit: unparseable balance key %q", rest))
			return false
		}
		balance, err := state.DecodeUint64(value)
		if err != nil {
			innerErr = err
			return false
		}
		if counts[owner] != balance {
			innerErr = errors.NewError(errors.ErrCodeAuditMismatch,
				fmt.Sprintf("nft audit: owner %s balance %d does not match owned token count %d", owner.Hex(), balance, counts[owner]))
			return false
		}
		delete(counts, owner)
		return true
	})
	if err != nil {
		return err
	}
	if innerErr != nil {
		return innerErr
	}

	for owner, count := range counts {
		if count > 0 {
			return errors.NewError(errors.ErrCodeAuditMismatch,
				fmt.Sprintf("nft audit: owner %s holds %d tokens but has no balance entry", owner.Hex(), count))
		}
	}
	return nil
}

func (l *Ledger) mint(tx *state.Tx, to types.Address, tokenID uint64) error {
	if to.IsZero() {
		return errors.NewError(errors.ErrCodeInvalidAddress, errors.ErrMsgNFTMintToZero)
	}
	exists, err := tx.Has(keyOwners, idKey(tokenID))
	if err != nil {
		return err
	}
	if exists {
		return errors.NewError(errors.ErrCodeAlreadyMinted, errors.ErrMsgNFTAlreadyMinted)
	}
	balance, err := tx.GetUint64(keyBalances, to.Hex())
	if err != nil {
		return err
	}
	tx.PutUint64(balance+1, keyBalances, to.Hex())
	tx.PutAddress(to, keyOwners, idKey(tokenID))
	tx.Emit(events.NewNFTTransfer(types.ZeroAddress, to, tokenID))
	return nil
}

// ownerAt resolves the owner of tokenID or fails with NonexistentToken.
func ownerAt(r stateReader, tokenID uint64) (types.Address, error) {
	owner, err := r.GetAddress(keyOwners, idKey(tokenID))
	if err != nil {
		return types.ZeroAddress, err
	}
	if owner.IsZero() {
		return types.ZeroAddress, errors.NewError(errors.ErrCodeNonexistentToken, errors.ErrMsgNFTOwnerQueryNonexistent)
	}
	return owner, nil
}

func operatorApproved(r stateReader, owner, operator types.Address) (bool, error) {
	return r.GetBool(keyOperatorApprovals, owner.Hex(), operator.Hex())
}

func isApprovedOrOwner(r stateReader, spender types.Address, tokenID uint64) (bool, error) {
	owner, err := r.GetAddress(keyOwners, idKey(tokenID))
	if err != nil {
		return false, err
	}
	if owner.IsZero() {
		return false, nil
	}
	if spender == owner {
		return true, nil
	}
	hasApproval, err := r.Has(keyTokenApprovals, idKey(tokenID))
	if err != nil {
		return false, err
	}
	if hasApproval {
		approved, err := r.GetAddress(keyTokenApprovals, idKey(tokenID))
		if err != nil {
			return false, err
		}
		if approved == spender {
			return true, nil
		}
	}
	return operatorApproved(r, owner, spender)
}

func idKey(tokenID uint64) string {
	return strconv.FormatUint(tokenID, 10)
}

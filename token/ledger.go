package token

import (
	"fmt"
	"sync"

	"github.com/holiman/uint256"

	"chainstd/errors"
	"chainstd/events"
	"chainstd/logx"
	"chainstd/state"
	"chainstd/types"
)

const (
	keyTotalSupply = "token_total_supply"
	keyBalances    = "token_balances"
	keyAllowances  = "token_allowances"
)

// Ledger is the fungible asset ledger: balances, total supply and the
// allowance table for delegated transfers. Every mutation runs inside one
// state transaction, so a failed operation leaves committed state untouched.
//
// Mint, Burn and BurnFrom are supply primitives with no access control of
// their own. The composition layer gates them.
type Ledger struct {
	mu       sync.RWMutex
	st       *state.Store
	sink     events.Sink
	name     string
	symbol   string
	decimals uint8
}

// New creates a fungible ledger over the store. A nil sink drops events.
func New(st *state.Store, sink events.Sink, name, symbol string, decimals uint8) (*Ledger, error) {
	if st == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	return &Ledger{st: st, sink: sink, name: name, symbol: symbol, decimals: decimals}, nil
}

// Name returns the human-readable token name.
func (l *Ledger) Name() string { return l.name }

// Symbol returns the ticker symbol.
func (l *Ledger) Symbol() string { return l.symbol }

// Decimals returns the number of decimal places of the smallest unit.
func (l *Ledger) Decimals() uint8 { return l.decimals }

// TotalSupply returns the amount of tokens in existence.
func (l *Ledger) TotalSupply() (*uint256.Int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.st.GetUint256(keyTotalSupply)
}

// BalanceOf returns the balance of account. Unknown accounts hold zero.
func (l *Ledger) BalanceOf(account types.Address) (*uint256.Int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.st.GetUint256(keyBalances, account.Hex())
}

// Allowance returns the amount spender may still move on behalf of owner.
func (l *Ledger) Allowance(owner, spender types.Address) (*uint256.Int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.st.GetUint256(keyAllowances, owner.Hex(), spender.Hex())
}

// Transfer moves amount from the caller to recipient to.
func (l *Ledger) Transfer(c types.CallContext, to types.Address, amount *uint256.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	amount = normalizeAmount(amount)

	if to.IsZero() {
		return errors.NewError(errors.ErrCodeInvalidAddress, errors.ErrMsgTokenTransferToZero)
	}
	if amount.IsZero() {
		return errors.NewError(errors.ErrCodeInvalidAmount, errors.ErrMsgTokenAmountNotPositive)
	}

	tx := l.st.Begin()
	defer tx.Discard()
	if err := l.move(tx, c.Caller, to, amount); err != nil {
		return err
	}
	records, err := tx.Commit()
	if err != nil {
		return err
	}
	events.PublishAll(l.sink, records)
	logx.Debug("TOKEN", fmt.Sprintf("Transfer %s: %s -> %s amount %s", l.symbol, c.Caller.Hex(), to.Hex(), amount.Dec()))
	return nil
}

// Approve overwrites the caller's allowance for spender. Repeated approvals
// replace, never add; the approve race of the original pattern is retained
// on purpose.
func (l *Ledger) Approve(c types.CallContext, spender types.Address, amount *uint256.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	amount = normalizeAmount(amount)

	if spender.IsZero() {
		return errors.NewError(errors.ErrCodeInvalidAddress, errors.ErrMsgTokenApproveToZero)
	}

	tx := l.st.Begin()
	defer tx.Discard()
	tx.PutUint256(amount, keyAllowances, c.Caller.Hex(), spender.Hex())
	tx.Emit(events.NewApproval(c.Caller, spender, amount))
	records, err := tx.Commit()
	if err != nil {
		return err
	}
	events.PublishAll(l.sink, records)
	logx.Debug("TOKEN", fmt.Sprintf("Approval %s: %s -> %s amount %s", l.symbol, c.Caller.Hex(), spender.Hex(), amount.Dec()))
	return nil
}

// TransferFrom moves amount from from to to on the strength of the caller's
// allowance, which is decremented by exactly amount. A zero amount passes
// every check and still emits the Transfer event.
func (l *Ledger) TransferFrom(c types.CallContext, from, to types.Address, amount *uint256.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	amount = normalizeAmount(amount)

	if to.IsZero() {
		return errors.NewError(errors.ErrCodeInvalidAddress, errors.ErrMsgTokenTransferToZero)
	}

	tx := l.st.Begin()
	defer tx.Discard()

	current, err := tx.GetUint256(keyAllowances, from.Hex(), c.Caller.Hex())
	if err != nil {
		return err
	}
	if current.Lt(amount) {
		return errors.NewError(errors.ErrCodeInsufficientAllowance, errors.ErrMsgTokenInsufficientAllowance)
	}
	if err := l.move(tx, from, to, amount); err != nil {
		return err
	}
	tx.PutUint256(new(uint256.Int).Sub(current, amount), keyAllowances, from.Hex(), c.Caller.Hex())
	records, err := tx.Commit()
	if err != nil {
		return err
	}
	events.PublishAll(l.sink, records)
	logx.Debug("TOKEN", fmt.Sprintf("TransferFrom %s: %s -> %s by %s amount %s", l.symbol, from.Hex(), to.Hex(), c.Caller.Hex(), amount.Dec()))
	return nil
}

// Mint creates amount new tokens for to and grows the total supply.
func (l *Ledger) Mint(to types.Address, amount *uint256.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	amount = normalizeAmount(amount)

	if to.IsZero() {
		return errors.NewError(errors.ErrCodeInvalidAddress, errors.ErrMsgTokenMintToZero)
	}
	if amount.IsZero() {
		return errors.NewError(errors.ErrCodeInvalidAmount, errors.ErrMsgTokenMintNotPositive)
	}

	tx := l.st.Begin()
	defer tx.Discard()

	supply, err := tx.GetUint256(keyTotalSupply)
	if err != nil {
		return err
	}
	newSupply, overflow := new(uint256.Int).AddOverflow(supply, amount)
	if overflow {
		return errors.NewError(errors.ErrCodeInvalidAmount, "Token: mint amount overflows total supply")
	}
	balance, err := tx.GetUint256(keyBalances, to.Hex())
	if err != nil {
		return err
	}
	tx.PutUint256(newSupply, keyTotalSupply)
	tx.PutUint256(new(uint256.Int).Add(balance, amount), keyBalances, to.Hex())
	tx.Emit(events.NewTransfer(types.ZeroAddress, to, amount))
	records, err := tx.Commit()
	if err != nil {
		return err
	}
	events.PublishAll(l.sink, records)
	logx.Info("TOKEN", fmt.Sprintf("Minted %s %s to %s, supply now %s", amount.Dec(), l.symbol, to.Hex(), newSupply.Dec()))
	return nil
}

// Burn destroys amount tokens held by account and shrinks the total supply.
// The canonical behavior has no zero address or positivity checks here: a
// zero burn is a no-op that still emits its Transfer event.
func (l *Ledger) Burn(account types.Address, amount *uint256.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	amount = normalizeAmount(amount)

	tx := l.st.Begin()
	defer tx.Discard()
	if err := l.burn(tx, account, amount); err != nil {
		return err
	}
	records, err := tx.Commit()
	if err != nil {
		return err
	}
	events.PublishAll(l.sink, records)
	logx.Info("TOKEN", fmt.Sprintf("Burned %s %s from %s", amount.Dec(), l.symbol, account.Hex()))
	return nil
}

// BurnFrom burns amount from account on the strength of spender's allowance.
// The allowance check runs before the balance check, and the decrement of
// both commits in one transaction.
func (l *Ledger) BurnFrom(account, spender types.Address, amount *uint256.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	amount = normalizeAmount(amount)

	tx := l.st.Begin()
	defer tx.Discard()

	current, err := tx.GetUint256(keyAllowances, account.Hex(), spender.Hex())
	if err != nil {
		return err
	}
	if current.Lt(amount) {
		return errors.NewError(errors.ErrCodeInsufficientAllowance, errors.ErrMsgBurnableExceedsAllowance)
	}
	tx.PutUint256(new(uint256.Int).Sub(current, amount), keyAllowances, account.Hex(), spender.Hex())
	if err := l.burn(tx, account, amount); err != nil {
		return err
	}
	records, err := tx.Commit()
	if err != nil {
		return err
	}
	events.PublishAll(l.sink, records)
	logx.Info("TOKEN", fmt.Sprintf("Burned %s %s from %s by %s", amount.Dec(), l.symbol, account.Hex(), spender.Hex()))
	return nil
}

// Audit recomputes the balance sum from storage and compares it against the
// recorded total supply.
func (l *Ledger) Audit() error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	supply, err := l.st.GetUint256(keyTotalSupply)
	if err != nil {
		return err
	}
	sum := uint256.NewInt(0)
	var innerErr error
	err = l.st.ForEachPrefix(keyBalances, func(rest string, value []byte) bool {
		balance, err := state.DecodeUint256(value)
		if err != nil {
			innerErr = err
			return false
		}
		sum.Add(sum, balance)
		return true
	})
	if err != nil {
		return err
	}
	if innerErr != nil {
		return innerErr
	}
	if !sum.Eq(supply) {
		return errors.NewError(errors.ErrCodeAuditMismatch,
			fmt.Sprintf("token audit: balances sum %s does not match total supply %s", sum.Dec(), supply.Dec()))
	}
	return nil
}

// move stages the two balance mutations of a transfer. The decrement is
// staged before the recipient balance is read, so a self-transfer observes
// its own decrement and nets to zero instead of doubling.
func (l *Ledger) move(tx *state.Tx, from, to types.Address, amount *uint256.Int) error {
	fromBalance, err := tx.GetUint256(keyBalances, from.Hex())
	if err != nil {
		return err
	}
	if fromBalance.Lt(amount) {
		return errors.NewError(errors.ErrCodeInsufficientBalance, errors.ErrMsgTokenInsufficientBalance)
	}
	tx.PutUint256(new(uint256.Int).Sub(fromBalance, amount), keyBalances, from.Hex())

	toBalance, err := tx.GetUint256(keyBalances, to.Hex())
	if err != nil {
		return err
	}
	tx.PutUint256(new(uint256.Int).Add(toBalance, amount), keyBalances, to.Hex())
	tx.Emit(events.NewTransfer(from, to, amount))
	return nil
}

func (l *Ledger) burn(tx *state.Tx, account types.Address, amount *uint256.Int) error {
	balance, err := tx.GetUint256(keyBalances, account.Hex())
	if err != nil {
		return err
	}
	if balance.Lt(amount) {
		return errors.NewError(errors.ErrCodeInsufficientBalance, errors.ErrMsgTokenBurnExceedsBalance)
	}
	supply, err := tx.GetUint256(keyTotalSupply)
	if err != nil {
		return err
	}
	tx.PutUint256(new(uint256.Int).Sub(balance, amount), keyBalances, account.Hex())
	tx.PutUint256(new(uint256.Int).Sub(supply, amount), keyTotalSupply)
	tx.Emit(events.NewTransfer(account, types.ZeroAddress, amount))
	return nil
}

func normalizeAmount(amount *uint256.Int) *uint256.Int {
	if amount == nil {
		return uint256.NewInt(0)
	}
	return amount
}

package token

import (
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chainstd/db"
	"chainstd/errors"
	"chainstd/events"
	"chainstd/state"
	"chainstd/types"
)

func addr(last byte) types.Address {
	var a types.Address
	a[types.AddressLength-1] = last
	return a
}

func newTestLedger(t *testing.T) (*Ledger, *events.Log) {
	t.Helper()
	st, err := state.NewStore(db.NewMemoryProvider(), "demo-token")
	require.NoError(t, err)
	log := events.NewLog()
	l, err := New(st, log, "Demo Token", "DMO", 18)
	require.NoError(t, err)
	return l, log
}

func TestNewValidation(t *testing.T) {
	_, err := New(nil, nil, "Demo", "DMO", 18)
	require.Error(t, err)
}

func TestMetadata(t *testing.T) {
	l, _ := newTestLedger(t)
	assert.Equal(t, "Demo Token", l.Name())
	assert.Equal(t, "DMO", l.Symbol())
	assert.Equal(t, uint8(18), l.Decimals())
}

func TestMintAndTransfer(t *testing.T) {
	l, log := newTestLedger(t)
	alice := addr(0xaa)
	bob := addr(0xbb)

	require.NoError(t, l.Mint(alice, uint256.NewInt(1000)))
	require.NoError(t, l.Transfer(types.AsCaller(alice), bob, uint256.NewInt(300)))

	balance, err := l.BalanceOf(alice)
	require.NoError(t, err)
	assert.Equal(t, "700", balance.Dec())

	balance, err = l.BalanceOf(bob)
	require.NoError(t, err)
	assert.Equal(t, "300", balance.Dec())

	supply, err := l.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, "1000", supply.Dec())

	records := log.Records()
	require.Len(t, records, 2)
	assert.Equal(t, events.EventTransfer, records[0].Type)
	assert.Equal(t, []string{types.ZeroAddress.Hex(), alice.Hex(), "1000"}, records[0].Attrs)
	assert.Equal(t, events.EventTransfer, records[1].Type)
	assert.Equal(t, []string{alice.Hex(), bob.Hex(), "300"}, records[1].Attrs)
}

func TestTransferChecks(t *testing.T) {
	l, log := newTestLedger(t)
	alice := addr(0xaa)
	bob := addr(0xbb)
	require.NoError(t, l.Mint(alice, uint256.NewInt(100)))
	log.Reset()

	err := l.Transfer(types.AsCaller(alice), types.ZeroAddress, uint256.NewInt(10))
	assert.Equal(t, errors.ErrCodeInvalidAddress, errors.CodeOf(err))

	err = l.Transfer(types.AsCaller(alice), bob, uint256.NewInt(0))
	assert.Equal(t, errors.ErrCodeInvalidAmount, errors.CodeOf(err))

	err = l.Transfer(types.AsCaller(alice), bob, nil)
	assert.Equal(t, errors.ErrCodeInvalidAmount, errors.CodeOf(err))

	err = l.Transfer(types.AsCaller(alice), bob, uint256.NewInt(101))
	assert.Equal(t, errors.ErrCodeInsufficientBalance, errors.CodeOf(err))

	// Failed operations never reach the sink and never move funds.
	assert.Zero(t, log.Len())
	balance, err := l.BalanceOf(alice)
	require.NoError(t, err)
	assert.Equal(t, "100", balance.Dec())
}

func TestTransferToSelfPreservesBalance(t *testing.T) {
	l, _ := newTestLedger(t)
	alice := addr(0xaa)
	require.NoError(t, l.Mint(alice, uint256.NewInt(500)))

	require.NoError(t, l.Transfer(types.AsCaller(alice), alice, uint256.NewInt(200)))

	balance, err := l.BalanceOf(alice)
	require.NoError(t, err)
	assert.Equal(t, "500", balance.Dec())
	require.NoError(t, l.Audit())
}

func TestApproveOverwrites(t *testing.T) {
	l, log := newTestLedger(t)
	alice := addr(0xaa)
	bob := addr(0xbb)

	err := l.Approve(types.AsCaller(alice), types.ZeroAddress, uint256.NewInt(10))
	assert.Equal(t, errors.ErrCodeInvalidAddress, errors.CodeOf(err))

	require.NoError(t, l.Approve(types.AsCaller(alice), bob, uint256.NewInt(50)))
	require.NoError(t, l.Approve(types.AsCaller(alice), bob, uint256.NewInt(50)))

	allowance, err := l.Allowance(alice, bob)
	require.NoError(t, err)
	assert.Equal(t, "50", allowance.Dec())

	// Overwrite down as well as up.
	require.NoError(t, l.Approve(types.AsCaller(alice), bob, uint256.NewInt(7)))
	allowance, err = l.Allowance(alice, bob)
	require.NoError(t, err)
	assert.Equal(t, "7", allowance.Dec())

	records := log.Records()
	require.Len(t, records, 3)
	assert.Equal(t, events.EventApproval, records[0].Type)
	assert.Equal(t, []string{alice.Hex(), bob.Hex(), "50"}, records[0].Attrs)
}

func TestTransferFromSpendsAllowance(t *testing.T) {
	l, _ := newTestLedger(t)
	alice := addr(0xaa)
	bob := addr(0xbb)
	carol := addr(0xcc)

	require.NoError(t, l.Mint(alice, uint256.NewInt(100)))
	require.NoError(t, l.Approve(types.AsCaller(alice), bob, uint256.NewInt(50)))
	require.NoError(t, l.TransferFrom(types.AsCaller(bob), alice, carol, uint256.NewInt(50)))

	allowance, err := l.Allowance(alice, bob)
	require.NoError(t, err)
	assert.True(t, allowance.IsZero())

	balance, err := l.BalanceOf(carol)
	require.NoError(t, err)
	assert.Equal(t, "50", balance.Dec())

	err = l.TransferFrom(types.AsCaller(bob), alice, carol, uint256.NewInt(1))
	assert.Equal(t, errors.ErrCodeInsufficientAllowance, errors.CodeOf(err))
}

func TestTransferFromChecksOrder(t *testing.T) {
	l, _ := newTestLedger(t)
	alice := addr(0xaa)
	bob := addr(0xbb)
	carol := addr(0xcc)
	require.NoError(t, l.Mint(alice, uint256.NewInt(10)))

	err := l.TransferFrom(types.AsCaller(bob), alice, types.ZeroAddress, uint256.NewInt(1))
	assert.Equal(t, errors.ErrCodeInvalidAddress, errors.CodeOf(err))

	// Allowance is checked before balance: a large approval with small funds
	// reaches the balance check.
	require.NoError(t, l.Approve(types.AsCaller(alice), bob, uint256.NewInt(1000)))
	err = l.TransferFrom(types.AsCaller(bob), alice, carol, uint256.NewInt(500))
	assert.Equal(t, errors.ErrCodeInsufficientBalance, errors.CodeOf(err))

	// No approval at all fails on the allowance check first.
	err = l.TransferFrom(types.AsCaller(carol), alice, bob, uint256.NewInt(5))
	assert.Equal(t, errors.ErrCodeInsufficientAllowance, errors.CodeOf(err))
}

func TestTransferFromZeroAmountIsObservableNoop(t *testing.T) {
	l, log := newTestLedger(t)
	alice := addr(0xaa)
	bob := addr(0xbb)
	carol := addr(0xcc)

	// No positivity check on the delegated path: a zero move passes without
	// any allowance and still emits its Transfer event.
	require.NoError(t, l.TransferFrom(types.AsCaller(bob), alice, carol, uint256.NewInt(0)))

	records := log.Records()
	require.Len(t, records, 1)
	assert.Equal(t, []string{alice.Hex(), carol.Hex(), "0"}, records[0].Attrs)
	require.NoError(t, l.Audit())
}

func TestMintChecks(t *testing.T) {
	l, _ := newTestLedger(t)
	alice := addr(0xaa)

	err := l.Mint(types.ZeroAddress, uint256.NewInt(10))
	assert.Equal(t, errors.ErrCodeInvalidAddress, errors.CodeOf(err))

	err = l.Mint(alice, uint256.NewInt(0))
	assert.Equal(t, errors.ErrCodeInvalidAmount, errors.CodeOf(err))

	// Growing past the 256-bit ceiling fails without touching state.
	max := new(uint256.Int).SetAllOne()
	require.NoError(t, l.Mint(alice, max))
	err = l.Mint(alice, uint256.NewInt(1))
	assert.Equal(t, errors.ErrCodeInvalidAmount, errors.CodeOf(err))

	supply, err := l.TotalSupply()
	require.NoError(t, err)
	assert.True(t, supply.Eq(max))
	require.NoError(t, l.Audit())
}

func TestBurnAndBurnFrom(t *testing.T) {
	l, log := newTestLedger(t)
	alice := addr(0xaa)
	bob := addr(0xbb)

	require.NoError(t, l.Mint(alice, uint256.NewInt(100)))

	err := l.Burn(alice, uint256.NewInt(101))
	assert.Equal(t, errors.ErrCodeInsufficientBalance, errors.CodeOf(err))

	require.NoError(t, l.Burn(alice, uint256.NewInt(40)))
	supply, err := l.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, "60", supply.Dec())

	// Delegated burn checks the allowance before the balance.
	err = l.BurnFrom(alice, bob, uint256.NewInt(10))
	assert.Equal(t, errors.ErrCodeInsufficientAllowance, errors.CodeOf(err))

	require.NoError(t, l.Approve(types.AsCaller(alice), bob, uint256.NewInt(1000)))
	err = l.BurnFrom(alice, bob, uint256.NewInt(500))
	assert.Equal(t, errors.ErrCodeInsufficientBalance, errors.CodeOf(err))

	log.Reset()
	require.NoError(t, l.BurnFrom(alice, bob, uint256.NewInt(60)))

	supply, err = l.TotalSupply()
	require.NoError(t, err)
	assert.True(t, supply.IsZero())

	allowance, err := l.Allowance(alice, bob)
	require.NoError(t, err)
	assert.Equal(t, "940", allowance.Dec())

	records := log.Records()
	require.Len(t, records, 1)
	assert.Equal(t, []string{alice.Hex(), types.ZeroAddress.Hex(), "60"}, records[0].Attrs)
}

func TestBurnZeroAmountEmitsEvent(t *testing.T) {
	l, log := newTestLedger(t)
	alice := addr(0xaa)

	require.NoError(t, l.Burn(alice, uint256.NewInt(0)))
	require.Len(t, log.Records(), 1)
	require.NoError(t, l.Audit())
}

func TestMintTransferBurnRoundTrip(t *testing.T) {
	l, _ := newTestLedger(t)
	alice := addr(0xaa)
	bob := addr(0xbb)

	require.NoError(t, l.Mint(alice, uint256.NewInt(100)))
	require.NoError(t, l.Transfer(types.AsCaller(alice), bob, uint256.NewInt(100)))
	require.NoError(t, l.Burn(bob, uint256.NewInt(100)))

	supply, err := l.TotalSupply()
	require.NoError(t, err)
	assert.True(t, supply.IsZero())
	require.NoError(t, l.Audit())
}

func TestAuditDetectsTamperedBalance(t *testing.T) {
	st, err := state.NewStore(db.NewMemoryProvider(), "demo-token")
	require.NoError(t, err)
	l, err := New(st, nil, "Demo Token", "DMO", 18)
	require.NoError(t, err)
	alice := addr(0xaa)

	require.NoError(t, l.Mint(alice, uint256.NewInt(100)))
	require.NoError(t, l.Audit())

	tampered := uint256.NewInt(500).Bytes32()
	key := []byte("demo-token/token_balances/" + alice.Hex())
	require.NoError(t, st.Provider().Put(key, tampered[:]))

	err = l.Audit()
	assert.Equal(t, errors.ErrCodeAuditMismatch, errors.CodeOf(err))
}

func TestConservationUnderRandomOps(t *testing.T) {
	l, _ := newTestLedger(t)
	accounts := []types.Address{addr(1), addr(2), addr(3), addr(4)}
	f := fuzz.NewWithSeed(42)

	var op struct {
		Kind    uint8
		From    uint8
		To      uint8
		Spender uint8
		Amount  uint16
	}
	for i := 0; i < 300; i++ {
		f.Fuzz(&op)
		from := accounts[int(op.From)%len(accounts)]
		to := accounts[int(op.To)%len(accounts)]
		spender := accounts[int(op.Spender)%len(accounts)]
		amount := uint256.NewInt(uint64(op.Amount))

		// Individual operations may fail; the supply invariant may not.
		switch op.Kind % 6 {
		case 0:
			_ = l.Mint(to, amount)
		case 1:
			_ = l.Transfer(types.AsCaller(from), to, amount)
		case 2:
			_ = l.Approve(types.AsCaller(from), spender, amount)
		case 3:
			_ = l.TransferFrom(types.AsCaller(spender), from, to, amount)
		case 4:
			_ = l.Burn(from, amount)
		case 5:
			_ = l.BurnFrom(from, spender, amount)
		}
		require.NoError(t, l.Audit(), "audit failed after op %d", i)
	}
}

package capability

import (
	"testing"

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

func newCapStore(t *testing.T) *state.Store {
	t.Helper()
	st, err := state.NewStore(db.NewMemoryProvider(), "demo")
	require.NoError(t, err)
	return st
}

func TestOwnableSeedsDeployer(t *testing.T) {
	st := newCapStore(t)
	log := events.NewLog()
	deployer := addr(0xd0)

	o, err := NewOwnable(types.AsCaller(deployer), st, log)
	require.NoError(t, err)

	owner, err := o.Owner()
	require.NoError(t, err)
	assert.Equal(t, deployer, owner)

	records := log.Records()
	require.Len(t, records, 1)
	assert.Equal(t, events.EventOwnershipTransferred, records[0].Type)
	assert.Equal(t, []string{types.ZeroAddress.Hex(), deployer.Hex()}, records[0].Attrs)

	require.NoError(t, o.RequireOwner(types.AsCaller(deployer)))
	err = o.RequireOwner(types.AsCaller(addr(0x01)))
	assert.Equal(t, errors.ErrCodeNotOwner, errors.CodeOf(err))
}

func TestOwnableReattachKeepsOwner(t *testing.T) {
	st := newCapStore(t)
	log := events.NewLog()
	deployer := addr(0xd0)
	intruder := addr(0x66)

	_, err := NewOwnable(types.AsCaller(deployer), st, log)
	require.NoError(t, err)

	// A second attachment, even by someone else, neither reseeds nor
	// re-emits.
	o2, err := NewOwnable(types.AsCaller(intruder), st, log)
	require.NoError(t, err)

	owner, err := o2.Owner()
	require.NoError(t, err)
	assert.Equal(t, deployer, owner)
	assert.Equal(t, 1, log.Len())
}

func TestOwnableTransferOwnership(t *testing.T) {
	st := newCapStore(t)
	log := events.NewLog()
	deployer := addr(0xd0)
	next := addr(0xe0)

	o, err := NewOwnable(types.AsCaller(deployer), st, log)
	require.NoError(t, err)

	err = o.TransferOwnership(types.AsCaller(next), next)
	assert.Equal(t, errors.ErrCodeNotOwner, errors.CodeOf(err))

	err = o.TransferOwnership(types.AsCaller(deployer), types.ZeroAddress)
	assert.Equal(t, errors.ErrCodeInvalidAddress, errors.CodeOf(err))

	require.NoError(t, o.TransferOwnership(types.AsCaller(deployer), next))

	owner, err := o.Owner()
	require.NoError(t, err)
	assert.Equal(t, next, owner)

	err = o.RequireOwner(types.AsCaller(deployer))
	assert.Equal(t, errors.ErrCodeNotOwner, errors.CodeOf(err))
	require.NoError(t, o.RequireOwner(types.AsCaller(next)))

	records := log.Records()
	require.Len(t, records, 2)
	assert.Equal(t, []string{deployer.Hex(), next.Hex()}, records[1].Attrs)
}

func TestOwnableRenounceIsPermanent(t *testing.T) {
	st := newCapStore(t)
	log := events.NewLog()
	deployer := addr(0xd0)

	o, err := NewOwnable(types.AsCaller(deployer), st, log)
	require.NoError(t, err)
	require.NoError(t, o.RenounceOwnership(types.AsCaller(deployer)))

	owner, err := o.Owner()
	require.NoError(t, err)
	assert.True(t, owner.IsZero())

	err = o.RequireOwner(types.AsCaller(deployer))
	assert.Equal(t, errors.ErrCodeNotOwner, errors.CodeOf(err))
	err = o.TransferOwnership(types.AsCaller(deployer), addr(0x01))
	assert.Equal(t, errors.ErrCodeNotOwner, errors.CodeOf(err))

	// Renouncement survives re-attachment: the stored zero owner is not
	// treated as an unseeded slot.
	o2, err := NewOwnable(types.AsCaller(deployer), st, log)
	require.NoError(t, err)
	owner, err = o2.Owner()
	require.NoError(t, err)
	assert.True(t, owner.IsZero())

	records := log.Records()
	require.Len(t, records, 2)
	assert.Equal(t, []string{deployer.Hex(), types.ZeroAddress.Hex()}, records[1].Attrs)
}

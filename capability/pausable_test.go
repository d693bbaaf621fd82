package capability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chainstd/errors"
	"chainstd/events"
	"chainstd/types"
)

func TestPausableLifecycle(t *testing.T) {
	st := newCapStore(t)
	log := events.NewLog()
	operator := addr(0x0a)

	p, err := NewPausable(st, log)
	require.NoError(t, err)

	paused, err := p.Paused()
	require.NoError(t, err)
	assert.False(t, paused)
	require.NoError(t, p.RequireNotPaused())
	err = p.RequirePaused()
	assert.Equal(t, errors.ErrCodeNotPaused, errors.CodeOf(err))

	require.NoError(t, p.Pause(types.AsCaller(operator)))

	paused, err = p.Paused()
	require.NoError(t, err)
	assert.True(t, paused)
	err = p.RequireNotPaused()
	assert.Equal(t, errors.ErrCodePaused, errors.CodeOf(err))
	require.NoError(t, p.RequirePaused())

	// The guard doubles as the transition precondition.
	err = p.Pause(types.AsCaller(operator))
	assert.Equal(t, errors.ErrCodePaused, errors.CodeOf(err))

	require.NoError(t, p.Unpause(types.AsCaller(operator)))
	err = p.Unpause(types.AsCaller(operator))
	assert.Equal(t, errors.ErrCodeNotPaused, errors.CodeOf(err))

	records := log.Records()
	require.Len(t, records, 2)
	assert.Equal(t, events.EventPaused, records[0].Type)
	assert.Equal(t, []string{operator.Hex()}, records[0].Attrs)
	assert.Equal(t, events.EventUnpaused, records[1].Type)
	assert.Equal(t, []string{operator.Hex()}, records[1].Attrs)
}

func TestPausableStatePersists(t *testing.T) {
	st := newCapStore(t)
	operator := addr(0x0a)

	p, err := NewPausable(st, nil)
	require.NoError(t, err)
	require.NoError(t, p.Pause(types.AsCaller(operator)))

	p2, err := NewPausable(st, nil)
	require.NoError(t, err)
	paused, err := p2.Paused()
	require.NoError(t, err)
	assert.True(t, paused)
}

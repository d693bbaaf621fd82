package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorRendersCodeAndMessage(t *testing.T) {
	err := NewError(ErrCodeInsufficientBalance, ErrMsgTokenInsufficientBalance)

	text := err.Error()
	assert.Contains(t, text, `"insufficient_balance"`)
	assert.Contains(t, text, "Token: insufficient balance")
}

func TestIsMatchesOnCode(t *testing.T) {
	err := NewError(ErrCodeInsufficientBalance, ErrMsgTokenInsufficientBalance)

	assert.True(t, stderrors.Is(err, ErrInsufficientBalance))
	assert.False(t, stderrors.Is(err, ErrInsufficientAllowance))
}

func TestIsMatchesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("apply transfer: %w", NewError(ErrCodePaused, ErrMsgPausablePaused))

	assert.True(t, stderrors.Is(err, ErrPaused))
	assert.False(t, stderrors.Is(err, ErrNotPaused))
}

func TestCodeOf(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewError(ErrCodeReentrantCall, ErrMsgReentrantCall))
	assert.Equal(t, ErrCodeReentrantCall, CodeOf(err))

	assert.Equal(t, ContractErrorCode(""), CodeOf(stderrors.New("plain")))
	assert.Equal(t, ContractErrorCode(""), CodeOf(nil))
}

func TestDistinctCodesDoNotMatch(t *testing.T) {
	for _, sentinel := range []error{ErrInvalidAddress, ErrNotOwner, ErrReentrantCall, ErrNoLedger} {
		require.False(t, stderrors.Is(NewError(ErrCodeInternal, "boom"), sentinel))
	}
}

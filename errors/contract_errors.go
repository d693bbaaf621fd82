package errors

import (
	stderrors "errors"

	"chainstd/jsonx"
)

// ContractErrorCode represents standardized error codes for contract operations
type ContractErrorCode string

const (
	// General errors
	ErrCodeInternal ContractErrorCode = "internal_error"

	// Validation errors
	ErrCodeInvalidAddress ContractErrorCode = "invalid_address"
	ErrCodeInvalidAmount  ContractErrorCode = "invalid_amount"

	// Ledger errors
	ErrCodeInsufficientBalance   ContractErrorCode = "insufficient_balance"
	ErrCodeInsufficientAllowance ContractErrorCode = "insufficient_allowance"
	ErrCodeNonexistentToken      ContractErrorCode = "nonexistent_token"
	ErrCodeAlreadyMinted         ContractErrorCode = "already_minted"

	// Authorization errors
	ErrCodeNotAuthorized ContractErrorCode = "not_authorized"
	ErrCodeNotOwner      ContractErrorCode = "not_owner"

	// Capability errors
	ErrCodeReentrantCall     ContractErrorCode = "reentrant_call"
	ErrCodePaused            ContractErrorCode = "contract_paused"
	ErrCodeNotPaused         ContractErrorCode = "contract_not_paused"
	ErrCodeMissingPrimitive  ContractErrorCode = "missing_ledger_primitive"
	ErrCodeCapabilityMissing ContractErrorCode = "capability_missing"

	// Composition errors
	ErrCodeNoLedger       ContractErrorCode = "no_ledger"
	ErrCodeLedgerConflict ContractErrorCode = "ledger_conflict"

	// Host/storage errors
	ErrCodeStoreUnavailable ContractErrorCode = "store_unavailable"
	ErrCodeCorruptState     ContractErrorCode = "corrupt_state"
	ErrCodeAuditMismatch    ContractErrorCode = "audit_mismatch"
)

// ContractError represents a standardized contract error
type ContractError struct {
	Code    ContractErrorCode `json:"code"`
	Message string            `json:"message"`
}

// Error implements the error interface
func (e *ContractError) Error() string {
	err, _ := jsonx.Marshal(ContractError{
		Code:    e.Code,
		Message: e.Message,
	})
	return string(err)
}

// Is matches any ContractError carrying the same code, so stdlib errors.Is
// works against the exported sentinels below.
func (e *ContractError) Is(target error) bool {
	other, ok := target.(*ContractError)
	if !ok {
		return false
	}
	return other.Code == e.Code
}

// Sentinel values for errors.Is matching. Only the code participates in
// comparison; operations construct their own messages.
var (
	ErrInvalidAddress        = &ContractError{Code: ErrCodeInvalidAddress}
	ErrInvalidAmount         = &ContractError{Code: ErrCodeInvalidAmount}
	ErrInsufficientBalance   = &ContractError{Code: ErrCodeInsufficientBalance}
	ErrInsufficientAllowance = &ContractError{Code: ErrCodeInsufficientAllowance}
	ErrNonexistentToken      = &ContractError{Code: ErrCodeNonexistentToken}
	ErrAlreadyMinted         = &ContractError{Code: ErrCodeAlreadyMinted}
	ErrNotAuthorized         = &ContractError{Code: ErrCodeNotAuthorized}
	ErrNotOwner              = &ContractError{Code: ErrCodeNotOwner}
	ErrReentrantCall         = &ContractError{Code: ErrCodeReentrantCall}
	ErrPaused                = &ContractError{Code: ErrCodePaused}
	ErrNotPaused             = &ContractError{Code: ErrCodeNotPaused}
	ErrMissingPrimitive      = &ContractError{Code: ErrCodeMissingPrimitive}
	ErrCapabilityMissing     = &ContractError{Code: ErrCodeCapabilityMissing}
	ErrNoLedger              = &ContractError{Code: ErrCodeNoLedger}
	ErrLedgerConflict        = &ContractError{Code: ErrCodeLedgerConflict}
	ErrStoreUnavailable      = &ContractError{Code: ErrCodeStoreUnavailable}
	ErrCorruptState          = &ContractError{Code: ErrCodeCorruptState}
	ErrAuditMismatch         = &ContractError{Code: ErrCodeAuditMismatch}
)

// Error message constants - these follow the canonical contract revert texts
const (
	ErrMsgTokenTransferToZero        = "Token: transfer to zero address"
	ErrMsgTokenAmountNotPositive     = "Token: amount must be positive"
	ErrMsgTokenInsufficientBalance   = "Token: insufficient balance"
	ErrMsgTokenApproveToZero         = "Token: approve to zero address"
	ErrMsgTokenInsufficientAllowance = "Token: insufficient allowance"
	ErrMsgTokenMintToZero            = "Token: mint to zero address"
	ErrMsgTokenMintNotPositive       = "Token: mint amount must be positive"
	ErrMsgTokenBurnExceedsBalance    = "Token: burn amount exceeds balance"

	ErrMsgNFTBalanceQueryZero         = "NFT: balance query for zero address"
	ErrMsgNFTOwnerQueryNonexistent    = "NFT: owner query for nonexistent token"
	ErrMsgNFTTransferNotAuthorized    = "NFT: transfer caller is not owner nor approved"
	ErrMsgNFTTransferToZero           = "NFT: transfer to zero address"
	ErrMsgNFTTransferIncorrectOwner   = "NFT: transfer from incorrect owner"
	ErrMsgNFTApprovalToOwner          = "NFT: approval to current owner"
	ErrMsgNFTApproveNotAuthorized     = "NFT: approve caller is not owner nor approved for all"
	ErrMsgNFTApprovedQueryNonexistent = "NFT: approved query for nonexistent token"
	ErrMsgNFTApproveToCaller          = "NFT: approve to caller"
	ErrMsgNFTMintToZero               = "NFT: mint to zero address"
	ErrMsgNFTAlreadyMinted            = "NFT: token already minted"
	ErrMsgNFTBurnNonexistent          = "NFT: burn of nonexistent token"

	ErrMsgOwnableNotOwner  = "Ownable: caller is not the owner"
	ErrMsgOwnableZeroOwner = "Ownable: new owner is zero address"

	ErrMsgPausablePaused    = "Pausable: paused"
	ErrMsgPausableNotPaused = "Pausable: not paused"

	ErrMsgReentrantCall = "ReentrancyGuard: reentrant call"

	ErrMsgBurnableNotTokenOwner       = "Burnable: caller is not token owner"
	ErrMsgBurnableNotOwnerNorApproved = "Burnable: caller is not owner nor approved"
	ErrMsgBurnableExceedsAllowance    = "Burnable: burn amount exceeds allowance"
)

// NewError creates a new ContractError and returns it as error interface
func NewError(code ContractErrorCode, message string) error {
	return &ContractError{
		Code:    code,
		Message: message,
	}
}

// CodeOf extracts the contract error code from err, unwrapping as needed.
// Returns the empty code when err carries no ContractError.
func CodeOf(err error) ContractErrorCode {
	var ce *ContractError
	if stderrors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

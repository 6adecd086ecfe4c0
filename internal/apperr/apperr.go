package apperr

import "fmt"

// Code is a stable machine-readable identifier for a validation failure.
// Codes are part of the API contract and must not change between releases.
type Code string

const (
	CodeInvalidWalletID           Code = "InvalidWalletId"
	CodeInsufficientFunds         Code = "InsufficientFunds"
	CodeInvalidWalletCommunity    Code = "InvalidWalletCommunity"
	CodeInvalidWalletToken        Code = "InvalidWalletToken"
	CodeWalletCannotSendToItself  Code = "WalletCannotSendToItself"
	CodeTransactionNotPlaceholder Code = "TransactionNotPlaceholder"
	CodeInvalidRecipientID        Code = "InvalidRecipientId"
	CodeWalletAlreadyShared       Code = "WalletAlreadySharedWithUser"
	CodeInvalidCommunityID        Code = "InvalidCommunityId"
	CodeInvalidAmount             Code = "InvalidAmount"
)

// Error is a validation failure caused by caller input or state. It carries
// the offending identifiers as structured context so the boundary layer can
// build a diagnostic response. Infrastructure failures are never wrapped in
// an Error; they propagate as opaque errors.
type Error struct {
	Code    Code
	Message string
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches errors by code, so handlers can branch with errors.Is against
// the exported sentinels regardless of message or context.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// New builds a coded validation error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// With attaches a context value and returns the error for chaining.
func (e *Error) With(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// Sentinels for errors.Is comparisons.
var (
	ErrInvalidWalletID           = &Error{Code: CodeInvalidWalletID}
	ErrInsufficientFunds         = &Error{Code: CodeInsufficientFunds}
	ErrInvalidWalletCommunity    = &Error{Code: CodeInvalidWalletCommunity}
	ErrInvalidWalletToken        = &Error{Code: CodeInvalidWalletToken}
	ErrWalletCannotSendToItself  = &Error{Code: CodeWalletCannotSendToItself}
	ErrTransactionNotPlaceholder = &Error{Code: CodeTransactionNotPlaceholder}
	ErrInvalidRecipientID        = &Error{Code: CodeInvalidRecipientID}
	ErrWalletAlreadyShared       = &Error{Code: CodeWalletAlreadyShared}
	ErrInvalidCommunityID        = &Error{Code: CodeInvalidCommunityID}
	ErrInvalidAmount             = &Error{Code: CodeInvalidAmount}
)

package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a molgraph error code.
type ErrorCode string

const (
	ErrAmbiguousAddressing ErrorCode = "AMBIGUOUS_ADDRESSING" // 400
	ErrInvalidRequest      ErrorCode = "INVALID_REQUEST"      // 400
	ErrNotFound            ErrorCode = "NOT_FOUND"            // 404
	ErrFileNotFound        ErrorCode = "FILE_NOT_FOUND"       // 404
	ErrSmilesTooLarge      ErrorCode = "SMILES_TOO_LARGE"     // 413
	ErrUnsupportedElement  ErrorCode = "UNSUPPORTED_ELEMENT"  // 422
	ErrMalformedBracket    ErrorCode = "MALFORMED_BRACKET"    // 422
	ErrUnclosedRing        ErrorCode = "UNCLOSED_RING"        // 422
	ErrMalformedSmiles     ErrorCode = "MALFORMED_SMILES"     // 422
	ErrCancelled           ErrorCode = "CANCELLED"            // 499
	ErrInternal            ErrorCode = "INTERNAL"             // 500
)

// MolError represents a structured error with code, status, and details.
type MolError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *MolError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewAmbiguousAddressing creates a 400 error for when both ID and name are provided.
func NewAmbiguousAddressing() *MolError {
	return &MolError{
		Code:    ErrAmbiguousAddressing,
		Status:  400,
		Message: "cannot specify both id and name; use one addressing mode",
	}
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *MolError {
	return &MolError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for when a molecule or batch cannot be found.
func NewNotFound(kind, identifier string) *MolError {
	return &MolError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("%s not found: %s", kind, identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewFileNotFound creates a 404 error for a missing input file.
func NewFileNotFound(path string) *MolError {
	return &MolError{
		Code:    ErrFileNotFound,
		Status:  404,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewSmilesTooLarge creates a 413 error when the input exceeds the configured limit.
func NewSmilesTooLarge(max, actual int) *MolError {
	return &MolError{
		Code:    ErrSmilesTooLarge,
		Status:  413,
		Message: fmt.Sprintf("smiles exceeds maximum size: %d chars (max %d)", actual, max),
		Details: map[string]any{"max_chars": max, "actual_chars": actual},
	}
}

// NewUnsupportedElement creates a 422 error for a character outside the supported alphabet.
func NewUnsupportedElement(symbol string, pos int) *MolError {
	return &MolError{
		Code:    ErrUnsupportedElement,
		Status:  422,
		Message: fmt.Sprintf("unsupported symbol %q at position %d", symbol, pos),
		Details: map[string]any{"symbol": symbol, "position": pos},
	}
}

// NewMalformedBracket creates a 422 error for an unmatched or misplaced bracket.
func NewMalformedBracket(pos int) *MolError {
	return &MolError{
		Code:    ErrMalformedBracket,
		Status:  422,
		Message: fmt.Sprintf("malformed bracket group at position %d", pos),
		Details: map[string]any{"position": pos},
	}
}

// NewUnclosedRing creates a 422 error for a ring digit that never closes.
func NewUnclosedRing(digit string, pos int) *MolError {
	return &MolError{
		Code:    ErrUnclosedRing,
		Status:  422,
		Message: fmt.Sprintf("ring %s opened at position %d is never closed", digit, pos),
		Details: map[string]any{"symbol": digit, "position": pos},
	}
}

// NewMalformedSmiles creates a 422 error for structurally invalid input.
func NewMalformedSmiles(msg string, pos int) *MolError {
	return &MolError{
		Code:    ErrMalformedSmiles,
		Status:  422,
		Message: fmt.Sprintf("%s at position %d", msg, pos),
		Details: map[string]any{"position": pos},
	}
}

// NewCancelled creates a 499 error when the caller gave up.
func NewCancelled(err error) *MolError {
	msg := "operation cancelled"
	if err != nil {
		msg = err.Error()
	}
	return &MolError{
		Code:    ErrCancelled,
		Status:  499,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
// The underlying error is kept in Details for logging, not in Message.
func NewInternal(err error) *MolError {
	details := map[string]any{}
	if err != nil {
		details["internal_error"] = err.Error()
	}
	return &MolError{
		Code:    ErrInternal,
		Status:  500,
		Message: "an internal error occurred",
		Details: details,
	}
}

// Is checks if an error is (or wraps) a MolError with the given code.
func Is(err error, code ErrorCode) bool {
	var mErr *MolError
	if stderrors.As(err, &mErr) {
		return mErr.Code == code
	}
	return false
}

// As returns the MolError in err's chain, if any.
func As(err error) (*MolError, bool) {
	var mErr *MolError
	if stderrors.As(err, &mErr) {
		return mErr, true
	}
	return nil, false
}

package domain

import "errors"

// Common domain errors
var (
	// Credential errors
	ErrValidation = errors.New("invalid join request")
	ErrSigning    = errors.New("failed to sign credential")

	// Room errors
	ErrRoomEnsure = errors.New("failed to ensure room")
	ErrRoomExists = errors.New("room already exists")

	// Dispatch errors
	ErrDispatch         = errors.New("agent dispatch failed")
	ErrDispatchNotFound = errors.New("dispatch record not found")

	// Provider errors
	ErrCircuitOpen = errors.New("circuit breaker is open")
)

// DomainError wraps a domain error with additional context
type DomainError struct {
	Err     error
	Message string
	Code    string
}

func (e *DomainError) Error() string {
	if e.Message != "" {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func NewDomainError(err error, message string) *DomainError {
	return &DomainError{
		Err:     err,
		Message: message,
	}
}

func NewDomainErrorWithCode(err error, message, code string) *DomainError {
	return &DomainError{
		Err:     err,
		Message: message,
		Code:    code,
	}
}

// IsValidation reports whether err stems from bad caller input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

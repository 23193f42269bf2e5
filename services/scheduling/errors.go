package scheduling

import "fmt"

// ValidationError rejects malformed input before any transaction is opened.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validationError: %s", e.Message)
}

func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError signals that the requested window is not fully covered by
// one contiguous free interval. Maps to a 409 at the transport boundary.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflictError: %s", e.Message)
}

func NewConflictError(format string, args ...interface{}) error {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// CoverageError is raised instead of ConflictError when a booking is part of
// updating an existing reservation; the calling workflow decides how to
// surface it.
type CoverageError struct {
	Message string
}

func (e *CoverageError) Error() string {
	return fmt.Sprintf("coverageError: %s", e.Message)
}

// NotFoundError signals an absent slot or owner.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("notFoundError: %s %s not found", e.Resource, e.ID)
}

// TransactionError wraps a store-level abort unrelated to business rules.
// The engine never retries these; that decision belongs to the caller.
type TransactionError struct {
	Err error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("transactionError: %v", e.Err)
}

func (e *TransactionError) Unwrap() error { return e.Err }

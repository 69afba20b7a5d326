package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the operation conflicts with the current state of the resource.
var ErrConflict = errors.New("conflict with current resource state")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// Ledger error kinds. These are terminal: the core never retries or masks
// them, the caller decides how to recover.
var (
	// ErrDuplicateCode indicates an account code that is already taken.
	ErrDuplicateCode = fmt.Errorf("%w: account code already in use", ErrDuplicate)

	// ErrUnbalancedEntry indicates a journal whose debit and credit sums differ.
	ErrUnbalancedEntry = errors.New("journal entries do not balance")

	// ErrEmptyTransaction indicates a journal with fewer than two entry lines.
	ErrEmptyTransaction = errors.New("journal must have at least two transaction entries")

	// ErrUnknownAccount indicates an entry referencing a non-existent account.
	ErrUnknownAccount = errors.New("account not found for transaction entry")

	// ErrAlreadyReversed indicates an attempt to reverse a journal twice.
	ErrAlreadyReversed = errors.New("journal has already been reversed")

	// ErrInvalidState indicates an invoice state transition that is not allowed.
	ErrInvalidState = errors.New("invalid invoice state for requested transition")

	// ErrOverpayment indicates a payment exceeding the invoice's outstanding balance.
	ErrOverpayment = errors.New("payment exceeds outstanding invoice balance")

	// ErrConcurrencyConflict indicates a concurrent update invalidated the
	// operation's preconditions; callers should re-read and retry.
	ErrConcurrencyConflict = errors.New("concurrent update detected")
)

// AppError wraps an infrastructure failure with a status code and message.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

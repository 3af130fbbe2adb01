package errors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Domain errors
var (
	ErrValidation               = errors.New("validation failed")
	ErrFileNotFound             = errors.New("file not found")
	ErrTransactionNotFound      = errors.New("transaction not found")
	ErrUserNotFound             = errors.New("user not found")
	ErrFileClosed               = errors.New("file is closed")
	ErrPendingAmount            = errors.New("file has pending amount")
	ErrDuplicateTransactionDate = errors.New("transaction already recorded for this date")
	ErrUserAlreadyExists        = errors.New("user already exists")
	ErrInvalidCredentials       = errors.New("invalid credentials")
	ErrUnauthorized             = errors.New("unauthorized")
	ErrStorage                  = errors.New("storage failure")
	ErrCache                    = errors.New("cache failure")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	// Field names the offending input for validation failures.
	Field string
	Err   error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeValidation               = "VALIDATION_ERROR"
	ErrCodeFileNotFound             = "FILE_NOT_FOUND"
	ErrCodeTransactionNotFound      = "TRANSACTION_NOT_FOUND"
	ErrCodeUserNotFound             = "USER_NOT_FOUND"
	ErrCodeFileClosed               = "FILE_CLOSED"
	ErrCodePendingAmount            = "PENDING_AMOUNT"
	ErrCodeDuplicateTransactionDate = "DUPLICATE_TRANSACTION_DATE"
	ErrCodeUserAlreadyExists        = "USER_ALREADY_EXISTS"
	ErrCodeInvalidCredentials       = "INVALID_CREDENTIALS"
	ErrCodeUnauthorized             = "UNAUTHORIZED"
	ErrCodeDatabaseError            = "DATABASE_ERROR"
	ErrCodeCacheError               = "CACHE_ERROR"
)

// NewValidationError reports a user-correctable problem with one input field.
func NewValidationError(field, message string) *BusinessError {
	return &BusinessError{
		Code:    ErrCodeValidation,
		Message: message,
		Field:   field,
		Err:     ErrValidation,
	}
}

func WrapFileNotFound(fileID string) *BusinessError {
	return NewBusinessError(
		ErrCodeFileNotFound,
		fmt.Sprintf("File with ID %s not found", fileID),
		ErrFileNotFound,
	)
}

func WrapTransactionNotFound(transactionID string) *BusinessError {
	return NewBusinessError(
		ErrCodeTransactionNotFound,
		fmt.Sprintf("Transaction with ID %s not found", transactionID),
		ErrTransactionNotFound,
	)
}

func WrapUserNotFound(username string) *BusinessError {
	return NewBusinessError(
		ErrCodeUserNotFound,
		fmt.Sprintf("User %q not found", username),
		ErrUserNotFound,
	)
}

func WrapFileClosed(fileID string) *BusinessError {
	return NewBusinessError(
		ErrCodeFileClosed,
		fmt.Sprintf("File with ID %s is closed", fileID),
		ErrFileClosed,
	)
}

func WrapPendingAmount(fileID string, pending decimal.Decimal) *BusinessError {
	return NewBusinessError(
		ErrCodePendingAmount,
		fmt.Sprintf("File with ID %s cannot be closed: pending amount %s", fileID, pending.StringFixed(2)),
		ErrPendingAmount,
	)
}

func WrapDuplicateTransactionDate(date string) *BusinessError {
	return NewBusinessError(
		ErrCodeDuplicateTransactionDate,
		fmt.Sprintf("A transaction is already recorded on %s", date),
		ErrDuplicateTransactionDate,
	)
}

func WrapUserAlreadyExists(username string) *BusinessError {
	return NewBusinessError(
		ErrCodeUserAlreadyExists,
		fmt.Sprintf("User %q already exists", username),
		ErrUserAlreadyExists,
	)
}

func WrapInvalidCredentials() *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidCredentials,
		"invalid username or password",
		ErrInvalidCredentials,
	)
}

func WrapUnauthorized(reason string) *BusinessError {
	return NewBusinessError(ErrCodeUnauthorized, reason, ErrUnauthorized)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		fmt.Errorf("%w: %w", ErrStorage, err),
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"Cache operation failed",
		fmt.Errorf("%w: %w", ErrCache, err),
	)
}

// AsBusinessError extracts the BusinessError from err's chain.
func AsBusinessError(err error) (*BusinessError, bool) {
	var be *BusinessError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// IsNotFound reports whether err refers to an absent file, transaction or user.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrFileNotFound) ||
		errors.Is(err, ErrTransactionNotFound) ||
		errors.Is(err, ErrUserNotFound)
}

// IsConflict reports whether err is a uniqueness violation.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicateTransactionDate) ||
		errors.Is(err, ErrUserAlreadyExists)
}

package model

import "errors"

// ErrorResponse represents a standardised error response.
// Message carries internal detail and is only populated outside production.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Error kinds. Each maps to exactly one HTTP status at the handler boundary.
const (
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeUnauthorised = "UNAUTHORIZED"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeStorage      = "STORAGE_ERROR"
)

// DomainError is returned by services for every failure a caller should see.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches domain errors by code and public message so wrapped copies of a
// sentinel still compare equal with errors.Is.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Wrap returns a copy of e carrying err as internal detail.
func (e *DomainError) Wrap(err error) *DomainError {
	return &DomainError{Code: e.Code, Message: e.Message, Err: err}
}

// NewValidationError creates a 400-class error with a public message.
func NewValidationError(message string) *DomainError {
	return NewDomainError(ErrCodeValidation, message)
}

// NewStorageError wraps a persistence failure behind a public message.
func NewStorageError(message string, err error) *DomainError {
	return &DomainError{Code: ErrCodeStorage, Message: message, Err: err}
}

// Common domain errors
var (
	ErrMissingCredentials   = NewValidationError("Email and password are required")
	ErrInvalidCredentials   = NewDomainError(ErrCodeUnauthorised, "Invalid credentials")
	ErrAuthRequired         = NewDomainError(ErrCodeUnauthorised, "Authentication required")
	ErrInvalidToken         = NewDomainError(ErrCodeUnauthorised, "Invalid or expired token")
	ErrUserExists           = NewDomainError(ErrCodeConflict, "User already exists")
	ErrProductNotFound      = NewDomainError(ErrCodeNotFound, "Product not found")
	ErrOrderNotFound        = NewDomainError(ErrCodeNotFound, "Order not found")
	ErrMissingProductFields = NewValidationError("Name, description, price, and category are required")
	ErrInvalidPrice         = NewValidationError("Price must be a non-negative number")
	ErrInvalidStock         = NewValidationError("Stock quantity must be a non-negative integer")
	ErrInvalidImage         = NewValidationError("Only image files are allowed")
	ErrImageTooLarge        = NewValidationError("Each image must be 5MB or smaller")
	ErrMissingOrderFields   = NewValidationError("Customer information and items are required")
	ErrInvalidOrderItems    = NewValidationError("Invalid order items")
	ErrInvalidDeliveryFee   = NewValidationError("Delivery fee must be a non-negative number")
	ErrInvalidStatus        = NewValidationError("Valid status is required")
	ErrInvalidRequestBody   = NewValidationError("Invalid request body")
	ErrInvalidListField     = NewValidationError("List fields must be a JSON array of strings")
)

package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInsufficientFunds indicates that an account balance cannot cover the requested amount.
// It lives here rather than in the services package because the repository re-checks the
// balance under row lock and must report the same condition.
var ErrInsufficientFunds = errors.New("insufficient funds")

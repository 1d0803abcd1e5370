// Package common defines sentinel errors shared by the repositories, services
// and transport layers of the budget backend. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound     = errors.New("not found")
	ErrorAlreadyExist = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrValidation       = errors.New("validation error")

	// Account lifecycle errors.
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Session errors. All of them surface as 401.
	ErrUnauthenticated = errors.New("not authenticated")
	ErrInvalidToken    = errors.New("invalid token")
	ErrUserNotFound    = errors.New("user not found")

	// Budget entity errors.
	ErrInvalidSubcategory = errors.New("invalid subcategory")
	ErrNoReceipt          = errors.New("no receipt attached")
)

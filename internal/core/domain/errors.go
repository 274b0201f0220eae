package domain

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidUser        = errors.New("username and password are required")
	ErrForbidden          = errors.New("access forbidden")

	ErrItemNotFound    = errors.New("item not found")
	ErrRequestNotFound = errors.New("request not found")
	ErrInvalidStatus   = errors.New("invalid request status")
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrRequestInProgress means another call holding the same idempotency
	// key has not finished creating its request.
	ErrRequestInProgress = errors.New("a request with this idempotency key is still being processed")
)

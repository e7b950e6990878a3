package application

import "errors"

// Error taxonomy surfaced to the HTTP layer. Anything else bubbling out of
// a service is an opaque store/infra failure.
var (
	// ErrInvalidInput covers missing fields and the password-length policy.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConflict means the normalized email is already registered.
	ErrConflict = errors.New("email already registered")
	// ErrInvalidCredentials deliberately does not say which factor failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotVerified is distinct from ErrInvalidCredentials so the client
	// can offer a resend action.
	ErrNotVerified = errors.New("email not verified")
	// ErrInvalidToken covers unknown and already-consumed secrets.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken marks a known token past expiry; handling consumes it.
	ErrExpiredToken = errors.New("expired token")
	// ErrDeliveryFailed surfaces a failed email dispatch; the records it
	// refers to are not rolled back.
	ErrDeliveryFailed = errors.New("verification email delivery failed")
)

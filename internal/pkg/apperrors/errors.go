package apperrors

import (
	"errors"
	"fmt"
)

// Common sentinel errors shared across services.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrOAuthOnlyAccount   = errors.New("user registered via OAuth")
	ErrAccountBlocked     = errors.New("user account is blocked")
	ErrAdminsOnly         = errors.New("access denied: admins only")
)

// ValidationError reports a rejected field on a domain object or request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NotFoundError carries the resource name for 404 mapping in controllers.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// UpstreamError wraps a failure from an external AI provider. Transient
// failures (rate limits, timeouts, 5xx) are answered with a canned apology
// instead of surfacing to the caller.
type UpstreamError struct {
	Provider  string
	Err       error
	Transient bool
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

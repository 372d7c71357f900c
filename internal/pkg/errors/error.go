package xerrors

import (
	"errors"
	"fmt"
)

// Common reusable application errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized access")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInternal           = errors.New("internal server error")
	ErrRateLimited        = errors.New("too many requests")
	ErrSessionExpired     = errors.New("session expired or invalid")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrConfig             = errors.New("service misconfigured")
)

// OAuth bridge failures surface to clients as one of these fixed codes.
// Raw provider errors must never reach a response body.
var (
	ErrOAuthMissingCode = errors.New("oauth_missing_code")
	ErrOAuthConfig      = errors.New("oauth_config")
	ErrOAuthExchange    = errors.New("oauth_exchange")
	ErrOAuthNoEmail     = errors.New("oauth_no_email")
)

// Wrap adds context to an error (similar to fmt.Errorf("%w")).
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is allows checking whether an error is a specific sentinel error.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Unwrap extracts the underlying wrapped error.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// OAuthCode maps a bridge failure to its wire code. Anything outside the
// fixed vocabulary collapses to oauth_exchange so provider internals stay
// hidden.
func OAuthCode(err error) string {
	switch {
	case errors.Is(err, ErrOAuthMissingCode):
		return "oauth_missing_code"
	case errors.Is(err, ErrOAuthConfig):
		return "oauth_config"
	case errors.Is(err, ErrOAuthNoEmail):
		return "oauth_no_email"
	default:
		return "oauth_exchange"
	}
}

// Package errors provides standardized error types for the proxyup CLI tool.
//
// ProxyError carries an error code, a human-readable message, the domain
// involved (if any), and an optional wrapped error. Use the sentinel errors
// with errors.Is for common scenarios:
//
//	if errors.Is(err, errors.ErrProxyNotFound) {
//	    // handle missing proxy config
//	}
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes errors for programmatic handling.
type ErrorCode string

// Error codes for different error categories.
const (
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"      // Proxy config not found
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS" // Proxy config already exists
	ErrCodeValidation    ErrorCode = "VALIDATION"     // Input validation failed
	ErrCodePermission    ErrorCode = "PERMISSION"     // Permission denied
	ErrCodeEnvironment   ErrorCode = "ENVIRONMENT"    // Unsupported OS, missing dependency
	ErrCodeNginx         ErrorCode = "NGINX"          // nginx test/reload/start failure
	ErrCodeCert          ErrorCode = "CERT"           // certbot issuance/renewal/revocation failure
	ErrCodeNetwork       ErrorCode = "NETWORK"        // DNS or public-IP lookup failure
	ErrCodeInternal      ErrorCode = "INTERNAL"       // Internal/unexpected error
)

// ProxyError represents a structured error with context about the operation.
type ProxyError struct {
	Code    ErrorCode // Error category
	Message string    // Human-readable message
	Domain  string    // Primary domain (if applicable)
	Err     error     // Underlying error (if any)
}

// Error implements the error interface.
func (e *ProxyError) Error() string {
	if e.Domain != "" && e.Err != nil {
		return fmt.Sprintf("proxy %s: %s: %v", e.Domain, e.Message, e.Err)
	}
	if e.Domain != "" {
		return fmt.Sprintf("proxy %s: %s", e.Domain, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for error chain traversal.
func (e *ProxyError) Unwrap() error {
	return e.Err
}

// Is reports whether target matches this error. Comparison is by code.
func (e *ProxyError) Is(target error) bool {
	t, ok := target.(*ProxyError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Sentinel errors for common error scenarios.
var (
	// ErrProxyNotFound indicates no managed config exists for the domain.
	ErrProxyNotFound = &ProxyError{Code: ErrCodeNotFound, Message: "proxy config not found"}

	// ErrProxyExists indicates a managed config already exists for the domain.
	ErrProxyExists = &ProxyError{Code: ErrCodeAlreadyExists, Message: "proxy config already exists"}

	// ErrInvalidDomain indicates the domain name is not a valid hostname.
	ErrInvalidDomain = &ProxyError{Code: ErrCodeValidation, Message: "invalid domain"}

	// ErrInvalidTarget indicates the proxy target is not valid.
	ErrInvalidTarget = &ProxyError{Code: ErrCodeValidation, Message: "invalid proxy target"}

	// ErrInvalidEmail indicates the contact email is not valid.
	ErrInvalidEmail = &ProxyError{Code: ErrCodeValidation, Message: "invalid email address"}

	// ErrRootRequired indicates root privileges are required.
	ErrRootRequired = &ProxyError{Code: ErrCodePermission, Message: "root privileges required"}

	// ErrUnsupportedOS indicates the host OS family is not supported.
	ErrUnsupportedOS = &ProxyError{Code: ErrCodeEnvironment, Message: "unsupported operating system"}

	// ErrCertbotNotInstalled indicates certbot is not installed.
	ErrCertbotNotInstalled = &ProxyError{Code: ErrCodeEnvironment, Message: "certbot not installed"}

	// ErrCancelled indicates the user aborted an interactive flow.
	ErrCancelled = &ProxyError{Code: ErrCodeValidation, Message: "cancelled"}
)

// NotFound creates an error for a domain with no managed config.
func NotFound(domain string) error {
	return &ProxyError{
		Code:    ErrCodeNotFound,
		Message: "proxy config not found",
		Domain:  domain,
	}
}

// AlreadyExists creates an error for a domain that already has a config.
func AlreadyExists(domain string) error {
	return &ProxyError{
		Code:    ErrCodeAlreadyExists,
		Message: "proxy config already exists",
		Domain:  domain,
	}
}

// Validation creates a validation error with a custom message.
func Validation(msg string) error {
	return &ProxyError{
		Code:    ErrCodeValidation,
		Message: msg,
	}
}

// Wrap creates an error with the specified code, message, and underlying error.
func Wrap(code ErrorCode, msg string, err error) error {
	return &ProxyError{
		Code:    code,
		Message: msg,
		Err:     err,
	}
}

// WrapDomain creates an error with domain context and underlying error.
func WrapDomain(code ErrorCode, domain string, msg string, err error) error {
	return &ProxyError{
		Code:    code,
		Domain:  domain,
		Message: msg,
		Err:     err,
	}
}

// Is reports whether any error in err's chain matches target.
// This is a re-export of errors.Is for convenience.
var Is = errors.Is

// As finds the first error in err's chain that matches target.
// This is a re-export of errors.As for convenience.
var As = errors.As

package input

import (
	"fmt"
	"net"
	"regexp"
	"strconv"
	"strings"

	"github.com/ksyq12/proxyup/internal/errors"
)

// hostnamePattern accepts dotted labels with a final label of at least two
// alphabetic characters. Single-label names ("localhost") are rejected since
// they cannot receive a publicly trusted certificate.
var hostnamePattern = regexp.MustCompile(`^([a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}$`)

// emailPattern is the usual permissive address shape.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateDomain checks that domain is a syntactically valid hostname.
func ValidateDomain(domain string) error {
	if domain == "" {
		return errors.Validation("domain cannot be empty")
	}
	if len(domain) > 253 {
		return errors.Validation("domain exceeds 253 characters")
	}
	if !hostnamePattern.MatchString(domain) {
		return errors.WrapDomain(errors.ErrCodeValidation, domain, "not a valid hostname", errors.ErrInvalidDomain)
	}
	return nil
}

// ValidateEmail checks that email looks like a mail address.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return errors.Wrap(errors.ErrCodeValidation, fmt.Sprintf("%q is not a valid email address", email), errors.ErrInvalidEmail)
	}
	return nil
}

// ParseTarget normalizes a proxy target. A bare port becomes
// http://127.0.0.1:<port>; host:port gets an http:// scheme; an explicit
// http:// or https:// scheme is preserved. The port must be in [1,65535].
func ParseTarget(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.Validation("proxy target cannot be empty")
	}

	// Bare port
	if port, err := strconv.Atoi(raw); err == nil {
		if err := validatePort(port); err != nil {
			return "", err
		}
		return fmt.Sprintf("http://127.0.0.1:%d", port), nil
	}

	scheme := "http"
	hostport := raw
	if s, rest, ok := strings.Cut(raw, "://"); ok {
		if s != "http" && s != "https" {
			return "", errors.Validation(fmt.Sprintf("unsupported scheme %q", s))
		}
		scheme = s
		hostport = rest
	}

	host, portStr, err := net.SplitHostPort(hostport)
	if err != nil || host == "" {
		return "", errors.Wrap(errors.ErrCodeValidation, fmt.Sprintf("%q is not a port or host:port", raw), errors.ErrInvalidTarget)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeValidation, fmt.Sprintf("%q is not a numeric port", portStr), errors.ErrInvalidTarget)
	}
	if err := validatePort(port); err != nil {
		return "", err
	}

	return fmt.Sprintf("%s://%s:%d", scheme, host, port), nil
}

func validatePort(port int) error {
	if port < 1 || port > 65535 {
		return errors.Validation(fmt.Sprintf("port %d out of range [1,65535]", port))
	}
	return nil
}

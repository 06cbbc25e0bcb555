package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestProxyErrorFormat(t *testing.T) {
	tests := []struct {
		name string
		err  *ProxyError
		want string
	}{
		{
			name: "message only",
			err:  &ProxyError{Code: ErrCodeValidation, Message: "invalid input"},
			want: "invalid input",
		},
		{
			name: "with domain",
			err:  &ProxyError{Code: ErrCodeNotFound, Message: "proxy config not found", Domain: "app.example.com"},
			want: "proxy app.example.com: proxy config not found",
		},
		{
			name: "with wrapped error",
			err:  &ProxyError{Code: ErrCodeNginx, Message: "reload failed", Err: fmt.Errorf("exit status 1")},
			want: "reload failed: exit status 1",
		},
		{
			name: "with domain and wrapped error",
			err:  &ProxyError{Code: ErrCodeCert, Message: "issuance failed", Domain: "app.example.com", Err: fmt.Errorf("rate limited")},
			want: "proxy app.example.com: issuance failed: rate limited",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSentinelMatching(t *testing.T) {
	err := NotFound("app.example.com")
	if !Is(err, ErrProxyNotFound) {
		t.Error("NotFound should match ErrProxyNotFound")
	}
	if Is(err, ErrProxyExists) {
		t.Error("NotFound should not match ErrProxyExists")
	}

	err = AlreadyExists("app.example.com")
	if !Is(err, ErrProxyExists) {
		t.Error("AlreadyExists should match ErrProxyExists")
	}
}

func TestWrapPreservesChain(t *testing.T) {
	inner := fmt.Errorf("connection refused")
	err := Wrap(ErrCodeNetwork, "lookup failed", inner)

	if !Is(err, inner) {
		t.Error("wrapped error should match the inner error")
	}

	var pe *ProxyError
	if !As(err, &pe) {
		t.Fatal("As should find the ProxyError")
	}
	if pe.Code != ErrCodeNetwork {
		t.Errorf("code = %q, want %q", pe.Code, ErrCodeNetwork)
	}
	if stderrors.Unwrap(err) != inner {
		t.Error("Unwrap should return the inner error")
	}
}

func TestWrapDomainCarriesContext(t *testing.T) {
	err := WrapDomain(ErrCodeValidation, "app.example.com", "not a valid hostname", ErrInvalidDomain)

	if !Is(err, ErrInvalidDomain) {
		t.Error("should match ErrInvalidDomain via the chain")
	}

	var pe *ProxyError
	if !As(err, &pe) {
		t.Fatal("As should find the ProxyError")
	}
	if pe.Domain != "app.example.com" {
		t.Errorf("domain = %q", pe.Domain)
	}
}

func TestValidationHelper(t *testing.T) {
	err := Validation("port out of range")
	var pe *ProxyError
	if !As(err, &pe) {
		t.Fatal("As should find the ProxyError")
	}
	if pe.Code != ErrCodeValidation {
		t.Errorf("code = %q, want %q", pe.Code, ErrCodeValidation)
	}
	if err.Error() != "port out of range" {
		t.Errorf("Error() = %q", err.Error())
	}
}

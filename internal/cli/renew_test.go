package cli

import (
	"errors"
	"strings"
	"testing"
)

func TestRunRenew(t *testing.T) {
	tests := []struct {
		name        string
		domain      string
		dryRun      bool
		setup       func(*MockNginx, *MockCert) *Dependencies
		wantErr     bool
		errContains string
		validate    func(*testing.T, *MockNginx, *MockCert)
	}{
		{
			name:   "renew and reload",
			domain: "app.example.com",
			setup: func(ngx *MockNginx, cert *MockCert) *Dependencies {
				return NewMockDeps().WithNginx(ngx).WithCertbot(cert).Build()
			},
			validate: func(t *testing.T, ngx *MockNginx, cert *MockCert) {
				if len(cert.RenewCalls) != 1 || cert.RenewCalls[0] != "app.example.com" {
					t.Errorf("renew calls = %v", cert.RenewCalls)
				}
				if ngx.ApplyCalls != 1 {
					t.Errorf("expected 1 Apply call after renewal, got %d", ngx.ApplyCalls)
				}
			},
		},
		{
			name:   "dry run does not touch nginx",
			domain: "app.example.com",
			dryRun: true,
			setup: func(ngx *MockNginx, cert *MockCert) *Dependencies {
				return NewMockDeps().WithNginx(ngx).WithCertbot(cert).Build()
			},
			validate: func(t *testing.T, ngx *MockNginx, cert *MockCert) {
				if len(cert.RenewCalls) != 1 {
					t.Errorf("renew calls = %v", cert.RenewCalls)
				}
				if ngx.ApplyCalls != 0 {
					t.Errorf("dry run must not reload nginx, got %d Apply calls", ngx.ApplyCalls)
				}
			},
		},
		{
			name:   "renewal failure propagates",
			domain: "app.example.com",
			setup: func(ngx *MockNginx, cert *MockCert) *Dependencies {
				cert.RenewErr = errors.New("certbot failed: rate limited")
				return NewMockDeps().WithNginx(ngx).WithCertbot(cert).Build()
			},
			wantErr:     true,
			errContains: "rate limited",
			validate: func(t *testing.T, ngx *MockNginx, cert *MockCert) {
				if ngx.ApplyCalls != 0 {
					t.Error("nginx should not be reloaded after a failed renewal")
				}
			},
		},
		{
			name:   "without root fails",
			domain: "app.example.com",
			setup: func(ngx *MockNginx, cert *MockCert) *Dependencies {
				return NewMockDeps().WithNginx(ngx).WithCertbot(cert).WithRootAccess(false).Build()
			},
			wantErr:     true,
			errContains: "root privileges",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ngx := NewMockNginx()
			cert := NewMockCert()

			renewDryRun = tt.dryRun
			defer func() { renewDryRun = false }()

			oldDeps := deps
			deps = tt.setup(ngx, cert)
			defer func() { deps = oldDeps }()

			err := runRenew(nil, []string{tt.domain})

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.errContains)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if tt.validate != nil {
				tt.validate(t, ngx, cert)
			}
		})
	}
}

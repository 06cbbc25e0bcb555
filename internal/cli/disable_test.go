package cli

import (
	"errors"
	"strings"
	"testing"
)

func TestRunDisable(t *testing.T) {
	tests := []struct {
		name        string
		domain      string
		setup       func(*MockNginx) *Dependencies
		wantErr     bool
		errContains string
		validate    func(*testing.T, *MockNginx)
	}{
		{
			name:   "disable proxy successfully",
			domain: "app.example.com",
			setup: func(mock *MockNginx) *Dependencies {
				mock.Configs["app.example.com"] = "# Auto-generated by proxyup\nserver {}"
				mock.Enabled["app.example.com"] = true
				return NewMockDeps().WithNginx(mock).Build()
			},
			validate: func(t *testing.T, mock *MockNginx) {
				if len(mock.DisableCalls) != 1 {
					t.Errorf("expected 1 Disable call, got %d", len(mock.DisableCalls))
				}
				if mock.Enabled["app.example.com"] {
					t.Error("proxy should be disabled")
				}
				if mock.Configs["app.example.com"] == "" {
					t.Error("config content must survive a disable")
				}
				if mock.TestCalls != 1 || mock.ReloadCalls != 1 {
					t.Errorf("test=%d reload=%d, want 1 each", mock.TestCalls, mock.ReloadCalls)
				}
			},
		},
		{
			name:   "disable an already disabled proxy fails",
			domain: "app.example.com",
			setup: func(mock *MockNginx) *Dependencies {
				mock.Configs["app.example.com"] = "# Auto-generated by proxyup\nserver {}"
				return NewMockDeps().WithNginx(mock).Build()
			},
			wantErr:     true,
			errContains: "not enabled",
		},
		{
			name:   "without root fails",
			domain: "app.example.com",
			setup: func(mock *MockNginx) *Dependencies {
				return NewMockDeps().WithNginx(mock).WithRootAccess(false).Build()
			},
			wantErr:     true,
			errContains: "root privileges",
		},
		{
			name:   "re-enabled on test failure",
			domain: "app.example.com",
			setup: func(mock *MockNginx) *Dependencies {
				mock.Configs["app.example.com"] = "# Auto-generated by proxyup\nserver {}"
				mock.Enabled["app.example.com"] = true
				mock.TestFunc = func() error { return errors.New("configuration test failed") }
				return NewMockDeps().WithNginx(mock).Build()
			},
			wantErr:     true,
			errContains: "test failed",
			validate: func(t *testing.T, mock *MockNginx) {
				if len(mock.EnableCalls) != 1 {
					t.Errorf("expected 1 Enable call for rollback, got %d", len(mock.EnableCalls))
				}
				if !mock.Enabled["app.example.com"] {
					t.Error("proxy should be enabled again after rollback")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockNginx()

			oldDeps := deps
			deps = tt.setup(mock)
			defer func() { deps = oldDeps }()

			err := runDisable(nil, []string{tt.domain})

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
				tt.validate(t, mock)
			}
		})
	}
}

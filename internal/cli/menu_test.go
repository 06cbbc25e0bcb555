package cli

import (
	"strings"
	"testing"
)

func TestRunMenu(t *testing.T) {
	t.Run("exit immediately", func(t *testing.T) {
		oldDeps := deps
		deps = NewMockDeps().WithStdinInput("3\n").Build()
		defer func() { deps = oldDeps }()

		if err := runMenu(nil, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("cancel at top level is a clean exit", func(t *testing.T) {
		oldDeps := deps
		deps = NewMockDeps().WithStdinInput("q\n").Build()
		defer func() { deps = oldDeps }()

		if err := runMenu(nil, nil); err != nil {
			t.Fatalf("cancel should not be an error: %v", err)
		}
	})

	t.Run("manage with no proxies returns to the top menu", func(t *testing.T) {
		oldDeps := deps
		deps = NewMockDeps().WithStdinInput("2\n3\n").Build()
		defer func() { deps = oldDeps }()

		if err := runMenu(nil, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("back out of the domain menu", func(t *testing.T) {
		ngx := NewMockNginx()
		ngx.Configs["app.example.com"] = httpConfig

		// Manage, pick the only proxy, Back, Exit.
		oldDeps := deps
		deps = NewMockDeps().WithNginx(ngx).WithStdinInput("2\n1\n6\n3\n").Build()
		defer func() { deps = oldDeps }()

		if err := runMenu(nil, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("toggle enables a disabled proxy", func(t *testing.T) {
		ngx := NewMockNginx()
		ngx.Configs["app.example.com"] = httpConfig

		// Manage, pick the proxy, toggle, Back, Exit.
		oldDeps := deps
		deps = NewMockDeps().WithNginx(ngx).WithStdinInput("2\n1\n1\n6\n3\n").Build()
		defer func() { deps = oldDeps }()

		if err := runMenu(nil, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(ngx.EnableCalls) != 1 || !ngx.Enabled["app.example.com"] {
			t.Errorf("enable calls = %v, enabled = %v", ngx.EnableCalls, ngx.Enabled)
		}
	})

	t.Run("delete leaves the domain menu", func(t *testing.T) {
		ngx := NewMockNginx()
		ngx.Configs["app.example.com"] = httpConfig

		// Manage, pick the proxy, Delete, confirm, Exit. No revocation
		// prompt for an HTTP-only proxy.
		oldDeps := deps
		deps = NewMockDeps().WithNginx(ngx).WithStdinInput("2\n1\n5\ny\n3\n").Build()
		defer func() { deps = oldDeps }()

		if err := runMenu(nil, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(ngx.RemoveCalls) != 1 {
			t.Errorf("remove calls = %v", ngx.RemoveCalls)
		}
		if _, ok := ngx.Configs["app.example.com"]; ok {
			t.Error("config should be gone")
		}
	})

	t.Run("without root fails", func(t *testing.T) {
		oldDeps := deps
		deps = NewMockDeps().WithRootAccess(false).Build()
		defer func() { deps = oldDeps }()

		err := runMenu(nil, nil)
		if err == nil || !strings.Contains(err.Error(), "root privileges") {
			t.Errorf("expected root error, got %v", err)
		}
	})
}

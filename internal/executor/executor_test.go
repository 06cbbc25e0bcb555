package executor

import (
	"fmt"
	"strings"
	"testing"
)

func TestSystemExecutorExecute(t *testing.T) {
	e := NewSystemExecutor()

	out, err := e.Execute("echo", "hello")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if strings.TrimSpace(string(out)) != "hello" {
		t.Errorf("output = %q, want hello", out)
	}
}

func TestSystemExecutorExecuteCapturesStderr(t *testing.T) {
	e := NewSystemExecutor()

	out, err := e.Execute("sh", "-c", "echo oops >&2; exit 1")
	if err == nil {
		t.Fatal("expected error from failing command")
	}
	if !strings.Contains(string(out), "oops") {
		t.Errorf("combined output should include stderr, got %q", out)
	}
}

func TestSystemExecutorLookPath(t *testing.T) {
	e := NewSystemExecutor()

	if _, err := e.LookPath("sh"); err != nil {
		t.Errorf("sh should be on PATH: %v", err)
	}
	if _, err := e.LookPath("definitely-not-a-real-binary-xyz"); err == nil {
		t.Error("expected error for a missing binary")
	}
}

func TestMockExecutorRecordsCalls(t *testing.T) {
	m := &MockExecutor{}

	if _, err := m.Execute("nginx", "-t"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.ExecuteAttached("apt-get", "install", "-y", "certbot"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(m.Calls) != 2 {
		t.Fatalf("expected 2 recorded calls, got %d", len(m.Calls))
	}
	if m.Calls[0].Name != "nginx" || m.Calls[0].Args[0] != "-t" {
		t.Errorf("call 0 = %+v", m.Calls[0])
	}
	if m.Calls[1].Name != "apt-get" || m.Calls[1].Args[2] != "certbot" {
		t.Errorf("call 1 = %+v", m.Calls[1])
	}
}

func TestMockExecutorFuncOverrides(t *testing.T) {
	m := &MockExecutor{
		ExecuteFunc: func(name string, args ...string) ([]byte, error) {
			return []byte("custom output"), fmt.Errorf("custom error")
		},
		LookPathFunc: func(file string) (string, error) {
			return "", fmt.Errorf("%s not found", file)
		},
	}

	out, err := m.Execute("anything")
	if string(out) != "custom output" || err == nil {
		t.Errorf("override not applied: %q, %v", out, err)
	}
	if _, err := m.LookPath("nginx"); err == nil {
		t.Error("LookPath override not applied")
	}
}

func TestMockExecutorDefaults(t *testing.T) {
	m := &MockExecutor{}

	p, err := m.LookPath("nginx")
	if err != nil {
		t.Fatalf("default LookPath should succeed: %v", err)
	}
	if p != "/usr/bin/nginx" {
		t.Errorf("path = %q", p)
	}
}

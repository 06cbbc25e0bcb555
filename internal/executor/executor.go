package executor

import (
	"os"
	"os/exec"
)

// CommandExecutor is an interface for executing system commands
type CommandExecutor interface {
	// Execute runs a command and returns its combined output
	Execute(name string, args ...string) ([]byte, error)

	// ExecuteAttached runs a command with stdout/stderr attached to the
	// terminal, for long-running installs where streaming output matters
	ExecuteAttached(name string, args ...string) error

	// LookPath searches for an executable in the directories named by the PATH
	LookPath(file string) (string, error)
}

// SystemExecutor implements CommandExecutor using os/exec
type SystemExecutor struct{}

// NewSystemExecutor creates a new SystemExecutor
func NewSystemExecutor() *SystemExecutor {
	return &SystemExecutor{}
}

// Execute runs a command and returns combined output
func (e *SystemExecutor) Execute(name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	return cmd.CombinedOutput()
}

// ExecuteAttached runs a command with output streamed to the terminal
func (e *SystemExecutor) ExecuteAttached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// LookPath searches for an executable
func (e *SystemExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// MockExecutor is a mock implementation for testing
type MockExecutor struct {
	ExecuteFunc  func(name string, args ...string) ([]byte, error)
	AttachedFunc func(name string, args ...string) error
	LookPathFunc func(file string) (string, error)
	Calls        []CommandCall
}

// CommandCall records a command execution for verification
type CommandCall struct {
	Name string
	Args []string
}

// Execute calls the mock function
func (m *MockExecutor) Execute(name string, args ...string) ([]byte, error) {
	m.Calls = append(m.Calls, CommandCall{Name: name, Args: args})
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(name, args...)
	}
	return []byte(""), nil
}

// ExecuteAttached calls the mock function
func (m *MockExecutor) ExecuteAttached(name string, args ...string) error {
	m.Calls = append(m.Calls, CommandCall{Name: name, Args: args})
	if m.AttachedFunc != nil {
		return m.AttachedFunc(name, args...)
	}
	return nil
}

// LookPath calls the mock function
func (m *MockExecutor) LookPath(file string) (string, error) {
	if m.LookPathFunc != nil {
		return m.LookPathFunc(file)
	}
	return "/usr/bin/" + file, nil
}

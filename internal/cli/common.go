package cli

import (
	"fmt"

	"github.com/ksyq12/proxyup/internal/config"
	"github.com/ksyq12/proxyup/internal/input"
	"github.com/ksyq12/proxyup/internal/output"
	"github.com/ksyq12/proxyup/internal/platform"
)

// Stack bundles the loaded config and the external-tool handles every
// command operates on.
type Stack struct {
	Cfg     *config.Config
	Env     *platform.Environment
	Nginx   NginxManager
	Certbot CertClient
}

// loadStack loads the app config, probes the environment, and wires the
// nginx and certbot handles.
func loadStack() (*Stack, error) {
	cfg, err := deps.ConfigLoader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	env, err := deps.EnvDetector.Detect(deps.Executor)
	if err != nil {
		return nil, err
	}

	return &Stack{
		Cfg:     cfg,
		Env:     env,
		Nginx:   deps.NewNginx(env, deps.Executor),
		Certbot: deps.NewCertbot(deps.Executor),
	}, nil
}

// requireRoot checks for root privileges before system mutations.
func requireRoot() error {
	return deps.RootChecker.RequireRoot()
}

// prompter returns a Prompter over the injected stdin reader.
func prompter() *input.Prompter {
	return input.NewPrompter(deps.StdinReader)
}

// testAndApply validates the nginx configuration and applies it via the
// reload-or-start primitive. If rollback is provided it is called before
// returning any failure, so a bad mutation never stays active.
func testAndApply(ngx NginxManager, rollback func() error) error {
	output.Info("Testing nginx configuration...")
	if err := ngx.Test(); err != nil {
		runRollback(rollback)
		return err
	}

	output.Info("Applying nginx configuration...")
	if err := ngx.Apply(); err != nil {
		runRollback(rollback)
		return err
	}
	return nil
}

func runRollback(rollback func() error) {
	if rollback == nil {
		return
	}
	output.Info("Rolling back changes...")
	if err := rollback(); err != nil {
		output.Warn("Rollback failed, manual intervention needed: %v", err)
	}
}

// saveConfig saves the app config
func saveConfig(cfg *config.Config) error {
	if err := deps.ConfigLoader.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// outputResult handles JSON or human-readable output
func outputResult(data interface{}, successMsg string, args ...interface{}) error {
	if jsonOutput {
		return output.JSON(data)
	}
	output.Success(successMsg, args...)
	return nil
}

// CommandResult represents a common result structure for CLI commands
type CommandResult struct {
	Success bool   `json:"success"`
	Domain  string `json:"domain"`
	Action  string `json:"action,omitempty"`
	Message string `json:"message,omitempty"`
}

// newSuccessResult creates a success result
func newSuccessResult(domain, action string) CommandResult {
	return CommandResult{
		Success: true,
		Domain:  domain,
		Action:  action,
	}
}

// Package installer ensures the external tools this orchestrator drives
// (nginx, certbot) are present, installing them through the detected
// package manager when missing.
package installer

import (
	"fmt"

	"github.com/ksyq12/proxyup/internal/errors"
	"github.com/ksyq12/proxyup/internal/executor"
	"github.com/ksyq12/proxyup/internal/output"
	"github.com/ksyq12/proxyup/internal/platform"
)

// packages maps a tool binary to the packages providing it, per OS family.
var packages = map[platform.Family]map[string][]string{
	platform.FamilyDebian: {
		"nginx":   {"nginx"},
		"certbot": {"certbot"},
	},
	platform.FamilyRHEL: {
		"nginx":   {"nginx"},
		"certbot": {"certbot"},
	},
}

// Installer installs missing dependencies.
type Installer struct {
	env  *platform.Environment
	exec executor.CommandExecutor

	refreshed bool // package index already refreshed this run
}

// New creates an Installer for the detected environment.
func New(env *platform.Environment, exec executor.CommandExecutor) *Installer {
	return &Installer{env: env, exec: exec}
}

// EnsureInstalled checks each tool on PATH and installs the missing ones.
// Install failure is fatal to setup, per the environment error contract.
func (i *Installer) EnsureInstalled(tools ...string) error {
	for _, tool := range tools {
		if _, err := i.exec.LookPath(tool); err == nil {
			continue
		}

		pkgs, ok := packages[i.env.Family][tool]
		if !ok {
			return errors.Wrap(errors.ErrCodeEnvironment,
				fmt.Sprintf("no package mapping for %s on %s", tool, i.env.Family), nil)
		}

		output.Info("Installing %s via %s...", tool, i.env.PackageManager)
		if err := i.install(pkgs); err != nil {
			return errors.Wrap(errors.ErrCodeEnvironment,
				fmt.Sprintf("failed to install %s", tool), err)
		}

		if _, err := i.exec.LookPath(tool); err != nil {
			return errors.Wrap(errors.ErrCodeEnvironment,
				fmt.Sprintf("%s still missing after install", tool), err)
		}
		output.Success("%s installed", tool)
	}
	return nil
}

// install runs the package manager for the given packages, refreshing the
// package index once per run on apt systems.
func (i *Installer) install(pkgs []string) error {
	if i.env.PackageManager == "apt-get" && !i.refreshed {
		if err := i.exec.ExecuteAttached("apt-get", "update"); err != nil {
			return fmt.Errorf("apt-get update failed: %w", err)
		}
		i.refreshed = true
	}

	args := append([]string{"install", "-y"}, pkgs...)
	return i.exec.ExecuteAttached(i.env.PackageManager, args...)
}

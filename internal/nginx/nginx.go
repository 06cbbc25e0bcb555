// Package nginx drives the nginx web server through its command-line and
// file-based interfaces: config file placement under the OS-family
// convention, enable/disable activation artifacts, syntax testing, and the
// reload-or-start apply primitive shared by every mutating operation.
package nginx

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/ksyq12/proxyup/internal/errors"
	"github.com/ksyq12/proxyup/internal/executor"
	"github.com/ksyq12/proxyup/internal/platform"
)

// Layout describes a config directory convention.
//
// Debian keeps sites-available plus sites-enabled symlinks; RHEL keeps a
// single conf.d directory where a ".disabled" suffix is the inactive state.
type Layout struct {
	Available  string // directory holding all config files
	Enabled    string // directory holding activation artifacts (same as Available on RHEL)
	ConfSuffix bool   // file names carry a .conf extension (RHEL convention)
}

// DebianLayout is the sites-available/sites-enabled convention.
var DebianLayout = Layout{
	Available: "/etc/nginx/sites-available",
	Enabled:   "/etc/nginx/sites-enabled",
}

// RHELLayout is the conf.d convention.
var RHELLayout = Layout{
	Available:  "/etc/nginx/conf.d",
	Enabled:    "/etc/nginx/conf.d",
	ConfSuffix: true,
}

const disabledSuffix = ".disabled"

// Manager controls one nginx installation.
type Manager struct {
	layout Layout
	svcMgr string // systemctl or service
	exec   executor.CommandExecutor

	// listen is the port probe, replaceable in tests.
	listen func(network, address string) (net.Listener, error)
}

// New creates a Manager for the detected environment.
func New(env *platform.Environment, exec executor.CommandExecutor) *Manager {
	layout := DebianLayout
	if env.Family == platform.FamilyRHEL {
		layout = RHELLayout
	}
	return NewWithLayout(layout, env.ServiceManager, exec)
}

// NewWithLayout creates a Manager with an explicit layout, for tests.
func NewWithLayout(layout Layout, svcMgr string, exec executor.CommandExecutor) *Manager {
	return &Manager{
		layout: layout,
		svcMgr: svcMgr,
		exec:   exec,
		listen: net.Listen,
	}
}

// Layout returns the manager's directory convention.
func (m *Manager) Layout() Layout {
	return m.layout
}

// IsInstalled reports whether the nginx binary is on PATH.
func (m *Manager) IsInstalled() bool {
	_, err := m.exec.LookPath("nginx")
	return err == nil
}

// fileName maps a domain to its config file name under the layout.
func (m *Manager) fileName(domain string) string {
	if m.layout.ConfSuffix {
		return domain + ".conf"
	}
	return domain
}

// AvailablePath returns the path of the domain's config file in the
// available location.
func (m *Manager) AvailablePath(domain string) string {
	return filepath.Join(m.layout.Available, m.fileName(domain))
}

// EnabledPath returns the path of the domain's activation artifact.
func (m *Manager) EnabledPath(domain string) string {
	return filepath.Join(m.layout.Enabled, m.fileName(domain))
}

// disabledPath is the inactive name under the RHEL single-directory layout.
func (m *Manager) disabledPath(domain string) string {
	return filepath.Join(m.layout.Available, m.fileName(domain)+disabledSuffix)
}

// ConfigPath returns the path of the file holding the domain's config
// content, whether active or not. Returns ErrProxyNotFound when neither
// variant exists.
func (m *Manager) ConfigPath(domain string) (string, error) {
	if m.layout.ConfSuffix {
		for _, p := range []string{m.EnabledPath(domain), m.disabledPath(domain)} {
			if _, err := os.Stat(p); err == nil {
				return p, nil
			}
		}
		return "", errors.NotFound(domain)
	}

	p := m.AvailablePath(domain)
	if _, err := os.Stat(p); err != nil {
		return "", errors.NotFound(domain)
	}
	return p, nil
}

// WriteConfig writes the config content for domain to the available
// location, creating directories as needed.
func (m *Manager) WriteConfig(domain, content string) error {
	if err := os.MkdirAll(m.layout.Available, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if !m.layout.ConfSuffix {
		if err := os.MkdirAll(m.layout.Enabled, 0755); err != nil {
			return fmt.Errorf("failed to create enabled directory: %w", err)
		}
	}

	// Under the single-directory layout a freshly written file is live as
	// soon as nginx reloads; write to the disabled name so that Enable
	// remains the one activation step on both layouts.
	path := m.AvailablePath(domain)
	if m.layout.ConfSuffix {
		path = m.disabledPath(domain)
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Enable activates the domain's config: a symlink on the Debian layout, a
// rename away from the .disabled suffix on RHEL.
func (m *Manager) Enable(domain string) error {
	if m.layout.ConfSuffix {
		active := m.EnabledPath(domain)
		if _, err := os.Stat(active); err == nil {
			return errors.WrapDomain(errors.ErrCodeAlreadyExists, domain, "already enabled", errors.ErrProxyExists)
		}
		if err := os.Rename(m.disabledPath(domain), active); err != nil {
			if os.IsNotExist(err) {
				return errors.NotFound(domain)
			}
			return fmt.Errorf("failed to enable proxy: %w", err)
		}
		return nil
	}

	source := m.AvailablePath(domain)
	target := m.EnabledPath(domain)

	if _, err := os.Stat(source); os.IsNotExist(err) {
		return errors.NotFound(domain)
	}
	if _, err := os.Lstat(target); err == nil {
		return errors.WrapDomain(errors.ErrCodeAlreadyExists, domain, "already enabled", errors.ErrProxyExists)
	}
	if err := os.Symlink(source, target); err != nil {
		return fmt.Errorf("failed to enable proxy: %w", err)
	}
	return nil
}

// Disable deactivates the domain's config, reversing Enable.
func (m *Manager) Disable(domain string) error {
	if m.layout.ConfSuffix {
		active := m.EnabledPath(domain)
		if _, err := os.Stat(active); os.IsNotExist(err) {
			return errors.WrapDomain(errors.ErrCodeNotFound, domain, "not enabled", errors.ErrProxyNotFound)
		}
		if err := os.Rename(active, m.disabledPath(domain)); err != nil {
			return fmt.Errorf("failed to disable proxy: %w", err)
		}
		return nil
	}

	target := m.EnabledPath(domain)
	info, err := os.Lstat(target)
	if os.IsNotExist(err) {
		return errors.WrapDomain(errors.ErrCodeNotFound, domain, "not enabled", errors.ErrProxyNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check proxy status: %w", err)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return fmt.Errorf("proxy %s is not a symlink, refusing to remove", domain)
	}
	if err := os.Remove(target); err != nil {
		return fmt.Errorf("failed to disable proxy: %w", err)
	}
	return nil
}

// IsEnabled reports whether the domain's activation artifact exists.
func (m *Manager) IsEnabled(domain string) (bool, error) {
	if m.layout.ConfSuffix {
		_, err := os.Stat(m.EnabledPath(domain))
		if os.IsNotExist(err) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("failed to check proxy status: %w", err)
		}
		return true, nil
	}

	_, err := os.Lstat(m.EnabledPath(domain))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check proxy status: %w", err)
	}
	return true, nil
}

// Remove deletes the domain's config from both the active and available
// locations, disabling it first where applicable.
func (m *Manager) Remove(domain string) error {
	if enabled, _ := m.IsEnabled(domain); enabled {
		if err := m.Disable(domain); err != nil {
			return err
		}
	}

	path := m.AvailablePath(domain)
	if m.layout.ConfSuffix {
		path = m.disabledPath(domain)
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return errors.NotFound(domain)
		}
		return fmt.Errorf("failed to remove config file: %w", err)
	}
	return nil
}

// Test validates the nginx config syntax, surfacing captured output.
func (m *Manager) Test() error {
	out, err := m.exec.Execute("nginx", "-t")
	if err != nil {
		return errors.Wrap(errors.ErrCodeNginx, fmt.Sprintf("nginx config test failed: %s", strings.TrimSpace(string(out))), err)
	}
	return nil
}

// Reload reloads nginx, falling back to nginx -s reload when the service
// manager refuses.
func (m *Manager) Reload() error {
	out, err := m.serviceCmd("reload")
	if err != nil {
		out, err = m.exec.Execute("nginx", "-s", "reload")
		if err != nil {
			return errors.Wrap(errors.ErrCodeNginx, fmt.Sprintf("failed to reload nginx: %s", strings.TrimSpace(string(out))), err)
		}
	}
	return nil
}

// Start starts the nginx service.
func (m *Manager) Start() error {
	out, err := m.serviceCmd("start")
	if err != nil {
		return errors.Wrap(errors.ErrCodeNginx, fmt.Sprintf("failed to start nginx: %s", strings.TrimSpace(string(out))), err)
	}
	return nil
}

// IsActive reports whether the nginx service is running.
func (m *Manager) IsActive() bool {
	if m.svcMgr == "systemctl" {
		out, err := m.exec.Execute("systemctl", "is-active", "nginx")
		return err == nil && strings.TrimSpace(string(out)) == "active"
	}
	out, err := m.exec.Execute("service", "nginx", "status")
	if err != nil {
		return false
	}
	s := string(out)
	return strings.Contains(s, "running") || strings.Contains(s, "active")
}

// serviceCmd runs a service-manager action against nginx.
func (m *Manager) serviceCmd(action string) ([]byte, error) {
	if m.svcMgr == "systemctl" {
		return m.exec.Execute("systemctl", action, "nginx")
	}
	return m.exec.Execute("service", "nginx", action)
}

// PortFree reports whether the TCP port can be bound locally.
func (m *Manager) PortFree(port int) bool {
	ln, err := m.listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return false
	}
	_ = ln.Close()
	return true
}

// Apply is the config-apply primitive shared by all mutating operations:
// reload when nginx is already running, otherwise start it after verifying
// port 80 is unoccupied, then confirm the service reports itself active.
// Invoking Apply twice with no intervening change yields the same result.
func (m *Manager) Apply() error {
	if m.IsActive() {
		return m.Reload()
	}

	if !m.PortFree(80) {
		return errors.Wrap(errors.ErrCodeNginx, "port 80 is occupied by another process, cannot start nginx", nil)
	}
	if err := m.Start(); err != nil {
		return err
	}
	if !m.IsActive() {
		return errors.Wrap(errors.ErrCodeNginx, "nginx started but does not report active", nil)
	}
	return nil
}

package cli

import (
	"github.com/ksyq12/proxyup/internal/certbot"
	"github.com/ksyq12/proxyup/internal/config"
	"github.com/ksyq12/proxyup/internal/executor"
	"github.com/ksyq12/proxyup/internal/input"
	"github.com/ksyq12/proxyup/internal/installer"
	"github.com/ksyq12/proxyup/internal/netcheck"
	"github.com/ksyq12/proxyup/internal/nginx"
	"github.com/ksyq12/proxyup/internal/platform"
)

// NginxManager is the nginx control surface the commands operate through.
// *nginx.Manager is the real implementation.
type NginxManager interface {
	IsInstalled() bool
	Test() error
	Reload() error
	Start() error
	IsActive() bool
	Apply() error
	PortFree(port int) bool
	WriteConfig(domain, content string) error
	Enable(domain string) error
	Disable(domain string) error
	IsEnabled(domain string) (bool, error)
	Remove(domain string) error
	ConfigPath(domain string) (string, error)
	Discover() ([]*config.Proxy, error)
	Inspect(domain string) (*config.Proxy, error)
}

// CertClient is the certificate client surface. *certbot.Client is the
// real implementation.
type CertClient interface {
	IsInstalled() bool
	Issue(domains []string, email string, opts certbot.IssueOptions) (*certbot.Cert, error)
	Renew(domain string, dryRun bool) error
	Revoke(domain string) error
	Delete(domain string) error
	EnsureRenewalHooks(domain string) (bool, error)
	CertPaths(domain string) *certbot.Cert
	List() ([]string, error)
}

// NetChecker performs the DNS cross-check. *netcheck.Checker is the real
// implementation.
type NetChecker interface {
	PublicIP() (string, error)
	Check(domain, publicIP string) (*netcheck.Result, error)
}

// DepInstaller installs missing external tools.
type DepInstaller interface {
	EnsureInstalled(tools ...string) error
}

// ConfigLoader handles configuration loading and saving
type ConfigLoader interface {
	Load() (*config.Config, error)
	Save(cfg *config.Config) error
}

// EnvDetector probes the host environment
type EnvDetector interface {
	Detect(exec executor.CommandExecutor) (*platform.Environment, error)
}

// RootChecker checks root privileges
type RootChecker interface {
	RequireRoot() error
}

// Dependencies aggregates all CLI external dependencies for testability
type Dependencies struct {
	ConfigLoader ConfigLoader
	EnvDetector  EnvDetector
	RootChecker  RootChecker
	StdinReader  input.Reader
	Executor     executor.CommandExecutor
	NewNginx     func(env *platform.Environment, exec executor.CommandExecutor) NginxManager
	NewCertbot   func(exec executor.CommandExecutor) CertClient
	NewChecker   func() NetChecker
	NewInstaller func(env *platform.Environment, exec executor.CommandExecutor) DepInstaller
}

// Package-level dependencies (can be overridden for testing)
var deps = defaultDeps()

func defaultDeps() *Dependencies {
	return &Dependencies{
		ConfigLoader: &realConfigLoader{},
		EnvDetector:  &realEnvDetector{},
		RootChecker:  &realRootChecker{},
		StdinReader:  input.NewStdinReader(),
		Executor:     executor.NewSystemExecutor(),
		NewNginx: func(env *platform.Environment, exec executor.CommandExecutor) NginxManager {
			return nginx.New(env, exec)
		},
		NewCertbot: func(exec executor.CommandExecutor) CertClient {
			return certbot.New(exec)
		},
		NewChecker: func() NetChecker {
			return netcheck.New()
		},
		NewInstaller: func(env *platform.Environment, exec executor.CommandExecutor) DepInstaller {
			return installer.New(env, exec)
		},
	}
}

// SetDeps replaces the package dependencies (for testing)
func SetDeps(d *Dependencies) {
	deps = d
}

// GetDeps returns the current dependencies (for testing)
func GetDeps() *Dependencies {
	return deps
}

// Real implementations that delegate to the concrete packages

type realConfigLoader struct{}

func (r *realConfigLoader) Load() (*config.Config, error) {
	return config.Load()
}

func (r *realConfigLoader) Save(cfg *config.Config) error {
	return cfg.Save()
}

type realEnvDetector struct{}

func (r *realEnvDetector) Detect(exec executor.CommandExecutor) (*platform.Environment, error) {
	return platform.Detect(exec)
}

type realRootChecker struct{}

func (r *realRootChecker) RequireRoot() error {
	return platform.RequireRoot()
}

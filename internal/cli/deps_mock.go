package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/ksyq12/proxyup/internal/certbot"
	"github.com/ksyq12/proxyup/internal/config"
	"github.com/ksyq12/proxyup/internal/executor"
	"github.com/ksyq12/proxyup/internal/netcheck"
	"github.com/ksyq12/proxyup/internal/platform"
	perrors "github.com/ksyq12/proxyup/internal/errors"
)

// MockConfigLoader is a test double for ConfigLoader
type MockConfigLoader struct {
	Cfg       *config.Config
	LoadErr   error
	SaveErr   error
	SaveCalls int
}

func (m *MockConfigLoader) Load() (*config.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.Cfg == nil {
		m.Cfg = config.New()
	}
	return m.Cfg, nil
}

func (m *MockConfigLoader) Save(cfg *config.Config) error {
	m.SaveCalls++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Cfg = cfg
	return nil
}

// MockEnvDetector is a test double for EnvDetector
type MockEnvDetector struct {
	Env *platform.Environment
	Err error
}

func (m *MockEnvDetector) Detect(exec executor.CommandExecutor) (*platform.Environment, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Env != nil {
		return m.Env, nil
	}
	return &platform.Environment{
		Family:         platform.FamilyDebian,
		PackageManager: "apt-get",
		ServiceManager: "systemctl",
		OSName:         "Mock Linux",
	}, nil
}

// MockRootChecker is a test double for RootChecker
type MockRootChecker struct {
	IsRoot bool
	Calls  int
}

func (m *MockRootChecker) RequireRoot() error {
	m.Calls++
	if !m.IsRoot {
		return perrors.ErrRootRequired
	}
	return nil
}

// MockStdinReader is a test double for the stdin reader
type MockStdinReader struct {
	Input string
	pos   int
}

func (m *MockStdinReader) ReadString(delim byte) (string, error) {
	if m.pos >= len(m.Input) {
		return "", errors.New("EOF")
	}
	idx := strings.IndexByte(m.Input[m.pos:], delim)
	if idx == -1 {
		result := m.Input[m.pos:]
		m.pos = len(m.Input)
		return result, nil
	}
	result := m.Input[m.pos : m.pos+idx+1]
	m.pos += idx + 1
	return result, nil
}

// MockNginx is a test double for NginxManager. State lives in simple maps;
// set the Func fields to force errors. When Dir is set, configs are also
// written to real files there, so flows that edit the file on disk work.
type MockNginx struct {
	Installed bool
	Active    bool
	Port80Use bool
	Dir       string

	// Configs maps domain -> config content; Enabled maps domain -> state
	Configs map[string]string
	Enabled map[string]bool

	TestFunc   func() error
	ReloadFunc func() error
	StartFunc  func() error

	TestCalls   int
	ReloadCalls int
	StartCalls  int
	ApplyCalls  int

	WriteCalls   []string
	EnableCalls  []string
	DisableCalls []string
	RemoveCalls  []string
}

// NewMockNginx creates a MockNginx in a healthy default state.
func NewMockNginx() *MockNginx {
	return &MockNginx{
		Installed: true,
		Active:    true,
		Configs:   make(map[string]string),
		Enabled:   make(map[string]bool),
	}
}

func (m *MockNginx) IsInstalled() bool { return m.Installed }
func (m *MockNginx) IsActive() bool    { return m.Active }

func (m *MockNginx) PortFree(port int) bool { return !m.Port80Use }

func (m *MockNginx) Test() error {
	m.TestCalls++
	if m.TestFunc != nil {
		return m.TestFunc()
	}
	return nil
}

func (m *MockNginx) Reload() error {
	m.ReloadCalls++
	if m.ReloadFunc != nil {
		return m.ReloadFunc()
	}
	return nil
}

func (m *MockNginx) Start() error {
	m.StartCalls++
	if m.StartFunc != nil {
		return m.StartFunc()
	}
	m.Active = true
	return nil
}

func (m *MockNginx) Apply() error {
	m.ApplyCalls++
	if m.Active {
		return m.Reload()
	}
	if m.Port80Use {
		return errors.New("port 80 occupied")
	}
	return m.Start()
}

func (m *MockNginx) WriteConfig(domain, content string) error {
	m.WriteCalls = append(m.WriteCalls, domain)
	m.Configs[domain] = content
	if m.Dir != "" {
		return os.WriteFile(filepath.Join(m.Dir, domain), []byte(content), 0644)
	}
	return nil
}

func (m *MockNginx) Enable(domain string) error {
	m.EnableCalls = append(m.EnableCalls, domain)
	if _, ok := m.Configs[domain]; !ok {
		return perrors.NotFound(domain)
	}
	m.Enabled[domain] = true
	return nil
}

func (m *MockNginx) Disable(domain string) error {
	m.DisableCalls = append(m.DisableCalls, domain)
	if !m.Enabled[domain] {
		return perrors.WrapDomain(perrors.ErrCodeNotFound, domain, "not enabled", perrors.ErrProxyNotFound)
	}
	m.Enabled[domain] = false
	return nil
}

func (m *MockNginx) IsEnabled(domain string) (bool, error) {
	return m.Enabled[domain], nil
}

func (m *MockNginx) Remove(domain string) error {
	m.RemoveCalls = append(m.RemoveCalls, domain)
	if _, ok := m.Configs[domain]; !ok {
		return perrors.NotFound(domain)
	}
	delete(m.Configs, domain)
	delete(m.Enabled, domain)
	if m.Dir != "" {
		_ = os.Remove(filepath.Join(m.Dir, domain))
	}
	return nil
}

func (m *MockNginx) ConfigPath(domain string) (string, error) {
	if _, ok := m.Configs[domain]; !ok {
		return "", perrors.NotFound(domain)
	}
	if m.Dir != "" {
		return filepath.Join(m.Dir, domain), nil
	}
	return "/etc/nginx/sites-available/" + domain, nil
}

func (m *MockNginx) Inspect(domain string) (*config.Proxy, error) {
	content, ok := m.Configs[domain]
	if !ok {
		return nil, perrors.NotFound(domain)
	}
	if m.Dir != "" {
		data, err := os.ReadFile(filepath.Join(m.Dir, domain))
		if err == nil {
			content = string(data)
		}
	}
	return &config.Proxy{
		Domains: []string{domain},
		SSL:     strings.Contains(content, "ssl_certificate"),
		HSTS:    strings.Contains(content, "Strict-Transport-Security"),
		Enabled: m.Enabled[domain],
	}, nil
}

func (m *MockNginx) Discover() ([]*config.Proxy, error) {
	var proxies []*config.Proxy
	for domain := range m.Configs {
		p, _ := m.Inspect(domain)
		proxies = append(proxies, p)
	}
	return proxies, nil
}

// MockCert is a test double for CertClient
type MockCert struct {
	Installed bool

	IssueErr  error
	RenewErr  error
	RevokeErr error
	DeleteErr error

	IssueCalls  []certbot.IssueOptions
	RenewCalls  []string
	RevokeCalls []string
	DeleteCalls []string
	HookCalls   []string
	Certs       []string
}

// NewMockCert creates a MockCert with certbot "installed".
func NewMockCert() *MockCert {
	return &MockCert{Installed: true}
}

func (m *MockCert) IsInstalled() bool { return m.Installed }

func (m *MockCert) Issue(domains []string, email string, opts certbot.IssueOptions) (*certbot.Cert, error) {
	m.IssueCalls = append(m.IssueCalls, opts)
	if m.IssueErr != nil {
		return nil, m.IssueErr
	}
	if opts.DryRun {
		return nil, nil
	}
	return m.CertPaths(domains[0]), nil
}

func (m *MockCert) Renew(domain string, dryRun bool) error {
	m.RenewCalls = append(m.RenewCalls, domain)
	return m.RenewErr
}

func (m *MockCert) Revoke(domain string) error {
	m.RevokeCalls = append(m.RevokeCalls, domain)
	return m.RevokeErr
}

func (m *MockCert) Delete(domain string) error {
	m.DeleteCalls = append(m.DeleteCalls, domain)
	return m.DeleteErr
}

func (m *MockCert) EnsureRenewalHooks(domain string) (bool, error) {
	m.HookCalls = append(m.HookCalls, domain)
	return true, nil
}

func (m *MockCert) CertPaths(domain string) *certbot.Cert {
	return &certbot.Cert{
		Domain:   domain,
		CertPath: "/etc/letsencrypt/live/" + domain + "/fullchain.pem",
		KeyPath:  "/etc/letsencrypt/live/" + domain + "/privkey.pem",
	}
}

func (m *MockCert) List() ([]string, error) {
	return m.Certs, nil
}

// MockChecker is a test double for NetChecker
type MockChecker struct {
	IP       string
	IPErr    error
	Resolved map[string][]string
}

func (m *MockChecker) PublicIP() (string, error) {
	if m.IPErr != nil {
		return "", m.IPErr
	}
	return m.IP, nil
}

func (m *MockChecker) Check(domain, publicIP string) (*netcheck.Result, error) {
	ips := m.Resolved[domain]
	if len(ips) == 0 {
		return nil, errors.New("no A records")
	}
	res := &netcheck.Result{Domain: domain, PublicIP: publicIP, ResolvedIPs: ips}
	for _, ip := range ips {
		if ip == publicIP {
			res.Match = true
		}
	}
	return res, nil
}

// MockInstaller is a test double for DepInstaller
type MockInstaller struct {
	Err   error
	Calls [][]string
}

func (m *MockInstaller) EnsureInstalled(tools ...string) error {
	m.Calls = append(m.Calls, tools)
	return m.Err
}

// MockDependenciesBuilder helps create mock dependencies for tests
type MockDependenciesBuilder struct {
	deps  *Dependencies
	nginx *MockNginx
	cert  *MockCert
}

// NewMockDeps creates a new MockDependenciesBuilder with sensible defaults
func NewMockDeps() *MockDependenciesBuilder {
	b := &MockDependenciesBuilder{
		nginx: NewMockNginx(),
		cert:  NewMockCert(),
	}
	b.deps = &Dependencies{
		ConfigLoader: &MockConfigLoader{Cfg: config.New()},
		EnvDetector:  &MockEnvDetector{},
		RootChecker:  &MockRootChecker{IsRoot: true},
		StdinReader:  &MockStdinReader{Input: "y\n"},
		Executor:     &executor.MockExecutor{},
		NewNginx: func(env *platform.Environment, exec executor.CommandExecutor) NginxManager {
			return b.nginx
		},
		NewCertbot: func(exec executor.CommandExecutor) CertClient {
			return b.cert
		},
		NewChecker: func() NetChecker {
			return &MockChecker{IP: "203.0.113.7"}
		},
		NewInstaller: func(env *platform.Environment, exec executor.CommandExecutor) DepInstaller {
			return &MockInstaller{}
		},
	}
	return b
}

// WithConfig sets the config for the mock
func (b *MockDependenciesBuilder) WithConfig(cfg *config.Config) *MockDependenciesBuilder {
	b.deps.ConfigLoader = &MockConfigLoader{Cfg: cfg}
	return b
}

// WithNginx sets the nginx manager for the mock
func (b *MockDependenciesBuilder) WithNginx(m *MockNginx) *MockDependenciesBuilder {
	b.nginx = m
	return b
}

// WithCertbot sets the cert client for the mock
func (b *MockDependenciesBuilder) WithCertbot(m *MockCert) *MockDependenciesBuilder {
	b.cert = m
	return b
}

// WithRootAccess sets whether root access is available
func (b *MockDependenciesBuilder) WithRootAccess(isRoot bool) *MockDependenciesBuilder {
	b.deps.RootChecker = &MockRootChecker{IsRoot: isRoot}
	return b
}

// WithStdinInput sets the stdin input for the mock
func (b *MockDependenciesBuilder) WithStdinInput(input string) *MockDependenciesBuilder {
	b.deps.StdinReader = &MockStdinReader{Input: input}
	return b
}

// WithChecker sets the DNS checker for the mock
func (b *MockDependenciesBuilder) WithChecker(c NetChecker) *MockDependenciesBuilder {
	b.deps.NewChecker = func() NetChecker { return c }
	return b
}

// Build returns the configured Dependencies
func (b *MockDependenciesBuilder) Build() *Dependencies {
	return b.deps
}

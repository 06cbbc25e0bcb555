package nginx

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/ksyq12/proxyup/internal/config"
	"github.com/ksyq12/proxyup/internal/template"
)

var (
	proxyPassRe  = regexp.MustCompile(`(?m)^\s*proxy_pass\s+(\S+?);`)
	serverNameRe = regexp.MustCompile(`(?m)^\s*server_name\s+([^;]+);`)
	sslCertRe    = regexp.MustCompile(`(?m)^\s*ssl_certificate\s`)
	hstsRe       = regexp.MustCompile(`(?m)^\s*add_header\s+Strict-Transport-Security\b`)
)

// Discover scans the config directories for files carrying the marker
// comment and returns the managed proxies, deduplicating enabled and
// disabled variants of the same domain. A file without the marker is not
// ours and is never listed or touched.
func (m *Manager) Discover() ([]*config.Proxy, error) {
	seen := make(map[string]*config.Proxy)

	dirs := []string{m.layout.Available}
	if m.layout.Enabled != m.layout.Available {
		dirs = append(dirs, m.layout.Enabled)
	}

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read %s: %w", dir, err)
		}

		for _, entry := range entries {
			if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
				continue
			}

			domain := m.domainFromFileName(entry.Name())
			if domain == "" {
				continue
			}
			if _, ok := seen[domain]; ok {
				continue
			}

			path := filepath.Join(dir, entry.Name())
			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			if !strings.HasPrefix(string(data), template.Marker) {
				continue
			}

			proxy := parseConfig(domain, string(data))
			proxy.Enabled, _ = m.IsEnabled(domain)
			seen[domain] = proxy
		}
	}

	proxies := make([]*config.Proxy, 0, len(seen))
	for _, p := range seen {
		proxies = append(proxies, p)
	}
	sort.Slice(proxies, func(i, j int) bool {
		return proxies[i].Primary() < proxies[j].Primary()
	})
	return proxies, nil
}

// Inspect loads and parses the managed config for one domain.
func (m *Manager) Inspect(domain string) (*config.Proxy, error) {
	path, err := m.ConfigPath(domain)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if !strings.HasPrefix(string(data), template.Marker) {
		return nil, fmt.Errorf("config for %s is not managed by this tool", domain)
	}

	proxy := parseConfig(domain, string(data))
	proxy.Enabled, _ = m.IsEnabled(domain)
	return proxy, nil
}

// domainFromFileName derives the domain identifier from a config file name.
// Returns "" for names that cannot belong to this layout.
func (m *Manager) domainFromFileName(name string) string {
	if !m.layout.ConfSuffix {
		return name
	}
	name = strings.TrimSuffix(name, disabledSuffix)
	if !strings.HasSuffix(name, ".conf") {
		return ""
	}
	return strings.TrimSuffix(name, ".conf")
}

// parseConfig extracts the domain list, target, and TLS/HSTS state from
// generated config content.
func parseConfig(domain, content string) *config.Proxy {
	proxy := &config.Proxy{
		Domains: []string{domain},
		SSL:     sslCertRe.MatchString(content),
		HSTS:    hstsRe.MatchString(content),
	}

	if match := serverNameRe.FindStringSubmatch(content); match != nil {
		names := strings.Fields(match[1])
		if len(names) > 0 {
			proxy.Domains = names
		}
	}
	if match := proxyPassRe.FindStringSubmatch(content); match != nil {
		proxy.Target = match[1]
	}
	return proxy
}

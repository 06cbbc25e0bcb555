package template

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/ksyq12/proxyup/internal/config"
)

// Marker is the comment on the first line of every generated config file.
// Discovery keys on it to tell tool-managed files from hand-written ones.
const Marker = "# Auto-generated by proxyup"

// DefaultWebRoot serves ACME HTTP-01 challenges during issuance.
const DefaultWebRoot = "/var/www/html"

// Stage selects which template to render.
type Stage string

const (
	// StageHTTP is the plain reverse-proxy block used before a certificate
	// exists. It also answers ACME challenge paths.
	StageHTTP Stage = "http"

	// StageTLS is the redirect-plus-https pair used once a certificate
	// has been issued.
	StageTLS Stage = "tls"
)

// templateData is the rendering context for both stages.
type templateData struct {
	Marker  string
	Domains []string
	Primary string
	Target  string
	WebRoot string
	HSTS    bool
	CacheID string
}

// Render renders the nginx config for proxy at the given stage.
func Render(stage Stage, proxy *config.Proxy) (string, error) {
	if len(proxy.Domains) == 0 {
		return "", fmt.Errorf("proxy has no domains")
	}

	content, err := nginxTemplates.ReadFile(fmt.Sprintf("nginx/%s.tmpl", stage))
	if err != nil {
		return "", fmt.Errorf("template not found: %s", stage)
	}

	funcMap := template.FuncMap{
		"join": strings.Join,
	}

	tmpl, err := template.New(string(stage)).Funcs(funcMap).Parse(string(content))
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	data := templateData{
		Marker:  Marker,
		Domains: proxy.Domains,
		Primary: proxy.Primary(),
		Target:  proxy.Target,
		WebRoot: DefaultWebRoot,
		HSTS:    proxy.HSTS,
		CacheID: CacheID(proxy.Primary()),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}

	return buf.String(), nil
}

// CacheID derives the ssl_session_cache zone name from the primary domain.
// The name must be unique per site to avoid cross-site session reuse, and
// nginx zone names cannot contain dots or hyphens.
func CacheID(domain string) string {
	sanitized := strings.NewReplacer(".", "_", "-", "_").Replace(domain)
	return "SSL_" + sanitized
}

// Package certbot orchestrates the external certificate client. It only
// triggers issuance, renewal, revocation, and deletion; key material and
// renewal records stay owned by certbot itself.
package certbot

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ksyq12/proxyup/internal/errors"
	"github.com/ksyq12/proxyup/internal/executor"
)

// Cert holds the filesystem paths of an issued certificate.
type Cert struct {
	Domain   string
	CertPath string
	KeyPath  string
}

// liveDir is the base directory for issued certificates.
const liveDir = "/etc/letsencrypt/live"

// Client wraps certbot invocations.
type Client struct {
	exec executor.CommandExecutor

	// renewalDir holds certbot's per-certificate renewal records.
	renewalDir string
}

// New creates a certbot client.
func New(exec executor.CommandExecutor) *Client {
	return &Client{
		exec:       exec,
		renewalDir: "/etc/letsencrypt/renewal",
	}
}

// IsInstalled checks if certbot is on PATH.
func (c *Client) IsInstalled() bool {
	_, err := c.exec.LookPath("certbot")
	return err == nil
}

// run executes certbot with the given arguments, surfacing captured output
// on failure.
func (c *Client) run(args ...string) error {
	if !c.IsInstalled() {
		return errors.ErrCertbotNotInstalled
	}
	out, err := c.exec.Execute("certbot", args...)
	if err != nil {
		return errors.Wrap(errors.ErrCodeCert, fmt.Sprintf("certbot failed: %s", strings.TrimSpace(string(out))), err)
	}
	return nil
}

// CertPaths returns the certificate paths for a primary domain.
func (c *Client) CertPaths(domain string) *Cert {
	return &Cert{
		Domain:   domain,
		CertPath: filepath.Join(liveDir, domain, "fullchain.pem"),
		KeyPath:  filepath.Join(liveDir, domain, "privkey.pem"),
	}
}

// IssueOptions control an issuance attempt.
type IssueOptions struct {
	// DryRun exercises validation against the staging environment without
	// mutating real certificate state.
	DryRun bool

	// Standalone uses certbot's built-in server on port 80 instead of the
	// webroot served by the running nginx. Requires port 80 to be free.
	Standalone bool

	// Webroot is the ACME challenge directory for webroot mode.
	Webroot string
}

// Issue obtains one certificate covering all domains (first is primary).
// In webroot mode the running nginx serves the challenge and the challenge
// directory is created if missing; in standalone mode certbot binds port 80
// itself.
func (c *Client) Issue(domains []string, email string, opts IssueOptions) (*Cert, error) {
	if len(domains) == 0 {
		return nil, errors.Validation("no domains to issue for")
	}

	args := []string{"certonly"}
	if opts.Standalone {
		args = append(args, "--standalone")
	} else {
		if err := os.MkdirAll(opts.Webroot, 0755); err != nil {
			return nil, errors.Wrap(errors.ErrCodeCert, "could not create webroot directory", err)
		}
		args = append(args, "--webroot", "-w", opts.Webroot)
	}
	for _, d := range domains {
		args = append(args, "-d", d)
	}
	args = append(args,
		"--email", email,
		"--agree-tos",
		"--no-eff-email",
		"--non-interactive",
	)
	if opts.DryRun {
		args = append(args, "--dry-run")
	}

	if err := c.run(args...); err != nil {
		return nil, err
	}
	if opts.DryRun {
		return nil, nil
	}
	return c.CertPaths(domains[0]), nil
}

// Renew renews the certificate keyed by the primary domain. The caller is
// responsible for reloading nginx afterwards.
func (c *Client) Renew(domain string, dryRun bool) error {
	args := []string{"renew", "--cert-name", domain, "--non-interactive"}
	if dryRun {
		args = append(args, "--dry-run")
	}
	return c.run(args...)
}

// Revoke revokes the certificate keyed by the primary domain.
func (c *Client) Revoke(domain string) error {
	cert := c.CertPaths(domain)
	return c.run("revoke",
		"--cert-path", cert.CertPath,
		"--non-interactive",
	)
}

// Delete removes the certificate and its renewal record.
func (c *Client) Delete(domain string) error {
	return c.run("delete", "--cert-name", domain, "--non-interactive")
}

// List returns the primary domains of all certbot-managed certificates.
func (c *Client) List() ([]string, error) {
	if !c.IsInstalled() {
		return nil, errors.ErrCertbotNotInstalled
	}
	out, err := c.exec.Execute("certbot", "certificates")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCert, fmt.Sprintf("certbot certificates failed: %s", strings.TrimSpace(string(out))), err)
	}

	var domains []string
	for _, line := range strings.Split(string(out), "\n") {
		if strings.Contains(line, "Certificate Name:") {
			_, name, _ := strings.Cut(line, ":")
			domains = append(domains, strings.TrimSpace(name))
		}
	}
	return domains, nil
}

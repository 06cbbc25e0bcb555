package cli

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ksyq12/proxyup/internal/certbot"
	"github.com/ksyq12/proxyup/internal/config"
	"github.com/ksyq12/proxyup/internal/errors"
	"github.com/ksyq12/proxyup/internal/input"
	"github.com/ksyq12/proxyup/internal/output"
	"github.com/ksyq12/proxyup/internal/template"
	"github.com/ksyq12/proxyup/internal/txn"
)

// hstsDirective is inserted directly after the ssl_certificate_key line.
const hstsDirective = `add_header Strict-Transport-Security "max-age=31536000; includeSubDomains" always;`

var proxyPassLineRe = regexp.MustCompile(`(?m)^(\s*)proxy_pass\s+\S+;`)

// opCreate runs the interactive creation workflow: collect input, write the
// HTTP config, obtain a certificate, then upgrade the config to TLS.
// A cancel at any prompt aborts without error.
func opCreate(st *Stack, p *input.Prompter) error {
	inst := deps.NewInstaller(st.Env, deps.Executor)
	if err := inst.EnsureInstalled("nginx", "certbot"); err != nil {
		return err
	}

	domains, err := p.Domains()
	if err != nil {
		return cancelled(err)
	}
	primary := domains[0]

	if _, err := st.Nginx.ConfigPath(primary); err == nil {
		return errors.AlreadyExists(primary)
	}

	target, err := p.Target()
	if err != nil {
		return cancelled(err)
	}

	email, err := p.Email(st.Cfg.Email)
	if err != nil {
		return cancelled(err)
	}
	st.Cfg.Email = email
	if err := saveConfig(st.Cfg); err != nil {
		output.Warn("Could not persist email preference: %v", err)
	}

	if !st.Cfg.SkipDNSCheck && p.Confirm("Check DNS records against this host's public IP?", true) {
		if !runDNSCheck(p, domains) {
			output.Info("Creation cancelled")
			return nil
		}
	}

	proxy := &config.Proxy{Domains: domains, Target: target}

	// Stage 1: plain HTTP reverse proxy, also serving ACME challenges.
	content, err := template.Render(template.StageHTTP, proxy)
	if err != nil {
		return err
	}

	output.Info("Writing proxy configuration for %s...", primary)
	if err := st.Nginx.WriteConfig(primary, content); err != nil {
		return err
	}
	if err := st.Nginx.Enable(primary); err != nil {
		_ = st.Nginx.Remove(primary)
		return err
	}

	cleanup := func() error {
		if err := st.Nginx.Remove(primary); err != nil {
			return err
		}
		if err := st.Nginx.Test(); err != nil {
			return err
		}
		if st.Nginx.IsActive() {
			return st.Nginx.Reload()
		}
		return nil
	}

	if err := testAndApply(st.Nginx, cleanup); err != nil {
		return err
	}

	// Stage 2: certificate. Webroot mode when nginx serves the domain,
	// standalone (with renewal hooks) when it does not.
	opts := certbot.IssueOptions{Webroot: template.DefaultWebRoot}
	if !st.Nginx.IsActive() {
		if !st.Nginx.PortFree(80) {
			runRollback(cleanup)
			return errors.Wrap(errors.ErrCodeCert, "port 80 is occupied and nginx is not serving the domain, cannot issue", nil)
		}
		opts.Standalone = true
	}

	if p.Confirm("Run a certificate dry-run first?", false) {
		output.Info("Running certbot dry-run...")
		dryOpts := opts
		dryOpts.DryRun = true
		if _, err := st.Certbot.Issue(domains, email, dryOpts); err != nil {
			runRollback(cleanup)
			return err
		}
		output.Success("Dry-run passed")
	}

	output.Info("Obtaining certificate for %s...", strings.Join(domains, ", "))
	cert, err := st.Certbot.Issue(domains, email, opts)
	if err != nil {
		runRollback(cleanup)
		return err
	}

	// Stage 3: swap the HTTP config for the TLS pair, transactionally.
	proxy.SSL = true
	tlsContent, err := template.Render(template.StageTLS, proxy)
	if err != nil {
		return err
	}

	path, err := st.Nginx.ConfigPath(primary)
	if err != nil {
		return err
	}
	err = txn.Edit(path,
		func([]byte) ([]byte, error) { return []byte(tlsContent), nil },
		func() error {
			if err := st.Nginx.Test(); err != nil {
				return err
			}
			return st.Nginx.Apply()
		})
	if err != nil {
		output.Warn("Certificate issued but TLS config failed, HTTP config restored: %v", err)
		return err
	}

	if opts.Standalone {
		added, err := st.Certbot.EnsureRenewalHooks(primary)
		if err != nil {
			output.Warn("Could not register renewal hooks: %v", err)
		} else if added {
			output.Info("Registered nginx stop/start hooks for headless renewal")
		}
	}

	output.Success("Proxy for %s is live", primary)
	output.Print("  Target:      %s", target)
	output.Print("  Certificate: %s", cert.CertPath)
	return nil
}

// runDNSCheck warns about domains not resolving to this host. Returns false
// only when mismatches exist and the user declines to proceed.
func runDNSCheck(p *input.Prompter, domains []string) bool {
	checker := deps.NewChecker()

	ip, err := checker.PublicIP()
	if err != nil {
		output.Warn("Could not detect public IP: %v", err)
		return p.Confirm("Proceed without DNS check?", true)
	}
	output.Info("Public IP: %s", ip)

	mismatch := false
	for _, domain := range domains {
		res, err := checker.Check(domain, ip)
		if err != nil {
			output.Warn("%s: lookup failed: %v", domain, err)
			mismatch = true
			continue
		}
		if res.Match {
			output.Success("%s resolves to this host", domain)
		} else {
			output.Warn("%s resolves to %s, not %s", domain, strings.Join(res.ResolvedIPs, ", "), ip)
			mismatch = true
		}
	}

	if !mismatch {
		return true
	}
	return p.Confirm("Some domains do not point at this host. Proceed anyway?", false)
}

// opToggle enables or disables a domain, reversing the filesystem move when
// validation or apply fails.
func opToggle(st *Stack, domain string, enable bool) error {
	if enable {
		output.Info("Enabling %s...", domain)
		if err := st.Nginx.Enable(domain); err != nil {
			return err
		}
		return testAndApply(st.Nginx, func() error { return st.Nginx.Disable(domain) })
	}

	output.Info("Disabling %s...", domain)
	if err := st.Nginx.Disable(domain); err != nil {
		return err
	}
	return testAndApply(st.Nginx, func() error { return st.Nginx.Enable(domain) })
}

// opSetTarget rewrites the proxy_pass directive in the domain's config.
func opSetTarget(st *Stack, domain, target string) error {
	path, err := st.Nginx.ConfigPath(domain)
	if err != nil {
		return err
	}

	output.Info("Changing proxy target of %s to %s...", domain, target)
	return txn.Edit(path,
		func(data []byte) ([]byte, error) {
			if !proxyPassLineRe.Match(data) {
				return nil, fmt.Errorf("no proxy_pass directive in %s", path)
			}
			return proxyPassLineRe.ReplaceAll(data, []byte("${1}proxy_pass "+target+";")), nil
		},
		func() error {
			if err := st.Nginx.Test(); err != nil {
				return err
			}
			return st.Nginx.Apply()
		})
}

// opHSTS inserts the Strict-Transport-Security header after the certificate
// key directive. No-op with a warning when already present.
func opHSTS(st *Stack, domain string) error {
	proxy, err := st.Nginx.Inspect(domain)
	if err != nil {
		return err
	}
	if !proxy.SSL {
		return errors.WrapDomain(errors.ErrCodeValidation, domain, "has no certificate yet, HSTS needs TLS", nil)
	}
	if proxy.HSTS {
		output.Warn("HSTS is already enabled for %s", domain)
		return nil
	}

	path, err := st.Nginx.ConfigPath(domain)
	if err != nil {
		return err
	}

	output.Info("Enabling HSTS for %s...", domain)
	return txn.Edit(path,
		func(data []byte) ([]byte, error) {
			lines := strings.Split(string(data), "\n")
			for i, line := range lines {
				if strings.Contains(line, "ssl_certificate_key") {
					indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
					inserted := append([]string{}, lines[:i+1]...)
					inserted = append(inserted, indent+hstsDirective)
					inserted = append(inserted, lines[i+1:]...)
					return []byte(strings.Join(inserted, "\n")), nil
				}
			}
			return nil, fmt.Errorf("no ssl_certificate_key directive in %s", path)
		},
		func() error {
			if err := st.Nginx.Test(); err != nil {
				return err
			}
			return st.Nginx.Apply()
		})
}

// opRenew renews the domain's certificate and reloads nginx. With dryRun
// only the simulation runs and nothing is reloaded.
func opRenew(st *Stack, domain string, dryRun bool) error {
	if dryRun {
		output.Info("Simulating renewal for %s...", domain)
		if err := st.Certbot.Renew(domain, true); err != nil {
			return err
		}
		output.Success("Renewal dry-run passed for %s", domain)
		return nil
	}

	output.Info("Renewing certificate for %s...", domain)
	if err := st.Certbot.Renew(domain, false); err != nil {
		return err
	}
	return st.Nginx.Apply()
}

// opRemove deletes the proxy: certificate first (best-effort, user may
// proceed past a failed revocation), then config files, then reload.
// Declining after a failed revocation leaves everything untouched.
// Returns false when the user cancelled and nothing was changed.
func opRemove(st *Stack, p *input.Prompter, domain string, force bool) (bool, error) {
	proxy, err := st.Nginx.Inspect(domain)
	if err != nil {
		return false, err
	}

	if !force && !p.Confirm(fmt.Sprintf("Remove proxy %s and its certificate?", domain), false) {
		output.Info("Removal cancelled")
		return false, nil
	}

	if proxy.SSL {
		output.Info("Revoking certificate for %s...", domain)
		revokeErr := st.Certbot.Revoke(domain)
		if revokeErr == nil {
			revokeErr = st.Certbot.Delete(domain)
		}
		if revokeErr != nil {
			output.Warn("Certificate revocation failed: %v", revokeErr)
			if !force && !p.Confirm("Remove the proxy config anyway? The certificate will need manual cleanup", false) {
				output.Info("Removal cancelled, nothing was changed")
				return false, nil
			}
			output.Warn("Proceeding; clean up the certificate manually with: certbot delete --cert-name %s", domain)
		}
	}

	output.Info("Removing proxy configuration...")
	if err := st.Nginx.Remove(domain); err != nil {
		return false, err
	}

	if err := st.Nginx.Test(); err != nil {
		output.Warn("Post-removal config test failed: %v", err)
		return true, nil
	}
	if err := st.Nginx.Apply(); err != nil {
		output.Warn("Post-removal apply failed: %v", err)
	}
	return true, nil
}

// cancelled maps the prompt cancel sentinel to a clean no-error abort.
func cancelled(err error) error {
	if errors.Is(err, errors.ErrCancelled) {
		output.Info("Creation cancelled")
		return nil
	}
	return err
}

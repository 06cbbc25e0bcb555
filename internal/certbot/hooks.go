package certbot

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Renewal hooks for standalone certificates: certbot must own port 80
// during headless renewal, so nginx is stopped around it.
const (
	preHook  = "systemctl stop nginx"
	postHook = "systemctl start nginx"
)

// EnsureRenewalHooks adds pre/post hooks to the domain's renewal record so
// headless standalone renewals stop and restart nginx. Idempotent: returns
// (false, nil) when the record already carries hooks.
func (c *Client) EnsureRenewalHooks(domain string) (bool, error) {
	path := filepath.Join(c.renewalDir, domain+".conf")

	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read renewal record: %w", err)
	}
	content := string(data)

	if strings.Contains(content, "pre_hook") || strings.Contains(content, "post_hook") {
		return false, nil
	}

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "[renewalparams]" {
			hooks := []string{
				"pre_hook = " + preHook,
				"post_hook = " + postHook,
			}
			lines = append(lines[:i+1], append(hooks, lines[i+1:]...)...)

			info, err := os.Stat(path)
			if err != nil {
				return false, fmt.Errorf("failed to stat renewal record: %w", err)
			}
			if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), info.Mode().Perm()); err != nil {
				return false, fmt.Errorf("failed to update renewal record: %w", err)
			}
			return true, nil
		}
	}

	return false, fmt.Errorf("renewal record %s has no [renewalparams] section", path)
}

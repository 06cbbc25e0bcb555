package cli

import (
	"os"

	"github.com/ksyq12/proxyup/internal/input"
	"github.com/ksyq12/proxyup/internal/output"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status <domain>",
	Short: "Show details of a managed proxy",
	Long: `Show the domain list, target, TLS state, and certificate paths of
one managed proxy.

Examples:
  proxyup status example.com
  proxyup status example.com --json`,
	Args: cobra.ExactArgs(1),
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

type proxyStatus struct {
	Domain   string   `json:"domain"`
	Aliases  []string `json:"aliases,omitempty"`
	Target   string   `json:"target"`
	SSL      bool     `json:"ssl"`
	HSTS     bool     `json:"hsts"`
	Enabled  bool     `json:"enabled"`
	CertPath string   `json:"cert_path,omitempty"`
	KeyPath  string   `json:"key_path,omitempty"`
	CertSeen bool     `json:"cert_on_disk"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	domain := args[0]

	if err := input.ValidateDomain(domain); err != nil {
		return err
	}

	st, err := loadStack()
	if err != nil {
		return err
	}

	proxy, err := st.Nginx.Inspect(domain)
	if err != nil {
		return err
	}

	status := proxyStatus{
		Domain:  proxy.Primary(),
		Aliases: proxy.Domains[1:],
		Target:  proxy.Target,
		SSL:     proxy.SSL,
		HSTS:    proxy.HSTS,
		Enabled: proxy.Enabled,
	}
	if proxy.SSL {
		cert := st.Certbot.CertPaths(proxy.Primary())
		status.CertPath = cert.CertPath
		status.KeyPath = cert.KeyPath
		_, err := os.Stat(cert.CertPath)
		status.CertSeen = err == nil
	}

	if jsonOutput {
		return output.JSON(status)
	}

	output.Print("Domain:   %s", status.Domain)
	if len(status.Aliases) > 0 {
		for _, a := range status.Aliases {
			output.Print("Alias:    %s", a)
		}
	}
	output.Print("Target:   %s", status.Target)
	output.Print("Enabled:  %s", yesNo(status.Enabled))
	output.Print("TLS:      %s", yesNo(status.SSL))
	output.Print("HSTS:     %s", yesNo(status.HSTS))
	if status.SSL {
		output.Print("Cert:     %s", status.CertPath)
		output.Print("Key:      %s", status.KeyPath)
		if !status.CertSeen {
			output.Warn("Certificate file not found on disk")
		}
	}
	return nil
}

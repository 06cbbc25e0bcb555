package cli

import (
	"github.com/ksyq12/proxyup/internal/input"
	"github.com/spf13/cobra"
)

var hstsCmd = &cobra.Command{
	Use:   "hsts <domain>",
	Short: "Enable HSTS for a managed proxy",
	Long: `Insert a Strict-Transport-Security response header into the domain's
TLS config, directly after the certificate key directive. Warns and changes
nothing when the header is already present. Requires an issued certificate.

Examples:
  proxyup hsts example.com`,
	Args: cobra.ExactArgs(1),
	RunE: runHSTS,
}

func init() {
	rootCmd.AddCommand(hstsCmd)
}

func runHSTS(cmd *cobra.Command, args []string) error {
	domain := args[0]

	if err := input.ValidateDomain(domain); err != nil {
		return err
	}
	if err := requireRoot(); err != nil {
		return err
	}

	st, err := loadStack()
	if err != nil {
		return err
	}

	if err := opHSTS(st, domain); err != nil {
		return err
	}

	return outputResult(newSuccessResult(domain, "hsts"), "HSTS enabled for %s", domain)
}

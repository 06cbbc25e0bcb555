package cli

import (
	"github.com/ksyq12/proxyup/internal/input"
	"github.com/spf13/cobra"
)

var renewDryRun bool

var renewCmd = &cobra.Command{
	Use:   "renew <domain>",
	Short: "Renew the certificate of a managed proxy",
	Long: `Renew the certificate keyed by the domain, then reload nginx.
With --dry-run only the simulation runs and nothing is changed.

Examples:
  proxyup renew example.com
  proxyup renew example.com --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runRenew,
}

func init() {
	renewCmd.Flags().BoolVar(&renewDryRun, "dry-run", false, "Simulate the renewal without changing certificate state")

	rootCmd.AddCommand(renewCmd)
}

func runRenew(cmd *cobra.Command, args []string) error {
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

	if err := opRenew(st, domain, renewDryRun); err != nil {
		return err
	}
	if renewDryRun {
		return nil
	}

	return outputResult(newSuccessResult(domain, "renew"), "Certificate renewed for %s", domain)
}

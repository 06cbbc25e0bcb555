package cli

import (
	"github.com/ksyq12/proxyup/internal/input"
	"github.com/spf13/cobra"
)

var disableCmd = &cobra.Command{
	Use:   "disable <domain>",
	Short: "Disable a managed proxy",
	Long: `Deactivate the domain's config and reload nginx. The config file
itself is kept; re-enabling restores the exact same content. When validation
or reload fails the deactivation is reversed.

Examples:
  proxyup disable example.com`,
	Args: cobra.ExactArgs(1),
	RunE: runDisable,
}

func init() {
	rootCmd.AddCommand(disableCmd)
}

func runDisable(cmd *cobra.Command, args []string) error {
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

	if err := opToggle(st, domain, false); err != nil {
		return err
	}

	return outputResult(newSuccessResult(domain, "disable"), "Proxy %s disabled", domain)
}

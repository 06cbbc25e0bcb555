package cli

import (
	"github.com/ksyq12/proxyup/internal/input"
	"github.com/spf13/cobra"
)

var enableCmd = &cobra.Command{
	Use:   "enable <domain>",
	Short: "Enable a managed proxy",
	Long: `Activate the domain's config and reload nginx. When validation or
reload fails the activation is reversed.

Examples:
  proxyup enable example.com`,
	Args: cobra.ExactArgs(1),
	RunE: runEnable,
}

func init() {
	rootCmd.AddCommand(enableCmd)
}

func runEnable(cmd *cobra.Command, args []string) error {
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

	if err := opToggle(st, domain, true); err != nil {
		return err
	}

	return outputResult(newSuccessResult(domain, "enable"), "Proxy %s enabled", domain)
}

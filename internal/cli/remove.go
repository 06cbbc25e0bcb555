package cli

import (
	"github.com/ksyq12/proxyup/internal/input"
	"github.com/spf13/cobra"
)

var forceRemove bool

var removeCmd = &cobra.Command{
	Use:     "remove <domain>",
	Aliases: []string{"rm", "delete"},
	Short:   "Remove a managed proxy and its certificate",
	Long: `Revoke and delete the domain's certificate, remove its config from
both the active and available locations, then reload nginx.

Certificate revocation is best-effort: when it fails you may choose to
remove the config anyway and clean the certificate up manually, or decline
and leave everything untouched.

Examples:
  proxyup remove example.com
  proxyup rm example.com --force`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	removeCmd.Flags().BoolVarP(&forceRemove, "force", "f", false, "Skip confirmations and proceed past revocation failure")

	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
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

	removed, err := opRemove(st, prompter(), domain, forceRemove)
	if err != nil {
		return err
	}
	if !removed {
		return nil
	}

	return outputResult(newSuccessResult(domain, "remove"), "Proxy %s removed", domain)
}

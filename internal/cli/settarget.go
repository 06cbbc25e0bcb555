package cli

import (
	"github.com/ksyq12/proxyup/internal/input"
	"github.com/spf13/cobra"
)

var setTargetCmd = &cobra.Command{
	Use:   "set-target <domain> <target>",
	Short: "Change the proxy target of a managed proxy",
	Long: `Rewrite the proxy_pass directive in the domain's config. The target
is a bare port (forwarded to 127.0.0.1) or a host:port pair. The previous
config is restored if validation or reload fails.

Examples:
  proxyup set-target example.com 8080
  proxyup set-target example.com 10.0.0.5:3000`,
	Args: cobra.ExactArgs(2),
	RunE: runSetTarget,
}

func init() {
	rootCmd.AddCommand(setTargetCmd)
}

func runSetTarget(cmd *cobra.Command, args []string) error {
	domain := args[0]

	if err := input.ValidateDomain(domain); err != nil {
		return err
	}
	target, err := input.ParseTarget(args[1])
	if err != nil {
		return err
	}
	if err := requireRoot(); err != nil {
		return err
	}

	st, err := loadStack()
	if err != nil {
		return err
	}

	if err := opSetTarget(st, domain, target); err != nil {
		return err
	}

	return outputResult(newSuccessResult(domain, "set-target"), "Proxy %s now forwards to %s", domain, target)
}

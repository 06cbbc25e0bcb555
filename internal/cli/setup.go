package cli

import (
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create a new reverse proxy with TLS",
	Long: `Interactively create a reverse proxy: collect domains, target, and
contact email, write the nginx config, obtain a Let's Encrypt certificate,
and switch the config to TLS.

Enter "q" at any prompt to cancel without changes.

Examples:
  proxyup setup`,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	if err := requireRoot(); err != nil {
		return err
	}

	st, err := loadStack()
	if err != nil {
		return err
	}

	return opCreate(st, prompter())
}

package cli

import (
	"os"

	"github.com/ksyq12/proxyup/internal/logger"
	"github.com/spf13/cobra"
)

var (
	jsonOutput bool
	verbose    bool
	version    = "dev"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "proxyup",
	Short: "Reverse proxy and TLS provisioning CLI",
	Long: `proxyup provisions an nginx reverse proxy plus Let's Encrypt TLS
certificate for one or more domains on this host, and manages the resulting
proxy configs over their lifecycle.

It drives nginx and certbot through their own interfaces; generated config
files carry a marker comment and are rediscovered from the nginx config
directories, so there is no separate state database.`,
}

// Execute runs the root command
func Execute() {
	// Initialize logger based on verbose flag (parsed by cobra)
	cobra.OnInitialize(func() {
		logger.Init(verbose)
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging for debugging")
}

package cli

import (
	"strings"

	"github.com/ksyq12/proxyup/internal/output"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all managed proxies",
	Long: `List proxies discovered in the nginx config directories. Only files
carrying the generated-by marker comment are listed.

Examples:
  proxyup list
  proxyup list --json`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

type proxyListItem struct {
	Domain  string   `json:"domain"`
	Aliases []string `json:"aliases,omitempty"`
	Target  string   `json:"target"`
	SSL     bool     `json:"ssl"`
	HSTS    bool     `json:"hsts"`
	Enabled bool     `json:"enabled"`
}

func runList(cmd *cobra.Command, args []string) error {
	st, err := loadStack()
	if err != nil {
		return err
	}

	proxies, err := st.Nginx.Discover()
	if err != nil {
		return err
	}

	items := make([]proxyListItem, 0, len(proxies))
	for _, p := range proxies {
		items = append(items, proxyListItem{
			Domain:  p.Primary(),
			Aliases: p.Domains[1:],
			Target:  p.Target,
			SSL:     p.SSL,
			HSTS:    p.HSTS,
			Enabled: p.Enabled,
		})
	}

	if len(items) == 0 {
		if jsonOutput {
			return output.JSON([]proxyListItem{})
		}
		output.Info("No managed proxies found")
		return nil
	}

	if jsonOutput {
		return output.JSON(items)
	}

	headers := []string{"DOMAIN", "TARGET", "SSL", "HSTS", "ENABLED"}
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		domain := item.Domain
		if len(item.Aliases) > 0 {
			domain += " (+" + strings.Join(item.Aliases, ", ") + ")"
		}
		rows = append(rows, []string{
			domain,
			item.Target,
			yesNo(item.SSL),
			yesNo(item.HSTS),
			yesNo(item.Enabled),
		})
	}

	output.Table(headers, rows)
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

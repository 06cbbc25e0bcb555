package cli

import (
	"fmt"

	"github.com/ksyq12/proxyup/internal/errors"
	"github.com/ksyq12/proxyup/internal/input"
	"github.com/ksyq12/proxyup/internal/output"
	"github.com/spf13/cobra"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Interactive menu",
	Long: `Drive all operations through a numbered menu: create a new proxy,
or manage existing ones (enable/disable, change target, HSTS, renew,
delete). The menu loops until you exit.

Examples:
  proxyup menu`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func init() {
	rootCmd.AddCommand(menuCmd)
}

func runMenu(cmd *cobra.Command, args []string) error {
	if err := requireRoot(); err != nil {
		return err
	}

	st, err := loadStack()
	if err != nil {
		return err
	}
	p := prompter()

	for {
		choice, err := p.Select("proxyup", []string{
			"Create a new proxy",
			"Manage existing proxies",
			"Exit",
		})
		if err != nil {
			return menuDone(err)
		}

		switch choice {
		case 0:
			if err := opCreate(st, p); err != nil {
				output.Error("%v", err)
			}
		case 1:
			if err := manageMenu(st, p); err != nil {
				return menuDone(err)
			}
		case 2:
			return nil
		}
	}
}

// manageMenu picks a discovered domain and loops over its operations.
func manageMenu(st *Stack, p *input.Prompter) error {
	proxies, err := st.Nginx.Discover()
	if err != nil {
		return err
	}
	if len(proxies) == 0 {
		output.Info("No managed proxies found")
		return nil
	}

	options := make([]string, 0, len(proxies)+1)
	for _, proxy := range proxies {
		state := "disabled"
		if proxy.Enabled {
			state = "enabled"
		}
		options = append(options, fmt.Sprintf("%s (%s, -> %s)", proxy.Primary(), state, proxy.Target))
	}
	options = append(options, "Back")

	choice, err := p.Select("Select a proxy", options)
	if err != nil || choice == len(proxies) {
		return err
	}

	return domainMenu(st, p, proxies[choice].Primary())
}

// domainMenu loops over the lifecycle operations of one domain until the
// user goes back or the domain is deleted.
func domainMenu(st *Stack, p *input.Prompter, domain string) error {
	for {
		proxy, err := st.Nginx.Inspect(domain)
		if err != nil {
			if errors.Is(err, errors.ErrProxyNotFound) {
				return nil
			}
			return err
		}

		toggleLabel := "Enable"
		if proxy.Enabled {
			toggleLabel = "Disable"
		}

		choice, err := p.Select(domain, []string{
			toggleLabel,
			"Change proxy target",
			"Enable HSTS",
			"Renew certificate",
			"Delete",
			"Back",
		})
		if err != nil {
			return nil
		}

		switch choice {
		case 0:
			if err := opToggle(st, domain, !proxy.Enabled); err != nil {
				output.Error("%v", err)
			}
		case 1:
			target, err := p.Target()
			if err != nil {
				break
			}
			if err := opSetTarget(st, domain, target); err != nil {
				output.Error("%v", err)
			} else {
				output.Success("Proxy %s now forwards to %s", domain, target)
			}
		case 2:
			if err := opHSTS(st, domain); err != nil {
				output.Error("%v", err)
			}
		case 3:
			if p.Confirm("Run a renewal dry-run first?", false) {
				if err := opRenew(st, domain, true); err != nil {
					output.Error("%v", err)
					break
				}
			}
			if err := opRenew(st, domain, false); err != nil {
				output.Error("%v", err)
			} else {
				output.Success("Certificate renewed for %s", domain)
			}
		case 4:
			removed, err := opRemove(st, p, domain, false)
			if err != nil {
				output.Error("%v", err)
			}
			if removed {
				output.Success("Proxy %s removed", domain)
				return nil
			}
		case 5:
			return nil
		}
	}
}

// menuDone treats a cancel at the top level as a clean exit.
func menuDone(err error) error {
	if errors.Is(err, errors.ErrCancelled) {
		return nil
	}
	return err
}

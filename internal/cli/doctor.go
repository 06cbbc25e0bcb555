package cli

import (
	"fmt"
	"regexp"

	"github.com/ksyq12/proxyup/internal/output"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check system status and diagnose issues",
	Long: `Run diagnostic checks on the host and the managed proxies.

Checks:
  - OS family, package manager, and service manager detection
  - nginx installation, service state, and config syntax
  - certbot installation
  - per-proxy state (enabled, certificate on record)

Examples:
  proxyup doctor
  proxyup doctor --json`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// CheckResult represents a single diagnostic check result
type CheckResult struct {
	Status  string `json:"status"` // "success", "warning", "error"
	Message string `json:"message"`
}

// DoctorReport contains all diagnostic results
type DoctorReport struct {
	Environment []CheckResult `json:"environment"`
	Tools       []CheckResult `json:"tools"`
	Proxies     []CheckResult `json:"proxies"`
}

var nginxVersionRe = regexp.MustCompile(`nginx/(\d+\.\d+\.\d+)`)

func runDoctor(cmd *cobra.Command, args []string) error {
	st, err := loadStack()
	if err != nil {
		return err
	}

	report := &DoctorReport{
		Environment: checkEnvironment(st),
		Tools:       checkTools(st),
		Proxies:     checkProxies(st),
	}

	if jsonOutput {
		return output.JSON(report)
	}

	output.Print("Environment:")
	for _, c := range report.Environment {
		displayCheck(c)
	}
	output.Print("")
	output.Print("External tools:")
	for _, c := range report.Tools {
		displayCheck(c)
	}
	output.Print("")
	output.Print("Managed proxies:")
	if len(report.Proxies) == 0 {
		output.Print("  none")
	}
	for _, c := range report.Proxies {
		displayCheck(c)
	}
	return nil
}

func checkEnvironment(st *Stack) []CheckResult {
	return []CheckResult{
		{Status: "success", Message: fmt.Sprintf("OS: %s (%s family)", st.Env.OSName, st.Env.Family)},
		{Status: "success", Message: fmt.Sprintf("Package manager: %s", st.Env.PackageManager)},
		{Status: "success", Message: fmt.Sprintf("Service manager: %s", st.Env.ServiceManager)},
	}
}

func checkTools(st *Stack) []CheckResult {
	var results []CheckResult

	if st.Nginx.IsInstalled() {
		version := "unknown"
		if out, err := deps.Executor.Execute("nginx", "-v"); err == nil {
			if m := nginxVersionRe.FindStringSubmatch(string(out)); len(m) >= 2 {
				version = m[1]
			}
		}
		results = append(results, CheckResult{Status: "success", Message: fmt.Sprintf("nginx installed (%s)", version)})

		if st.Nginx.IsActive() {
			results = append(results, CheckResult{Status: "success", Message: "nginx service active"})
		} else {
			results = append(results, CheckResult{Status: "warning", Message: "nginx service not active"})
		}

		if err := st.Nginx.Test(); err == nil {
			results = append(results, CheckResult{Status: "success", Message: "nginx config syntax OK"})
		} else {
			results = append(results, CheckResult{Status: "error", Message: "nginx config syntax error"})
		}
	} else {
		results = append(results, CheckResult{Status: "error", Message: "nginx not installed"})
	}

	if st.Certbot.IsInstalled() {
		results = append(results, CheckResult{Status: "success", Message: "certbot installed"})
	} else {
		results = append(results, CheckResult{Status: "error", Message: "certbot not installed"})
	}

	return results
}

func checkProxies(st *Stack) []CheckResult {
	proxies, err := st.Nginx.Discover()
	if err != nil {
		return []CheckResult{{Status: "error", Message: fmt.Sprintf("discovery failed: %v", err)}}
	}

	certDomains := map[string]bool{}
	if domains, err := st.Certbot.List(); err == nil {
		for _, d := range domains {
			certDomains[d] = true
		}
	}

	var results []CheckResult
	for _, p := range proxies {
		state := "disabled"
		if p.Enabled {
			state = "enabled"
		}

		switch {
		case p.SSL && !certDomains[p.Primary()]:
			results = append(results, CheckResult{
				Status:  "warning",
				Message: fmt.Sprintf("%s - %s, TLS config but no certbot record", p.Primary(), state),
			})
		default:
			results = append(results, CheckResult{
				Status:  "success",
				Message: fmt.Sprintf("%s - %s, tls=%s, target %s", p.Primary(), state, yesNo(p.SSL), p.Target),
			})
		}
	}
	return results
}

func displayCheck(check CheckResult) {
	switch check.Status {
	case "success":
		output.Success("%s", check.Message)
	case "warning":
		output.Warn("%s", check.Message)
	case "error":
		output.Error("%s", check.Message)
	}
}

// Package platform probes the host environment: OS family, package manager,
// service manager, and the nginx configuration layout convention.
package platform

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/ksyq12/proxyup/internal/errors"
	"github.com/ksyq12/proxyup/internal/executor"
)

// Family identifies the OS family, which decides package names and the
// nginx config directory convention.
type Family string

const (
	FamilyDebian Family = "debian" // Debian/Ubuntu: apt-get, sites-available/sites-enabled
	FamilyRHEL   Family = "rhel"   // RHEL/CentOS/Fedora: dnf/yum, conf.d
)

// Environment describes the detected host environment. It is built once at
// startup and threaded through every operation instead of living in globals.
type Environment struct {
	Family         Family
	PackageManager string // apt-get, dnf, or yum
	ServiceManager string // systemctl or service
	OSName         string // PRETTY_NAME from os-release, for diagnostics
}

// osReleasePath is a var so tests can point it at a fixture.
var osReleasePath = "/etc/os-release"

// Detect probes the host and returns its Environment.
// Returns ErrUnsupportedOS for anything that is not a known Linux family.
func Detect(exec executor.CommandExecutor) (*Environment, error) {
	if runtime.GOOS != "linux" {
		return nil, errors.Wrap(errors.ErrCodeEnvironment,
			fmt.Sprintf("unsupported platform %s", runtime.GOOS), errors.ErrUnsupportedOS)
	}

	data, err := os.ReadFile(osReleasePath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeEnvironment, "failed to read os-release", err)
	}

	return detectFromOSRelease(string(data), exec)
}

// detectFromOSRelease classifies the OS from os-release content.
func detectFromOSRelease(content string, exec executor.CommandExecutor) (*Environment, error) {
	fields := parseOSRelease(content)

	ids := fields["ID"]
	if like := fields["ID_LIKE"]; like != "" {
		ids += " " + like
	}

	env := &Environment{
		OSName:         fields["PRETTY_NAME"],
		ServiceManager: detectServiceManager(exec),
	}

	switch {
	case containsAny(ids, "debian", "ubuntu"):
		env.Family = FamilyDebian
		env.PackageManager = "apt-get"
	case containsAny(ids, "rhel", "centos", "fedora", "rocky", "almalinux"):
		env.Family = FamilyRHEL
		env.PackageManager = detectRHELPackageManager(exec)
	default:
		return nil, errors.Wrap(errors.ErrCodeEnvironment,
			fmt.Sprintf("unrecognized distribution %q", fields["ID"]), errors.ErrUnsupportedOS)
	}

	return env, nil
}

// parseOSRelease parses KEY=value lines, stripping quotes.
func parseOSRelease(content string) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		fields[key] = strings.Trim(value, `"`)
	}
	return fields
}

func containsAny(haystack string, needles ...string) bool {
	for _, n := range needles {
		for _, word := range strings.Fields(haystack) {
			if word == n {
				return true
			}
		}
	}
	return false
}

// detectRHELPackageManager prefers dnf, falling back to yum.
func detectRHELPackageManager(exec executor.CommandExecutor) string {
	if _, err := exec.LookPath("dnf"); err == nil {
		return "dnf"
	}
	return "yum"
}

// detectServiceManager prefers systemctl, falling back to service.
func detectServiceManager(exec executor.CommandExecutor) string {
	if _, err := exec.LookPath("systemctl"); err == nil {
		return "systemctl"
	}
	return "service"
}

// RequireRoot returns ErrRootRequired when not running as root.
func RequireRoot() error {
	if os.Geteuid() != 0 {
		return errors.ErrRootRequired
	}
	return nil
}

// Platform returns a string describing the current platform.
func Platform() string {
	return fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
}

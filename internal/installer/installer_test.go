package installer

import (
	"fmt"
	"testing"

	"github.com/ksyq12/proxyup/internal/executor"
	"github.com/ksyq12/proxyup/internal/platform"
)

func debianEnv() *platform.Environment {
	return &platform.Environment{
		Family:         platform.FamilyDebian,
		PackageManager: "apt-get",
		ServiceManager: "systemctl",
	}
}

func rhelEnv() *platform.Environment {
	return &platform.Environment{
		Family:         platform.FamilyRHEL,
		PackageManager: "dnf",
		ServiceManager: "systemctl",
	}
}

func TestEnsureInstalledAlreadyPresent(t *testing.T) {
	mock := &executor.MockExecutor{}
	inst := New(debianEnv(), mock)

	if err := inst.EnsureInstalled("nginx", "certbot"); err != nil {
		t.Fatalf("EnsureInstalled failed: %v", err)
	}
	if len(mock.Calls) != 0 {
		t.Errorf("no install commands expected when tools are present, got %+v", mock.Calls)
	}
}

func TestEnsureInstalledInstallsMissing(t *testing.T) {
	installed := map[string]bool{"nginx": true}
	mock := &executor.MockExecutor{}
	mock.LookPathFunc = func(file string) (string, error) {
		if installed[file] {
			return "/usr/sbin/" + file, nil
		}
		return "", fmt.Errorf("%s not found", file)
	}
	mock.AttachedFunc = func(name string, args ...string) error {
		if name == "apt-get" && len(args) >= 2 && args[0] == "install" {
			installed[args[len(args)-1]] = true
		}
		return nil
	}

	inst := New(debianEnv(), mock)
	if err := inst.EnsureInstalled("nginx", "certbot"); err != nil {
		t.Fatalf("EnsureInstalled failed: %v", err)
	}

	// nginx was present; only certbot triggers apt-get update + install.
	if len(mock.Calls) != 2 {
		t.Fatalf("expected update + install, got %+v", mock.Calls)
	}
	if mock.Calls[0].Name != "apt-get" || mock.Calls[0].Args[0] != "update" {
		t.Errorf("first call should be apt-get update, got %+v", mock.Calls[0])
	}
	install := mock.Calls[1]
	if install.Name != "apt-get" || install.Args[0] != "install" || install.Args[1] != "-y" {
		t.Errorf("unexpected install call: %+v", install)
	}
	if install.Args[len(install.Args)-1] != "certbot" {
		t.Errorf("expected certbot package, got %+v", install.Args)
	}
}

func TestEnsureInstalledRefreshesIndexOnce(t *testing.T) {
	installedAfter := make(map[string]int)
	calls := 0
	mock := &executor.MockExecutor{}
	mock.LookPathFunc = func(file string) (string, error) {
		if n, ok := installedAfter[file]; ok && calls >= n {
			return "/usr/sbin/" + file, nil
		}
		return "", fmt.Errorf("%s not found", file)
	}
	mock.AttachedFunc = func(name string, args ...string) error {
		calls++
		if args[0] == "install" {
			installedAfter[args[len(args)-1]] = calls
		}
		return nil
	}

	inst := New(debianEnv(), mock)
	if err := inst.EnsureInstalled("nginx", "certbot"); err != nil {
		t.Fatalf("EnsureInstalled failed: %v", err)
	}

	updates := 0
	for _, c := range mock.Calls {
		if c.Name == "apt-get" && c.Args[0] == "update" {
			updates++
		}
	}
	if updates != 1 {
		t.Errorf("apt-get update should run once per invocation, ran %d times", updates)
	}
}

func TestEnsureInstalledRHELSkipsAptUpdate(t *testing.T) {
	installed := map[string]bool{}
	mock := &executor.MockExecutor{}
	mock.LookPathFunc = func(file string) (string, error) {
		if installed[file] {
			return "/usr/sbin/" + file, nil
		}
		return "", fmt.Errorf("%s not found", file)
	}
	mock.AttachedFunc = func(name string, args ...string) error {
		installed[args[len(args)-1]] = true
		return nil
	}

	inst := New(rhelEnv(), mock)
	if err := inst.EnsureInstalled("nginx"); err != nil {
		t.Fatalf("EnsureInstalled failed: %v", err)
	}

	if len(mock.Calls) != 1 {
		t.Fatalf("expected a single dnf install, got %+v", mock.Calls)
	}
	if mock.Calls[0].Name != "dnf" {
		t.Errorf("expected dnf, got %s", mock.Calls[0].Name)
	}
}

func TestEnsureInstalledStillMissingAfterInstall(t *testing.T) {
	mock := &executor.MockExecutor{
		LookPathFunc: func(file string) (string, error) {
			return "", fmt.Errorf("%s not found", file)
		},
	}

	inst := New(debianEnv(), mock)
	err := inst.EnsureInstalled("certbot")
	if err == nil {
		t.Fatal("expected error when the tool is still missing after install")
	}
}

func TestEnsureInstalledFailedInstallIsFatal(t *testing.T) {
	mock := &executor.MockExecutor{
		LookPathFunc: func(file string) (string, error) {
			return "", fmt.Errorf("%s not found", file)
		},
		AttachedFunc: func(name string, args ...string) error {
			return fmt.Errorf("E: Unable to locate package")
		},
	}

	inst := New(debianEnv(), mock)
	if err := inst.EnsureInstalled("nginx"); err == nil {
		t.Fatal("expected install failure to be fatal")
	}
}

package platform

import (
	"fmt"
	"testing"

	"github.com/ksyq12/proxyup/internal/errors"
	"github.com/ksyq12/proxyup/internal/executor"
)

const ubuntuOSRelease = `PRETTY_NAME="Ubuntu 24.04.1 LTS"
NAME="Ubuntu"
VERSION_ID="24.04"
ID=ubuntu
ID_LIKE=debian
`

const rockyOSRelease = `NAME="Rocky Linux"
VERSION="9.4 (Blue Onyx)"
ID="rocky"
ID_LIKE="rhel centos fedora"
PRETTY_NAME="Rocky Linux 9.4 (Blue Onyx)"
`

const debianOSRelease = `PRETTY_NAME="Debian GNU/Linux 12 (bookworm)"
NAME="Debian GNU/Linux"
ID=debian
`

const alpineOSRelease = `NAME="Alpine Linux"
ID=alpine
PRETTY_NAME="Alpine Linux v3.20"
`

// lookPathOnly returns a LookPath that succeeds for the named binaries only.
func lookPathOnly(names ...string) func(string) (string, error) {
	return func(file string) (string, error) {
		for _, n := range names {
			if file == n {
				return "/usr/bin/" + file, nil
			}
		}
		return "", fmt.Errorf("%s not found", file)
	}
}

func TestDetectFromOSRelease(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		lookPath    func(string) (string, error)
		wantFamily  Family
		wantPM      string
		wantSvc     string
		wantErr     bool
	}{
		{
			name:       "ubuntu",
			content:    ubuntuOSRelease,
			lookPath:   lookPathOnly("systemctl"),
			wantFamily: FamilyDebian,
			wantPM:     "apt-get",
			wantSvc:    "systemctl",
		},
		{
			name:       "debian without ID_LIKE",
			content:    debianOSRelease,
			lookPath:   lookPathOnly("systemctl"),
			wantFamily: FamilyDebian,
			wantPM:     "apt-get",
			wantSvc:    "systemctl",
		},
		{
			name:       "rocky with dnf",
			content:    rockyOSRelease,
			lookPath:   lookPathOnly("systemctl", "dnf"),
			wantFamily: FamilyRHEL,
			wantPM:     "dnf",
			wantSvc:    "systemctl",
		},
		{
			name:       "rhel-like falls back to yum",
			content:    rockyOSRelease,
			lookPath:   lookPathOnly("systemctl"),
			wantFamily: FamilyRHEL,
			wantPM:     "yum",
			wantSvc:    "systemctl",
		},
		{
			name:       "no systemctl falls back to service",
			content:    ubuntuOSRelease,
			lookPath:   lookPathOnly("service"),
			wantFamily: FamilyDebian,
			wantPM:     "apt-get",
			wantSvc:    "service",
		},
		{
			name:     "unrecognized distribution",
			content:  alpineOSRelease,
			lookPath: lookPathOnly("systemctl"),
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &executor.MockExecutor{LookPathFunc: tt.lookPath}

			env, err := detectFromOSRelease(tt.content, mock)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrUnsupportedOS) {
					t.Fatalf("expected ErrUnsupportedOS, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if env.Family != tt.wantFamily {
				t.Errorf("family = %q, want %q", env.Family, tt.wantFamily)
			}
			if env.PackageManager != tt.wantPM {
				t.Errorf("package manager = %q, want %q", env.PackageManager, tt.wantPM)
			}
			if env.ServiceManager != tt.wantSvc {
				t.Errorf("service manager = %q, want %q", env.ServiceManager, tt.wantSvc)
			}
		})
	}
}

func TestDetectFromOSReleasePrettyName(t *testing.T) {
	mock := &executor.MockExecutor{LookPathFunc: lookPathOnly("systemctl")}
	env, err := detectFromOSRelease(ubuntuOSRelease, mock)
	if err != nil {
		t.Fatal(err)
	}
	if env.OSName != "Ubuntu 24.04.1 LTS" {
		t.Errorf("OSName = %q, want quoted PRETTY_NAME stripped", env.OSName)
	}
}

func TestParseOSRelease(t *testing.T) {
	fields := parseOSRelease("# comment\n\nID=ubuntu\nPRETTY_NAME=\"Ubuntu 24.04\"\nBROKEN LINE\n")
	if fields["ID"] != "ubuntu" {
		t.Errorf("ID = %q", fields["ID"])
	}
	if fields["PRETTY_NAME"] != "Ubuntu 24.04" {
		t.Errorf("PRETTY_NAME = %q, quotes should be stripped", fields["PRETTY_NAME"])
	}
	if _, ok := fields["BROKEN LINE"]; ok {
		t.Error("lines without = should be skipped")
	}
}

func TestContainsAny(t *testing.T) {
	tests := []struct {
		haystack string
		needles  []string
		want     bool
	}{
		{"rhel centos fedora", []string{"rhel"}, true},
		{"debian", []string{"ubuntu", "debian"}, true},
		{"opensuse suse", []string{"rhel", "debian"}, false},
		// Substrings must not match whole-word needles.
		{"debianlike", []string{"debian"}, false},
	}
	for _, tt := range tests {
		if got := containsAny(tt.haystack, tt.needles...); got != tt.want {
			t.Errorf("containsAny(%q, %v) = %v, want %v", tt.haystack, tt.needles, got, tt.want)
		}
	}
}

package input

import (
	"strconv"
	"strings"

	"github.com/ksyq12/proxyup/internal/errors"
	"github.com/ksyq12/proxyup/internal/output"
)

// cancelSentinel aborts an interactive flow when entered at any prompt.
const cancelSentinel = "q"

// Prompter drives the request/validate/retry loops for interactive input.
// Invalid input re-prompts; entering "q" returns errors.ErrCancelled.
type Prompter struct {
	reader Reader
}

// NewPrompter creates a Prompter reading from r.
func NewPrompter(r Reader) *Prompter {
	return &Prompter{reader: r}
}

// readLine reads one trimmed line, mapping the cancel sentinel to ErrCancelled.
func (p *Prompter) readLine() (string, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", errors.ErrCancelled
	}
	line = strings.TrimSpace(line)
	if line == cancelSentinel {
		return "", errors.ErrCancelled
	}
	return line, nil
}

// Domains collects one or more hostnames, ending on a blank line.
// The first domain entered is the primary. At least one is required.
func (p *Prompter) Domains() ([]string, error) {
	output.Print("Enter domain(s), one per line, first is primary. Blank line to finish, %q to cancel.", cancelSentinel)

	var domains []string
	for {
		if len(domains) == 0 {
			output.Print("Domain: ")
		} else {
			output.Print("Additional domain (blank to finish): ")
		}

		line, err := p.readLine()
		if err != nil {
			return nil, err
		}
		if line == "" {
			if len(domains) == 0 {
				output.Warn("At least one domain is required")
				continue
			}
			return domains, nil
		}

		if err := ValidateDomain(line); err != nil {
			output.Warn("%v", err)
			continue
		}
		if contains(domains, line) {
			output.Warn("Domain %s already entered", line)
			continue
		}
		domains = append(domains, line)
	}
}

// Target prompts for a proxy target: a bare port or host:port.
func (p *Prompter) Target() (string, error) {
	for {
		output.Print("Proxy target (port or host:port): ")
		line, err := p.readLine()
		if err != nil {
			return "", err
		}

		target, err := ParseTarget(line)
		if err != nil {
			output.Warn("%v", err)
			continue
		}
		return target, nil
	}
}

// Email prompts for a contact email, offering lastEmail as the default.
func (p *Prompter) Email(lastEmail string) (string, error) {
	for {
		if lastEmail != "" {
			output.Print("Contact email [%s]: ", lastEmail)
		} else {
			output.Print("Contact email: ")
		}

		line, err := p.readLine()
		if err != nil {
			return "", err
		}
		if line == "" && lastEmail != "" {
			return lastEmail, nil
		}

		if err := ValidateEmail(line); err != nil {
			output.Warn("%v", err)
			continue
		}
		return line, nil
	}
}

// Confirm asks a yes/no question. defaultYes selects the answer for a bare
// enter. The cancel sentinel counts as "no" rather than aborting, so that
// confirmations never need a third state.
func (p *Prompter) Confirm(question string, defaultYes bool) bool {
	suffix := "[y/N]"
	if defaultYes {
		suffix = "[Y/n]"
	}
	output.Print("%s %s: ", question, suffix)

	line, err := p.readLine()
	if err != nil {
		return false
	}
	if line == "" {
		return defaultYes
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// Select displays a numbered menu and returns the chosen index.
// Re-prompts on out-of-range input; the cancel sentinel returns ErrCancelled.
func (p *Prompter) Select(title string, options []string) (int, error) {
	for {
		output.Print("%s", title)
		for i, opt := range options {
			output.Print("  %d) %s", i+1, opt)
		}
		output.Print("Choice: ")

		line, err := p.readLine()
		if err != nil {
			return 0, err
		}

		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > len(options) {
			output.Warn("Enter a number between 1 and %d", len(options))
			continue
		}
		return n - 1, nil
	}
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

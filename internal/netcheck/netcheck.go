// Package netcheck cross-checks DNS state before certificate issuance: it
// detects the host's public IP through an ordered list of IP-echo services
// and resolves domains through DNS-over-HTTPS JSON endpoints. Mismatches
// are advisory; the caller decides whether to proceed.
package netcheck

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Default providers, tried in order; first success wins.
var (
	defaultEchoServices = []string{
		"https://api.ipify.org",
		"https://icanhazip.com",
		"https://ifconfig.me/ip",
	}
	defaultDoHEndpoints = []string{
		"https://dns.google/resolve",
		"https://cloudflare-dns.com/dns-query",
	}
)

// Checker performs public-IP detection and DoH lookups.
type Checker struct {
	client       *http.Client
	echoServices []string
	dohEndpoints []string
}

// New creates a Checker with the default providers and a short timeout.
func New() *Checker {
	return &Checker{
		client:       &http.Client{Timeout: 5 * time.Second},
		echoServices: defaultEchoServices,
		dohEndpoints: defaultDoHEndpoints,
	}
}

// NewWithProviders creates a Checker with explicit providers, for tests.
func NewWithProviders(client *http.Client, echoServices, dohEndpoints []string) *Checker {
	return &Checker{
		client:       client,
		echoServices: echoServices,
		dohEndpoints: dohEndpoints,
	}
}

// PublicIP returns the host's public IP as reported by the first echo
// service that answers with a parseable address.
func (c *Checker) PublicIP() (string, error) {
	var lastErr error
	for _, svc := range c.echoServices {
		ip, err := c.fetchIP(svc)
		if err != nil {
			lastErr = err
			continue
		}
		return ip, nil
	}
	return "", fmt.Errorf("all IP echo services failed: %w", lastErr)
}

func (c *Checker) fetchIP(svc string) (string, error) {
	resp, err := c.client.Get(svc)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s returned status %d", svc, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 256))
	if err != nil {
		return "", err
	}
	ip := strings.TrimSpace(string(body))
	if net.ParseIP(ip) == nil {
		return "", fmt.Errorf("%s returned %q, not an IP", svc, ip)
	}
	return ip, nil
}

// dohAnswer is the shared answer shape of the Google and Cloudflare
// DNS JSON APIs.
type dohAnswer struct {
	Answer []struct {
		Type int    `json:"type"`
		Data string `json:"data"`
	} `json:"Answer"`
}

// Resolve returns the A records for domain via DoH, trying each endpoint
// in order.
func (c *Checker) Resolve(domain string) ([]string, error) {
	var lastErr error
	for _, endpoint := range c.dohEndpoints {
		ips, err := c.resolveVia(endpoint, domain)
		if err != nil {
			lastErr = err
			continue
		}
		return ips, nil
	}
	return nil, fmt.Errorf("all DoH endpoints failed for %s: %w", domain, lastErr)
}

func (c *Checker) resolveVia(endpoint, domain string) ([]string, error) {
	u := fmt.Sprintf("%s?name=%s&type=A", endpoint, url.QueryEscape(domain))
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/dns-json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d", endpoint, resp.StatusCode)
	}

	var answer dohAnswer
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		return nil, fmt.Errorf("failed to parse DoH response: %w", err)
	}

	var ips []string
	for _, a := range answer.Answer {
		// Type 1 is an A record; CNAME chains also appear in Answer.
		if a.Type == 1 && net.ParseIP(a.Data) != nil {
			ips = append(ips, a.Data)
		}
	}
	if len(ips) == 0 {
		return nil, fmt.Errorf("no A records for %s", domain)
	}
	return ips, nil
}

// Result is the outcome of one domain's cross-check.
type Result struct {
	Domain      string
	PublicIP    string
	ResolvedIPs []string
	Match       bool
}

// Check resolves domain and compares against the given public IP.
func (c *Checker) Check(domain, publicIP string) (*Result, error) {
	ips, err := c.Resolve(domain)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Domain:      domain,
		PublicIP:    publicIP,
		ResolvedIPs: ips,
	}
	for _, ip := range ips {
		if ip == publicIP {
			result.Match = true
			break
		}
	}
	return result, nil
}

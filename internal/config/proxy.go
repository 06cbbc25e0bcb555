package config

// Proxy represents one managed reverse-proxy configuration. It is keyed by
// its primary domain, the first entry in Domains, which also keys the
// certbot certificate and the nginx config file name.
type Proxy struct {
	Domains []string // ordered; first is primary
	Target  string   // proxy_pass target, e.g. http://127.0.0.1:8080
	SSL     bool     // TLS block present (certificate issued)
	HSTS    bool     // Strict-Transport-Security header enabled
	Enabled bool     // activation artifact present
}

// Primary returns the primary domain, or "" for an empty domain list.
func (p *Proxy) Primary() string {
	if len(p.Domains) == 0 {
		return ""
	}
	return p.Domains[0]
}

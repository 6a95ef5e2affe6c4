// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package dnsworker

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"
)

// Config is the resolver tuning shared read-only by all concurrent lookups of
// a resolution pass. It is passed by value into each worker, so a pass can
// never observe a half-updated configuration.
type Config struct {
	Servers  []string      // resolver addresses in "host:port" form, tried in order.
	Search   []string      // search list for relative names.
	Ndots    int           // names with at least this many dots are tried absolute first.
	Timeout  time.Duration // timeout of a single query attempt.
	Attempts int           // number of attempts per query before giving up.
	Recurse  bool          // ask the resolver to recurse.
}

// DefaultConfig returns the resolver tuning used when no resolv.conf is
// available: a single one-second attempt policy with recursion enabled,
// matching the defaults of the original renderer this tool replaces.
func DefaultConfig() Config {
	return Config{
		Ndots:    1,
		Timeout:  time.Second,
		Attempts: 2,
		Recurse:  true,
	}
}

// SystemConfig returns the resolver tuning read from the host's
// /etc/resolv.conf, with the defaults of [DefaultConfig] filling in whatever
// the file doesn't specify.
func SystemConfig() (Config, error) {
	return configFromFile("/etc/resolv.conf")
}

func configFromFile(path string) (Config, error) {
	clntcfg, err := dns.ClientConfigFromFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("cannot read resolver configuration: %w", err)
	}
	cfg := DefaultConfig()
	for _, server := range clntcfg.Servers {
		cfg.Servers = append(cfg.Servers, net.JoinHostPort(server, clntcfg.Port))
	}
	cfg.Search = clntcfg.Search
	if clntcfg.Ndots > 0 {
		cfg.Ndots = clntcfg.Ndots
	}
	if clntcfg.Timeout > 0 {
		cfg.Timeout = time.Duration(clntcfg.Timeout) * time.Second
	}
	if clntcfg.Attempts > 0 {
		cfg.Attempts = clntcfg.Attempts
	}
	return cfg, nil
}

// nameCandidates returns the fully qualified query names to try for the
// specified name, in order, applying the search list according to the ndots
// rule: already-rooted names are tried as-is, names with at least Ndots dots
// are tried absolute before the search list, and all others after it.
func (cfg Config) nameCandidates(name string) []string {
	if strings.HasSuffix(name, ".") {
		return []string{name}
	}
	absolute := dns.Fqdn(name)
	searched := make([]string, 0, len(cfg.Search))
	for _, domain := range cfg.Search {
		searched = append(searched, dns.Fqdn(name+"."+strings.TrimSuffix(domain, ".")))
	}
	if strings.Count(name, ".") >= cfg.Ndots {
		return append([]string{absolute}, searched...)
	}
	return append(searched, absolute)
}

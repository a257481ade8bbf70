// Package config defines the runtime configuration for godial and
// provides layered loading: flags override environment variables,
// which override the optional config file, which overrides defaults.
package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"godial/internal/resolve"
)

// Config holds every tuneable for a single godial run.
type Config struct {
	// ── Connection ───────────────────────────────────────────────────
	Host      string
	Port      string // numeric or service name, resolved like getaddrinfo
	Family    string // "ipv4", "ipv6", or "dual"
	Timeout   time.Duration
	LocalPort int // optional source-port binding (0 = ephemeral)

	// ── Output ───────────────────────────────────────────────────────
	Verbose int
	NoColor bool

	// ── Meta ─────────────────────────────────────────────────────────
	ConfigFile string
}

// FamilyPolicy maps the configured family string onto the resolver's
// policy.  Validate guarantees the string is one of the known values.
func (c *Config) FamilyPolicy() resolve.Policy {
	switch c.Family {
	case "ipv6":
		return resolve.IPv6Only
	case "dual":
		return resolve.DualStack
	default:
		return resolve.IPv4Only
	}
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("hostname is required (use --help for usage)")
	}
	if c.Port == "" {
		return fmt.Errorf("destination port is required")
	}
	if n, err := strconv.Atoi(c.Port); err == nil && (n < 1 || n > 65535) {
		return fmt.Errorf("port %d out of range 1-65535", n)
	}

	switch c.Family {
	case "", "ipv4", "ipv6", "dual":
	default:
		return fmt.Errorf("invalid address family %q (want ipv4, ipv6, or dual)", c.Family)
	}

	if c.LocalPort < 0 || c.LocalPort > 65535 {
		return fmt.Errorf("source port %d out of range 0-65535", c.LocalPort)
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}

	return nil
}

// Addr returns the host:port form of the destination for display.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

package config

import "time"

// ── Default values ───────────────────────────────────────────────────
//
// All tuneable defaults live here so they are easy to audit and reuse
// across CLI flags, config file parsing, and environment variable
// loading.

const (
	// DefaultPort is the destination port used when none is given.
	DefaultPort = "6667"

	// DefaultFamily is the address family policy: IPv4 candidates
	// only, the historical behaviour of this layer.
	DefaultFamily = "ipv4"

	// DefaultConnTimeout is the per-candidate TCP connect timeout.
	DefaultConnTimeout = 30 * time.Second
)

// Defaults returns a Config populated with the default values.
func Defaults() *Config {
	return &Config{
		Port:    DefaultPort,
		Family:  DefaultFamily,
		Timeout: DefaultConnTimeout,
	}
}

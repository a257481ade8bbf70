package config

// loader.go - configuration loading from the environment and the
// optional YAML config file.
//
// Precedence order (highest wins):
//   1. CLI flags  (handled by cmd/root.go)
//   2. Environment variables  (LoadFromEnv)
//   3. Config file  (LoadFromFile)
//   4. Defaults   (defaults.go)

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ── Environment variable mapping ─────────────────────────────────────
//
// Every supported env var uses the GODIAL_ prefix.  Boolean values
// accept "1", "true", "yes" (case-insensitive).

// LoadFromEnv overlays environment variables onto cfg.  Only non-empty
// env vars override the existing value.  This should be called BEFORE
// CLI flag parsing so that flags take precedence.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("GODIAL_HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("GODIAL_PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("GODIAL_FAMILY"); v != "" {
		cfg.Family = strings.ToLower(v)
	}
	if v := envInt("GODIAL_TIMEOUT"); v > 0 {
		cfg.Timeout = secondsDuration(v)
	}
	if v := envInt("GODIAL_SOURCE_PORT"); v > 0 {
		cfg.LocalPort = v
	}
	if v := envInt("GODIAL_VERBOSE"); v > 0 {
		cfg.Verbose = v
	}
	if envBool("GODIAL_NO_COLOR") {
		cfg.NoColor = true
	}
}

// ── Config file ──────────────────────────────────────────────────────

// fileConfig mirrors the YAML schema.  Durations are whole seconds.
type fileConfig struct {
	Host       string `yaml:"host"`
	Port       string `yaml:"port"`
	Family     string `yaml:"family"`
	TimeoutSec int    `yaml:"timeout"`
	SourcePort int    `yaml:"source_port"`
	Verbose    int    `yaml:"verbose"`
	NoColor    bool   `yaml:"no_color"`
}

// LoadFromFile overlays the YAML file at path onto cfg.  Only fields
// present in the file override the existing value.  A missing file is
// an error; callers skip the call when no file was configured.
func LoadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.Host != "" {
		cfg.Host = fc.Host
	}
	if fc.Port != "" {
		cfg.Port = fc.Port
	}
	if fc.Family != "" {
		cfg.Family = strings.ToLower(fc.Family)
	}
	if fc.TimeoutSec > 0 {
		cfg.Timeout = secondsDuration(fc.TimeoutSec)
	}
	if fc.SourcePort > 0 {
		cfg.LocalPort = fc.SourcePort
	}
	if fc.Verbose > 0 {
		cfg.Verbose = fc.Verbose
	}
	if fc.NoColor {
		cfg.NoColor = true
	}
	return nil
}

// ── helpers ──────────────────────────────────────────────────────────

func envInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "1" || v == "true" || v == "yes"
}

func secondsDuration(sec int) time.Duration {
	return time.Duration(sec) * time.Second
}

// Package cmd wires up the CLI flags and dispatches to the connect
// core.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"godial/config"
	"godial/internal/core"
	"godial/internal/metrics"
	"godial/internal/registry"
	"godial/internal/resolve"
	"godial/internal/transport"
	"godial/util"
)

// version is overridable at link time:
//
//	go build -ldflags "-X godial/cmd.version=2.0.0"
var version = "1.0.0" //nolint:gochecknoglobals

// Execute parses args and runs a connect session against the
// requested host and port.
func Execute(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("godial", flag.ContinueOnError)

	// ── connection ───────────────────────────────────────────────
	var timeoutSec int
	fs.IntVarP(&timeoutSec, "timeout", "w", 0, "Connect timeout in seconds (per candidate)")

	var sourcePort int
	fs.IntVarP(&sourcePort, "source-port", "p", 0, "Local source port to bind")

	var useIPv4, useIPv6, useDual bool
	fs.BoolVarP(&useIPv4, "ipv4", "4", false, "Resolve IPv4 candidates only (default)")
	fs.BoolVarP(&useIPv6, "ipv6", "6", false, "Resolve IPv6 candidates only")
	fs.BoolVar(&useDual, "dual", false, "Resolve both IPv4 and IPv6 candidates")

	// ── output ───────────────────────────────────────────────────
	var verbose int
	fs.CountVarP(&verbose, "verbose", "v", "Increase verbosity (repeatable)")
	var noColor bool
	fs.BoolVar(&noColor, "no-color", false, "Disable colored log output")

	// ── meta ─────────────────────────────────────────────────────
	var configFile string
	fs.StringVar(&configFile, "config", "", "Path to YAML config file")

	var showVersion, showHelp bool
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVarP(&showHelp, "help", "h", false, "Show this help")

	fs.Usage = func() { printUsage(fs) }

	// ── parse ────────────────────────────────────────────────────
	if err := fs.Parse(args); err != nil {
		return err
	}

	if showHelp || len(args) == 0 {
		printUsage(fs)
		return nil
	}
	if showVersion {
		fmt.Printf("godial %s\n", version)
		return nil
	}

	// ── layered configuration: defaults < file < env < flags ─────
	cfg := config.Defaults()

	if configFile != "" {
		if err := config.LoadFromFile(cfg, configFile); err != nil {
			return err
		}
		cfg.ConfigFile = configFile
	}
	config.LoadFromEnv(cfg)

	if fs.Changed("timeout") {
		cfg.Timeout = time.Duration(timeoutSec) * time.Second
	}
	if fs.Changed("source-port") {
		cfg.LocalPort = sourcePort
	}
	if fs.Changed("verbose") {
		cfg.Verbose = verbose
	}
	if fs.Changed("no-color") {
		cfg.NoColor = noColor
	}

	switch {
	case useIPv6 && useIPv4:
		return fmt.Errorf("-4 and -6 are mutually exclusive")
	case useIPv6:
		cfg.Family = "ipv6"
	case useDual:
		cfg.Family = "dual"
	case useIPv4:
		cfg.Family = "ipv4"
	}

	// ── positional arguments: HOST [PORT] ────────────────────────
	switch pos := fs.Args(); len(pos) {
	case 0:
		// host may come from the file or environment
	case 1:
		cfg.Host = pos[0]
	case 2:
		cfg.Host = pos[0]
		cfg.Port = pos[1]
	default:
		return fmt.Errorf("too many arguments (expected HOST [PORT])")
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	return run(ctx, cfg)
}

func run(ctx context.Context, cfg *config.Config) error {
	logger := util.NewLogger(cfg.Verbose)
	if cfg.NoColor {
		logger.SetColors(false)
	}

	m := metrics.New()
	mode := &core.ConnectMode{
		Resolver: &resolve.Resolver{Policy: cfg.FamilyPolicy()},
		Dialer: &transport.FailoverDialer{
			Dialer: &transport.TCPDialer{
				Timeout:   cfg.Timeout,
				LocalPort: cfg.LocalPort,
			},
			Logger:  logger,
			Metrics: m,
		},
		Registry: registry.NewRegistry(logger),
		Logger:   logger,
		Host:     cfg.Host,
		Port:     cfg.Port,
	}

	err := mode.Run(ctx)

	if logger.Level() >= util.LogDebug {
		if snap, jerr := json.Marshal(m.Snapshot()); jerr == nil {
			logger.Debug("session metrics: %s", snap)
		}
	}
	return err
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, `godial %s - failover-aware TCP client

Usage:
  godial [options] HOST [PORT]

Connects to HOST on PORT (default %s), trying each resolved address
in order until one accepts, then relays stdin/stdout over the raw
TCP stream.

Options:
%s
Environment:
  GODIAL_HOST, GODIAL_PORT, GODIAL_FAMILY, GODIAL_TIMEOUT,
  GODIAL_SOURCE_PORT, GODIAL_VERBOSE, GODIAL_NO_COLOR

Examples:
  godial irc.example.com 6667
  godial -w 5 -6 example.com 80
  godial --config ~/.godial.yaml
`, version, config.DefaultPort, fs.FlagUsages())
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	flags "github.com/jessevdk/go-flags"
	"github.com/rs/zerolog"

	"github.com/hsalem/probekit/internal/platform/config"
	"github.com/hsalem/probekit/internal/platform/logger"
	"github.com/hsalem/probekit/internal/platform/runid"
	"github.com/hsalem/probekit/internal/probe"
)

// Options defines CLI flags for the port prober. Flags override config file
// and environment values.
type Options struct {
	Config  string        `short:"c" long:"config" description:"Path to TOML config file"`
	Host    string        `short:"H" long:"host" description:"Target host to probe"`
	Port    int           `short:"p" long:"port" description:"Target TCP port"`
	Timeout time.Duration `short:"t" long:"timeout" description:"Connect timeout (e.g. 3s)"`
}

func main() {
	var opts Options
	if _, err := flags.NewParser(&opts, flags.Default).Parse(); err != nil {
		os.Exit(2)
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if opts.Host != "" {
		cfg.Host = opts.Host
	}
	if opts.Port != 0 {
		cfg.Port = opts.Port
	}
	if opts.Timeout != 0 {
		cfg.Timeout = opts.Timeout
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New("portprobe", cfg.LogLevel)
	ctx := runid.NewContext(context.Background(), runid.New())

	log.Info().
		Str("run_id", runid.FromContext(ctx)).
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Dur("timeout", cfg.Timeout).
		Msg("probing port")

	run(ctx, cfg, log, os.Stdout)
}

// run performs the probe and writes the single result line to out. Timeout,
// refusal, and DNS failure all collapse into the same user-facing line; the
// prober's log carries the distinction.
func run(ctx context.Context, cfg config.Config, log zerolog.Logger, out io.Writer) {
	result := probe.New(cfg.Timeout, log).Probe(ctx, cfg.Host, cfg.Port)

	if result.Open() {
		fmt.Fprintf(out, "Port %d on %s is open\n", cfg.Port, cfg.Host)
	} else {
		fmt.Fprintf(out, "Port %d on %s is closed or unreachable\n", cfg.Port, cfg.Host)
	}
}

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
	"github.com/hsalem/probekit/internal/reachability"
)

const (
	successMessage = "Success: the site is reachable"
	failureMessage = "Failure: the site is not reachable"
)

// Options defines CLI flags for the reachability checker. Flags override
// config file and environment values.
type Options struct {
	Config  string        `short:"c" long:"config" description:"Path to TOML config file"`
	URL     string        `short:"u" long:"url" description:"Target URL to check"`
	Timeout time.Duration `short:"t" long:"timeout" description:"Request timeout (e.g. 3s)"`
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
	if opts.URL != "" {
		cfg.URL = opts.URL
	}
	if opts.Timeout != 0 {
		cfg.Timeout = opts.Timeout
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New("reachcheck", cfg.LogLevel)
	ctx := runid.NewContext(context.Background(), runid.New())

	log.Info().
		Str("run_id", runid.FromContext(ctx)).
		Str("url", cfg.URL).
		Dur("timeout", cfg.Timeout).
		Msg("checking reachability")

	run(ctx, cfg, log, os.Stdout)
}

// run performs the check and writes the result lines to out. Diagnostics go
// to the logger; out carries only the user-facing contract. The process
// completes normally whether or not the site is reachable.
func run(ctx context.Context, cfg config.Config, log zerolog.Logger, out io.Writer) {
	checker := reachability.New(cfg.Timeout, log)
	result, err := checker.Check(ctx, cfg.URL)
	if err != nil {
		// A transport error has no status code; only the failure line
		// prints. The checker already logged the distinguishing kind.
		fmt.Fprintln(out, failureMessage)
		return
	}

	fmt.Fprintf(out, "HTTP Status Code: %d\n", result.StatusCode)
	if result.Reachable {
		fmt.Fprintln(out, successMessage)
	} else {
		fmt.Fprintln(out, failureMessage)
	}
}

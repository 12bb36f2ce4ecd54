package main

import (
	"context"
	"fmt"
	"io"
	"os"

	flags "github.com/jessevdk/go-flags"
	"github.com/rs/zerolog"

	"github.com/hsalem/probekit/internal/patch"
	"github.com/hsalem/probekit/internal/platform/config"
	"github.com/hsalem/probekit/internal/platform/logger"
	"github.com/hsalem/probekit/internal/platform/runid"
)

const completionMessage = "File patched successfully"

// Options defines CLI flags for the text patcher. Flags override config file
// and environment values.
type Options struct {
	Config string `short:"c" long:"config" description:"Path to TOML config file"`
	Input  string `short:"i" long:"input" description:"Input file to patch"`
	Backup string `short:"b" long:"backup" description:"Backup file path"`
	Output string `short:"o" long:"output" description:"Output file path"`
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
	if opts.Input != "" {
		cfg.InputPath = opts.Input
	}
	if opts.Backup != "" {
		cfg.BackupPath = opts.Backup
	}
	if opts.Output != "" {
		cfg.OutputPath = opts.Output
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New("textpatch", cfg.LogLevel)
	ctx := runid.NewContext(context.Background(), runid.New())

	log.Info().
		Str("run_id", runid.FromContext(ctx)).
		Str("input", cfg.InputPath).
		Str("backup", cfg.BackupPath).
		Str("output", cfg.OutputPath).
		Msg("patching file")

	if err := run(ctx, cfg, log, os.Stdout); err != nil {
		log.Error().Err(err).Msg("patch failed")
		fmt.Fprintf(os.Stderr, "textpatch: %v\n", err)
		os.Exit(1)
	}
}

// run patches the configured file and writes the completion message to out.
// Unlike the network commands, a failed run is an error: a missing input
// must abort loudly, never produce an empty output.
func run(ctx context.Context, cfg config.Config, log zerolog.Logger, out io.Writer) error {
	patcher := patch.New(patch.LegacyRules(), log)
	if _, err := patcher.PatchFile(ctx, cfg.InputPath, cfg.BackupPath, cfg.OutputPath); err != nil {
		return err
	}

	fmt.Fprintln(out, completionMessage)
	return nil
}

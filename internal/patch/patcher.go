package patch

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hsalem/probekit/internal/model"
	"github.com/hsalem/probekit/internal/platform/errs"
	"github.com/hsalem/probekit/internal/platform/runid"
)

// Patcher applies a rule set to a file, writing a byte-identical backup of
// the input before producing the transformed output.
type Patcher struct {
	rules []Rule
	log   zerolog.Logger
}

// New returns a Patcher for the given rule set.
func New(rules []Rule, log zerolog.Logger) *Patcher {
	return &Patcher{rules: rules, log: log}
}

// PatchFile reads inPath, writes its exact bytes to backupPath, then writes
// the transformed lines to outPath. The input file is never modified.
// Untouched lines keep their original terminators, so re-running over the
// same input always yields the same output.
func (p *Patcher) PatchFile(ctx context.Context, inPath, backupPath, outPath string) (*model.PatchSummary, error) {
	data, err := os.ReadFile(inPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &errs.AppError{
				Kind:    errs.NotFound,
				Message: fmt.Sprintf("input file %q does not exist", inPath),
				Cause:   err,
			}
		}
		return nil, fmt.Errorf("read %s: %w", inPath, err)
	}

	if err := os.WriteFile(backupPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("write backup %s: %w", backupPath, err)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", outPath, err)
	}
	defer func() { _ = out.Close() }()

	w := bufio.NewWriter(out)
	lines, changed, err := p.patch(bytes.NewReader(data), w)
	if err != nil {
		return nil, fmt.Errorf("patch %s: %w", inPath, err)
	}

	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("write %s: %w", outPath, err)
	}
	if err := out.Close(); err != nil {
		return nil, fmt.Errorf("close %s: %w", outPath, err)
	}

	p.log.Info().
		Str("run_id", runid.FromContext(ctx)).
		Str("input", inPath).
		Str("output", outPath).
		Int("lines", lines).
		Int("changed", changed).
		Msg("patch complete")

	return &model.PatchSummary{
		Input:   inPath,
		Backup:  backupPath,
		Output:  outPath,
		Lines:   lines,
		Changed: changed,
	}, nil
}

// patch streams r to w line by line, applying the rule set to each line.
func (p *Patcher) patch(r io.Reader, w io.Writer) (lines, changed int, err error) {
	br := bufio.NewReader(r)
	for number := 1; ; number++ {
		raw, readErr := br.ReadString('\n')
		if raw == "" && readErr != nil {
			if readErr != io.EOF {
				return lines, changed, readErr
			}
			break
		}

		text, terminator := splitTerminator(raw)
		transformed, _ := Transform(p.rules, Line{Number: number, Text: text})

		lines++
		if transformed != text {
			changed++
		}

		if _, werr := io.WriteString(w, transformed+terminator); werr != nil {
			return lines, changed, werr
		}

		if readErr != nil {
			if readErr != io.EOF {
				return lines, changed, readErr
			}
			break
		}
	}
	return lines, changed, nil
}

// splitTerminator separates a raw line into content and its terminator
// ("\n", "\r\n", or "" for a final unterminated line).
func splitTerminator(raw string) (text, terminator string) {
	if strings.HasSuffix(raw, "\r\n") {
		return raw[:len(raw)-2], "\r\n"
	}
	if strings.HasSuffix(raw, "\n") {
		return raw[:len(raw)-1], "\n"
	}
	return raw, ""
}

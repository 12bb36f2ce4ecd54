package patch

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hsalem/probekit/internal/platform/errs"
)

func writeInput(t *testing.T, content string) (in, backup, out string) {
	t.Helper()
	dir := t.TempDir()
	in = filepath.Join(dir, "input.txt")
	backup = filepath.Join(dir, "input.txt.bak")
	out = filepath.Join(dir, "output.txt")
	if err := os.WriteFile(in, []byte(content), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return in, backup, out
}

func legacyPatcher() *Patcher {
	return New(LegacyRules(), zerolog.Nop())
}

func TestPatchFile_EndToEnd(t *testing.T) {
	const input = "line one\n" +
		"line two\n" +
		"line three\n" +
		"line four\n" +
		"line five\n" +
		"welcome, give me access\n"
	const want = "line one\n" +
		"line two\n" +
		"line three\n" +
		"line four\n" +
		"line five\n" +
		"welcome, learning me access\n"

	in, backup, out := writeInput(t, input)

	summary, err := legacyPatcher().PatchFile(context.Background(), in, backup, out)
	if err != nil {
		t.Fatalf("PatchFile() error = %v", err)
	}

	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(got) != want {
		t.Errorf("output = %q, want %q", got, want)
	}

	if summary.Lines != 6 {
		t.Errorf("Lines = %d, want 6", summary.Lines)
	}
	if summary.Changed != 1 {
		t.Errorf("Changed = %d, want 1", summary.Changed)
	}
}

func TestPatchFile_BackupIsByteIdentical(t *testing.T) {
	const input = "one\r\nwelcome give\ntrailing without newline"
	in, backup, out := writeInput(t, input)

	if _, err := legacyPatcher().PatchFile(context.Background(), in, backup, out); err != nil {
		t.Fatalf("PatchFile() error = %v", err)
	}

	original, err := os.ReadFile(in)
	if err != nil {
		t.Fatalf("read input: %v", err)
	}
	backedUp, err := os.ReadFile(backup)
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	if !bytes.Equal(original, backedUp) {
		t.Errorf("backup = %q, want identical to input %q", backedUp, original)
	}
	if string(original) != input {
		t.Errorf("input file changed: %q", original)
	}
}

func TestPatchFile_Idempotent(t *testing.T) {
	const input = "a\nb\nc\nd\nwelcome, give give\nplain\n"
	in, backup, out := writeInput(t, input)

	patcher := legacyPatcher()
	if _, err := patcher.PatchFile(context.Background(), in, backup, out); err != nil {
		t.Fatalf("first run: %v", err)
	}
	first, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}

	if _, err := patcher.PatchFile(context.Background(), in, backup, out); err != nil {
		t.Fatalf("second run: %v", err)
	}
	second, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Errorf("second run output differs:\nfirst:  %q\nsecond: %q", first, second)
	}
}

func TestPatchFile_PreservesTerminators(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "no trailing newline",
			input: "a\nb\nc\nd\nwelcome give",
			want:  "a\nb\nc\nd\nwelcome learning",
		},
		{
			name:  "crlf endings kept",
			input: "a\r\nb\r\nc\r\nd\r\nwelcome give\r\n",
			want:  "a\r\nb\r\nc\r\nd\r\nwelcome learning\r\n",
		},
		{
			name:  "empty lines kept",
			input: "\n\n\n\n\nwelcome give\n",
			want:  "\n\n\n\n\nwelcome learning\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, backup, out := writeInput(t, tt.input)
			if _, err := legacyPatcher().PatchFile(context.Background(), in, backup, out); err != nil {
				t.Fatalf("PatchFile() error = %v", err)
			}
			got, err := os.ReadFile(out)
			if err != nil {
				t.Fatalf("read output: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPatchFile_MissingInput(t *testing.T) {
	dir := t.TempDir()

	_, err := legacyPatcher().PatchFile(
		context.Background(),
		filepath.Join(dir, "missing.txt"),
		filepath.Join(dir, "missing.txt.bak"),
		filepath.Join(dir, "output.txt"),
	)
	if err == nil {
		t.Fatal("PatchFile() expected error, got nil")
	}
	if kind := errs.KindOf(err); kind != errs.NotFound {
		t.Errorf("kind = %s, want %s", kind, errs.NotFound)
	}

	// A missing input must not leave an empty output behind.
	if _, statErr := os.Stat(filepath.Join(dir, "output.txt")); !os.IsNotExist(statErr) {
		t.Error("output file exists after failed run")
	}
}

func TestPatchFile_EmptyInput(t *testing.T) {
	in, backup, out := writeInput(t, "")

	summary, err := legacyPatcher().PatchFile(context.Background(), in, backup, out)
	if err != nil {
		t.Fatalf("PatchFile() error = %v", err)
	}
	if summary.Lines != 0 || summary.Changed != 0 {
		t.Errorf("summary = %+v, want zero lines", summary)
	}

	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("output = %q, want empty", got)
	}
}

// brokenReader serves its data once, then fails with err.
type brokenReader struct {
	data   string
	err    error
	served bool
}

func (r *brokenReader) Read(p []byte) (int, error) {
	if r.served {
		return 0, r.err
	}
	r.served = true
	return copy(p, r.data), nil
}

func TestPatch_ReadErrorSurfaces(t *testing.T) {
	errDisk := errors.New("disk error")

	tests := []struct {
		name string
		data string
	}{
		// Failure after a terminated line hits the empty-read branch;
		// failure mid-line hits the partial-read branch.
		{name: "error between lines", data: "a\n"},
		{name: "error mid line", data: "a\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			_, _, err := legacyPatcher().patch(&brokenReader{data: tt.data, err: errDisk}, &out)
			if !errors.Is(err, errDisk) {
				t.Errorf("patch() error = %v, want %v", err, errDisk)
			}
		})
	}
}

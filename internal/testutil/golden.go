// Package testutil holds shared test helpers: golden files, a scripted
// analyzer and report fixtures.
package testutil

import (
	"flag"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

var update = flag.Bool("update", false, "update golden files")

// Golden compares output against files under a base directory.
type Golden struct {
	t       *testing.T
	baseDir string
}

// NewGolden creates a new golden file helper.
func NewGolden(t *testing.T, baseDir string) *Golden {
	return &Golden{t: t, baseDir: baseDir}
}

// AssertString compares Normalize(actual) against <name>.golden, or rewrites
// the file when tests run with -update.
func (g *Golden) AssertString(name, actual string) {
	g.t.Helper()
	actual = Normalize(actual)
	path := filepath.Join(g.baseDir, name+".golden")

	if *update {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			g.t.Fatalf("creating golden directory: %v", err)
		}
		if err := os.WriteFile(path, []byte(actual), 0o644); err != nil {
			g.t.Fatalf("writing golden file: %v", err)
		}
		g.t.Logf("updated golden file: %s", path)
		return
	}

	expected, err := os.ReadFile(path)
	if err != nil {
		g.t.Fatalf("reading golden file %s: %v", path, err)
	}
	if want := Normalize(string(expected)); actual != want {
		g.t.Errorf("output mismatch for %s:\n--- expected ---\n%s\n--- actual ---\n%s", name, want, actual)
	}
}

// Normalize unifies line endings and drops trailing whitespace and newlines.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

var (
	timestampRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}(:\d{2})?[^\s]*`)
	uuidRe      = regexp.MustCompile(`[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)
	ansiRe      = regexp.MustCompile("\x1b\\[[0-9;]*m")
)

// ScrubTimestamps replaces dates and times with a placeholder.
func ScrubTimestamps(s string) string {
	return timestampRe.ReplaceAllString(s, "[TIMESTAMP]")
}

// ScrubUUIDs replaces UUIDs with a placeholder.
func ScrubUUIDs(s string) string {
	return uuidRe.ReplaceAllString(s, "[UUID]")
}

// StripANSI removes terminal color sequences.
func StripANSI(s string) string {
	return ansiRe.ReplaceAllString(s, "")
}

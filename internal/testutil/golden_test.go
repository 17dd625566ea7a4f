package testutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/narrative-risk/riskview/internal/testutil"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"CRLF to LF", "line1\r\nline2\r\n", "line1\nline2"},
		{"trailing whitespace", "line1   \nline2\t\n", "line1\nline2"},
		{"trailing newlines", "line1\nline2\n\n\n", "line1\nline2"},
		{"empty string", "", ""},
		{"already clean", "line1\nline2", "line1\nline2"},
		{"mixed line endings", "a\r\nb  \nc\t\r\n", "a\nb\nc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, testutil.Normalize(tt.input))
		})
	}
}

func TestScrubTimestamps(t *testing.T) {
	assert.Equal(t, "at [TIMESTAMP] done", testutil.ScrubTimestamps("at 2024-05-01T12:00:00Z done"))
	assert.Equal(t, "saved [TIMESTAMP]", testutil.ScrubTimestamps("saved 2024-05-01 12:00"))
	assert.Equal(t, "no time here", testutil.ScrubTimestamps("no time here"))
}

func TestScrubUUIDs(t *testing.T) {
	got := testutil.ScrubUUIDs("id=3f2504e0-4f89-11d3-9a0c-0305e82c3301 ok")
	assert.Equal(t, "id=[UUID] ok", got)
}

func TestStripANSI(t *testing.T) {
	assert.Equal(t, "HIGH", testutil.StripANSI("\x1b[1;31mHIGH\x1b[0m"))
}

func TestGolden_AssertString(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "sample.golden"), []byte("hello\nworld\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	testutil.NewGolden(t, dir).AssertString("sample", "hello  \r\nworld")
}

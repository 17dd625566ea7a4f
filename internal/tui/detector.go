package tui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// OutputMode is how a command presents its results.
type OutputMode int

const (
	// ModeTUI runs the full-screen interactive model.
	ModeTUI OutputMode = iota
	// ModePlain prints rendered text.
	ModePlain
	// ModeJSON prints the report as JSON.
	ModeJSON
	// ModeYAML prints the report as YAML.
	ModeYAML
)

// String returns the name of the output mode.
func (m OutputMode) String() string {
	switch m {
	case ModeTUI:
		return "tui"
	case ModePlain:
		return "plain"
	case ModeJSON:
		return "json"
	case ModeYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// Detector picks an output mode from configuration, environment and the terminal.
type Detector struct {
	forceMode *OutputMode
	noColor   bool
	getenv    func(string) string
	isTTY     func() bool
}

// NewDetector creates a detector that inspects os.Stdout.
func NewDetector() *Detector {
	return &Detector{
		getenv: os.Getenv,
		isTTY:  func() bool { return term.IsTerminal(int(os.Stdout.Fd())) },
	}
}

// ForWriter makes terminal checks inspect w instead of os.Stdout. Writers that
// are not files are never terminals.
func (d *Detector) ForWriter(w io.Writer) *Detector {
	d.isTTY = func() bool {
		f, ok := w.(*os.File)
		return ok && term.IsTerminal(int(f.Fd()))
	}
	return d
}

// ForceMode skips detection and always returns mode.
func (d *Detector) ForceMode(mode OutputMode) *Detector {
	d.forceMode = &mode
	return d
}

// NoColor disables color output.
func (d *Detector) NoColor(disable bool) *Detector {
	d.noColor = disable
	return d
}

// Detect returns the output mode. RISKVIEW_OUTPUT overrides detection; CI
// environments and non-terminals get plain text.
func (d *Detector) Detect() OutputMode {
	if d.forceMode != nil {
		return *d.forceMode
	}

	if env := d.getenv("RISKVIEW_OUTPUT"); env != "" && env != "auto" {
		if mode, err := ParseOutputMode(env); err == nil {
			return mode
		}
	}

	if d.getenv("CI") != "" || d.getenv("GITHUB_ACTIONS") != "" {
		return ModePlain
	}

	if !d.isTTY() {
		return ModePlain
	}
	return ModeTUI
}

// ShouldUseColor reports whether output may contain color.
func (d *Detector) ShouldUseColor() bool {
	if d.noColor {
		return false
	}
	if d.getenv("NO_COLOR") != "" {
		return false
	}
	if d.getenv("TERM") == "dumb" {
		return false
	}
	return d.isTTY()
}

// TerminalSize returns the stdout terminal dimensions, or 80x24.
func TerminalSize() (width, height int) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 80, 24
	}
	return w, h
}

// ParseOutputMode parses an output mode name. "auto" is handled by callers
// through Detect.
func ParseOutputMode(s string) (OutputMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tui":
		return ModeTUI, nil
	case "plain", "text":
		return ModePlain, nil
	case "json":
		return ModeJSON, nil
	case "yaml", "yml":
		return ModeYAML, nil
	default:
		return ModeTUI, fmt.Errorf("unknown output mode %q", s)
	}
}

// ResolveOutputMode maps a configured value to a mode, detecting when it is
// empty or "auto".
func ResolveOutputMode(configured string, d *Detector) (OutputMode, error) {
	switch strings.ToLower(strings.TrimSpace(configured)) {
	case "", "auto":
		return d.Detect(), nil
	default:
		return ParseOutputMode(configured)
	}
}

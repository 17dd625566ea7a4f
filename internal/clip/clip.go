// Package clip copies text to the user's clipboard, falling back to a terminal
// escape sequence and finally to a temp file.
package clip

import (
	"errors"
	"fmt"
	"io"
	"os"

	atotto "github.com/atotto/clipboard"
	osc52 "github.com/aymanbagabas/go-osc52/v2"
	"golang.org/x/term"
)

// Method is the mechanism that made the text available.
type Method string

const (
	MethodNative Method = "native"
	MethodOSC52  Method = "osc52"
	// MethodFile means no clipboard was reachable and the text was written to FilePath.
	MethodFile Method = "file"
)

// Result describes where copied text ended up.
type Result struct {
	Method   Method
	FilePath string
}

// Describe returns a short status line for the result.
func (r Result) Describe(what string) string {
	switch r.Method {
	case MethodNative, MethodOSC52:
		return fmt.Sprintf("copied %s to clipboard", what)
	case MethodFile:
		return fmt.Sprintf("clipboard unavailable, %s saved to %s", what, r.FilePath)
	default:
		return ""
	}
}

// osc52Limit bounds escape-sequence payloads; terminals drop larger ones.
const osc52Limit = 100_000

// Copier tries each copy mechanism in order.
type Copier struct {
	native   func(string) error
	terminal io.Writer
	isTTY    func() bool
	tempDir  string
}

// New returns a Copier using the system clipboard and stderr.
func New() *Copier {
	return &Copier{
		native:   atotto.WriteAll,
		terminal: os.Stderr,
		isTTY:    func() bool { return term.IsTerminal(int(os.Stderr.Fd())) },
	}
}

// Copy makes text available to the user.
func (c *Copier) Copy(text string) (Result, error) {
	if text == "" {
		return Result{}, errors.New("nothing to copy")
	}
	if c.native != nil {
		if err := c.native(text); err == nil {
			return Result{Method: MethodNative}, nil
		}
	}
	if err := c.writeOSC52(text); err == nil {
		return Result{Method: MethodOSC52}, nil
	}

	path, err := c.writeTemp(text)
	if err != nil {
		return Result{}, fmt.Errorf("saving clipboard fallback: %w", err)
	}
	return Result{Method: MethodFile, FilePath: path}, nil
}

func (c *Copier) writeOSC52(text string) error {
	if c.terminal == nil || c.isTTY == nil || !c.isTTY() {
		return errors.New("no terminal for OSC52")
	}
	if len(text) > osc52Limit {
		return fmt.Errorf("text too large for OSC52 (%d bytes)", len(text))
	}

	seq := osc52.New(text).Limit(osc52Limit)
	switch {
	case os.Getenv("TMUX") != "":
		seq = seq.Tmux()
	case os.Getenv("STY") != "":
		seq = seq.Screen()
	}
	// stderr keeps the sequence out of bubbletea's stdout renderer.
	_, err := seq.WriteTo(c.terminal)
	return err
}

func (c *Copier) writeTemp(text string) (string, error) {
	f, err := os.CreateTemp(c.tempDir, "riskview-report-*.json")
	if err != nil {
		return "", err
	}
	if _, err := f.WriteString(text); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

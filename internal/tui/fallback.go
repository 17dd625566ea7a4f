package tui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/narrative-risk/riskview/internal/logging"
	"github.com/narrative-risk/riskview/internal/report"
	"github.com/narrative-risk/riskview/internal/session"
)

// LineMode is the non-interactive fallback used when stdout is not a
// terminal: each input line is analyzed and its report printed as text.
type LineMode struct {
	analyzer session.Analyzer
	out      io.Writer
	styles   report.Styles
	recorder Recorder
	logger   *logging.Logger
	prompt   string
}

// NewLineMode creates a line-mode front end writing to out.
func NewLineMode(a session.Analyzer, out io.Writer) *LineMode {
	return &LineMode{analyzer: a, out: out, logger: logging.NewNop()}
}

// WithStyles colors the printed reports.
func (l *LineMode) WithStyles(s report.Styles) *LineMode {
	l.styles = s
	return l
}

// WithRecorder stores successful analyses.
func (l *LineMode) WithRecorder(r Recorder) *LineMode {
	l.recorder = r
	return l
}

// WithLogger sets the logger.
func (l *LineMode) WithLogger(logger *logging.Logger) *LineMode {
	l.logger = logger
	return l
}

// WithPrompt prints prompt before reading each line.
func (l *LineMode) WithPrompt(prompt string) *LineMode {
	l.prompt = prompt
	return l
}

// Run analyzes lines from in until EOF, "quit" or context cancellation. A
// failed analysis is reported and the loop continues.
func (l *LineMode) Run(ctx context.Context, in io.Reader) (failures int, err error) {
	s := session.New(session.WithLogger(l.logger))
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)

	for {
		if l.prompt != "" {
			fmt.Fprint(l.out, l.prompt)
		}
		if !scanner.Scan() {
			break
		}
		if err := ctx.Err(); err != nil {
			return failures, err
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "quit", "exit", ":q":
			return failures, nil
		}

		state, _ := s.Analyze(ctx, l.analyzer, line)
		switch st := state.(type) {
		case session.Succeeded:
			fmt.Fprint(l.out, report.Text(st.Report, report.Options{
				Styles:    l.styles,
				View:      s.CrossCheck(),
				ExpandAll: true,
			}))
			fmt.Fprintln(l.out)
			if l.recorder != nil {
				if err := l.recorder.Record(ctx, st.Input, st.Report); err != nil {
					l.logger.Warn("history not saved", "error", err)
				}
			}
		case session.Failed:
			failures++
			fmt.Fprintf(l.out, "error: %s\n\n", st.Message)
			s.DismissError()
		}
	}
	return failures, scanner.Err()
}

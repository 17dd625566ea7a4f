package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/narrative-risk/riskview/internal/clip"
	"github.com/narrative-risk/riskview/internal/session"
)

// analysisDoneMsg carries an analyzer result back into the update loop. The
// session decides whether it is still current.
type analysisDoneMsg struct {
	session.Result
}

// submitMsg submits input as if typed and confirmed.
type submitMsg struct {
	input string
}

type copiedMsg struct {
	result clip.Result
	err    error
}

type recordedMsg struct {
	err error
}

// analyzeCmd runs the analyzer call off the update loop.
func analyzeCmd(ctx context.Context, a session.Analyzer, req session.Request) tea.Cmd {
	return func() tea.Msg {
		return analysisDoneMsg{Result: req.Do(ctx, a)}
	}
}

// Submit returns a message that submits input.
func Submit(input string) tea.Msg {
	return submitMsg{input: input}
}

// Package session implements the lifecycle of a single analysis request.
//
// A Session moves Idle -> Running -> Succeeded | Failed. Each accepted
// submission is tagged with a sequence number and a result is applied only if
// it carries the latest sequence, so a superseded call can never overwrite a
// newer outcome. A Session has a single owner and is not safe for concurrent
// use; in the TUI the bubbletea event loop is that owner.
package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/narrative-risk/riskview/internal/core"
	"github.com/narrative-risk/riskview/internal/logging"
)

// Analyzer performs one remote analysis.
type Analyzer interface {
	Analyze(ctx context.Context, input string) (*core.AnalysisReport, error)
}

// AnalyzerFunc adapts a function to the Analyzer interface.
type AnalyzerFunc func(ctx context.Context, input string) (*core.AnalysisReport, error)

// Analyze calls f.
func (f AnalyzerFunc) Analyze(ctx context.Context, input string) (*core.AnalysisReport, error) {
	return f(ctx, input)
}

// Request is an accepted submission waiting to be executed.
type Request struct {
	Seq   uint64
	Input string
}

// Do runs the analysis for r. It performs exactly one analyzer call.
func (r Request) Do(ctx context.Context, a Analyzer) Result {
	report, err := a.Analyze(ctx, r.Input)
	return Result{Seq: r.Seq, Input: r.Input, Report: report, Err: err}
}

// Result is the outcome of a Request.
type Result struct {
	Seq    uint64
	Input  string
	Report *core.AnalysisReport
	Err    error
}

// Session owns the state of one analysis at a time.
type Session struct {
	state  State
	latest uint64
	view   *core.CrossCheckView
	logger *logging.Logger
	now    func() time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger *logging.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates an idle session.
func New(opts ...Option) *Session {
	s := &Session{
		state:  Idle{},
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current state.
func (s *Session) State() State {
	return s.state
}

// CrossCheck returns the aggregate derived from the current report, or nil when
// the session has not succeeded or the report has no cross-check data.
func (s *Session) CrossCheck() *core.CrossCheckView {
	return s.view
}

// Latest returns the sequence number of the most recent submission.
func (s *Session) Latest() uint64 {
	return s.latest
}

// Submit accepts rawInput for analysis. It returns false, and changes nothing,
// when the trimmed input is empty or an analysis is already running.
func (s *Session) Submit(rawInput string) (Request, bool) {
	input := strings.TrimSpace(rawInput)
	if input == "" {
		return Request{}, false
	}
	if s.state.Status() == StatusRunning {
		s.logger.Debug("submission ignored while running")
		return Request{}, false
	}

	s.latest++
	s.view = nil
	s.state = Running{Seq: s.latest, Input: input, StartedAt: s.now()}

	s.logger.WithRequest(s.latest).WithInput(input).Info("analysis submitted")
	return Request{Seq: s.latest, Input: input}, true
}

// Resolve applies the outcome of a request. Results from superseded requests
// are dropped and Resolve returns false.
func (s *Session) Resolve(r Result) bool {
	log := s.logger.WithRequest(r.Seq)

	running, ok := s.state.(Running)
	if r.Seq != s.latest || !ok || running.Seq != r.Seq {
		log.Debug("stale analysis result discarded", "latest", s.latest)
		return false
	}

	if r.Err == nil && r.Report == nil {
		r.Err = core.ErrDecode("analyzer returned an empty report")
	}

	if r.Err != nil {
		msg := core.UserMessage(r.Err)
		s.state = Failed{Seq: r.Seq, Input: running.Input, Message: msg, Err: r.Err}
		s.view = nil
		args := []any{"error", r.Err, "category", core.GetCategory(r.Err), "retryable", core.IsRetryable(r.Err)}
		var domErr *core.DomainError
		if errors.As(r.Err, &domErr) && len(domErr.Details) > 0 {
			args = append(args, "details", domErr.Details)
		}
		log.Warn("analysis failed", args...)
		return true
	}

	s.state = Succeeded{Seq: r.Seq, Input: running.Input, Report: r.Report, CompletedAt: s.now()}
	s.view = core.AggregateCrossCheck(r.Report.CrossCheck)
	log.Info("analysis completed",
		"risk_level", r.Report.RiskLevel,
		"duration", s.now().Sub(running.StartedAt))
	return true
}

// DismissError clears a failure and returns to Idle. It is a no-op outside Failed.
func (s *Session) DismissError() bool {
	if _, ok := s.state.(Failed); !ok {
		return false
	}
	s.state = Idle{}
	return true
}

// Reset returns to Idle from any state. An in-flight request becomes stale and
// its result will be discarded.
func (s *Session) Reset() {
	if s.state.Status() == StatusRunning {
		s.latest++
		s.logger.Debug("running analysis abandoned")
	}
	s.state = Idle{}
	s.view = nil
}

// Analyze submits input and runs it to completion synchronously. It returns the
// resulting state and whether the submission was accepted.
func (s *Session) Analyze(ctx context.Context, a Analyzer, input string) (State, bool) {
	req, ok := s.Submit(input)
	if !ok {
		return s.state, false
	}
	s.Resolve(req.Do(ctx, a))
	return s.state, true
}

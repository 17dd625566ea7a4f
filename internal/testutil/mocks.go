package testutil

import (
	"context"
	"sync"

	"github.com/narrative-risk/riskview/internal/core"
)

// MockAnalyzer is a scripted analyzer that records its calls.
type MockAnalyzer struct {
	mu      sync.Mutex
	calls   []string
	report  *core.AnalysisReport
	err     error
	fn      func(context.Context, string) (*core.AnalysisReport, error)
	gate    chan struct{}
	started chan string
}

// NewMockAnalyzer returns an analyzer that answers every call with report.
func NewMockAnalyzer(report *core.AnalysisReport) *MockAnalyzer {
	return &MockAnalyzer{report: report, started: make(chan string, 64)}
}

// WithError makes every call fail with err.
func (m *MockAnalyzer) WithError(err error) *MockAnalyzer {
	m.err = err
	return m
}

// WithFunc delegates calls to fn.
func (m *MockAnalyzer) WithFunc(fn func(context.Context, string) (*core.AnalysisReport, error)) *MockAnalyzer {
	m.fn = fn
	return m
}

// Blocking makes calls wait until Release is called or the context ends.
func (m *MockAnalyzer) Blocking() *MockAnalyzer {
	m.gate = make(chan struct{})
	return m
}

// Release unblocks all waiting and future calls.
func (m *MockAnalyzer) Release() {
	if m.gate != nil {
		close(m.gate)
	}
}

// Started receives the input of each call as it begins.
func (m *MockAnalyzer) Started() <-chan string {
	return m.started
}

// Analyze implements the analyzer contract.
func (m *MockAnalyzer) Analyze(ctx context.Context, input string) (*core.AnalysisReport, error) {
	m.mu.Lock()
	m.calls = append(m.calls, input)
	m.mu.Unlock()

	select {
	case m.started <- input:
	default:
	}

	if m.gate != nil {
		select {
		case <-m.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if m.fn != nil {
		return m.fn(ctx, input)
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.report, nil
}

// Calls returns the inputs received so far.
func (m *MockAnalyzer) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

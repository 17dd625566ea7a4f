package testutil_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/narrative-risk/riskview/internal/core"
	"github.com/narrative-risk/riskview/internal/testutil"
)

func TestMockAnalyzer_ReturnsReport(t *testing.T) {
	report := testutil.SampleReport()
	m := testutil.NewMockAnalyzer(report)

	got, err := m.Analyze(context.Background(), "a")
	require.NoError(t, err)
	assert.Same(t, report, got)
	assert.Equal(t, []string{"a"}, m.Calls())
}

func TestMockAnalyzer_WithError(t *testing.T) {
	boom := errors.New("boom")
	m := testutil.NewMockAnalyzer(nil).WithError(boom)

	_, err := m.Analyze(context.Background(), "a")
	assert.ErrorIs(t, err, boom)
}

func TestMockAnalyzer_WithFunc(t *testing.T) {
	m := testutil.NewMockAnalyzer(nil).WithFunc(func(_ context.Context, input string) (*core.AnalysisReport, error) {
		return &core.AnalysisReport{Summary: input}, nil
	})

	got, err := m.Analyze(context.Background(), "echo")
	require.NoError(t, err)
	assert.Equal(t, "echo", got.Summary)
}

func TestMockAnalyzer_Blocking(t *testing.T) {
	m := testutil.NewMockAnalyzer(testutil.SampleReport()).Blocking()

	done := make(chan error, 1)
	go func() {
		_, err := m.Analyze(context.Background(), "slow")
		done <- err
	}()

	select {
	case in := <-m.Started():
		assert.Equal(t, "slow", in)
	case <-time.After(time.Second):
		t.Fatal("call did not start")
	}

	m.Release()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("call did not finish after release")
	}
}

func TestMockAnalyzer_BlockingHonorsContext(t *testing.T) {
	m := testutil.NewMockAnalyzer(nil).Blocking()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Analyze(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSampleReport(t *testing.T) {
	r := testutil.SampleReport()
	assert.Equal(t, core.InputURL, r.InputType)
	require.NotNil(t, r.CrossCheck)
	assert.Len(t, r.CrossCheck.Claims, 2)
	require.NotNil(t, r.AIAnalysis)
}

package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/narrative-risk/riskview/internal/core"
	"github.com/narrative-risk/riskview/internal/session"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const reportJSON = `{
  "input_type": "url",
  "risk_level": "MEDIUM",
  "misinformation_score": 42,
  "source_trust_score": 0.7,
  "similarity_score": 0.31,
  "reasons": ["Emotional language detected"],
  "cross_check": {
    "claims_checked": 1,
    "platforms_searched": ["Google", "Wikipedia"],
    "overall_reliability": "questionable",
    "claims": [{"claim": "c", "verdict": "disputed", "confidence": 0.5, "sources": []}]
  }
}`

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	c, err := New(Config{BaseURL: srv.URL + "/", Timeout: 5 * time.Second})
	require.NoError(t, err)
	t.Cleanup(func() {
		c.Close()
		srv.Close()
	})
	return c
}

func TestAnalyze_Success(t *testing.T) {
	var gotBody map[string]string
	var gotHeaders http.Header
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/analyze", r.URL.Path)
		gotHeaders = r.Header.Clone()
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, reportJSON)
	})

	report, err := c.Analyze(context.Background(), "https://example.com/a")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"input": "https://example.com/a"}, gotBody)
	assert.Equal(t, "application/json", gotHeaders.Get("Content-Type"))
	assert.NotEmpty(t, gotHeaders.Get("X-Request-ID"))
	assert.Equal(t, "riskview", gotHeaders.Get("User-Agent"))

	assert.Equal(t, core.InputURL, report.InputType)
	assert.Equal(t, core.RiskLevel("MEDIUM"), report.RiskLevel)
	require.NotNil(t, report.CrossCheck)
	assert.Equal(t, []string{"Google", "Wikipedia"}, report.CrossCheck.PlatformsSearched)
}

func TestAnalyze_ServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantDetail string
		retryable  bool
	}{
		{"empty input", 400, `{"detail":"Input cannot be empty."}`, "Input cannot be empty.", false},
		{"extraction", 422, `{"detail":"Could not extract content from the provided URL."}`, "Could not extract content from the provided URL.", false},
		{"validation list", 422, `{"detail":[{"loc":["body","input"],"msg":"field required","type":"value_error.missing"}]}`, "field required", false},
		{"html body", 502, `<html>Bad Gateway</html>`, "", true},
		{"empty body", 503, ``, "", true},
		{"rate limited", 429, `{"detail":"slow down"}`, "slow down", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := c.Analyze(context.Background(), "x")
			require.Error(t, err)

			var domErr *core.DomainError
			require.True(t, errors.As(err, &domErr))
			assert.Equal(t, core.ErrCatService, domErr.Category)
			assert.Equal(t, tt.status, domErr.StatusCode)
			assert.Equal(t, tt.wantDetail, domErr.ServerDetail)
			assert.Equal(t, tt.retryable, core.IsRetryable(err))
			assert.NotEmpty(t, domErr.Details["request_id"])
		})
	}
}

func TestAnalyze_MalformedReport(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"risk_level": `)
	})

	_, err := c.Analyze(context.Background(), "x")
	assert.True(t, core.IsCategory(err, core.ErrCatDecode))
	assert.Equal(t, "analyzer returned a malformed report", core.UserMessage(err))
}

func TestAnalyze_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c, err := New(Config{BaseURL: base, Timeout: 2 * time.Second})
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Analyze(context.Background(), "x")
	assert.True(t, core.IsCategory(err, core.ErrCatNetwork))
	assert.True(t, core.IsRetryable(err))
	assert.Contains(t, core.UserMessage(err), "could not reach the analyzer")
}

func TestAnalyze_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c, err := New(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Analyze(context.Background(), "x")
	assert.True(t, core.IsCategory(err, core.ErrCatTimeout), "got %v", err)
}

func TestAnalyze_Canceled(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		close(started)
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c, err := New(Config{BaseURL: srv.URL})
	require.NoError(t, err)
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err = c.Analyze(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, core.IsCategory(err, core.ErrCatCanceled), "got %v", err)
	assert.False(t, core.IsRetryable(err))
	assert.Equal(t, "analysis canceled", core.UserMessage(err))
}

func TestClient_DrivesSession(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"detail":"Input cannot be empty."}`)
	})

	s := session.New()
	state, ok := s.Analyze(context.Background(), c, "something")
	require.True(t, ok)
	failed, isFailed := state.(session.Failed)
	require.True(t, isFailed)
	assert.Equal(t, "Input cannot be empty.", failed.Message)
}

func TestNew_BaseURLValidation(t *testing.T) {
	for _, raw := range []string{"", "   ", "localhost:8000", "ftp://host", "http://", "::bad"} {
		_, err := New(Config{BaseURL: raw})
		assert.True(t, core.IsCategory(err, core.ErrCatValidation), "base %q", raw)
	}

	c, err := New(Config{BaseURL: "http://localhost:8000/api/?x=1"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/api", c.BaseURL())
	assert.Equal(t, "http://localhost:8000/api/analyze", c.endpoint(analyzePath))
}

func TestPing(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/", r.URL.Path)
		_, _ = io.WriteString(w, `{"status":"ok"}`)
	})
	assert.NoError(t, c.Ping(context.Background()))

	broken := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	assert.True(t, core.IsCategory(broken.Ping(context.Background()), core.ErrCatService))
}

func TestParseDetail(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"detail":"  Input cannot be empty. "}`, "Input cannot be empty."},
		{`{"detail":[{"msg":"a"},{"msg":""},{"msg":"b"}]}`, "a; b"},
		{`{"detail":{"msg":"single"}}`, "single"},
		{`{"detail":42}`, ""},
		{`{"error":"nope"}`, ""},
		{`not json`, ""},
		{``, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseDetail([]byte(tt.body)), "body %q", tt.body)
	}
}

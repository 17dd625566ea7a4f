// Package client talks to the remote narrative-risk analyzer over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/narrative-risk/riskview/internal/core"
	"github.com/narrative-risk/riskview/internal/logging"
)

const (
	analyzePath = "/analyze"

	// DefaultTimeout bounds a single analysis. The analyzer fetches pages and
	// queries several search services, so calls routinely take many seconds.
	DefaultTimeout = 90 * time.Second

	maxReportBytes = 16 << 20
	maxErrorBytes  = 64 << 10
)

// Config configures a Client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	UserAgent  string
	HTTPClient *http.Client
	Logger     *logging.Logger
}

// Client is an analyzer backed by the remote HTTP service.
type Client struct {
	base      *url.URL
	http      *http.Client
	userAgent string
	logger    *logging.Logger
}

// New validates cfg and creates a client.
func New(cfg Config) (*Client, error) {
	base, err := parseBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	ua := cfg.UserAgent
	if ua == "" {
		ua = "riskview"
	}

	return &Client{
		base:      base,
		http:      httpClient,
		userAgent: ua,
		logger:    logger.WithComponent("client"),
	}, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, core.ErrValidation(core.CodeInvalidConfig, "analyzer base URL is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, core.ErrValidation(core.CodeInvalidConfig, "analyzer base URL is invalid").WithCause(err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, core.ErrValidation(core.CodeInvalidConfig,
			fmt.Sprintf("analyzer base URL must be an absolute http(s) URL, got %q", raw))
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

// BaseURL returns the normalized analyzer base URL.
func (c *Client) BaseURL() string {
	return c.base.String()
}

func (c *Client) endpoint(path string) string {
	u := *c.base
	u.Path += path
	return u.String()
}

type analyzeRequest struct {
	Input string `json:"input"`
}

// Analyze submits input and decodes the report. Every failure is a
// *core.DomainError; a canceled ctx still satisfies errors.Is(err, context.Canceled).
func (c *Client) Analyze(ctx context.Context, input string) (*core.AnalysisReport, error) {
	body, err := json.Marshal(analyzeRequest{Input: input})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	requestID := uuid.NewString()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(analyzePath), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)

	log := c.logger.With("request_id", requestID)
	start := time.Now()
	log.Debug("analyzer request", "url", req.URL.String())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.transportError(ctx, err)
	}
	defer resp.Body.Close()

	log.Debug("analyzer response", "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBytes))
		detail := ParseDetail(raw)
		log.Warn("analyzer rejected request", "status", resp.StatusCode, "detail", detail)
		return nil, core.ErrService(resp.StatusCode, detail).WithDetail("request_id", requestID)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxReportBytes))
	if err != nil {
		return nil, c.transportError(ctx, err)
	}

	var report core.AnalysisReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, core.ErrDecode("analyzer returned a malformed report").WithCause(err)
	}
	return &report, nil
}

// Ping checks that the analyzer answers on its root path.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/"), http.NoBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return c.transportError(ctx, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBytes))

	if resp.StatusCode >= 500 {
		return core.ErrService(resp.StatusCode, "")
	}
	return nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

func (c *Client) transportError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return core.ErrCanceled("analysis canceled").WithCause(ctx.Err())
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return core.ErrTimeout("the analyzer did not respond in time").WithCause(err)
	}

	c.logger.Warn("analyzer unreachable", "error", err)
	return core.ErrNetwork(fmt.Sprintf("could not reach the analyzer at %s", c.base.Host)).WithCause(err)
}

// ParseDetail extracts the human-readable explanation from a structured failure
// body. The analyzer answers {"detail": "..."} for handled errors and a list of
// {"msg": "..."} objects for request validation errors. Anything else yields "".
func ParseDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(envelope.Detail, &text); err == nil {
		return strings.TrimSpace(text)
	}

	type item struct {
		Msg string `json:"msg"`
	}
	var one item
	if err := json.Unmarshal(envelope.Detail, &one); err == nil {
		return strings.TrimSpace(one.Msg)
	}

	var list []item
	if err := json.Unmarshal(envelope.Detail, &list); err == nil {
		msgs := make([]string, 0, len(list))
		for _, it := range list {
			if m := strings.TrimSpace(it.Msg); m != "" {
				msgs = append(msgs, m)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

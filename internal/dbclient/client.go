package dbclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cstortz/monorepo-trading-bot/internal/model"
)

// Client is an HTTP client for the database web service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a database service client. baseURL is the service root
// (e.g., "http://dev01.int.stortz.tech:8000").
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// preparedRequest is the body for the prepared-statement CRUD endpoints.
// Parameters are keyed by 1-based position as strings ("1", "2", ...).
type preparedRequest struct {
	SQL        string         `json:"sql"`
	Parameters map[string]any `json:"parameters"`
}

// positional converts a parameter slice to the service's 1-based map form.
func positional(params []any) map[string]any {
	m := make(map[string]any, len(params))
	for i, p := range params {
		m[strconv.Itoa(i+1)] = p
	}
	return m
}

// Select runs a prepared SELECT and returns the matching rows.
func (c *Client) Select(ctx context.Context, sql string, params ...any) (*QueryResult, error) {
	return c.prepared(ctx, "select", sql, params)
}

// Insert runs a prepared INSERT.
func (c *Client) Insert(ctx context.Context, sql string, params ...any) (*QueryResult, error) {
	return c.prepared(ctx, "insert", sql, params)
}

// Update runs a prepared UPDATE.
func (c *Client) Update(ctx context.Context, sql string, params ...any) (*QueryResult, error) {
	return c.prepared(ctx, "update", sql, params)
}

// Delete runs a prepared DELETE.
func (c *Client) Delete(ctx context.Context, sql string, params ...any) (*QueryResult, error) {
	return c.prepared(ctx, "delete", sql, params)
}

func (c *Client) prepared(ctx context.Context, op, sql string, params []any) (*QueryResult, error) {
	body, err := json.Marshal(preparedRequest{
		SQL:        sql,
		Parameters: positional(params),
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	c.logger.Debug("database request", "op", op)

	url := c.baseURL + "/crud/prepared/" + op
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &model.UpstreamError{Upstream: "database", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &model.UpstreamError{Upstream: "database", Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode >= 400 {
		return nil, &model.UpstreamError{
			Upstream: "database",
			Err:      fmt.Errorf("%s returned %d: %s", op, resp.StatusCode, truncate(respBody, 200)),
		}
	}

	var result QueryResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, &model.UpstreamError{Upstream: "database", Err: fmt.Errorf("decode response: %w", err)}
	}

	if !result.Success {
		return nil, &model.UpstreamError{
			Upstream: "database",
			Err:      fmt.Errorf("%s failed: %s", op, result.Error),
		}
	}

	return &result, nil
}

// Health checks the database service's health endpoint.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/admin/health", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &model.UpstreamError{Upstream: "database", Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return &model.UpstreamError{
			Upstream: "database",
			Err:      fmt.Errorf("health returned %d", resp.StatusCode),
		}
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

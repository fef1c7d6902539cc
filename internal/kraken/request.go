package kraken

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	publicPrefix  = "/0/public/"
	privatePrefix = "/0/private/"
)

// APIError represents an HTTP-level error from the Kraken API.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("kraken api error %d: %s", e.StatusCode, e.Message)
}

// IsRetryable returns true if the error should trigger a retry.
func (e *APIError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}

// KrakenError represents an error reported inside the Kraken response
// envelope (e.g., "EQuery:Unknown asset pair").
type KrakenError struct {
	Messages []string
}

func (e *KrakenError) Error() string {
	return "kraken api error: " + strings.Join(e.Messages, ", ")
}

// envelope is the wrapper Kraken puts around every response.
type envelope struct {
	Error  []string        `json:"error"`
	Result json.RawMessage `json:"result"`
}

// doRequest performs a single HTTP request and returns the raw body.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body io.Reader, headers map[string]string) ([]byte, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       respBody,
		}
	}

	return respBody, nil
}

// doWithRetry performs a GET with exponential backoff retry on retryable
// HTTP errors.
func (c *Client) doWithRetry(ctx context.Context, path string, query url.Values) ([]byte, error) {
	var lastErr error
	backoff := c.retryBackoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// Add jitter: backoff * (0.5 to 1.5)
			jitter := backoff/2 + time.Duration(rand.Int64N(int64(backoff)))
			c.logger.Debug("retrying request",
				"attempt", attempt,
				"backoff", jitter,
				"path", path,
			)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(jitter):
			}

			backoff *= 2
		}

		body, err := c.doRequest(ctx, http.MethodGet, path, query, nil, nil)
		if err == nil {
			return body, nil
		}

		lastErr = err

		var apiErr *APIError
		if !errors.As(err, &apiErr) || !apiErr.IsRetryable() {
			return nil, err
		}
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// public performs a GET against a public endpoint, unwraps the Kraken
// envelope, and unmarshals the result.
func (c *Client) public(ctx context.Context, endpoint string, query url.Values, result any) error {
	body, err := c.doWithRetry(ctx, publicPrefix+endpoint, query)
	if err != nil {
		return err
	}
	return decodeEnvelope(body, result)
}

// Private performs a signed POST against a private endpoint, unwraps the
// Kraken envelope, and unmarshals the result. Requires WithSigner.
func (c *Client) Private(ctx context.Context, endpoint string, form url.Values, result any) error {
	if c.signer == nil {
		return errors.New("no API credentials configured")
	}

	if form == nil {
		form = url.Values{}
	}
	form.Set("nonce", strconv.FormatInt(time.Now().UnixMilli(), 10))

	path := privatePrefix + endpoint
	headers, err := c.signer.Headers(path, form)
	if err != nil {
		return fmt.Errorf("sign request: %w", err)
	}
	headers["Content-Type"] = "application/x-www-form-urlencoded"

	body, err := c.doRequest(ctx, http.MethodPost, path, nil, strings.NewReader(form.Encode()), headers)
	if err != nil {
		return err
	}
	return decodeEnvelope(body, result)
}

// decodeEnvelope unwraps the {"error": [...], "result": ...} envelope.
func decodeEnvelope(body []byte, result any) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	if len(env.Error) > 0 {
		return &KrakenError{Messages: env.Error}
	}

	if result != nil && len(env.Result) > 0 {
		if err := json.Unmarshal(env.Result, result); err != nil {
			return fmt.Errorf("unmarshal result: %w", err)
		}
	}

	return nil
}

// Package upstream is the client of the loan REST API. Every response is an
// envelope {status, data, message}; only status "success" is a success,
// whatever the HTTP status code says.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"prestamos-admin/config"
)

const statusSuccess = "success"

// Observer receives one call per finished request. outcome is "success",
// "api_error" or "transport_error".
type Observer interface {
	ObserveRequest(op, outcome string, elapsed time.Duration)
}

type envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message json.RawMessage `json:"message"`
	Errors  json.RawMessage `json:"errors"`
}

// Client talks to the loan API.
type Client struct {
	baseURL  string
	timeout  time.Duration
	http     *http.Client
	observer Observer
}

// NewClient creates a client for the configured API. observer may be nil.
func NewClient(cfg *config.UpstreamConfig, observer Observer) *Client {
	httpClient := &http.Client{}
	if cfg.HTTPProxy != "" {
		proxyURL, err := url.Parse(cfg.HTTPProxy)
		if err != nil {
			log.Printf("Warning: Invalid proxy URL %q: %v. Upstream client will not use a proxy.", cfg.HTTPProxy, err)
		} else {
			httpClient.Transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
		}
	}

	return &Client{
		baseURL:  cfg.BaseURL,
		timeout:  cfg.Timeout,
		http:     httpClient,
		observer: observer,
	}
}

// BaseURL returns the API root the client is bound to.
func (c *Client) BaseURL() string { return c.baseURL }

type requestIDKey struct{}

// WithRequestID attaches the id sent as X-Request-ID on upstream calls.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id attached by WithRequestID, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// do performs one API call. in is JSON encoded when non-nil; the envelope
// data is decoded into out when non-nil.
func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	start := time.Now()
	outcome := "transport_error"
	defer func() {
		if c.observer != nil {
			c.observer.ObserveRequest(op, outcome, time.Since(start))
		}
	}()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: failed to marshal request payload: %w", op, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: failed to create request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	requestID := RequestID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("upstream %s [%s] failed: %v", op, requestID, err)
		return fmt.Errorf("%s: http request failed: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: failed to read response body: %w", op, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return fmt.Errorf("%s: %w (HTTP %d)", op, ErrEmptyBody, resp.StatusCode)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Printf("upstream %s [%s] returned an unreadable body (HTTP %d): %v", op, requestID, resp.StatusCode, err)
		return fmt.Errorf("%s: failed to unmarshal api response: %w", op, err)
	}

	if env.Status != statusSuccess {
		outcome = "api_error"
		apiErr := newAPIError(op, resp.StatusCode, env.Message, env.Errors)
		log.Printf("upstream %s [%s] rejected (HTTP %d): %s", op, requestID, resp.StatusCode, apiErr.Message)
		return apiErr
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("%s: failed to unmarshal data: %w", op, err)
		}
	}
	outcome = "success"
	return nil
}

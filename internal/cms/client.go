// Package cms is the HTTP client for the real-estate CMS API.
package cms

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
)

// Config holds the client settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// DefaultTimeout applies when Config.Timeout is zero.
const DefaultTimeout = 15 * time.Second

// AuthMode selects how a call is authenticated.
type AuthMode int

const (
	// AuthNone never sends a token.
	AuthNone AuthMode = iota
	// AuthOptional sends a token when a session exists and falls back to an
	// anonymous call otherwise.
	AuthOptional
	// AuthRequired fails with ErrUnauthenticated when there is no token.
	AuthRequired
)

// Request describes one CMS call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	// JSON is encoded as the request body when non-nil.
	JSON any
	// Body overrides JSON, sent with ContentType.
	Body        io.Reader
	ContentType string
	Auth        AuthMode
}

// Client talks to the CMS.
type Client struct {
	cfg      Config
	http     *http.Client
	tokens   TokenSource
	observer Observer
}

// NewClient creates a client. A nil token source means no session; a nil
// observer discards events.
func NewClient(cfg Config, tokens TokenSource, observer Observer) *Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	if tokens == nil {
		tokens = StaticToken("")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		tokens:   tokens,
		observer: observer,
	}
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string { return c.cfg.BaseURL }

// Do performs req and decodes a 2xx JSON body into out when out is non-nil.
// A 401 on an authenticated call drops a cached session token and retries
// once with a fresh one.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	start := time.Now()
	requestID := uuid.NewString()

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	status, err := c.send(ctx, req, requestID, out)

	event := CallEvent{
		Method:    req.Method,
		Path:      req.Path,
		Status:    status,
		Latency:   time.Since(start),
		RequestID: requestID,
		Success:   err == nil,
		ErrorCode: errorCode(err),
	}
	c.observer.OnCallComplete(ctx, event)
	return err
}

func (c *Client) send(ctx context.Context, req Request, requestID string, out any) (int, error) {
	payload, contentType, err := encodeBody(req)
	if err != nil {
		return 0, err
	}
	status, sentToken, err := c.do(ctx, req, requestID, payload, contentType, out)
	if status != http.StatusUnauthorized || req.Auth == AuthNone || !sentToken {
		return status, err
	}
	inv, ok := c.tokens.(Invalidator)
	if !ok {
		return status, err
	}
	inv.Invalidate()
	status, _, err = c.do(ctx, req, requestID, payload, contentType, out)
	return status, err
}

// encodeBody buffers the request body so it can be sent twice.
func encodeBody(req Request) ([]byte, string, error) {
	if req.Body != nil {
		data, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, "", fmt.Errorf("reading request body: %w", err)
		}
		return data, req.ContentType, nil
	}
	if req.JSON != nil {
		data, err := json.Marshal(req.JSON)
		if err != nil {
			return nil, "", fmt.Errorf("marshaling request: %w", err)
		}
		return data, "application/json", nil
	}
	return nil, req.ContentType, nil
}

// do sends one attempt. It reports whether a bearer token was attached.
func (c *Client) do(ctx context.Context, req Request, requestID string, payload []byte, contentType string, out any) (int, bool, error) {
	token, err := c.token(ctx, req.Auth)
	if err != nil {
		return 0, false, err
	}
	sent := token != ""

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	u := c.cfg.BaseURL + req.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u, body)
	if err != nil {
		return 0, sent, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if sent {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			if errors.Is(ctx.Err(), context.Canceled) {
				return 0, sent, ctx.Err()
			}
			return 0, sent, ErrTimeout
		}
		if isConnectionError(err) {
			return 0, sent, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return 0, sent, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return httpResp.StatusCode, sent, fmt.Errorf("reading response: %w", err)
	}
	if httpResp.StatusCode/100 != 2 {
		return httpResp.StatusCode, sent, newHTTPError(httpResp.StatusCode, respBody)
	}
	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return httpResp.StatusCode, sent, nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return httpResp.StatusCode, sent, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return httpResp.StatusCode, sent, nil
}

func (c *Client) token(ctx context.Context, mode AuthMode) (string, error) {
	if mode == AuthNone {
		return "", nil
	}
	token, err := c.tokens.Token(ctx)
	if mode == AuthOptional {
		// Anonymous access is allowed, so a failed session lookup is not fatal.
		if err != nil {
			return "", nil
		}
		return token, nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if token == "" {
		return "", ErrUnauthenticated
	}
	return token, nil
}

type errorBody struct {
	Message json.RawMessage `json:"message"`
	Error   string          `json:"error"`
}

func newHTTPError(status int, body []byte) *HTTPError {
	he := &HTTPError{Status: status, Body: string(body)}
	var eb errorBody
	if json.Unmarshal(body, &eb) != nil {
		return he
	}
	var msg string
	var msgs []string
	switch {
	case json.Unmarshal(eb.Message, &msg) == nil:
		he.Message = msg
	case json.Unmarshal(eb.Message, &msgs) == nil:
		he.Message = strings.Join(msgs, "; ")
	default:
		he.Message = eb.Error
	}
	return he
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrUnauthenticated):
		return "UNAUTHENTICATED"
	case errors.Is(err, ErrInvalidResponse):
		return "INVALID_RESPONSE"
	case errors.Is(err, context.Canceled):
		return "CANCELED"
	case StatusOf(err) != 0:
		return fmt.Sprintf("HTTP_%d", StatusOf(err))
	default:
		return "UNKNOWN"
	}
}

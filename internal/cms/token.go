package cms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

// TokenSource yields the bearer token for authenticated calls. An empty
// token with a nil error means there is no session.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Invalidator is implemented by token sources that cache a token the CMS
// can expire. Client calls Invalidate after a 401.
type Invalidator interface {
	Invalidate()
}

// StaticToken is a fixed token, e.g. from configuration.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) { return string(t), nil }

// SessionTokenSource reads the token from the session endpoint
// GET {BaseURL}/api/me and caches it until Invalidate.
type SessionTokenSource struct {
	BaseURL string
	HTTP    *http.Client

	mu    sync.Mutex
	token string
}

type sessionInfo struct {
	Token string `json:"token"`
}

func (s *SessionTokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token != "" {
		return s.token, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(s.BaseURL, "/")+"/api/me", nil)
	if err != nil {
		return "", fmt.Errorf("creating session request: %w", err)
	}
	client := s.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusUnauthorized {
		return "", nil
	}
	if resp.StatusCode/100 != 2 {
		return "", newHTTPError(resp.StatusCode, body)
	}
	var info sessionInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return "", fmt.Errorf("%w: session: %v", ErrInvalidResponse, err)
	}
	s.token = info.Token
	return s.token, nil
}

// Invalidate drops the cached token.
func (s *SessionTokenSource) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
}

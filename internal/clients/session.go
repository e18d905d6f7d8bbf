package clients

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/TerrestrialLabs/jobboardx-sub000/internal/domain"
)

// Session is an authenticated API client that enforces the single-retry
// refresh rule: a 401 triggers exactly one refresh and one retry of the
// original call; a second 401 logs the session out. Never a third attempt.
type Session struct {
	httpClient *resty.Client
	logger     *zap.Logger

	mu          sync.Mutex
	accessToken string

	refreshPath string
	logoutPath  string
}

type refreshResponse struct {
	Result struct {
		AccessToken string `json:"accessToken"`
	} `json:"result"`
}

// NewSession builds a session client against the API base URL. The cookie
// jar carries the scope's refresh cookie between calls.
func NewSession(baseURL, accessToken string, logger *zap.Logger) *Session {
	jar, _ := cookiejar.New(nil)
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetCookieJar(jar).
		SetHeader("Content-Type", "application/json")

	return &Session{
		httpClient:  client,
		logger:      logger,
		accessToken: accessToken,
		refreshPath: "/auth/api/v1/refresh",
		logoutPath:  "/auth/api/v1/logout",
	}
}

func (s *Session) token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken
}

func (s *Session) setToken(t string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = t
}

func (s *Session) send(ctx context.Context, method, path string, body, out any) (*resty.Response, error) {
	req := s.httpClient.R().
		SetContext(ctx).
		SetAuthToken(s.token())
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}
	return req.Execute(method, path)
}

// Do performs one authenticated call under the single-retry contract.
func (s *Session) Do(ctx context.Context, method, path string, body, out any) error {
	resp, err := s.send(ctx, method, path, body, out)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode() != http.StatusUnauthorized {
		return nil
	}

	// First 401: one refresh attempt.
	if err := s.refresh(ctx); err != nil {
		s.logout(ctx)
		return err
	}

	// One retry with the new access token.
	resp, err = s.send(ctx, method, path, body, out)
	if err != nil {
		return fmt.Errorf("request failed after refresh: %w", err)
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		// Second 401: session is dead, no third attempt.
		s.logout(ctx)
		return fmt.Errorf("still unauthorized after refresh: %w", domain.ErrUnauthenticated)
	}
	return nil
}

func (s *Session) refresh(ctx context.Context) error {
	var result refreshResponse
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetResult(&result).
		Post(s.refreshPath)
	if err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}
	if resp.IsError() || result.Result.AccessToken == "" {
		return fmt.Errorf("refresh rejected: %w", domain.ErrUnauthenticated)
	}
	s.setToken(result.Result.AccessToken)
	return nil
}

func (s *Session) logout(ctx context.Context) {
	s.setToken("")
	if _, err := s.httpClient.R().SetContext(ctx).Post(s.logoutPath); err != nil {
		s.logger.Warn("logout call failed", zap.Error(err))
	}
}

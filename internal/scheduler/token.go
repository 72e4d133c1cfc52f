package scheduler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rhizano/era-beacon-api/internal/infrastructure/observability"
	"github.com/rhizano/era-beacon-api/internal/shared/errors"
	"go.uber.org/zap"
)

const (
	authTimeout = 30 * time.Second

	// Sessions are treated as expired this long before their real expiry so
	// a token never lapses in the middle of a cycle.
	expirySafetyMargin = 5 * time.Minute

	defaultExpiresIn = 3600
)

// TokenManager owns the bearer session for the upstream notification API.
// It re-authenticates lazily when the session is missing or near expiry.
type TokenManager struct {
	baseURL  string
	username string
	password string

	client    *http.Client
	logger    *observability.Logger
	serverLog *observability.ServerLog
	metrics   *observability.Metrics
	now       func() time.Time

	mu      sync.Mutex
	session *AuthSession
}

func NewTokenManager(baseURL, username, password string, logger *observability.Logger, serverLog *observability.ServerLog, metrics *observability.Metrics) *TokenManager {
	return &TokenManager{
		baseURL:   strings.TrimRight(baseURL, "/"),
		username:  username,
		password:  password,
		client:    &http.Client{Timeout: authTimeout},
		logger:    logger,
		serverLog: serverLog,
		metrics:   metrics,
		now:       time.Now,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// Authenticate performs a fresh login against the upstream API and replaces
// the current session on success.
func (t *TokenManager) Authenticate(ctx context.Context) error {
	body, err := json.Marshal(loginRequest{Username: t.username, Password: t.password})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeUpstreamAuth, "Failed to encode login request")
	}

	url := t.baseURL + "/auth/login"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeUpstreamAuth, "Failed to build login request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		t.recordAuth(ctx, false, fmt.Sprintf("login request failed: %v", err))
		return errors.Wrap(err, errors.ErrCodeUpstreamAuth, "Upstream authentication request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if resp.StatusCode == http.StatusUnauthorized {
			// Credentials rejected by the auth endpoint: any held session is gone.
			t.Invalidate()
		}
		t.recordAuth(ctx, false, fmt.Sprintf("login rejected with status %d", resp.StatusCode))
		return errors.WithDetails(errors.ErrCodeUpstreamAuth,
			fmt.Sprintf("Upstream authentication rejected with status %d", resp.StatusCode),
			string(respBody))
	}

	var login loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&login); err != nil {
		t.recordAuth(ctx, false, "login response malformed")
		return errors.Wrap(err, errors.ErrCodeUpstreamAuth, "Failed to decode login response")
	}
	if login.AccessToken == "" {
		t.recordAuth(ctx, false, "login response missing access_token")
		return errors.New(errors.ErrCodeUpstreamAuth, "Login response missing access_token")
	}

	expiresIn := login.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = defaultExpiresIn
	}

	t.mu.Lock()
	t.session = &AuthSession{
		AccessToken: login.AccessToken,
		ExpiresAt:   t.now().Add(time.Duration(expiresIn) * time.Second),
	}
	t.mu.Unlock()

	t.recordAuth(ctx, true, "authenticated with upstream API")
	return nil
}

// IsValid reports whether the session exists and is not within the safety
// margin of its expiry.
func (t *TokenManager) IsValid() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.session == nil {
		return false
	}
	return t.now().Add(expirySafetyMargin).Before(t.session.ExpiresAt)
}

// EnsureValid re-authenticates only when the current session is unusable.
func (t *TokenManager) EnsureValid(ctx context.Context) error {
	if t.IsValid() {
		return nil
	}
	return t.Authenticate(ctx)
}

// Token returns the current bearer token, or "" when no session is held.
func (t *TokenManager) Token() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.session == nil {
		return ""
	}
	return t.session.AccessToken
}

// Invalidate drops the session. Called when the auth endpoint itself says
// the credentials are no longer accepted, never on push delivery failures.
func (t *TokenManager) Invalidate() {
	t.mu.Lock()
	t.session = nil
	t.mu.Unlock()
}

func (t *TokenManager) recordAuth(ctx context.Context, success bool, msg string) {
	if t.metrics != nil {
		status := "success"
		if !success {
			status = "failure"
		}
		t.metrics.TokenRefreshes.WithLabelValues(status).Inc()
	}
	if t.logger != nil {
		if success {
			t.logger.Info(ctx, msg, zap.String("upstream", t.baseURL))
		} else {
			t.logger.Warn(ctx, msg, zap.String("upstream", t.baseURL))
		}
	}
	if t.serverLog != nil {
		t.serverLog.Record(ctx, observability.Event{
			Component: "scheduler",
			Action:    "upstream_auth",
			Message:   msg,
			Success:   success,
		})
	}
}

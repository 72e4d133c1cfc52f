package scheduler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoginServer(t *testing.T, hits *atomic.Int32, status int, body map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req loginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "scheduler", req.Username)

		w.WriteHeader(status)
		if body != nil {
			_ = json.NewEncoder(w).Encode(body)
		}
	}))
}

func TestTokenManager_Authenticate(t *testing.T) {
	srv := newLoginServer(t, nil, http.StatusOK, map[string]any{
		"access_token": "tok-abc",
		"expires_in":   7200,
	})
	defer srv.Close()

	tm := NewTokenManager(srv.URL, "scheduler", "secret", nil, nil, nil)

	require.NoError(t, tm.Authenticate(context.Background()))
	assert.True(t, tm.IsValid())
	assert.Equal(t, "tok-abc", tm.Token())
}

func TestTokenManager_DefaultExpiry(t *testing.T) {
	// No expires_in in the response: session should last 3600s
	srv := newLoginServer(t, nil, http.StatusOK, map[string]any{
		"access_token": "tok-abc",
	})
	defer srv.Close()

	tm := NewTokenManager(srv.URL, "scheduler", "secret", nil, nil, nil)

	base := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	now := base
	tm.now = func() time.Time { return now }

	require.NoError(t, tm.Authenticate(context.Background()))
	assert.True(t, tm.IsValid())

	// 54 minutes in: still outside the 5-minute safety margin of a 60-minute session
	now = base.Add(54 * time.Minute)
	assert.True(t, tm.IsValid())

	// 56 minutes in: within the margin, treated as expired
	now = base.Add(56 * time.Minute)
	assert.False(t, tm.IsValid())
}

func TestTokenManager_RejectedLogin(t *testing.T) {
	srv := newLoginServer(t, nil, http.StatusUnauthorized, map[string]any{
		"detail": "bad credentials",
	})
	defer srv.Close()

	tm := NewTokenManager(srv.URL, "scheduler", "wrong", nil, nil, nil)

	err := tm.Authenticate(context.Background())
	assert.Error(t, err)
	assert.False(t, tm.IsValid())
	assert.Empty(t, tm.Token())
}

func TestTokenManager_AuthRejectionClearsSession(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusOK)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		code := int(status.Load())
		w.WriteHeader(code)
		if code == http.StatusOK {
			_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "tok-1", "expires_in": 3600})
		}
	}))
	defer srv.Close()

	tm := NewTokenManager(srv.URL, "scheduler", "secret", nil, nil, nil)
	require.NoError(t, tm.Authenticate(context.Background()))
	require.Equal(t, "tok-1", tm.Token())

	// A 401 from the auth endpoint drops the held session
	status.Store(http.StatusUnauthorized)
	assert.Error(t, tm.Authenticate(context.Background()))
	assert.Empty(t, tm.Token())
}

func TestTokenManager_MissingAccessToken(t *testing.T) {
	srv := newLoginServer(t, nil, http.StatusOK, map[string]any{
		"expires_in": 3600,
	})
	defer srv.Close()

	tm := NewTokenManager(srv.URL, "scheduler", "secret", nil, nil, nil)
	assert.Error(t, tm.Authenticate(context.Background()))
	assert.False(t, tm.IsValid())
}

func TestTokenManager_TransportFailure(t *testing.T) {
	srv := newLoginServer(t, nil, http.StatusOK, nil)
	srv.Close() // Refuse connections

	tm := NewTokenManager(srv.URL, "scheduler", "secret", nil, nil, nil)
	assert.Error(t, tm.Authenticate(context.Background()))
	assert.False(t, tm.IsValid())
}

func TestTokenManager_EnsureValidReusesSession(t *testing.T) {
	var hits atomic.Int32
	srv := newLoginServer(t, &hits, http.StatusOK, map[string]any{
		"access_token": "tok-abc",
		"expires_in":   7200,
	})
	defer srv.Close()

	tm := NewTokenManager(srv.URL, "scheduler", "secret", nil, nil, nil)

	require.NoError(t, tm.EnsureValid(context.Background()))
	require.NoError(t, tm.EnsureValid(context.Background()))
	require.NoError(t, tm.EnsureValid(context.Background()))

	assert.Equal(t, int32(1), hits.Load())

	// Invalidate forces a fresh login on the next call
	tm.Invalidate()
	require.NoError(t, tm.EnsureValid(context.Background()))
	assert.Equal(t, int32(2), hits.Load())
}

package notifications

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhizano/era-beacon-api/internal/infrastructure/observability"
	"github.com/rhizano/era-beacon-api/internal/scheduler"
)

type staticTokens struct{ token string }

func (s staticTokens) Token() string { return s.token }

func newPushServer(t *testing.T, status int, body string, gotAuth *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		if gotAuth != nil {
			*gotAuth = r.Header.Get("Authorization")
		}

		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var msg pushMessage
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, "No Presence Detected!", msg.Title)
		assert.Equal(t, "Out of store range", msg.Body)

		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func newTestPushClient(endpoint string, tokens TokenProvider) *PushClient {
	logger, _ := observability.NewLogger("error", "json")
	return NewPushClient(endpoint, 5*time.Second, tokens, logger)
}

func TestPushClient_Dispatch_Success(t *testing.T) {
	var gotAuth string
	server := newPushServer(t, http.StatusOK, `{"delivered":true}`, &gotAuth)
	defer server.Close()

	client := newTestPushClient(server.URL, staticTokens{token: "abc123"})
	outcome := client.Dispatch(context.Background(), scheduler.AbsenceCandidate{
		EmployeeID: "EMP-1",
		PushToken:  "device-token",
	})

	assert.True(t, outcome.Succeeded)
	assert.Equal(t, http.StatusOK, outcome.StatusCode)
	assert.Equal(t, `{"delivered":true}`, outcome.ResponseBody)
	assert.Equal(t, "Bearer abc123", gotAuth)
	assert.Contains(t, outcome.RequestDescription, "curl -X POST")
	assert.Contains(t, outcome.RequestDescription, `"employee_id":"EMP-1"`)
	assert.NotContains(t, outcome.RequestDescription, "abc123")
}

func TestPushClient_Dispatch_Non200IsFailure(t *testing.T) {
	server := newPushServer(t, http.StatusCreated, "created", nil)
	defer server.Close()

	client := newTestPushClient(server.URL, nil)
	outcome := client.Dispatch(context.Background(), scheduler.AbsenceCandidate{EmployeeID: "EMP-1"})

	assert.False(t, outcome.Succeeded)
	assert.Equal(t, http.StatusCreated, outcome.StatusCode)
}

func TestPushClient_Dispatch_ServerError(t *testing.T) {
	server := newPushServer(t, http.StatusInternalServerError, "push backend down", nil)
	defer server.Close()

	client := newTestPushClient(server.URL, nil)
	outcome := client.Dispatch(context.Background(), scheduler.AbsenceCandidate{EmployeeID: "EMP-1"})

	assert.False(t, outcome.Succeeded)
	assert.Equal(t, http.StatusInternalServerError, outcome.StatusCode)
	assert.Equal(t, "push backend down", outcome.ResponseBody)
}

func TestPushClient_Dispatch_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := newTestPushClient(server.URL, nil)
	outcome := client.Dispatch(context.Background(), scheduler.AbsenceCandidate{EmployeeID: "EMP-1"})

	assert.False(t, outcome.Succeeded)
	assert.Equal(t, 0, outcome.StatusCode)
	assert.NotEmpty(t, outcome.ResponseBody)
}

func TestPushClient_Dispatch_NoTokenProviderSendsUnauthenticated(t *testing.T) {
	var gotAuth string
	server := newPushServer(t, http.StatusOK, "ok", &gotAuth)
	defer server.Close()

	client := newTestPushClient(server.URL, nil)
	client.Dispatch(context.Background(), scheduler.AbsenceCandidate{EmployeeID: "EMP-1"})

	assert.Empty(t, gotAuth)
}

package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/rhizano/era-beacon-api/internal/infrastructure/observability"
	"github.com/rhizano/era-beacon-api/internal/scheduler"
)

const (
	notificationTitle = "No Presence Detected!"
	notificationBody  = "Out of store range"

	maxPushResponseBytes = 8 << 10
)

// TokenProvider supplies the current bearer token for push requests. A nil
// provider (or an empty token) sends the request unauthenticated.
type TokenProvider interface {
	Token() string
}

// PushClient delivers absence notifications over HTTP. Dispatch never returns
// an error: every failure mode is folded into the delivery outcome so one bad
// token cannot abort a detection cycle.
type PushClient struct {
	endpoint string
	client   *http.Client
	tokens   TokenProvider
	logger   *observability.Logger
}

// NewPushClient creates a push delivery client
func NewPushClient(endpoint string, timeout time.Duration, tokens TokenProvider, logger *observability.Logger) *PushClient {
	return &PushClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		tokens:   tokens,
		logger:   logger,
	}
}

// Dispatch sends one push notification and reports what happened. A status
// code of zero means the request never reached the push service.
func (p *PushClient) Dispatch(ctx context.Context, candidate scheduler.AbsenceCandidate) scheduler.DeliveryOutcome {
	payload := pushMessage{
		Token: candidate.PushToken,
		Title: notificationTitle,
		Body:  notificationBody,
		Data:  map[string]string{"employee_id": candidate.EmployeeID},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return scheduler.DeliveryOutcome{
			EmployeeID:         candidate.EmployeeID,
			RequestDescription: fmt.Sprintf("curl -X POST '%s'", p.endpoint),
			StatusCode:         0,
			ResponseBody:       err.Error(),
		}
	}

	outcome := scheduler.DeliveryOutcome{
		EmployeeID:         candidate.EmployeeID,
		RequestDescription: p.describeRequest(body),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		outcome.ResponseBody = err.Error()
		return outcome
	}
	req.Header.Set("Content-Type", "application/json")
	if token := p.bearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Warn(ctx, "push request failed",
			zap.String("employee_id", candidate.EmployeeID),
			zap.Error(err))
		outcome.ResponseBody = err.Error()
		return outcome
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxPushResponseBytes))
	if err != nil {
		respBody = []byte(err.Error())
	}
	outcome.StatusCode = resp.StatusCode
	outcome.ResponseBody = string(respBody)
	outcome.Succeeded = resp.StatusCode == http.StatusOK
	return outcome
}

// describeRequest renders the outgoing call as a curl command for the cycle
// report. The bearer token is redacted.
func (p *PushClient) describeRequest(body []byte) string {
	auth := ""
	if p.bearer() != "" {
		auth = " -H 'Authorization: Bearer ***'"
	}
	return fmt.Sprintf("curl -X POST '%s' -H 'Content-Type: application/json'%s -d '%s'", p.endpoint, auth, string(body))
}

func (p *PushClient) bearer() string {
	if p.tokens == nil {
		return ""
	}
	return p.tokens.Token()
}

package descope

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/descope-sample-apps/crewai-app/internal/config"
	"github.com/descope-sample-apps/crewai-app/internal/instrumentation"
	"github.com/descope-sample-apps/crewai-app/internal/logging"
)

// outboundTokenPath is Descope's management endpoint returning the latest
// delegated token for an (app, user) pair.
const outboundTokenPath = "/v1/mgmt/outbound/app/user/token/latest"

// TokenFetchError reports a failed outbound token exchange. StatusCode is 0
// when the exchange succeeded at the HTTP level but the response carried no
// usable token.
type TokenFetchError struct {
	Integration string
	StatusCode  int
	Detail      string
}

func (e *TokenFetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to fetch token for %s: %d %s", e.Integration, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("failed to fetch token for %s: %s", e.Integration, e.Detail)
}

// Broker exchanges a user's session token for delegated access tokens scoped
// to a single outbound integration. One request, one outcome: no caching, no
// refresh handling, no retries.
type Broker struct {
	baseURL    string
	projectID  string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *instrumentation.Metrics
}

// NewBroker creates a token broker for the configured Descope project.
func NewBroker(cfg *config.Config, logger *slog.Logger, metrics *instrumentation.Metrics) *Broker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broker{
		baseURL:    cfg.DescopeBaseURL,
		projectID:  cfg.ProjectID,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
		metrics:    metrics,
	}
}

type outboundTokenRequest struct {
	AppID  string `json:"appId"`
	UserID string `json:"userId"`
}

type outboundTokenResponse struct {
	Token struct {
		AccessToken string `json:"accessToken"`
	} `json:"token"`
}

// FetchToken requests the latest delegated access token for the given
// integration on behalf of the user. The authorization header combines the
// project identifier with the caller's raw session token.
func (b *Broker) FetchToken(ctx context.Context, integrationID, userID, sessionToken string) (string, error) {
	logger := logging.WithIntegration(b.logger, integrationID)

	body, err := json.Marshal(outboundTokenRequest{
		AppID:  integrationID,
		UserID: userID,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+outboundTokenPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s:%s", b.projectID, sessionToken))

	resp, err := b.httpClient.Do(req)
	if err != nil {
		b.metrics.RecordTokenExchange(ctx, integrationID, instrumentation.StatusError)
		return "", &TokenFetchError{Integration: integrationID, Detail: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		b.metrics.RecordTokenExchange(ctx, integrationID, instrumentation.StatusError)
		return "", &TokenFetchError{Integration: integrationID, Detail: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Warn("token exchange rejected",
			logging.Operation("token.exchange"),
			logging.Status(logging.StatusError),
			slog.Int("status_code", resp.StatusCode))
		b.metrics.RecordTokenExchange(ctx, integrationID, instrumentation.StatusError)
		return "", &TokenFetchError{
			Integration: integrationID,
			StatusCode:  resp.StatusCode,
			Detail:      string(respBody),
		}
	}

	var envelope outboundTokenResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		b.metrics.RecordTokenExchange(ctx, integrationID, instrumentation.StatusError)
		return "", &TokenFetchError{Integration: integrationID, Detail: "malformed token response"}
	}

	if envelope.Token.AccessToken == "" {
		logger.Warn("token exchange returned no access token",
			logging.Operation("token.exchange"),
			logging.Status(logging.StatusError))
		b.metrics.RecordTokenExchange(ctx, integrationID, instrumentation.StatusError)
		return "", &TokenFetchError{Integration: integrationID, Detail: "response contains no access token"}
	}

	logger.Debug("token exchanged",
		logging.Operation("token.exchange"),
		logging.Status(logging.StatusSuccess),
		logging.UserHash(userID))
	b.metrics.RecordTokenExchange(ctx, integrationID, instrumentation.StatusSuccess)

	return envelope.Token.AccessToken, nil
}

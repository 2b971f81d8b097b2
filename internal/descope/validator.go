package descope

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/descope/go-sdk/descope"
	"github.com/descope/go-sdk/descope/client"

	"github.com/descope-sample-apps/crewai-app/internal/config"
	"github.com/descope-sample-apps/crewai-app/internal/logging"
)

// Sentinel errors returned by Validate. Both map to a 401 at the HTTP layer;
// the distinction exists for logging and tests only.
var (
	// ErrInvalidSession covers every verification failure: expired,
	// malformed, bad signature, provider unreachable. Callers must not be
	// able to tell these apart.
	ErrInvalidSession = errors.New("invalid session token")

	// ErrMissingUserID means the session verified but carried no user
	// identifier claim.
	ErrMissingUserID = errors.New("user ID not found in token")
)

// Identity is the verified result of session validation. It is produced once
// per request, never persisted, and carries the raw session token so the
// token broker can exchange it for delegated access tokens.
type Identity struct {
	UserID       string
	SessionToken string
}

// SessionVerifier abstracts the identity provider's session verification.
// The Descope SDK's Auth client satisfies it.
type SessionVerifier interface {
	ValidateSessionWithToken(ctx context.Context, sessionToken string) (bool, *descope.Token, error)
}

// Validator verifies bearer session tokens against Descope.
type Validator struct {
	verifier SessionVerifier
	audience string
	logger   *slog.Logger
}

// NewValidator creates a Validator backed by the Descope SDK. Construction
// errors are returned to the caller so startup can fail fast rather than
// deferring the failure to the first request.
func NewValidator(cfg *config.Config, logger *slog.Logger) (*Validator, error) {
	descopeClient, err := client.NewWithConfig(&client.Config{
		ProjectID:      cfg.ProjectID,
		DescopeBaseURL: cfg.DescopeBaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Descope client: %w", err)
	}

	return NewValidatorWithVerifier(descopeClient.Auth, cfg.ClientID, logger), nil
}

// NewValidatorWithVerifier creates a Validator using the provided verifier.
// Used by NewValidator and by tests that stub out the Descope SDK.
func NewValidatorWithVerifier(verifier SessionVerifier, audience string, logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{
		verifier: verifier,
		audience: audience,
		logger:   logger,
	}
}

// Validate verifies a session token and returns the identity it proves.
// A single verification attempt is made; transient provider errors are not
// distinguished from permanent ones.
func (v *Validator) Validate(ctx context.Context, sessionToken string) (*Identity, error) {
	if sessionToken == "" {
		return nil, ErrInvalidSession
	}

	ok, token, err := v.verifier.ValidateSessionWithToken(ctx, sessionToken)
	if err != nil || !ok || token == nil {
		v.logger.Debug("session verification failed",
			logging.Operation("session.validate"),
			logging.Err(err))
		return nil, ErrInvalidSession
	}

	if v.audience != "" && !hasAudience(token, v.audience) {
		v.logger.Debug("session token audience mismatch",
			logging.Operation("session.validate"))
		return nil, ErrInvalidSession
	}

	userID := token.ID
	if userID == "" {
		v.logger.Warn("verified session carries no user ID",
			logging.Operation("session.validate"))
		return nil, ErrMissingUserID
	}

	v.logger.Debug("session validated",
		logging.Operation("session.validate"),
		logging.UserHash(userID))

	return &Identity{
		UserID:       userID,
		SessionToken: sessionToken,
	}, nil
}

// hasAudience checks the aud claim, which may be a string or a list.
func hasAudience(token *descope.Token, audience string) bool {
	aud, ok := token.Claims["aud"]
	if !ok {
		return false
	}

	switch v := aud.(type) {
	case string:
		return v == audience
	case []interface{}:
		for _, entry := range v {
			if s, ok := entry.(string); ok && s == audience {
				return true
			}
		}
	case []string:
		for _, s := range v {
			if s == audience {
				return true
			}
		}
	}
	return false
}

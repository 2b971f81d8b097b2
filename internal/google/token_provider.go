package google

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
)

// Integration ids understood by the token broker.
const (
	IntegrationCalendar = "google-calendar"
	IntegrationContacts = "google-contacts"
)

// TokenProvider supplies OAuth tokens for Google APIs. This abstraction
// allows different token sources (Descope outbound exchange, static test
// tokens).
type TokenProvider interface {
	// TokenForIntegration retrieves an access token scoped to the given
	// integration. Each call returns a fresh token; implementations must not
	// reuse tokens across integrations.
	TokenForIntegration(ctx context.Context, integrationID string) (*oauth2.Token, error)
}

// TokenFetcher exchanges a user's session for a delegated access token.
// The Descope broker satisfies it.
type TokenFetcher interface {
	FetchToken(ctx context.Context, integrationID, userID, sessionToken string) (string, error)
}

// DelegatedTokenProvider binds a TokenFetcher to one user's verified session.
// It is request-scoped: built once per incoming request and discarded with
// it.
type DelegatedTokenProvider struct {
	fetcher      TokenFetcher
	userID       string
	sessionToken string
}

// NewDelegatedTokenProvider creates a provider minting tokens on behalf of
// the given user.
func NewDelegatedTokenProvider(fetcher TokenFetcher, userID, sessionToken string) *DelegatedTokenProvider {
	return &DelegatedTokenProvider{
		fetcher:      fetcher,
		userID:       userID,
		sessionToken: sessionToken,
	}
}

// TokenForIntegration exchanges the bound session for a delegated token
// scoped to integrationID.
func (p *DelegatedTokenProvider) TokenForIntegration(ctx context.Context, integrationID string) (*oauth2.Token, error) {
	accessToken, err := p.fetcher.FetchToken(ctx, integrationID, p.userID, p.sessionToken)
	if err != nil {
		return nil, fmt.Errorf("failed to get delegated token for %s: %w", integrationID, err)
	}

	return &oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}, nil
}

// StaticTokenProvider returns the same token for every integration. Test
// helper.
type StaticTokenProvider struct {
	Token *oauth2.Token
	Err   error
}

// TokenForIntegration returns the configured token or error.
func (p *StaticTokenProvider) TokenForIntegration(ctx context.Context, integrationID string) (*oauth2.Token, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	return p.Token, nil
}

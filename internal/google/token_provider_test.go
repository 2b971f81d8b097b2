package google

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	token string
	err   error

	gotIntegration string
	gotUserID      string
	gotSession     string
}

func (f *fakeFetcher) FetchToken(ctx context.Context, integrationID, userID, sessionToken string) (string, error) {
	f.gotIntegration = integrationID
	f.gotUserID = userID
	f.gotSession = sessionToken
	return f.token, f.err
}

func TestDelegatedTokenProvider(t *testing.T) {
	fetcher := &fakeFetcher{token: "ya29.abc"}
	provider := NewDelegatedTokenProvider(fetcher, "U2user", "sess-jwt")

	token, err := provider.TokenForIntegration(context.Background(), IntegrationCalendar)
	require.NoError(t, err)

	assert.Equal(t, "ya29.abc", token.AccessToken)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.Equal(t, IntegrationCalendar, fetcher.gotIntegration)
	assert.Equal(t, "U2user", fetcher.gotUserID)
	assert.Equal(t, "sess-jwt", fetcher.gotSession)
}

func TestDelegatedTokenProviderFetchError(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("exchange rejected")}
	provider := NewDelegatedTokenProvider(fetcher, "U2user", "sess-jwt")

	_, err := provider.TokenForIntegration(context.Background(), IntegrationContacts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), IntegrationContacts)
}

package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/oauth2"

	"github.com/descope-sample-apps/crewai-app/internal/contacts"
	"github.com/descope-sample-apps/crewai-app/internal/google"
)

type fakeSearcher struct {
	found    []contacts.Contact
	gotQuery string
	gotMax   int
}

func (f *fakeSearcher) Search(ctx context.Context, query string, maxResults int) []contacts.Contact {
	f.gotQuery = query
	f.gotMax = maxResults
	return f.found
}

func newTestContactsTool(searcher *fakeSearcher, provider google.TokenProvider) *ContactsTool {
	tool := NewContactsTool(provider, nil, nil)
	tool.newClient = func(ctx context.Context, token *oauth2.Token) (contactSearcher, error) {
		return searcher, nil
	}
	return tool
}

func TestContactsToolSuccess(t *testing.T) {
	searcher := &fakeSearcher{found: []contacts.Contact{
		{Source: contacts.SourceDirectory, Name: "Alice Ray", Emails: []string{"alice@example.com"}},
		{Source: contacts.SourcePersonal, Name: "Alice Monroe"},
	}}
	tool := newTestContactsTool(searcher, validToken())

	result := tool.Execute(context.Background(), map[string]interface{}{
		"query":       "alice",
		"max_results": float64(5),
	})

	assert.Contains(t, result, "Found 2 contacts:")
	assert.Contains(t, result, "[Directory] Name: Alice Ray")
	assert.Contains(t, result, "[Personal] Name: Alice Monroe")
	assert.Equal(t, "alice", searcher.gotQuery)
	assert.Equal(t, 5, searcher.gotMax)
}

func TestContactsToolNoToken(t *testing.T) {
	provider := &google.StaticTokenProvider{Err: errors.New("exchange failed")}
	tool := newTestContactsTool(&fakeSearcher{}, provider)

	result := tool.Execute(context.Background(), map[string]interface{}{"query": "alice"})
	assert.Equal(t, "Error: No valid access token available for Google Contacts API", result)
}

func TestContactsToolNoMatches(t *testing.T) {
	tool := newTestContactsTool(&fakeSearcher{}, validToken())

	result := tool.Execute(context.Background(), map[string]interface{}{"query": "nobody"})
	assert.Equal(t, "No contacts found for query: 'nobody'. Searched directory, personal contacts, and all contacts.", result)
}

func TestContactsToolDefaultMaxResults(t *testing.T) {
	searcher := &fakeSearcher{}
	tool := newTestContactsTool(searcher, validToken())

	tool.Execute(context.Background(), map[string]interface{}{"query": "x"})
	assert.Equal(t, contacts.DefaultMaxResults, searcher.gotMax)
}

func TestContactsToolEmptyQueryAllowed(t *testing.T) {
	searcher := &fakeSearcher{found: []contacts.Contact{{Source: contacts.SourceAll, Name: "Anyone"}}}
	tool := newTestContactsTool(searcher, validToken())

	result := tool.Execute(context.Background(), map[string]interface{}{})
	assert.Contains(t, result, "Found 1 contacts:")
	assert.Equal(t, "", searcher.gotQuery)
}

func TestContactsToolClientError(t *testing.T) {
	tool := NewContactsTool(validToken(), nil, nil)
	tool.newClient = func(ctx context.Context, token *oauth2.Token) (contactSearcher, error) {
		return nil, errors.New("service unavailable")
	}

	result := tool.Execute(context.Background(), map[string]interface{}{"query": "x"})
	assert.Contains(t, result, "Exception searching contacts:")
}

func TestArgHelpers(t *testing.T) {
	args := map[string]interface{}{
		"s": "text",
		"n": float64(7),
		"b": true,
	}

	assert.Equal(t, "text", stringArg(args, "s"))
	assert.Equal(t, "", stringArg(args, "missing"))
	assert.Equal(t, "", stringArg(args, "b"))
	assert.Equal(t, 7, intArg(args, "n", 10))
	assert.Equal(t, 10, intArg(args, "missing", 10))
	assert.Equal(t, 10, intArg(args, "b", 10))
}

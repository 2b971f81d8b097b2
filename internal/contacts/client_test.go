package contacts

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	people "google.golang.org/api/people/v1"
)

func newStubClient() *Client {
	return &Client{logger: slog.Default()}
}

func TestSearchCombinesDirectoryAndPersonal(t *testing.T) {
	c := newStubClient()
	c.directorySearch = func(ctx context.Context, query string, maxResults int) ([]Contact, error) {
		return []Contact{{Source: SourceDirectory, Name: "Alice Ray"}}, nil
	}
	c.personalSearch = func(ctx context.Context, query string, maxResults int) ([]Contact, error) {
		return []Contact{{Source: SourcePersonal, Name: "Alice Monroe"}}, nil
	}
	c.listConnections = func(ctx context.Context, maxResults int) ([]Contact, error) {
		t.Fatal("fallback must not run when earlier strategies matched")
		return nil, nil
	}

	found := c.Search(context.Background(), "alice", 10)
	require.Len(t, found, 2)
	assert.Equal(t, SourceDirectory, found[0].Source)
	assert.Equal(t, SourcePersonal, found[1].Source)
}

func TestSearchStrategyFailureDoesNotAbortOthers(t *testing.T) {
	c := newStubClient()
	c.directorySearch = func(ctx context.Context, query string, maxResults int) ([]Contact, error) {
		return nil, errors.New("403 directory not available")
	}
	c.personalSearch = func(ctx context.Context, query string, maxResults int) ([]Contact, error) {
		return []Contact{{Source: SourcePersonal, Name: "Bob"}}, nil
	}

	found := c.Search(context.Background(), "bob", 10)
	require.Len(t, found, 1)
	assert.Equal(t, "Bob", found[0].Name)
}

func TestSearchFallbackAppliesSubstringMatch(t *testing.T) {
	c := newStubClient()
	c.directorySearch = func(ctx context.Context, query string, maxResults int) ([]Contact, error) {
		return nil, nil
	}
	c.personalSearch = func(ctx context.Context, query string, maxResults int) ([]Contact, error) {
		return nil, nil
	}
	fallbackRan := false
	c.listConnections = func(ctx context.Context, maxResults int) ([]Contact, error) {
		fallbackRan = true
		return []Contact{
			{Source: SourceAll, Name: "Alice Ray", Emails: []string{"alice@example.com"}},
			{Source: SourceAll, Name: "Bob Stone", Emails: []string{"bob@example.com"}},
			{Source: SourceAll, Organizations: []string{"Engineer at Alicetech"}},
		}, nil
	}

	found := c.Search(context.Background(), "alice", 10)
	assert.True(t, fallbackRan)
	require.Len(t, found, 2)
	assert.Equal(t, "Alice Ray", found[0].Name)
	// Matched through the organization name.
	assert.Equal(t, []string{"Engineer at Alicetech"}, found[1].Organizations)
}

func TestSearchAllStrategiesEmpty(t *testing.T) {
	c := newStubClient()
	c.directorySearch = func(ctx context.Context, query string, maxResults int) ([]Contact, error) {
		return nil, nil
	}
	c.personalSearch = func(ctx context.Context, query string, maxResults int) ([]Contact, error) {
		return nil, nil
	}
	c.listConnections = func(ctx context.Context, maxResults int) ([]Contact, error) {
		return nil, errors.New("429 rate limited")
	}

	found := c.Search(context.Background(), "nobody", 10)
	assert.Empty(t, found)
}

func TestMatchesQuery(t *testing.T) {
	contact := Contact{
		Name:          "Alice Ray",
		GivenName:     "Alice",
		FamilyName:    "Ray",
		Emails:        []string{"alice@example.com"},
		Organizations: []string{"CTO at Raytech"},
	}

	tests := []struct {
		query string
		want  bool
	}{
		{"", true},
		{"alice", true},
		{"ALICE", true},
		{"ray", true},
		{"example.com", true},
		{"raytech", true},
		{"zz", false},
	}

	for _, tt := range tests {
		t.Run("query="+tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, contact.MatchesQuery(tt.query))
		})
	}
}

func TestExtractContact(t *testing.T) {
	person := &people.Person{
		Names: []*people.Name{{
			DisplayName: "Alice Ray",
			GivenName:   "Alice",
			FamilyName:  "Ray",
		}},
		EmailAddresses: []*people.EmailAddress{{Value: "alice@example.com"}},
		PhoneNumbers:   []*people.PhoneNumber{{Value: "+1555"}},
		Organizations:  []*people.Organization{{Name: "Raytech", Title: "CTO"}},
		Addresses:      []*people.Address{{FormattedValue: "1 Main St"}},
	}

	contact, ok := extractContact(person, SourceDirectory)
	require.True(t, ok)

	assert.Equal(t, "Alice Ray", contact.Name)
	assert.Equal(t, []string{"alice@example.com"}, contact.Emails)
	assert.Equal(t, []string{"+1555"}, contact.Phones)
	assert.Equal(t, []string{"CTO at Raytech"}, contact.Organizations)
	assert.Equal(t, []string{"1 Main St"}, contact.Addresses)
}

func TestExtractContactNil(t *testing.T) {
	_, ok := extractContact(nil, SourceDirectory)
	assert.False(t, ok)
}

func TestFormatOrganization(t *testing.T) {
	assert.Equal(t, "CTO at Raytech", formatOrganization("CTO", "Raytech"))
	assert.Equal(t, "Raytech", formatOrganization("", "Raytech"))
	assert.Equal(t, "CTO", formatOrganization("CTO", ""))
	assert.Equal(t, "", formatOrganization("", ""))
}

func TestContactFormat(t *testing.T) {
	contact := Contact{
		Source:        SourcePersonal,
		Name:          "Alice Ray",
		Emails:        []string{"alice@example.com", "a@corp.com"},
		Phones:        []string{"+1555"},
		Organizations: []string{"CTO at Raytech"},
		Addresses:     []string{"1 Main St"},
	}

	formatted := contact.FormatTagged()
	assert.Contains(t, formatted, "[Personal] Name: Alice Ray")
	assert.Contains(t, formatted, "Emails: alice@example.com, a@corp.com")
	assert.Contains(t, formatted, "Phones: +1555")
	assert.Contains(t, formatted, "Organizations: CTO at Raytech")
	assert.Contains(t, formatted, "Addresses: 1 Main St")
}

func TestContactFormatEmpty(t *testing.T) {
	assert.Equal(t, "No contact information available", Contact{}.Format())
}

package contacts

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	people "google.golang.org/api/people/v1"

	"github.com/descope-sample-apps/crewai-app/internal/logging"
)

// readMask lists the person fields requested from every strategy.
const readMask = "names,emailAddresses,phoneNumbers,organizations,addresses"

// DefaultMaxResults bounds a search when the caller doesn't.
const DefaultMaxResults = 10

// Client wraps the Google People service.
type Client struct {
	svc    *people.Service
	logger *slog.Logger

	// Strategy seams, replaced in tests. Each returns the contacts one
	// strategy produced; errors are handled by Search, not by callers.
	directorySearch func(ctx context.Context, query string, maxResults int) ([]Contact, error)
	personalSearch  func(ctx context.Context, query string, maxResults int) ([]Contact, error)
	listConnections func(ctx context.Context, maxResults int) ([]Contact, error)
}

// NewClient creates a People client authenticated with the given delegated
// token.
func NewClient(ctx context.Context, token *oauth2.Token, logger *slog.Logger) (*Client, error) {
	if token == nil || token.AccessToken == "" {
		return nil, fmt.Errorf("delegated token cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	svc, err := people.NewService(ctx, option.WithTokenSource(oauth2.StaticTokenSource(token)))
	if err != nil {
		return nil, fmt.Errorf("failed to create People service: %w", err)
	}

	c := &Client{svc: svc, logger: logger}
	c.directorySearch = c.searchDirectory
	c.personalSearch = c.searchPersonal
	c.listConnections = c.listAllConnections
	return c, nil
}

// Search runs the directory and personal-contacts strategies, then — only if
// both matched nothing — lists all connections and filters them locally.
// Each strategy is best-effort: a failure is logged and the next strategy
// still runs. An empty query matches all contacts per search semantics.
func (c *Client) Search(ctx context.Context, query string, maxResults int) []Contact {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	var found []Contact

	if contacts, err := c.directorySearch(ctx, query, maxResults); err != nil {
		c.logger.Debug("directory search failed",
			logging.Operation("contacts.directory_search"),
			logging.Err(err))
	} else {
		found = append(found, contacts...)
	}

	if contacts, err := c.personalSearch(ctx, query, maxResults); err != nil {
		c.logger.Debug("personal contacts search failed",
			logging.Operation("contacts.personal_search"),
			logging.Err(err))
	} else {
		found = append(found, contacts...)
	}

	if len(found) > 0 {
		return found
	}

	connections, err := c.listConnections(ctx, maxResults)
	if err != nil {
		c.logger.Debug("listing connections failed",
			logging.Operation("contacts.list_connections"),
			logging.Err(err))
		return nil
	}
	for _, contact := range connections {
		if contact.MatchesQuery(query) {
			found = append(found, contact)
		}
	}

	return found
}

func (c *Client) searchDirectory(ctx context.Context, query string, maxResults int) ([]Contact, error) {
	resp, err := c.svc.People.SearchDirectoryPeople().
		Query(query).
		ReadMask(readMask).
		Sources("DIRECTORY_SOURCE_TYPE_DOMAIN_PROFILE").
		PageSize(int64(maxResults)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	var contacts []Contact
	for _, person := range resp.People {
		if contact, ok := extractContact(person, SourceDirectory); ok {
			contacts = append(contacts, contact)
		}
	}
	return contacts, nil
}

func (c *Client) searchPersonal(ctx context.Context, query string, maxResults int) ([]Contact, error) {
	resp, err := c.svc.People.SearchContacts().
		Query(query).
		ReadMask(readMask).
		PageSize(int64(maxResults)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	var contacts []Contact
	for _, result := range resp.Results {
		if contact, ok := extractContact(result.Person, SourcePersonal); ok {
			contacts = append(contacts, contact)
		}
	}
	return contacts, nil
}

func (c *Client) listAllConnections(ctx context.Context, maxResults int) ([]Contact, error) {
	resp, err := c.svc.People.Connections.List("people/me").
		PersonFields(readMask).
		PageSize(int64(maxResults)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	var contacts []Contact
	for _, person := range resp.Connections {
		if contact, ok := extractContact(person, SourceAll); ok {
			contacts = append(contacts, contact)
		}
	}
	return contacts, nil
}

// extractContact converts a People API person into a Contact. It returns
// false for a nil person.
func extractContact(person *people.Person, source string) (Contact, bool) {
	if person == nil {
		return Contact{}, false
	}

	contact := Contact{Source: source}

	if len(person.Names) > 0 {
		contact.Name = person.Names[0].DisplayName
		contact.GivenName = person.Names[0].GivenName
		contact.FamilyName = person.Names[0].FamilyName
	}
	for _, email := range person.EmailAddresses {
		if email.Value != "" {
			contact.Emails = append(contact.Emails, email.Value)
		}
	}
	for _, phone := range person.PhoneNumbers {
		if phone.Value != "" {
			contact.Phones = append(contact.Phones, phone.Value)
		}
	}
	for _, org := range person.Organizations {
		if formatted := formatOrganization(org.Title, org.Name); formatted != "" {
			contact.Organizations = append(contact.Organizations, formatted)
		}
	}
	for _, addr := range person.Addresses {
		if addr.FormattedValue != "" {
			contact.Addresses = append(contact.Addresses, addr.FormattedValue)
		}
	}

	return contact, true
}

// formatOrganization renders "title at org" when both are present, or
// whichever one is.
func formatOrganization(title, name string) string {
	switch {
	case name != "" && title != "":
		return title + " at " + name
	case name != "":
		return name
	case title != "":
		return title
	default:
		return ""
	}
}

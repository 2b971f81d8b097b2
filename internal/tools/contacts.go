package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/oauth2"

	"github.com/descope-sample-apps/crewai-app/internal/agent"
	"github.com/descope-sample-apps/crewai-app/internal/contacts"
	"github.com/descope-sample-apps/crewai-app/internal/google"
	"github.com/descope-sample-apps/crewai-app/internal/instrumentation"
	"github.com/descope-sample-apps/crewai-app/internal/logging"
)

// contactsArgs is the argument schema advertised to the agent.
type contactsArgs struct {
	Query      string `json:"query,omitempty" jsonschema:"description=Search query to find contacts"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"description=Maximum number of contacts to return (default 10)"`
}

// contactSearcher is the slice of the contacts client the tool needs.
type contactSearcher interface {
	Search(ctx context.Context, query string, maxResults int) []contacts.Contact
}

// ContactsTool searches the user's Google Contacts.
type ContactsTool struct {
	tokens  google.TokenProvider
	logger  *slog.Logger
	metrics *instrumentation.Metrics

	newClient func(ctx context.Context, token *oauth2.Token) (contactSearcher, error)
}

// NewContactsTool creates the contacts adapter bound to a token provider.
func NewContactsTool(tokens google.TokenProvider, logger *slog.Logger, metrics *instrumentation.Metrics) *ContactsTool {
	if logger == nil {
		logger = slog.Default()
	}
	toolLogger := logging.WithTool(logger, "search_contacts")
	return &ContactsTool{
		tokens:  tokens,
		logger:  toolLogger,
		metrics: metrics,
		newClient: func(ctx context.Context, token *oauth2.Token) (contactSearcher, error) {
			return contacts.NewClient(ctx, token, toolLogger)
		},
	}
}

// Name implements agent.Tool.
func (t *ContactsTool) Name() string { return "search_contacts" }

// Description implements agent.Tool.
func (t *ContactsTool) Description() string {
	return "Search and retrieve information from Google Contacts"
}

// Parameters implements agent.Tool.
func (t *ContactsTool) Parameters() json.RawMessage { return agent.SchemaFor(&contactsArgs{}) }

// Execute searches contacts across all three strategies and formats a
// combined report.
func (t *ContactsTool) Execute(ctx context.Context, args map[string]interface{}) string {
	query := stringArg(args, "query")
	maxResults := intArg(args, "max_results", contacts.DefaultMaxResults)

	token, err := t.tokens.TokenForIntegration(ctx, google.IntegrationContacts)
	if err != nil {
		t.logger.Warn("no delegated token for contacts",
			logging.Integration(google.IntegrationContacts),
			logging.Err(err))
		return "Error: No valid access token available for Google Contacts API"
	}

	client, err := t.newClient(ctx, token)
	if err != nil {
		return fmt.Sprintf("Exception searching contacts: %v", err)
	}

	found := client.Search(ctx, query, maxResults)
	if len(found) == 0 {
		t.metrics.RecordGoogleAPIOperation(ctx, "people", "search", instrumentation.StatusSuccess)
		return fmt.Sprintf("No contacts found for query: '%s'. Searched directory, personal contacts, and all contacts.", query)
	}

	blocks := make([]string, 0, len(found))
	for _, contact := range found {
		blocks = append(blocks, contact.FormatTagged())
	}

	t.metrics.RecordGoogleAPIOperation(ctx, "people", "search", instrumentation.StatusSuccess)
	t.logger.Info("contacts search completed",
		logging.Integration(google.IntegrationContacts),
		logging.Status(logging.StatusSuccess),
		slog.Int("matches", len(found)))

	return fmt.Sprintf("Found %d contacts:\n\n%s", len(found), strings.Join(blocks, "\n\n"))
}

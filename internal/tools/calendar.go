package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"github.com/descope-sample-apps/crewai-app/internal/agent"
	"github.com/descope-sample-apps/crewai-app/internal/calendar"
	"github.com/descope-sample-apps/crewai-app/internal/google"
	"github.com/descope-sample-apps/crewai-app/internal/instrumentation"
	"github.com/descope-sample-apps/crewai-app/internal/logging"
)

// calendarArgs is the argument schema advertised to the agent.
type calendarArgs struct {
	EventTitle  string `json:"event_title" jsonschema:"description=Event title"`
	StartTime   string `json:"start_time" jsonschema:"description=Start time in ISO 8601 format"`
	EndTime     string `json:"end_time,omitempty" jsonschema:"description=End time in ISO 8601 format; defaults to the start time"`
	Description string `json:"description,omitempty" jsonschema:"description=Event description"`
	Invitees    string `json:"invitees,omitempty" jsonschema:"description=Comma-separated list of email addresses to invite to the event"`
}

// eventCreator is the slice of the calendar client the tool needs.
type eventCreator interface {
	CreateEvent(ctx context.Context, calendarID string, input calendar.EventInput) (*calendar.EventSummary, error)
}

// CalendarTool creates events in the user's primary Google Calendar.
type CalendarTool struct {
	tokens  google.TokenProvider
	logger  *slog.Logger
	metrics *instrumentation.Metrics

	// newClient builds a client from a freshly minted delegated token.
	// Tests substitute a fake creator.
	newClient func(ctx context.Context, token *oauth2.Token) (eventCreator, error)
}

// NewCalendarTool creates the calendar adapter bound to a token provider.
func NewCalendarTool(tokens google.TokenProvider, logger *slog.Logger, metrics *instrumentation.Metrics) *CalendarTool {
	if logger == nil {
		logger = slog.Default()
	}
	return &CalendarTool{
		tokens:  tokens,
		logger:  logging.WithTool(logger, "create_calendar_event"),
		metrics: metrics,
		newClient: func(ctx context.Context, token *oauth2.Token) (eventCreator, error) {
			return calendar.NewClient(ctx, token)
		},
	}
}

// Name implements agent.Tool.
func (t *CalendarTool) Name() string { return "create_calendar_event" }

// Description implements agent.Tool.
func (t *CalendarTool) Description() string { return "Create a new event in Google Calendar" }

// Parameters implements agent.Tool.
func (t *CalendarTool) Parameters() json.RawMessage { return agent.SchemaFor(&calendarArgs{}) }

// Execute creates one calendar event. All failures come back as descriptive
// strings; see the package comment.
func (t *CalendarTool) Execute(ctx context.Context, args map[string]interface{}) string {
	title := stringArg(args, "event_title")
	startTime := stringArg(args, "start_time")
	endTime := stringArg(args, "end_time")
	description := stringArg(args, "description")
	invitees := stringArg(args, "invitees")

	token, err := t.tokens.TokenForIntegration(ctx, google.IntegrationCalendar)
	if err != nil {
		t.logger.Warn("no delegated token for calendar",
			logging.Integration(google.IntegrationCalendar),
			logging.Err(err))
		return "Error: No valid access token available for Google Calendar API"
	}

	if title == "" || startTime == "" {
		return "Error: title and start_time required"
	}

	attendees := splitInvitees(invitees)

	client, err := t.newClient(ctx, token)
	if err != nil {
		return fmt.Sprintf("Exception creating event: %v", err)
	}

	created, err := client.CreateEvent(ctx, calendar.PrimaryCalendarID, calendar.EventInput{
		Title:       title,
		Description: description,
		Start:       startTime,
		End:         endTime,
		Attendees:   attendees,
	})
	if err != nil {
		t.metrics.RecordGoogleAPIOperation(ctx, "calendar", "insert", instrumentation.StatusError)
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			return fmt.Sprintf("Google Calendar API Error: %v", apiErr)
		}
		return fmt.Sprintf("Exception creating event: %v", err)
	}

	t.metrics.RecordGoogleAPIOperation(ctx, "calendar", "insert", instrumentation.StatusSuccess)
	t.logger.Info("calendar event created",
		logging.Integration(google.IntegrationCalendar),
		logging.Status(logging.StatusSuccess))

	response := fmt.Sprintf("Event created successfully: %s - %s", created.ID, created.Title)
	if len(attendees) > 0 {
		response += "\nInvitations sent to: " + strings.Join(attendees, ", ")
	}
	return response
}

// splitInvitees splits a comma-separated email list, trimming whitespace and
// dropping empty entries.
func splitInvitees(invitees string) []string {
	if invitees == "" {
		return nil
	}

	var emails []string
	for _, part := range strings.Split(invitees, ",") {
		if email := strings.TrimSpace(part); email != "" {
			emails = append(emails, email)
		}
	}
	return emails
}

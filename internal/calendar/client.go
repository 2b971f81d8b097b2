package calendar

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// PrimaryCalendarID addresses the authenticated user's primary calendar.
const PrimaryCalendarID = "primary"

// Client wraps the Google Calendar service.
type Client struct {
	svc *calendar.Service
}

// NewClient creates a Calendar client authenticated with the given delegated
// token.
func NewClient(ctx context.Context, token *oauth2.Token) (*Client, error) {
	if token == nil || token.AccessToken == "" {
		return nil, fmt.Errorf("delegated token cannot be empty")
	}

	svc, err := calendar.NewService(ctx, option.WithTokenSource(oauth2.StaticTokenSource(token)))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	return &Client{svc: svc}, nil
}

// CreateEvent creates a new event on the given calendar and asks the
// provider to send invitation updates to all attendees.
func (c *Client) CreateEvent(ctx context.Context, calendarID string, input EventInput) (*EventSummary, error) {
	event := buildEvent(input)

	created, err := c.svc.Events.Insert(calendarID, event).
		SendUpdates("all").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return &EventSummary{
		ID:       created.Id,
		Title:    created.Summary,
		HTMLLink: created.HtmlLink,
	}, nil
}

// buildEvent translates an EventInput into the provider's event payload.
func buildEvent(input EventInput) *calendar.Event {
	timeZone := input.TimeZone
	if timeZone == "" {
		timeZone = "UTC"
	}

	end := input.End
	if end == "" {
		end = input.Start
	}

	event := &calendar.Event{
		Summary:     input.Title,
		Description: input.Description,
		Start: &calendar.EventDateTime{
			DateTime: input.Start,
			TimeZone: timeZone,
		},
		End: &calendar.EventDateTime{
			DateTime: end,
			TimeZone: timeZone,
		},
	}

	if len(input.Attendees) > 0 {
		attendees := make([]*calendar.EventAttendee, 0, len(input.Attendees))
		for _, email := range input.Attendees {
			attendees = append(attendees, &calendar.EventAttendee{Email: email})
		}
		event.Attendees = attendees
	}

	return event
}

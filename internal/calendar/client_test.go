package calendar

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestBuildEvent(t *testing.T) {
	event := buildEvent(EventInput{
		Title:       "Planning",
		Description: "Q3 planning session",
		Start:       "2026-09-01T15:00:00Z",
		End:         "2026-09-01T16:00:00Z",
		Attendees:   []string{"a@x.com", "b@x.com"},
	})

	assert.Equal(t, "Planning", event.Summary)
	assert.Equal(t, "Q3 planning session", event.Description)
	assert.Equal(t, "2026-09-01T15:00:00Z", event.Start.DateTime)
	assert.Equal(t, "2026-09-01T16:00:00Z", event.End.DateTime)
	assert.Equal(t, "UTC", event.Start.TimeZone)

	require.Len(t, event.Attendees, 2)
	assert.Equal(t, "a@x.com", event.Attendees[0].Email)
	assert.Equal(t, "b@x.com", event.Attendees[1].Email)
}

func TestBuildEventDefaultsEndToStart(t *testing.T) {
	event := buildEvent(EventInput{
		Title: "Standup",
		Start: "2026-09-01T09:00:00Z",
	})

	// Zero-duration event, deliberately not an error.
	assert.Equal(t, event.Start.DateTime, event.End.DateTime)
}

func TestBuildEventNoAttendees(t *testing.T) {
	event := buildEvent(EventInput{
		Title: "Focus time",
		Start: "2026-09-01T09:00:00Z",
	})

	assert.Nil(t, event.Attendees)
}

func TestBuildEventCustomTimeZone(t *testing.T) {
	event := buildEvent(EventInput{
		Title:    "Standup",
		Start:    "2026-09-01T09:00:00+02:00",
		TimeZone: "Europe/Berlin",
	})

	assert.Equal(t, "Europe/Berlin", event.Start.TimeZone)
	assert.Equal(t, "Europe/Berlin", event.End.TimeZone)
}

func TestNewClientRequiresToken(t *testing.T) {
	_, err := NewClient(context.Background(), nil)
	assert.Error(t, err)

	_, err = NewClient(context.Background(), &oauth2.Token{})
	assert.Error(t, err)
}

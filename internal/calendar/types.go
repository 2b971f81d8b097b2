package calendar

// EventInput represents the input for creating a calendar event.
// Start and End are RFC 3339 timestamps. An empty End produces a
// zero-duration event ending at Start; that degenerate case is deliberate.
type EventInput struct {
	Title       string
	Description string
	Start       string
	End         string
	TimeZone    string
	Attendees   []string
}

// EventSummary represents a created calendar event.
type EventSummary struct {
	ID       string
	Title    string
	HTMLLink string
}

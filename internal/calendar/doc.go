// Package calendar wraps the Google Calendar API for event creation.
//
// The client is request-scoped: it is constructed with a delegated access
// token minted for this request and discarded with it. Event times are
// RFC 3339 strings passed through to the provider unchanged; interpreting
// the user's natural-language dates is the task engine's job, not ours.
package calendar

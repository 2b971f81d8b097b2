// Package contacts wraps the Google People API for contact search.
//
// A search runs up to three strategies in fixed order, each best-effort:
// the organization directory, the user's personal contacts, and — only when
// the first two matched nothing — a listing of all connections filtered by a
// local substring match. A failing strategy never aborts the others.
package contacts

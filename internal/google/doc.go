// Package google provides the OAuth token abstraction shared by the Google
// API clients.
//
// TokenProvider decouples the Calendar and Contacts clients from how
// delegated tokens are minted. The production implementation exchanges the
// user's Descope session for a short-lived per-integration token on every
// call; tests substitute static providers.
package google

// Package tools implements the agent-facing adapters over the Google APIs.
//
// Each tool acquires its own delegated token per invocation — tokens are
// never shared across integrations — and converts every failure (token
// exchange, validation, provider error, anything unexpected) into a
// descriptive result string. Errors never escape a tool as Go errors: the
// dispatcher must always have a text payload to aggregate, and one
// integration's failure must never take down the other's result.
package tools

package agent

import "context"

// Message is one turn of the reasoning history.
type Message struct {
	Role    string // "user" or "assistant"
	Content string
}

// LLM generates a completion for the given system prompt, history, and input.
type LLM interface {
	Generate(ctx context.Context, systemPrompt string, history []Message, input string) (string, error)
}

package agent

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedLLM returns canned responses in order.
type scriptedLLM struct {
	responses []string
	calls     int
	inputs    []string
	err       error
}

func (s *scriptedLLM) Generate(ctx context.Context, systemPrompt string, history []Message, input string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.inputs = append(s.inputs, input)
	if s.calls >= len(s.responses) {
		return "done", nil
	}
	response := s.responses[s.calls]
	s.calls++
	return response, nil
}

type recordingTool struct {
	name    string
	output  string
	gotArgs map[string]interface{}
	calls   int
}

func (r *recordingTool) Name() string                { return r.name }
func (r *recordingTool) Description() string         { return "test tool" }
func (r *recordingTool) Parameters() json.RawMessage { return nil }
func (r *recordingTool) Execute(ctx context.Context, args map[string]interface{}) string {
	r.calls++
	r.gotArgs = args
	return r.output
}

func TestRunDirectAnswer(t *testing.T) {
	llm := &scriptedLLM{responses: []string{"The meeting is at 3pm."}}
	executor := NewExecutor("calendar_manager", "You manage calendars.", llm, nil)

	result, err := executor.Run(context.Background(), "when is my meeting?")
	require.NoError(t, err)
	assert.Equal(t, "The meeting is at 3pm.", result)
	assert.Equal(t, 1, llm.calls)
}

func TestRunToolCallThenAnswer(t *testing.T) {
	tool := &recordingTool{name: "create_calendar_event", output: "Event created successfully: evt123 - Sync"}
	llm := &scriptedLLM{responses: []string{
		`<tool_call><tool_name>create_calendar_event</tool_name><parameters>{"event_title":"Sync","start_time":"2026-09-01T15:00:00Z"}</parameters></tool_call>`,
		"Created your event evt123.",
	}}
	executor := NewExecutor("calendar_manager", "You manage calendars.", llm, []Tool{tool})

	result, err := executor.Run(context.Background(), "schedule a sync")
	require.NoError(t, err)

	assert.Equal(t, "Created your event evt123.", result)
	assert.Equal(t, 1, tool.calls)
	assert.Equal(t, "Sync", tool.gotArgs["event_title"])

	// The tool result must be fed back as the next model input.
	require.Len(t, llm.inputs, 2)
	assert.Contains(t, llm.inputs[1], "evt123")
}

func TestRunIterationCap(t *testing.T) {
	tool := &recordingTool{name: "search_contacts", output: "Found 1 contacts"}
	toolCall := `<tool_call><tool_name>search_contacts</tool_name><parameters>{"query":"x"}</parameters></tool_call>`
	llm := &scriptedLLM{responses: []string{toolCall, toolCall, toolCall, toolCall}}

	executor := NewExecutor("contacts_finder", "You find contacts.", llm, []Tool{tool})

	result, err := executor.Run(context.Background(), "find x")
	require.NoError(t, err)

	// The loop stops at the cap and returns the last response.
	assert.Equal(t, DefaultMaxIterations, llm.calls)
	assert.Equal(t, DefaultMaxIterations, tool.calls)
	assert.NotEmpty(t, result)
}

func TestRunLLMError(t *testing.T) {
	llm := &scriptedLLM{err: errors.New("model overloaded")}
	executor := NewExecutor("calendar_manager", "role", llm, nil)

	_, err := executor.Run(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "calendar_manager")
}

func TestRunUnknownTool(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		`<tool_call><tool_name>nope</tool_name><parameters>{}</parameters></tool_call>`,
		"I could not use that tool.",
	}}
	executor := NewExecutor("calendar_manager", "role", llm, nil)

	result, err := executor.Run(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, "I could not use that tool.", result)
	require.Len(t, llm.inputs, 2)
	assert.Contains(t, llm.inputs[1], "unknown tool")
}

func TestBuildSystemPromptIncludesTools(t *testing.T) {
	tool := &recordingTool{name: "search_contacts"}
	executor := NewExecutor("contacts_finder", "You find people.", &scriptedLLM{}, []Tool{tool})

	prompt := executor.buildSystemPrompt()
	assert.Contains(t, prompt, "contacts_finder")
	assert.Contains(t, prompt, "You find people.")
	assert.Contains(t, prompt, "search_contacts")
	assert.Contains(t, prompt, "<tool_call>")
}

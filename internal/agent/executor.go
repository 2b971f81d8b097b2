package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/descope-sample-apps/crewai-app/internal/logging"
)

// Execution bounds enforced on every task, mirroring the planner limits the
// crew was originally deployed with.
const (
	DefaultMaxIterations = 3
	DefaultTimeout       = 60 * time.Second
)

var systemPromptTemplate = `You are %s.

%s

You have access to the following tools:
<tools>
%s
</tools>

To use a tool, respond with exactly this format:
<tool_call>
  <tool_name>name_of_the_tool</tool_name>
  <parameters>{"param1": "value1"}</parameters>
</tool_call>

Rules:
1. Choose the most appropriate tool for the user's request; provide all required parameters in valid JSON.
2. After a tool result is returned to you, incorporate it into your answer.
3. When you have everything you need, respond with your final answer as plain text and no tool calls.
4. If a tool reports an error, explain the problem in your final answer instead of retrying endlessly.`

// Executor runs one task through a bounded LLM reasoning loop against a set
// of bound tools.
type Executor struct {
	name          string
	role          string
	llm           LLM
	tools         map[string]Tool
	descriptors   []ToolDescriptor
	maxIterations int
	timeout       time.Duration
	logger        *slog.Logger
}

// ExecutorOption customizes an Executor.
type ExecutorOption func(*Executor)

// WithMaxIterations overrides the reasoning iteration cap.
func WithMaxIterations(n int) ExecutorOption {
	return func(e *Executor) {
		if n > 0 {
			e.maxIterations = n
		}
	}
}

// WithTimeout overrides the wall-clock limit for one task.
func WithTimeout(d time.Duration) ExecutorOption {
	return func(e *Executor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithLogger sets the executor's logger.
func WithLogger(logger *slog.Logger) ExecutorOption {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExecutor creates an executor for one agent persona with its bound
// tools.
func NewExecutor(name, role string, llm LLM, tools []Tool, opts ...ExecutorOption) *Executor {
	e := &Executor{
		name:          name,
		role:          role,
		llm:           llm,
		tools:         make(map[string]Tool, len(tools)),
		descriptors:   DescribeTools(tools),
		maxIterations: DefaultMaxIterations,
		timeout:       DefaultTimeout,
		logger:        slog.Default(),
	}
	for _, tool := range tools {
		e.tools[tool.Name()] = tool
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes the task to completion or to the iteration/time bound.
// The final model response with no tool calls is the task's result; hitting
// the iteration cap returns the last response rather than an error, since a
// partial answer still carries the tool outcomes.
func (e *Executor) Run(ctx context.Context, task string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	logger := e.logger.With(logging.Task(e.name))

	systemPrompt := e.buildSystemPrompt()
	var history []Message
	input := task
	lastResponse := ""

	for iteration := 0; iteration < e.maxIterations; iteration++ {
		response, err := e.llm.Generate(ctx, systemPrompt, history, input)
		if err != nil {
			return "", fmt.Errorf("task %s failed at iteration %d: %w", e.name, iteration+1, err)
		}
		lastResponse = response

		calls := ExtractToolCalls(response)
		if len(calls) == 0 {
			logger.Debug("task completed",
				logging.Operation("agent.run"),
				slog.Int("iterations", iteration+1))
			return strings.TrimSpace(response), nil
		}

		history = append(history,
			Message{Role: "user", Content: input},
			Message{Role: "assistant", Content: response},
		)

		var results []string
		for _, call := range calls {
			results = append(results, e.invokeTool(ctx, logger, call))
		}
		input = strings.Join(results, "\n\n")
	}

	logger.Warn("task hit iteration cap",
		logging.Operation("agent.run"),
		slog.Int("iterations", e.maxIterations))
	return strings.TrimSpace(lastResponse), nil
}

func (e *Executor) invokeTool(ctx context.Context, logger *slog.Logger, call ToolCall) string {
	tool, ok := e.tools[call.ToolName]
	if !ok {
		return fmt.Sprintf("Tool %q result: Error: unknown tool", call.ToolName)
	}

	logger.Debug("invoking tool",
		logging.Operation("agent.tool"),
		logging.Tool(call.ToolName))
	output := tool.Execute(ctx, call.Parameters)
	return fmt.Sprintf("Tool %q result: %s", call.ToolName, output)
}

func (e *Executor) buildSystemPrompt() string {
	toolsJSON, err := json.Marshal(e.descriptors)
	if err != nil {
		toolsJSON = []byte("[]")
	}
	return fmt.Sprintf(systemPromptTemplate, e.name, e.role, string(toolsJSON))
}

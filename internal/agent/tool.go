package agent

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/invopop/jsonschema"
)

// Tool is a capability the agent can invoke. Execute never fails with an
// error: token, provider, and validation problems all come back as
// descriptive strings so the aggregation layer always has a text payload.
type Tool interface {
	Name() string
	Description() string
	Parameters() json.RawMessage
	Execute(ctx context.Context, args map[string]interface{}) string
}

// ToolDescriptor is the serializable view of a tool advertised to the model.
type ToolDescriptor struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

// DescribeTools builds descriptors for a set of tools.
func DescribeTools(tools []Tool) []ToolDescriptor {
	descriptors := make([]ToolDescriptor, 0, len(tools))
	for _, tool := range tools {
		descriptors = append(descriptors, ToolDescriptor{
			Name:        tool.Name(),
			Description: tool.Description(),
			Parameters:  tool.Parameters(),
		})
	}
	return descriptors
}

// SchemaFor reflects a JSON schema for a tool's argument struct.
func SchemaFor(v interface{}) json.RawMessage {
	reflector := jsonschema.Reflector{DoNotReference: true}
	schema := reflector.Reflect(v)
	data, err := schema.MarshalJSON()
	if err != nil {
		return nil
	}
	return data
}

// ToolCall is a parsed tool invocation from model output.
type ToolCall struct {
	ToolName   string
	Parameters map[string]interface{}
}

var toolCallRegex = regexp.MustCompile(`(?s)<tool_call>\s*<tool_name>(.*?)</tool_name>\s*<parameters>\s*(.*?)\s*</parameters>\s*</tool_call>`)

// ExtractToolCalls parses tool invocations from model output. Calls with
// unparseable parameters are skipped rather than failing the whole response;
// the model gets another iteration to correct itself.
func ExtractToolCalls(content string) []ToolCall {
	var calls []ToolCall

	for _, match := range toolCallRegex.FindAllStringSubmatch(content, -1) {
		if len(match) != 3 {
			continue
		}

		name := strings.TrimSpace(match[1])
		if name == "" {
			continue
		}

		var params map[string]interface{}
		if err := json.Unmarshal([]byte(strings.TrimSpace(match[2])), &params); err != nil {
			continue
		}

		calls = append(calls, ToolCall{ToolName: name, Parameters: params})
	}

	return calls
}

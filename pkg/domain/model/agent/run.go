package agent

import "github.com/fabric-tools/dataagent/pkg/domain/types"

// Run is one question/answer cycle on a thread. Immutable once the
// status is terminal.
type Run struct {
	ID          types.RunID     `json:"id"`
	Object      string          `json:"object,omitempty"`
	CreatedAt   int64           `json:"created_at,omitempty"`
	ThreadID    types.ThreadID  `json:"thread_id"`
	AssistantID string          `json:"assistant_id,omitempty"`
	Status      types.RunStatus `json:"status"`
	StartedAt   int64           `json:"started_at,omitempty"`
	CompletedAt int64           `json:"completed_at,omitempty"`
	LastError   *RunLastError   `json:"last_error,omitempty"`
	Model       string          `json:"model,omitempty"`
}

// RunLastError is the service-side failure detail attached to a run.
type RunLastError struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// RunStep is one unit of work performed during a run, either a message
// creation or a batch of tool calls.
type RunStep struct {
	ID          types.StepID   `json:"id"`
	Object      string         `json:"object,omitempty"`
	CreatedAt   int64          `json:"created_at,omitempty"`
	RunID       types.RunID    `json:"run_id,omitempty"`
	ThreadID    types.ThreadID `json:"thread_id,omitempty"`
	Type        string         `json:"type"`
	Status      string         `json:"status,omitempty"`
	CompletedAt int64          `json:"completed_at,omitempty"`
	StepDetails StepDetails    `json:"step_details"`
}

const (
	StepTypeMessageCreation = "message_creation"
	StepTypeToolCalls       = "tool_calls"
)

type StepDetails struct {
	Type            string           `json:"type,omitempty"`
	MessageCreation *MessageCreation `json:"message_creation,omitempty"`
	ToolCalls       []ToolCall       `json:"tool_calls,omitempty"`
}

type MessageCreation struct {
	MessageID string `json:"message_id"`
}

// ToolCall is a single tool invocation inside a step. Function carries
// the JSON-encoded arguments text and, once finished, the raw output.
type ToolCall struct {
	ID       string        `json:"id,omitempty"`
	Type     string        `json:"type"`
	Function *FunctionCall `json:"function,omitempty"`
}

type FunctionCall struct {
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
	Output    string `json:"output,omitempty"`
}

// RunStepList is a run step listing in execution order.
type RunStepList struct {
	Object  string    `json:"object,omitempty"`
	Data    []RunStep `json:"data"`
	FirstID string    `json:"first_id,omitempty"`
	LastID  string    `json:"last_id,omitempty"`
	HasMore bool      `json:"has_more"`
}

package agent

import (
	"time"

	"github.com/fabric-tools/dataagent/pkg/domain/types"
)

// RunDetail is the fully parsed result of one question. The SQL fields
// are present only when the run executed tool calls against a lakehouse
// data source; their absence is the expected non-error case.
type RunDetail struct {
	Question  string          `json:"question"`
	RunStatus types.RunStatus `json:"run_status"`
	ThreadID  types.ThreadID  `json:"thread_id"`
	RunSteps  *RunStepList    `json:"run_steps"`
	Messages  *MessageList    `json:"messages"`

	SQLQueries      []string   `json:"sql_queries,omitempty"`
	SQLDataPreviews [][]string `json:"sql_data_previews,omitempty"`

	// DataRetrievalQuery is a best-effort guess at the query that
	// produced the displayed answer. The index is 1-based into
	// SQLQueries; 0 means no guess.
	DataRetrievalQuery      string `json:"data_retrieval_query,omitempty"`
	DataRetrievalQueryIndex int    `json:"data_retrieval_query_index,omitempty"`

	// Warnings collects non-fatal extraction problems, such as
	// tool-call arguments that failed to decode.
	Warnings []string `json:"warnings,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// Answer returns the text of the latest assistant message, if any.
func (x *RunDetail) Answer() string {
	if x.Messages == nil {
		return ""
	}
	msg, ok := x.Messages.LatestAssistant()
	if !ok {
		return ""
	}
	return msg.Text()
}

// RawRunResponse carries the unprocessed run objects for callers that
// want to bypass the extractor.
type RawRunResponse struct {
	Question       string         `json:"question"`
	ThreadID       types.ThreadID `json:"thread_id"`
	Run            *Run           `json:"run"`
	RunSteps       *RunStepList   `json:"run_steps"`
	Messages       *MessageList   `json:"messages"`
	Success        bool           `json:"success"`
	TimeoutSeconds int            `json:"timeout_seconds"`
	Timestamp      time.Time      `json:"timestamp"`
}

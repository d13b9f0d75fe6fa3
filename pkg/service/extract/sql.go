// Package extract pulls SQL query text and data previews out of run
// steps. Everything here is best effort: the service does not declare
// which tool call produced the displayed answer, so attribution is a
// heuristic, and undecodable tool-call arguments are reported as
// warnings rather than failures.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/fabric-tools/dataagent/pkg/domain/model/agent"
	"github.com/fabric-tools/dataagent/pkg/utils/logging"
)

// queryPattern recognizes query-like strings inside tool-call arguments.
var queryPattern = regexp.MustCompile(`(?is)^\s*(select|with|show|describe|explain)\b`)

// previewLines caps the number of lines kept from a tool-call output.
const previewLines = 5

// Result holds the queries found in a run's steps, in execution order,
// with the raw output and a short preview for each.
type Result struct {
	Queries  []string
	Previews [][]string
	Warnings []string

	outputs []string
}

// FromSteps scans tool-call arguments for queries. Steps without tool
// calls contribute nothing; that is the expected case for
// non-lakehouse data sources.
func FromSteps(ctx context.Context, steps *agent.RunStepList) *Result {
	result := &Result{}
	if steps == nil {
		return result
	}

	for _, step := range steps.Data {
		if step.Type != agent.StepTypeToolCalls {
			continue
		}

		for _, call := range step.StepDetails.ToolCalls {
			if call.Function == nil || strings.TrimSpace(call.Function.Arguments) == "" {
				continue
			}

			var args map[string]any
			if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
				warning := fmt.Sprintf("tool call %q: arguments are not valid JSON, extraction skipped", call.ID)
				result.Warnings = append(result.Warnings, warning)
				logging.From(ctx).Warn("skipping unparsable tool-call arguments",
					"tool_call_id", call.ID,
					"step_id", step.ID,
					logging.ErrAttr(err))
				continue
			}

			for _, query := range collectQueries(args) {
				result.Queries = append(result.Queries, query)
				result.outputs = append(result.outputs, call.Function.Output)
				result.Previews = append(result.Previews, PreviewRows(call.Function.Output, previewLines))
			}
		}
	}

	return result
}

// PickDataRetrieval guesses which query produced the displayed answer:
// the one with the largest output, falling back to the last executed.
// The returned index is 1-based; (\"\", 0) means no queries were found.
func (x *Result) PickDataRetrieval() (string, int) {
	if len(x.Queries) == 0 {
		return "", 0
	}

	best := -1
	bestSize := 0
	for i, output := range x.outputs {
		if len(output) > bestSize {
			best = i
			bestSize = len(output)
		}
	}
	if best < 0 {
		best = len(x.Queries) - 1
	}

	return x.Queries[best], best + 1
}

// PreviewRows truncates tabular-looking output to the first n lines for
// human preview. A markdown table is kept whole as a single entry so it
// renders intact.
func PreviewRows(output string, n int) []string {
	trimmed := strings.TrimSpace(output)
	if trimmed == "" {
		return nil
	}

	lines := strings.Split(trimmed, "\n")
	if isMarkdownTable(lines) {
		return []string{trimmed}
	}

	if len(lines) > n {
		lines = lines[:n]
	}
	return lines
}

func isMarkdownTable(lines []string) bool {
	return len(lines) > 1 && strings.HasPrefix(strings.TrimSpace(lines[0]), "|")
}

// collectQueries walks decoded argument values and keeps the strings
// that look like queries. Map keys are visited in sorted order so the
// result is deterministic.
func collectQueries(value any) []string {
	var queries []string

	switch v := value.(type) {
	case string:
		if queryPattern.MatchString(v) {
			queries = append(queries, strings.TrimSpace(v))
		}

	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			queries = append(queries, collectQueries(v[k])...)
		}

	case []any:
		for _, item := range v {
			queries = append(queries, collectQueries(item)...)
		}
	}

	return queries
}

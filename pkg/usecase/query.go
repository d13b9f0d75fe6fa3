package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fabric-tools/dataagent/pkg/domain/model/agent"
	"github.com/fabric-tools/dataagent/pkg/domain/model/errs"
	"github.com/fabric-tools/dataagent/pkg/domain/types"
	"github.com/fabric-tools/dataagent/pkg/service/extract"
	"github.com/fabric-tools/dataagent/pkg/utils/clock"
	"github.com/fabric-tools/dataagent/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// Ask submits a question, waits for the run to complete and returns the
// text of the latest assistant message.
func (x *UseCases) Ask(ctx context.Context, question string, opts ...QueryOption) (string, error) {
	result, err := x.execute(ctx, question, opts)
	if err != nil {
		return "", err
	}

	msg, ok := result.messages.LatestAssistant()
	if !ok {
		return "", goerr.New("run completed without an assistant message",
			goerr.TV(errs.ThreadIDKey, result.thread.ID),
			goerr.TV(errs.RunIDKey, result.run.ID))
	}
	return msg.Text(), nil
}

// RunDetails runs the same flow as Ask but returns the full step list
// and message history, with SQL queries and data previews extracted
// when the run touched a lakehouse data source.
func (x *UseCases) RunDetails(ctx context.Context, question string, opts ...QueryOption) (*agent.RunDetail, error) {
	opts = append(opts, withSteps())
	result, err := x.execute(ctx, question, opts)
	if err != nil {
		return nil, err
	}

	detail := &agent.RunDetail{
		Question:  question,
		RunStatus: result.run.Status,
		ThreadID:  result.thread.ID,
		RunSteps:  result.steps,
		Messages:  result.messages,
		Timestamp: clock.Now(ctx),
	}

	extracted := extract.FromSteps(ctx, result.steps)
	if len(extracted.Queries) > 0 {
		detail.SQLQueries = extracted.Queries
		detail.SQLDataPreviews = extracted.Previews
		detail.DataRetrievalQuery, detail.DataRetrievalQueryIndex = extracted.PickDataRetrieval()
	}
	detail.Warnings = extracted.Warnings

	return detail, nil
}

// RawRunResponse returns the unprocessed run, steps and messages for
// callers that bypass the extractor. A run that ended in a non-completed
// terminal status is reported through the Success flag, not an error.
func (x *UseCases) RawRunResponse(ctx context.Context, question string, opts ...QueryOption) (*agent.RawRunResponse, error) {
	opts = append(opts, withSteps(), tolerateFailure())
	result, err := x.execute(ctx, question, opts)
	if err != nil {
		return nil, err
	}

	return &agent.RawRunResponse{
		Question:       question,
		ThreadID:       result.thread.ID,
		Run:            result.run,
		RunSteps:       result.steps,
		Messages:       result.messages,
		Success:        result.run.Status == types.RunStatusCompleted,
		TimeoutSeconds: int(result.timeout.Seconds()),
		Timestamp:      clock.Now(ctx),
	}, nil
}

func withSteps() QueryOption {
	return func(c *queryConfig) {
		c.withSteps = true
	}
}

func tolerateFailure() QueryOption {
	return func(c *queryConfig) {
		c.tolerateFailure = true
	}
}

type runResult struct {
	thread   *agent.Thread
	run      *agent.Run
	steps    *agent.RunStepList
	messages *agent.MessageList
	timeout  time.Duration
}

func (x *UseCases) execute(ctx context.Context, question string, opts []QueryOption) (result *runResult, err error) {
	if x.api == nil {
		return nil, goerr.New("agent API is not configured", goerr.T(errs.TagConfiguration))
	}
	if strings.TrimSpace(question) == "" {
		return nil, goerr.New("question is empty", goerr.T(errs.TagConfiguration))
	}

	cfg := queryConfig{timeout: x.defaultTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}

	th, created, err := x.threads.GetOrCreate(ctx, cfg.threadName)
	if err != nil {
		return nil, err
	}

	// A thread created for an unnamed, single question is transient; it
	// is discarded when this call fails so failed questions do not leak
	// server-side threads.
	transient := created && cfg.threadName == ""
	defer func() {
		if err != nil && transient {
			x.discardThread(ctx, th.ID)
		}
	}()

	if _, err := x.api.CreateMessage(ctx, th.ID, agent.RoleUser, question); err != nil {
		return nil, goerr.Wrap(err, "failed to post question",
			goerr.TV(errs.ThreadIDKey, th.ID),
			goerr.TV(errs.QuestionKey, question))
	}

	run, err := x.api.CreateRun(ctx, th.ID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to start run",
			goerr.TV(errs.ThreadIDKey, th.ID))
	}

	run, err = x.waitRun(ctx, th.ID, run.ID, cfg.timeout)
	if err != nil {
		return nil, err
	}

	if !cfg.tolerateFailure && run.Status != types.RunStatusCompleted {
		var detail string
		if run.LastError != nil {
			detail = run.LastError.Message
		}
		return nil, goerr.New("run ended in a non-completed status",
			goerr.TV(errs.StatusKey, run.Status.String()),
			goerr.TV(errs.ThreadIDKey, th.ID),
			goerr.TV(errs.RunIDKey, run.ID),
			goerr.V("detail", detail),
			goerr.T(errs.TagRunFailed))
	}

	result = &runResult{thread: th, run: run, timeout: cfg.timeout}

	if cfg.withSteps {
		steps, err := x.api.ListRunSteps(ctx, th.ID, run.ID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list run steps",
				goerr.TV(errs.RunIDKey, run.ID))
		}
		result.steps = steps
	}

	messages, err := x.api.ListMessages(ctx, th.ID, "desc", 0)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list messages",
			goerr.TV(errs.ThreadIDKey, th.ID))
	}
	result.messages = messages

	return result, nil
}

// waitRun polls the run status until it is terminal. On timeout the
// remote run is left running; no cancellation is attempted.
func (x *UseCases) waitRun(ctx context.Context, threadID types.ThreadID, runID types.RunID, timeout time.Duration) (*agent.Run, error) {
	deadline := clock.Now(ctx).Add(timeout)

	for {
		run, err := x.api.GetRun(ctx, threadID, runID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to poll run",
				goerr.TV(errs.ThreadIDKey, threadID),
				goerr.TV(errs.RunIDKey, runID))
		}
		if run.Status.IsTerminal() {
			return run, nil
		}

		if !clock.Now(ctx).Before(deadline) {
			return nil, goerr.New("run did not reach a terminal status in time",
				goerr.TV(errs.ThreadIDKey, threadID),
				goerr.TV(errs.RunIDKey, runID),
				goerr.TV(errs.StatusKey, run.Status.String()),
				goerr.TV(errs.TimeoutKey, timeout),
				goerr.T(errs.TagTimeout))
		}

		select {
		case <-ctx.Done():
			return nil, goerr.Wrap(ctx.Err(), "cancelled while waiting for run",
				goerr.TV(errs.RunIDKey, runID))
		case <-time.After(x.pollInterval):
		}
	}
}

// discardThread best-effort deletes a transient thread. Failures are
// logged, never escalated.
func (x *UseCases) discardThread(ctx context.Context, threadID types.ThreadID) {
	if err := x.api.DeleteThread(ctx, threadID); err != nil {
		logging.From(ctx).Warn("failed to delete transient thread",
			"thread_id", threadID, logging.ErrAttr(err))
		return
	}
	logging.From(ctx).Debug("deleted transient thread", "thread_id", threadID)
}

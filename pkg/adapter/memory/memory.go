// Package memory is an in-memory stand-in for the remote data agent
// service. It backs tests and offline experimentation with scriptable
// run progressions and canned replies.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/fabric-tools/dataagent/pkg/domain/interfaces"
	"github.com/fabric-tools/dataagent/pkg/domain/model/agent"
	"github.com/fabric-tools/dataagent/pkg/domain/model/errs"
	"github.com/fabric-tools/dataagent/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type Client struct {
	mu       sync.Mutex
	threads  []agent.Thread
	messages map[types.ThreadID][]agent.Message
	runs     map[types.RunID]*agent.Run
	runPolls map[types.RunID]int
	steps    map[types.RunID]*agent.RunStepList
	deleted  []types.ThreadID
	seq      int

	// StatusPlan is consumed one entry per GetRun call for each run;
	// once exhausted the run completes. Leave empty for immediate
	// completion.
	StatusPlan []types.RunStatus

	// FailWith, when set, is the terminal failure detail applied
	// instead of completing.
	FailWith *agent.RunLastError

	// Respond produces the assistant reply for a completed run from the
	// full message history of the thread. StepList may be nil.
	Respond func(history []agent.Message) (string, *agent.RunStepList)

	// Errs injects an error per operation name (e.g. "CreateThread").
	Errs map[string]error
}

var _ interfaces.AgentAPI = &Client{}

func New() *Client {
	return &Client{
		messages: map[types.ThreadID][]agent.Message{},
		runs:     map[types.RunID]*agent.Run{},
		runPolls: map[types.RunID]int{},
		steps:    map[types.RunID]*agent.RunStepList{},
		Errs:     map[string]error{},
	}
}

func (x *Client) nextID(prefix string) string {
	x.seq++
	return fmt.Sprintf("%s_%04d", prefix, x.seq)
}

func (x *Client) CreateThread(ctx context.Context) (*agent.Thread, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if err := x.Errs["CreateThread"]; err != nil {
		return nil, err
	}

	thread := agent.Thread{
		ID:     types.ThreadID(x.nextID("thread")),
		Object: "thread",
	}
	x.threads = append(x.threads, thread)
	return &thread, nil
}

func (x *Client) DeleteThread(ctx context.Context, threadID types.ThreadID) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if err := x.Errs["DeleteThread"]; err != nil {
		return err
	}

	for i, th := range x.threads {
		if th.ID == threadID {
			x.threads = append(x.threads[:i], x.threads[i+1:]...)
			delete(x.messages, threadID)
			x.deleted = append(x.deleted, threadID)
			return nil
		}
	}
	return goerr.New("thread not found",
		goerr.TV(errs.ThreadIDKey, threadID),
		goerr.T(errs.TagNotFound))
}

func (x *Client) ListThreads(ctx context.Context, after string, limit int) (*agent.ThreadList, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if err := x.Errs["ListThreads"]; err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}

	start := 0
	if after != "" {
		for i, th := range x.threads {
			if th.ID.String() == after {
				start = i + 1
				break
			}
		}
	}

	end := start + limit
	if end > len(x.threads) {
		end = len(x.threads)
	}

	list := &agent.ThreadList{
		Object:  "list",
		Data:    append([]agent.Thread{}, x.threads[start:end]...),
		HasMore: end < len(x.threads),
	}
	if len(list.Data) > 0 {
		list.FirstID = list.Data[0].ID.String()
		list.LastID = list.Data[len(list.Data)-1].ID.String()
	}
	return list, nil
}

func (x *Client) CreateMessage(ctx context.Context, threadID types.ThreadID, role, content string) (*agent.Message, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if err := x.Errs["CreateMessage"]; err != nil {
		return nil, err
	}
	if !x.hasThread(threadID) {
		return nil, goerr.New("thread not found",
			goerr.TV(errs.ThreadIDKey, threadID),
			goerr.T(errs.TagNotFound))
	}

	msg := agent.Message{
		ID:       types.MessageID(x.nextID("msg")),
		Object:   "thread.message",
		ThreadID: threadID,
		Role:     role,
		Content:  []agent.Content{{Type: "text", Text: agent.Text{Value: content}}},
	}
	x.messages[threadID] = append(x.messages[threadID], msg)
	return &msg, nil
}

func (x *Client) ListMessages(ctx context.Context, threadID types.ThreadID, order string, limit int) (*agent.MessageList, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if err := x.Errs["ListMessages"]; err != nil {
		return nil, err
	}

	msgs := append([]agent.Message{}, x.messages[threadID]...)
	if order == "desc" {
		for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
			msgs[i], msgs[j] = msgs[j], msgs[i]
		}
	}
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[:limit]
	}

	return &agent.MessageList{Object: "list", Data: msgs}, nil
}

func (x *Client) CreateRun(ctx context.Context, threadID types.ThreadID) (*agent.Run, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if err := x.Errs["CreateRun"]; err != nil {
		return nil, err
	}
	if !x.hasThread(threadID) {
		return nil, goerr.New("thread not found",
			goerr.TV(errs.ThreadIDKey, threadID),
			goerr.T(errs.TagNotFound))
	}

	run := &agent.Run{
		ID:       types.RunID(x.nextID("run")),
		Object:   "thread.run",
		ThreadID: threadID,
		Status:   types.RunStatusQueued,
	}
	x.runs[run.ID] = run
	return x.copyRun(run), nil
}

func (x *Client) GetRun(ctx context.Context, threadID types.ThreadID, runID types.RunID) (*agent.Run, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if err := x.Errs["GetRun"]; err != nil {
		return nil, err
	}

	run, ok := x.runs[runID]
	if !ok {
		return nil, goerr.New("run not found",
			goerr.TV(errs.RunIDKey, runID),
			goerr.T(errs.TagNotFound))
	}

	if !run.Status.IsTerminal() {
		poll := x.runPolls[runID]
		x.runPolls[runID] = poll + 1

		if poll < len(x.StatusPlan) {
			run.Status = x.StatusPlan[poll]
		} else if x.FailWith != nil {
			run.Status = types.RunStatusFailed
			run.LastError = x.FailWith
		} else {
			run.Status = types.RunStatusCompleted
		}

		if run.Status == types.RunStatusCompleted {
			x.answer(run)
		}
	}

	return x.copyRun(run), nil
}

func (x *Client) ListRunSteps(ctx context.Context, threadID types.ThreadID, runID types.RunID) (*agent.RunStepList, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if err := x.Errs["ListRunSteps"]; err != nil {
		return nil, err
	}

	if steps, ok := x.steps[runID]; ok {
		return steps, nil
	}
	return &agent.RunStepList{Object: "list"}, nil
}

// answer appends the assistant reply for a completed run. Must be
// called with the lock held.
func (x *Client) answer(run *agent.Run) {
	history := x.messages[run.ThreadID]

	reply := "no respond hook configured"
	var steps *agent.RunStepList
	if x.Respond != nil {
		reply, steps = x.Respond(append([]agent.Message{}, history...))
	} else if len(history) > 0 {
		reply = "answer to: " + history[len(history)-1].Text()
	}

	msg := agent.Message{
		ID:       types.MessageID(x.nextID("msg")),
		Object:   "thread.message",
		ThreadID: run.ThreadID,
		RunID:    run.ID.String(),
		Role:     agent.RoleAssistant,
		Content:  []agent.Content{{Type: "text", Text: agent.Text{Value: reply}}},
	}
	x.messages[run.ThreadID] = append(x.messages[run.ThreadID], msg)

	if steps != nil {
		x.steps[run.ID] = steps
	}
}

func (x *Client) hasThread(threadID types.ThreadID) bool {
	for _, th := range x.threads {
		if th.ID == threadID {
			return true
		}
	}
	return false
}

func (x *Client) copyRun(run *agent.Run) *agent.Run {
	copied := *run
	return &copied
}

// Deleted returns the IDs of threads removed via DeleteThread.
func (x *Client) Deleted() []types.ThreadID {
	x.mu.Lock()
	defer x.mu.Unlock()
	return append([]types.ThreadID{}, x.deleted...)
}

// ThreadCount returns the number of live threads.
func (x *Client) ThreadCount() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return len(x.threads)
}

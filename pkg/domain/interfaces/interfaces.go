package interfaces

import (
	"context"

	"github.com/fabric-tools/dataagent/pkg/domain/model/agent"
	"github.com/fabric-tools/dataagent/pkg/domain/types"
)

// TokenSource provides a bearer token for the data agent endpoint.
// Implementations cache and silently refresh; alternate credential
// backends (service principal, managed identity) can be substituted
// without touching the orchestration logic.
type TokenSource interface {
	// Token returns a currently valid access token. It may block for an
	// interactive sign-in flow on first use.
	Token(ctx context.Context) (string, error)

	// Invalidate drops any cached token so the next Token call fetches
	// a fresh one. Used after the service rejects a request with 401.
	Invalidate()
}

// AgentAPI is the thread/run surface of the remote data agent service.
type AgentAPI interface {
	CreateThread(ctx context.Context) (*agent.Thread, error)
	DeleteThread(ctx context.Context, threadID types.ThreadID) error
	ListThreads(ctx context.Context, after string, limit int) (*agent.ThreadList, error)

	CreateMessage(ctx context.Context, threadID types.ThreadID, role, content string) (*agent.Message, error)
	ListMessages(ctx context.Context, threadID types.ThreadID, order string, limit int) (*agent.MessageList, error)

	CreateRun(ctx context.Context, threadID types.ThreadID) (*agent.Run, error)
	GetRun(ctx context.Context, threadID types.ThreadID, runID types.RunID) (*agent.Run, error)
	ListRunSteps(ctx context.Context, threadID types.ThreadID, runID types.RunID) (*agent.RunStepList, error)
}

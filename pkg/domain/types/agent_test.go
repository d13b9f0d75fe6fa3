package types_test

import (
	"testing"
	"time"

	"github.com/fabric-tools/dataagent/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestRunStatusIsTerminal(t *testing.T) {
	terminal := []types.RunStatus{
		types.RunStatusCompleted,
		types.RunStatusFailed,
		types.RunStatusCancelled,
		types.RunStatusExpired,
	}
	for _, s := range terminal {
		gt.True(t, s.IsTerminal())
	}

	active := []types.RunStatus{
		types.RunStatusQueued,
		types.RunStatusInProgress,
		types.RunStatusRequiresAction,
	}
	for _, s := range active {
		gt.False(t, s.IsTerminal())
	}
}

func TestNewThreadName(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 34, 56, 0, time.UTC)

	n1 := types.NewThreadName(now)
	n2 := types.NewThreadName(now)

	gt.True(t, n1 != n2)
	gt.S(t, n1).Contains("chat-20250301-123456-")
	gt.S(t, n2).Contains("chat-20250301-123456-")
}

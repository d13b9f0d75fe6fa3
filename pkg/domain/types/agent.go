package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ThreadID is a conversation thread identifier assigned by the remote
// data agent service.
type ThreadID string

func (x ThreadID) String() string {
	return string(x)
}

// RunID is a run identifier assigned by the remote data agent service.
type RunID string

func (x RunID) String() string {
	return string(x)
}

// MessageID is a message identifier assigned by the remote data agent service.
type MessageID string

func (x MessageID) String() string {
	return string(x)
}

// StepID is a run step identifier assigned by the remote data agent service.
type StepID string

func (x StepID) String() string {
	return string(x)
}

// RunStatus represents the lifecycle status of a run.
type RunStatus string

const (
	RunStatusQueued         RunStatus = "queued"
	RunStatusInProgress     RunStatus = "in_progress"
	RunStatusRequiresAction RunStatus = "requires_action"
	RunStatusCompleted      RunStatus = "completed"
	RunStatusFailed         RunStatus = "failed"
	RunStatusCancelled      RunStatus = "cancelled"
	RunStatusExpired        RunStatus = "expired"
)

func (x RunStatus) String() string {
	return string(x)
}

// IsTerminal reports whether the run will never change status again.
func (x RunStatus) IsTerminal() bool {
	switch x {
	case RunStatusCompleted, RunStatusFailed, RunStatusCancelled, RunStatusExpired:
		return true
	}
	return false
}

// NewThreadName generates a unique display name for a thread created
// without a caller-supplied name.
func NewThreadName(now time.Time) string {
	return fmt.Sprintf("chat-%s-%s", now.UTC().Format("20060102-150405"), uuid.New().String()[:8])
}

// Package agent holds wire objects for the assistants-style API exposed
// by the remote data agent service, plus the derived result objects
// returned to callers.
package agent

import "github.com/fabric-tools/dataagent/pkg/domain/types"

// Thread is a server-managed conversation context. The service itself
// has no name field; Name is a client-side label derived from the
// thread's first user message.
type Thread struct {
	ID        types.ThreadID    `json:"id"`
	Object    string            `json:"object,omitempty"`
	CreatedAt int64             `json:"created_at,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`

	// Name is not part of the wire format.
	Name string `json:"-"`
}

// ThreadList is a paginated thread listing.
type ThreadList struct {
	Object  string   `json:"object,omitempty"`
	Data    []Thread `json:"data"`
	FirstID string   `json:"first_id,omitempty"`
	LastID  string   `json:"last_id,omitempty"`
	HasMore bool     `json:"has_more"`
}

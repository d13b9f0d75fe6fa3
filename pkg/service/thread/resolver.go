// Package thread resolves caller-supplied thread names to remote thread
// IDs. The service itself has no name field, so the mapping is
// reconstructed from thread contents and is best effort only.
package thread

import (
	"context"
	"strings"

	"github.com/fabric-tools/dataagent/pkg/domain/interfaces"
	"github.com/fabric-tools/dataagent/pkg/domain/model/agent"
	"github.com/fabric-tools/dataagent/pkg/domain/model/errs"
	"github.com/fabric-tools/dataagent/pkg/domain/types"
	"github.com/fabric-tools/dataagent/pkg/utils/clock"
	"github.com/fabric-tools/dataagent/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

const (
	// nameMaxRunes bounds the derived display name; names are compared
	// in truncated form.
	nameMaxRunes = 64

	listPageSize = 50
	maxListPages = 20
)

type Service struct {
	api interfaces.AgentAPI
}

func New(api interfaces.AgentAPI) *Service {
	return &Service{api: api}
}

// GetOrCreate resolves a thread by display name. An empty name always
// creates a fresh thread with a generated name. A non-empty name is
// matched against the derived names of existing threads; the first
// match wins. Two unrelated conversations whose first messages collide
// resolve to the same thread — a documented weakness of the heuristic,
// not an error.
//
// The returned bool reports whether a new thread was created.
func (x *Service) GetOrCreate(ctx context.Context, name string) (*agent.Thread, bool, error) {
	if name == "" {
		thread, err := x.api.CreateThread(ctx)
		if err != nil {
			return nil, false, goerr.Wrap(err, "failed to create thread")
		}
		thread.Name = types.NewThreadName(clock.Now(ctx))
		return thread, true, nil
	}

	want := truncateName(name)

	after := ""
	for page := 0; page < maxListPages; page++ {
		list, err := x.api.ListThreads(ctx, after, listPageSize)
		if err != nil {
			return nil, false, goerr.Wrap(err, "failed to list threads",
				goerr.TV(errs.ThreadNameKey, name))
		}

		for _, th := range list.Data {
			derived, err := x.DeriveName(ctx, th.ID)
			if err != nil {
				logging.From(ctx).Warn("failed to derive thread name, skipping",
					"thread_id", th.ID, logging.ErrAttr(err))
				continue
			}
			if derived == want {
				found := th
				found.Name = derived
				return &found, false, nil
			}
		}

		if !list.HasMore || list.LastID == "" {
			break
		}
		after = list.LastID
	}

	thread, err := x.api.CreateThread(ctx)
	if err != nil {
		return nil, false, goerr.Wrap(err, "failed to create thread",
			goerr.TV(errs.ThreadNameKey, name))
	}

	// Seed the name as the first user message so later sessions can
	// recover it with DeriveName.
	if _, err := x.api.CreateMessage(ctx, thread.ID, agent.RoleUser, want); err != nil {
		return nil, false, goerr.Wrap(err, "failed to associate thread name",
			goerr.TV(errs.ThreadIDKey, thread.ID),
			goerr.TV(errs.ThreadNameKey, name))
	}
	thread.Name = want

	return thread, true, nil
}

// DeriveName reconstructs the display name of a thread from the text of
// its first user message, truncated.
func (x *Service) DeriveName(ctx context.Context, threadID types.ThreadID) (string, error) {
	list, err := x.api.ListMessages(ctx, threadID, "asc", 8)
	if err != nil {
		return "", goerr.Wrap(err, "failed to list messages",
			goerr.TV(errs.ThreadIDKey, threadID))
	}

	msg, ok := list.FirstUser()
	if !ok {
		return "", goerr.New("thread has no user message",
			goerr.TV(errs.ThreadIDKey, threadID),
			goerr.T(errs.TagNotFound))
	}

	return truncateName(msg.Text()), nil
}

func truncateName(s string) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) > nameMaxRunes {
		return string(runes[:nameMaxRunes])
	}
	return s
}

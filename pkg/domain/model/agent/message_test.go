package agent_test

import (
	"testing"

	"github.com/fabric-tools/dataagent/pkg/domain/model/agent"
	"github.com/m-mizutani/gt"
)

func TestMessageText(t *testing.T) {
	msg := agent.Message{
		Role: agent.RoleAssistant,
		Content: []agent.Content{
			{Type: "text", Text: agent.Text{Value: "first part"}},
			{Type: "image_file"},
			{Type: "text", Text: agent.Text{Value: "second part"}},
		},
	}

	gt.Value(t, msg.Text()).Equal("first part\nsecond part")
}

func TestLatestAssistant(t *testing.T) {
	list := &agent.MessageList{
		Data: []agent.Message{
			{Role: agent.RoleAssistant, Content: []agent.Content{{Type: "text", Text: agent.Text{Value: "newest answer"}}}},
			{Role: agent.RoleUser, Content: []agent.Content{{Type: "text", Text: agent.Text{Value: "question"}}}},
			{Role: agent.RoleAssistant, Content: []agent.Content{{Type: "text", Text: agent.Text{Value: "older answer"}}}},
		},
	}

	msg, ok := list.LatestAssistant()
	gt.True(t, ok)
	gt.Value(t, msg.Text()).Equal("newest answer")

	empty := &agent.MessageList{}
	_, ok = empty.LatestAssistant()
	gt.False(t, ok)
}

func TestFirstUser(t *testing.T) {
	list := &agent.MessageList{
		Data: []agent.Message{
			{Role: agent.RoleUser, Content: []agent.Content{{Type: "text", Text: agent.Text{Value: "sales-review"}}}},
			{Role: agent.RoleUser, Content: []agent.Content{{Type: "text", Text: agent.Text{Value: "show revenue"}}}},
		},
	}

	msg, ok := list.FirstUser()
	gt.True(t, ok)
	gt.Value(t, msg.Text()).Equal("sales-review")
}

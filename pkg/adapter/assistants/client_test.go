package assistants_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/fabric-tools/dataagent/pkg/adapter/assistants"
	"github.com/fabric-tools/dataagent/pkg/domain/model/errs"
	"github.com/fabric-tools/dataagent/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

type stubTokenSource struct {
	tokens      []string
	calls       atomic.Int32
	invalidated atomic.Int32
}

func (x *stubTokenSource) Token(ctx context.Context) (string, error) {
	n := int(x.calls.Add(1)) - 1
	if n >= len(x.tokens) {
		n = len(x.tokens) - 1
	}
	return x.tokens[n], nil
}

func (x *stubTokenSource) Invalidate() {
	x.invalidated.Add(1)
}

func TestNewValidatesURL(t *testing.T) {
	ts := &stubTokenSource{tokens: []string{"tok"}}

	cases := map[string]string{
		"empty":     "",
		"relative":  "/threads",
		"no scheme": "example.com/agent",
		"bad value": "::::",
	}
	for name, target := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := assistants.New(target, ts)
			gt.Error(t, err)
			gt.True(t, goerr.HasTag(err, errs.TagConfiguration))
		})
	}

	client, err := assistants.New("https://example.com/agent/", ts)
	gt.NoError(t, err)
	gt.NotNil(t, client)
}

func TestCreateThreadSendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.Value(t, r.Method).Equal(http.MethodPost)
		gt.Value(t, r.URL.Path).Equal("/threads")
		gt.Value(t, r.Header.Get("Authorization")).Equal("Bearer tok-1")
		gt.Value(t, r.Header.Get("OpenAI-Beta")).Equal("assistants=v2")

		_ = json.NewEncoder(w).Encode(map[string]any{"id": "thread_abc", "object": "thread"})
	}))
	defer srv.Close()

	client, err := assistants.New(srv.URL, &stubTokenSource{tokens: []string{"tok-1"}})
	gt.NoError(t, err)

	thread, err := client.CreateThread(context.Background())
	gt.NoError(t, err)
	gt.Value(t, thread.ID).Equal(types.ThreadID("thread_abc"))
}

func TestUnauthorizedInvalidatesAndRetriesOnce(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		gt.Value(t, r.Header.Get("Authorization")).Equal("Bearer tok-fresh")
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "run_1", "thread_id": "thread_1", "status": "queued"})
	}))
	defer srv.Close()

	ts := &stubTokenSource{tokens: []string{"tok-stale", "tok-fresh"}}
	client, err := assistants.New(srv.URL, ts)
	gt.NoError(t, err)

	run, err := client.CreateRun(context.Background(), "thread_1")
	gt.NoError(t, err)
	gt.Value(t, run.Status).Equal(types.RunStatusQueued)
	gt.Value(t, int(hits.Load())).Equal(2)
	gt.Value(t, int(ts.invalidated.Load())).Equal(1)
}

func TestForbiddenTaggedAuthentication(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client, err := assistants.New(srv.URL, &stubTokenSource{tokens: []string{"tok"}})
	gt.NoError(t, err)

	_, err = client.GetRun(context.Background(), "thread_1", "run_1")
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, errs.TagAuthentication))
}

func TestListThreadsPagination(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.Value(t, r.URL.Query().Get("after")).Equal("thread_10")
		gt.Value(t, r.URL.Query().Get("limit")).Equal("20")

		_ = json.NewEncoder(w).Encode(map[string]any{
			"object":   "list",
			"data":     []map[string]any{{"id": "thread_11"}, {"id": "thread_12"}},
			"last_id":  "thread_12",
			"has_more": true,
		})
	}))
	defer srv.Close()

	client, err := assistants.New(srv.URL, &stubTokenSource{tokens: []string{"tok"}})
	gt.NoError(t, err)

	list, err := client.ListThreads(context.Background(), "thread_10", 20)
	gt.NoError(t, err)
	gt.Array(t, list.Data).Length(2)
	gt.Value(t, list.LastID).Equal("thread_12")
	gt.True(t, list.HasMore)
}

func TestListMessagesOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.Value(t, r.URL.Path).Equal("/threads/thread_1/messages")
		gt.Value(t, r.URL.Query().Get("order")).Equal("desc")

		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data": []map[string]any{{
				"id":   "msg_1",
				"role": "assistant",
				"content": []map[string]any{
					{"type": "text", "text": map[string]any{"value": "42 rows"}},
				},
			}},
		})
	}))
	defer srv.Close()

	client, err := assistants.New(srv.URL, &stubTokenSource{tokens: []string{"tok"}})
	gt.NoError(t, err)

	list, err := client.ListMessages(context.Background(), "thread_1", "desc", 0)
	gt.NoError(t, err)

	msg, ok := list.LatestAssistant()
	gt.True(t, ok)
	gt.Value(t, msg.Text()).Equal("42 rows")
}

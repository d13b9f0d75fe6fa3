// Package assistants is a typed REST client for the assistants-style
// thread/run API served from a tenant-scoped data agent endpoint.
package assistants

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/fabric-tools/dataagent/pkg/domain/interfaces"
	"github.com/fabric-tools/dataagent/pkg/domain/model/agent"
	"github.com/fabric-tools/dataagent/pkg/domain/model/errs"
	"github.com/fabric-tools/dataagent/pkg/domain/types"
	"github.com/fabric-tools/dataagent/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

// defaultAssistantID is sent when creating a run. The data agent
// endpoint binds the assistant server-side and ignores the value, but
// the wire format requires the field.
const defaultAssistantID = "data-agent"

type Client struct {
	baseURL     string
	tokenSource interfaces.TokenSource
	httpClient  *http.Client
	assistantID string
}

var _ interfaces.AgentAPI = &Client{}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithAssistantID(id string) Option {
	return func(c *Client) {
		c.assistantID = id
	}
}

// New validates the endpoint URL and builds a client. No network access
// happens until the first API call.
func New(baseURL string, tokenSource interfaces.TokenSource, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, goerr.New("data agent URL is empty", goerr.T(errs.TagConfiguration))
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid data agent URL",
			goerr.TV(errs.EndpointKey, baseURL),
			goerr.T(errs.TagConfiguration))
	}
	if (parsed.Scheme != "https" && parsed.Scheme != "http") || parsed.Host == "" {
		return nil, goerr.New("data agent URL must be an absolute http(s) URL",
			goerr.TV(errs.EndpointKey, baseURL),
			goerr.T(errs.TagConfiguration))
	}
	if tokenSource == nil {
		return nil, goerr.New("token source is not set", goerr.T(errs.TagConfiguration))
	}

	client := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		tokenSource: tokenSource,
		httpClient:  http.DefaultClient,
		assistantID: defaultAssistantID,
	}
	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

func (x *Client) CreateThread(ctx context.Context) (*agent.Thread, error) {
	var thread agent.Thread
	if err := x.call(ctx, http.MethodPost, "/threads", nil, map[string]any{}, &thread); err != nil {
		return nil, goerr.Wrap(err, "failed to create thread")
	}
	return &thread, nil
}

func (x *Client) DeleteThread(ctx context.Context, threadID types.ThreadID) error {
	endpoint := "/threads/" + url.PathEscape(threadID.String())
	if err := x.call(ctx, http.MethodDelete, endpoint, nil, nil, nil); err != nil {
		return goerr.Wrap(err, "failed to delete thread", goerr.TV(errs.ThreadIDKey, threadID))
	}
	return nil
}

func (x *Client) ListThreads(ctx context.Context, after string, limit int) (*agent.ThreadList, error) {
	query := url.Values{}
	if after != "" {
		query.Set("after", after)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var list agent.ThreadList
	if err := x.call(ctx, http.MethodGet, "/threads", query, nil, &list); err != nil {
		return nil, goerr.Wrap(err, "failed to list threads")
	}
	return &list, nil
}

func (x *Client) CreateMessage(ctx context.Context, threadID types.ThreadID, role, content string) (*agent.Message, error) {
	endpoint := "/threads/" + url.PathEscape(threadID.String()) + "/messages"
	body := map[string]any{
		"role":    role,
		"content": content,
	}

	var msg agent.Message
	if err := x.call(ctx, http.MethodPost, endpoint, nil, body, &msg); err != nil {
		return nil, goerr.Wrap(err, "failed to create message", goerr.TV(errs.ThreadIDKey, threadID))
	}
	return &msg, nil
}

func (x *Client) ListMessages(ctx context.Context, threadID types.ThreadID, order string, limit int) (*agent.MessageList, error) {
	endpoint := "/threads/" + url.PathEscape(threadID.String()) + "/messages"
	query := url.Values{}
	if order != "" {
		query.Set("order", order)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var list agent.MessageList
	if err := x.call(ctx, http.MethodGet, endpoint, query, nil, &list); err != nil {
		return nil, goerr.Wrap(err, "failed to list messages", goerr.TV(errs.ThreadIDKey, threadID))
	}
	return &list, nil
}

func (x *Client) CreateRun(ctx context.Context, threadID types.ThreadID) (*agent.Run, error) {
	endpoint := "/threads/" + url.PathEscape(threadID.String()) + "/runs"
	body := map[string]any{
		"assistant_id": x.assistantID,
	}

	var run agent.Run
	if err := x.call(ctx, http.MethodPost, endpoint, nil, body, &run); err != nil {
		return nil, goerr.Wrap(err, "failed to create run", goerr.TV(errs.ThreadIDKey, threadID))
	}
	return &run, nil
}

func (x *Client) GetRun(ctx context.Context, threadID types.ThreadID, runID types.RunID) (*agent.Run, error) {
	endpoint := "/threads/" + url.PathEscape(threadID.String()) + "/runs/" + url.PathEscape(runID.String())

	var run agent.Run
	if err := x.call(ctx, http.MethodGet, endpoint, nil, nil, &run); err != nil {
		return nil, goerr.Wrap(err, "failed to get run",
			goerr.TV(errs.ThreadIDKey, threadID),
			goerr.TV(errs.RunIDKey, runID))
	}
	return &run, nil
}

func (x *Client) ListRunSteps(ctx context.Context, threadID types.ThreadID, runID types.RunID) (*agent.RunStepList, error) {
	endpoint := "/threads/" + url.PathEscape(threadID.String()) + "/runs/" + url.PathEscape(runID.String()) + "/steps"

	var list agent.RunStepList
	if err := x.call(ctx, http.MethodGet, endpoint, nil, nil, &list); err != nil {
		return nil, goerr.Wrap(err, "failed to list run steps",
			goerr.TV(errs.ThreadIDKey, threadID),
			goerr.TV(errs.RunIDKey, runID))
	}
	return &list, nil
}

// call dispatches an authenticated request. On 401 the cached token is
// invalidated and the request retried once with a fresh token.
func (x *Client) call(ctx context.Context, method, endpoint string, query url.Values, body, out any) error {
	respBody, statusCode, err := x.send(ctx, method, endpoint, query, body)
	if err != nil {
		return err
	}

	if statusCode == http.StatusUnauthorized {
		x.tokenSource.Invalidate()
		respBody, statusCode, err = x.send(ctx, method, endpoint, query, body)
		if err != nil {
			return err
		}
	}

	if statusCode < http.StatusOK || statusCode >= http.StatusMultipleChoices {
		tag := errs.TagExternal
		switch statusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			tag = errs.TagAuthentication
		case http.StatusNotFound:
			tag = errs.TagNotFound
		}
		return goerr.New("data agent request failed",
			goerr.TV(errs.HTTPStatusKey, statusCode),
			goerr.TV(errs.EndpointKey, endpoint),
			goerr.V("body", truncateBody(respBody)),
			goerr.T(tag))
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return goerr.Wrap(err, "failed to unmarshal response",
				goerr.TV(errs.EndpointKey, endpoint))
		}
	}

	return nil
}

func (x *Client) send(ctx context.Context, method, endpoint string, query url.Values, body any) ([]byte, int, error) {
	token, err := x.tokenSource.Token(ctx)
	if err != nil {
		return nil, 0, goerr.Wrap(err, "failed to get access token")
	}

	target := x.baseURL + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, 0, goerr.Wrap(err, "failed to marshal request body")
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, 0, goerr.Wrap(err, "failed to create request")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("OpenAI-Beta", "assistants=v2")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := x.httpClient.Do(req)
	if err != nil {
		return nil, 0, goerr.Wrap(err, "failed to send request",
			goerr.TV(errs.EndpointKey, endpoint))
	}
	defer safe.Close(ctx, resp.Body)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, goerr.Wrap(err, "failed to read response body")
	}

	return respBody, resp.StatusCode, nil
}

func truncateBody(body []byte) string {
	const limit = 512
	if len(body) <= limit {
		return string(body)
	}
	return fmt.Sprintf("%s... (%d bytes)", body[:limit], len(body))
}

package config

import (
	"log/slog"
	"time"

	"github.com/fabric-tools/dataagent/pkg/adapter/assistants"
	"github.com/fabric-tools/dataagent/pkg/domain/model/errs"
	"github.com/fabric-tools/dataagent/pkg/service/auth"
	"github.com/fabric-tools/dataagent/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Agent configures access to a tenant's data agent endpoint.
type Agent struct {
	tenantID     string
	dataAgentURL string
	scope        string
	clientID     string
	assistantID  string
	timeout      time.Duration
	pollInterval time.Duration
}

func (x *Agent) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "tenant-id",
			Usage:       "Entra tenant ID used for the interactive sign-in",
			Category:    "Agent",
			Sources:     cli.EnvVars("TENANT_ID", "DATAAGENT_TENANT_ID"),
			Destination: &x.tenantID,
		},
		&cli.StringFlag{
			Name:        "data-agent-url",
			Usage:       "Published data agent endpoint URL",
			Category:    "Agent",
			Sources:     cli.EnvVars("DATA_AGENT_URL", "DATAAGENT_URL"),
			Destination: &x.dataAgentURL,
		},
		&cli.StringFlag{
			Name:        "scope",
			Usage:       "OAuth scope requested for the access token",
			Category:    "Agent",
			Value:       auth.DefaultScope,
			Sources:     cli.EnvVars("DATAAGENT_SCOPE"),
			Destination: &x.scope,
		},
		&cli.StringFlag{
			Name:        "client-id",
			Usage:       "Application (client) ID for the sign-in flow (optional)",
			Category:    "Agent",
			Sources:     cli.EnvVars("DATAAGENT_CLIENT_ID"),
			Destination: &x.clientID,
		},
		&cli.StringFlag{
			Name:        "assistant-id",
			Usage:       "Assistant ID sent when creating runs (optional)",
			Category:    "Agent",
			Sources:     cli.EnvVars("DATAAGENT_ASSISTANT_ID"),
			Destination: &x.assistantID,
		},
		&cli.DurationFlag{
			Name:        "timeout",
			Usage:       "How long to wait for a run to complete",
			Category:    "Agent",
			Value:       2 * time.Minute,
			Sources:     cli.EnvVars("DATAAGENT_TIMEOUT"),
			Destination: &x.timeout,
		},
		&cli.DurationFlag{
			Name:        "poll-interval",
			Usage:       "Run status polling interval",
			Category:    "Agent",
			Value:       time.Second,
			Sources:     cli.EnvVars("DATAAGENT_POLL_INTERVAL"),
			Destination: &x.pollInterval,
		},
	}
}

func (x Agent) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("tenant_id", x.tenantID),
		slog.String("data_agent_url", x.dataAgentURL),
		slog.String("scope", x.scope),
		slog.Duration("timeout", x.timeout),
		slog.Duration("poll_interval", x.pollInterval),
	)
}

// Configure validates the settings and builds the use cases. No network
// access happens here; authentication is deferred to the first call.
func (x *Agent) Configure() (*usecase.UseCases, error) {
	if x.tenantID == "" {
		return nil, goerr.New("tenant ID is not set (--tenant-id / TENANT_ID)",
			goerr.T(errs.TagConfiguration))
	}
	if x.dataAgentURL == "" {
		return nil, goerr.New("data agent URL is not set (--data-agent-url / DATA_AGENT_URL)",
			goerr.T(errs.TagConfiguration))
	}

	tokenSource, err := auth.NewBrowser(x.tenantID,
		auth.WithScope(x.scope),
		auth.WithClientID(x.clientID),
	)
	if err != nil {
		return nil, err
	}

	var clientOpts []assistants.Option
	if x.assistantID != "" {
		clientOpts = append(clientOpts, assistants.WithAssistantID(x.assistantID))
	}
	api, err := assistants.New(x.dataAgentURL, tokenSource, clientOpts...)
	if err != nil {
		return nil, err
	}

	return usecase.New(
		usecase.WithAgentAPI(api),
		usecase.WithDefaultTimeout(x.timeout),
		usecase.WithPollInterval(x.pollInterval),
	), nil
}

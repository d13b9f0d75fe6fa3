package config_test

import (
	"context"
	"testing"

	"github.com/fabric-tools/dataagent/pkg/cli/config"
	"github.com/fabric-tools/dataagent/pkg/domain/model/errs"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/urfave/cli/v3"
)

func configureWithArgs(t *testing.T, args []string) error {
	t.Helper()

	var agentCfg config.Agent
	var configureErr error
	cmd := &cli.Command{
		Name:  "test",
		Flags: agentCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			_, configureErr = agentCfg.Configure()
			return nil
		},
	}

	gt.NoError(t, cmd.Run(context.Background(), append([]string{"test"}, args...)))
	return configureErr
}

func TestConfigureRequiresTenantAndURL(t *testing.T) {
	err := configureWithArgs(t, nil)
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, errs.TagConfiguration))

	err = configureWithArgs(t, []string{"--tenant-id", "tenant-1"})
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, errs.TagConfiguration))

	err = configureWithArgs(t, []string{
		"--tenant-id", "tenant-1",
		"--data-agent-url", "not a url",
	})
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, errs.TagConfiguration))
}

func TestConfigureBuildsUseCasesWithoutNetwork(t *testing.T) {
	// Valid settings pointing at an address that is never dialed:
	// configuration must stay offline until the first question.
	err := configureWithArgs(t, []string{
		"--tenant-id", "tenant-1",
		"--data-agent-url", "https://127.0.0.1:1/agent",
	})
	gt.NoError(t, err)
}

func TestConfigureReadsEnvironment(t *testing.T) {
	t.Setenv("TENANT_ID", "tenant-env")
	t.Setenv("DATA_AGENT_URL", "https://example.com/agent")

	err := configureWithArgs(t, nil)
	gt.NoError(t, err)
}

package cli

import (
	"context"

	"github.com/fabric-tools/dataagent/pkg/cli/config"
	"github.com/fabric-tools/dataagent/pkg/domain/model/errs"
	"github.com/fabric-tools/dataagent/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func Run(ctx context.Context, args []string) error {
	var loggerCfg config.Logger
	var sentryCfg config.Sentry
	var closer func()
	app := &cli.Command{
		Name:  "dataagent",
		Usage: "Ask questions of a published data agent from outside its workspace",
		Flags: joinFlags(loggerCfg.Flags(), sentryCfg.Flags()),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			f, err := loggerCfg.Configure()
			if err != nil {
				return ctx, err
			}
			closer = f

			if err := sentryCfg.Configure(); err != nil {
				return ctx, err
			}

			logging.Default().Debug("base options", "logger", loggerCfg, "sentry", sentryCfg)
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if closer != nil {
				closer()
			}
			return nil
		},
		Commands: []*cli.Command{
			cmdAsk(),
			cmdDetails(),
			cmdRaw(),
			cmdChat(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		errs.Handle(ctx, err)
		return err
	}

	return nil
}

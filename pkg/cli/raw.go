package cli

import (
	"context"
	"encoding/json"
	"os"

	"github.com/fabric-tools/dataagent/pkg/cli/config"
	"github.com/fabric-tools/dataagent/pkg/domain/model/errs"
	"github.com/fabric-tools/dataagent/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdRaw() *cli.Command {
	var (
		agentCfg   config.Agent
		threadName string
	)

	return &cli.Command{
		Name:      "raw",
		Usage:     "Ask a question and print the unprocessed run response as JSON",
		ArgsUsage: "<question>",
		Flags: joinFlags(
			agentCfg.Flags(),
			[]cli.Flag{threadNameFlag(&threadName)},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			question := questionFromArgs(c)
			if question == "" {
				return goerr.New("question is required", goerr.T(errs.TagConfiguration))
			}

			uc, err := agentCfg.Configure()
			if err != nil {
				return err
			}

			var opts []usecase.QueryOption
			if threadName != "" {
				opts = append(opts, usecase.WithThreadName(threadName))
			}

			raw, err := uc.RawRunResponse(ctx, question, opts...)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(raw)
		},
	}
}

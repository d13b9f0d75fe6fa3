package cli

import (
	"context"
	"fmt"

	"github.com/fabric-tools/dataagent/pkg/cli/config"
	"github.com/fabric-tools/dataagent/pkg/domain/model/errs"
	"github.com/fabric-tools/dataagent/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdAsk() *cli.Command {
	var (
		agentCfg   config.Agent
		threadName string
	)

	return &cli.Command{
		Name:      "ask",
		Aliases:   []string{"a"},
		Usage:     "Ask a single question and print the answer",
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

			answer, err := uc.Ask(ctx, question, opts...)
			if err != nil {
				return err
			}

			fmt.Println(answer)
			return nil
		},
	}
}

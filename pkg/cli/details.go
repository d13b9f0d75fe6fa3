package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fabric-tools/dataagent/pkg/cli/config"
	"github.com/fabric-tools/dataagent/pkg/domain/model/agent"
	"github.com/fabric-tools/dataagent/pkg/domain/model/errs"
	"github.com/fabric-tools/dataagent/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdDetails() *cli.Command {
	var (
		agentCfg   config.Agent
		threadName string
		asJSON     bool
	)

	return &cli.Command{
		Name:      "details",
		Aliases:   []string{"d"},
		Usage:     "Ask a question and show the run steps, messages and extracted SQL",
		ArgsUsage: "<question>",
		Flags: joinFlags(
			agentCfg.Flags(),
			[]cli.Flag{
				threadNameFlag(&threadName),
				&cli.BoolFlag{
					Name:        "json",
					Usage:       "Print the full run detail as JSON",
					Destination: &asJSON,
				},
			},
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

			detail, err := uc.RunDetails(ctx, question, opts...)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(detail)
			}

			printDetail(detail)
			return nil
		},
	}
}

func printDetail(detail *agent.RunDetail) {
	fmt.Printf("✅ Run Status: %s\n", detail.RunStatus)
	if detail.RunSteps != nil {
		fmt.Printf("📊 Steps: %d\n", len(detail.RunSteps.Data))
	}
	if detail.Messages != nil {
		fmt.Printf("📝 Messages: %d\n", len(detail.Messages.Data))
	}

	if answer := detail.Answer(); answer != "" {
		fmt.Printf("\n💬 Agent Response:\n%s\n", answer)
	}

	if detail.DataRetrievalQuery != "" {
		fmt.Printf("\n🎯 SQL Query Used:\n  %s\n", detail.DataRetrievalQuery)

		idx := detail.DataRetrievalQueryIndex - 1
		if idx >= 0 && idx < len(detail.SQLDataPreviews) && len(detail.SQLDataPreviews[idx]) > 0 {
			fmt.Printf("\n📊 Data Preview:\n")
			for _, line := range detail.SQLDataPreviews[idx] {
				fmt.Printf("  %s\n", line)
			}
		}
	} else if len(detail.SQLQueries) > 0 {
		fmt.Printf("\n🗃️ %d SQL queries ran, none attributed to the displayed answer\n", len(detail.SQLQueries))
		fmt.Printf("  %s\n", detail.SQLQueries[0])
	} else {
		fmt.Printf("\n📄 No lakehouse data source detected\n")
	}

	for _, warning := range detail.Warnings {
		fmt.Printf("⚠️  %s\n", warning)
	}
}

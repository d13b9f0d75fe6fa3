package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fabric-tools/dataagent/pkg/cli/config"
	"github.com/fabric-tools/dataagent/pkg/domain/types"
	"github.com/fabric-tools/dataagent/pkg/usecase"
	"github.com/fabric-tools/dataagent/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdChat() *cli.Command {
	var (
		agentCfg   config.Agent
		threadName string
		query      string
	)

	return &cli.Command{
		Name:    "chat",
		Aliases: []string{"c"},
		Usage:   "Chat with the data agent on a single conversation thread",
		Flags: joinFlags(
			agentCfg.Flags(),
			[]cli.Flag{
				threadNameFlag(&threadName),
				&cli.StringFlag{
					Name:        "query",
					Usage:       "Query prompt (if not provided, interactive mode will start)",
					Destination: &query,
				},
			},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, err := agentCfg.Configure()
			if err != nil {
				return err
			}

			// All turns of this session share one thread so the agent
			// keeps the conversation context.
			if threadName == "" {
				threadName = types.NewThreadName(time.Now())
			}

			if query != "" {
				return runSingleQuery(ctx, uc, threadName, query)
			}

			return runInteractiveMode(ctx, uc, threadName)
		},
	}
}

func runSingleQuery(ctx context.Context, uc *usecase.UseCases, threadName, query string) error {
	logger := logging.From(ctx)
	logger.Info("Running single query", "query", query, "thread_name", threadName)

	answer, err := uc.Ask(ctx, query, usecase.WithThreadName(threadName))
	if err != nil {
		return goerr.Wrap(err, "failed to process query")
	}

	fmt.Println(answer)
	return nil
}

func runInteractiveMode(ctx context.Context, uc *usecase.UseCases, threadName string) error {
	logger := logging.From(ctx)
	logger.Info("Starting interactive chat mode", "thread_name", threadName)

	fmt.Println("💬 Interactive chat mode started. Type 'exit' or 'quit' to end the session.")
	fmt.Printf("🧵 Thread: %s\n", threadName)
	fmt.Println("📝 Ask about the data sources behind this agent. The first question may open a browser window for sign-in.")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("> ")

		input, _, err := reader.ReadLine()
		if err != nil {
			if err == io.EOF {
				fmt.Println("\n👋 Session ended.")
				break
			}
			return goerr.Wrap(err, "failed to read input")
		}

		message := strings.TrimSpace(string(input))
		if message == "" {
			continue
		}

		if message == "exit" || message == "quit" {
			fmt.Println("👋 Session ended.")
			break
		}

		answer, err := uc.Ask(ctx, message, usecase.WithThreadName(threadName))
		if err != nil {
			fmt.Printf("❌ Error: %s\n", err.Error())
			logger.Error("Chat error", "error", err)
			continue
		}

		fmt.Println(answer)
		fmt.Println()
	}

	return nil
}

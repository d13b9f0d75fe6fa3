package main

import (
	"context"
	"os"

	"github.com/fabric-tools/dataagent/pkg/cli"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	if err := cli.Run(context.Background(), os.Args); err != nil {
		os.Exit(1)
	}
}

package cli

import (
	"strings"

	"github.com/urfave/cli/v3"
)

func joinFlags(flags ...[]cli.Flag) []cli.Flag {
	var result []cli.Flag
	for _, flag := range flags {
		result = append(result, flag...)
	}
	return result
}

func threadNameFlag(dest *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "thread-name",
		Aliases:     []string{"t"},
		Usage:       "Reuse the named conversation thread (omit for a fresh thread)",
		Sources:     cli.EnvVars("DATAAGENT_THREAD_NAME"),
		Destination: dest,
	}
}

// questionFromArgs joins all positional arguments so quoting the whole
// question is optional.
func questionFromArgs(c *cli.Command) string {
	return strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
}

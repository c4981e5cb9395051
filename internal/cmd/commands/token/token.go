package token

import (
	"flag"
	"fmt"

	"github.com/hashicorp-forge/appsdir/internal/cmd/base"
)

type Command struct {
	*base.Command

	flagConfig string
}

func (c *Command) Synopsis() string {
	return "Fetch a resource token"
}

func (c *Command) Help() string {
	return `Usage: appsdir token [options]

  This command logs in and prints the resource token returned by the user
  feed. The token is passed to the other directory calls as the T query
  parameter.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("token", flag.ContinueOnError))

	f.StringVar(
		&c.flagConfig, "config", "", "(Required) Path to appsdir config file",
	)

	return f
}

func (c *Command) Run(args []string) int {
	ui := c.UI

	flags := c.Flags()
	if err := flags.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if c.flagConfig == "" {
		ui.Error("config flag is required")
		return 1
	}

	client, err := c.NewClient(c.flagConfig)
	if err != nil {
		ui.Error(fmt.Sprintf("error initializing directory client: %v", err))
		return 1
	}

	ctx, cancel := c.Context()
	defer cancel()

	token, err := client.Token(ctx)
	if err != nil {
		ui.Error(fmt.Sprintf("error fetching token: %v", err))
		return 1
	}

	ui.Output(token)
	return 0
}

package users

import (
	"flag"
	"fmt"

	"github.com/hashicorp-forge/appsdir/internal/cmd/base"
)

// GetCommand prints a single user document.
type GetCommand struct {
	*base.Command

	flagConfig string
}

func (c *GetCommand) Synopsis() string {
	return "Print a user"
}

func (c *GetCommand) Help() string {
	return `Usage: appsdir get-user [options] USER

  This command prints the raw document of USER as returned by the directory.` +
		c.Flags().Help()
}

func (c *GetCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("get-user", flag.ContinueOnError))

	f.StringVar(
		&c.flagConfig, "config", "", "(Required) Path to appsdir config file",
	)

	return f
}

func (c *GetCommand) Run(args []string) int {
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
	if flags.NArg() != 1 {
		ui.Error("exactly one user is required")
		return 1
	}
	name := flags.Arg(0)

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

	data, err := client.User(ctx, token, name)
	if err != nil {
		ui.Error(fmt.Sprintf("error fetching user: %v", err))
		return 1
	}

	ui.Output(string(data))
	return 0
}

// ListCommand prints the user feed.
type ListCommand struct {
	*base.Command

	flagConfig string
}

func (c *ListCommand) Synopsis() string {
	return "Print all users"
}

func (c *ListCommand) Help() string {
	return `Usage: appsdir list-users [options]

  This command prints the raw user feed of the domain.` + c.Flags().Help()
}

func (c *ListCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("list-users", flag.ContinueOnError))

	f.StringVar(
		&c.flagConfig, "config", "", "(Required) Path to appsdir config file",
	)

	return f
}

func (c *ListCommand) Run(args []string) int {
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

	data, err := client.AllUsers(ctx, token)
	if err != nil {
		ui.Error(fmt.Sprintf("error fetching users: %v", err))
		return 1
	}

	ui.Output(string(data))
	return 0
}

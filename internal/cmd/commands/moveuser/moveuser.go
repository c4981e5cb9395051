package moveuser

import (
	"flag"
	"fmt"
	"strings"

	"github.com/hashicorp-forge/appsdir/internal/cmd/base"
)

type Command struct {
	*base.Command

	flagConfig  string
	flagOrgUnit string
}

func (c *Command) Synopsis() string {
	return "Move users into an organizational unit"
}

func (c *Command) Help() string {
	return `Usage: appsdir move-user [options] USER...

  This command moves one or more users into the organizational unit given by
  -org-unit. Several users are moved with a single call.

  The move is not retried. A move the server accepts without a response body
  is reported as not moved and exits with status 2.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("move-user", flag.ContinueOnError))

	f.StringVar(
		&c.flagConfig, "config", "", "(Required) Path to appsdir config file",
	)
	f.StringVar(
		&c.flagOrgUnit, "org-unit", "",
		"(Required) Path of the organizational unit, for example engineering/platform",
	)

	return f
}

func (c *Command) Run(args []string) int {
	logger, ui := c.Log, c.UI

	flags := c.Flags()
	if err := flags.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	if c.flagConfig == "" {
		ui.Error("config flag is required")
		return 1
	}
	if c.flagOrgUnit == "" {
		ui.Error("org-unit flag is required")
		return 1
	}
	users := flags.Args()
	if len(users) == 0 {
		ui.Error("at least one user is required")
		return 1
	}

	client, err := c.NewClient(c.flagConfig)
	if err != nil {
		ui.Error(fmt.Sprintf("error initializing directory client: %v", err))
		return 1
	}

	ctx, cancel := c.Context()
	defer cancel()

	logger.Debug("moving users", "users", users, "org_unit", c.flagOrgUnit)

	moved, err := client.MoveUsersToOrgUnit(ctx, users, c.flagOrgUnit)
	if err != nil {
		ui.Error(fmt.Sprintf("error moving users: %v", err))
		return 1
	}
	if !moved {
		ui.Warn(fmt.Sprintf("The directory returned an empty response; %s not moved to %s",
			strings.Join(users, ", "), c.flagOrgUnit))
		return 2
	}

	ui.Info(fmt.Sprintf("Moved %s to %s", strings.Join(users, ", "), c.flagOrgUnit))
	return 0
}

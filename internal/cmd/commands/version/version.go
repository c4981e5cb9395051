package version

import (
	"github.com/hashicorp-forge/appsdir/internal/cmd/base"
	"github.com/hashicorp-forge/appsdir/internal/version"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Print the appsdir version"
}

func (c *Command) Help() string {
	return `Usage: appsdir version

  This command prints the appsdir version.`
}

func (c *Command) Run(args []string) int {
	c.UI.Output(version.Version)
	return 0
}

package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/appsdir/internal/cmd/base"
	"github.com/hashicorp-forge/appsdir/internal/cmd/commands/customerid"
	"github.com/hashicorp-forge/appsdir/internal/cmd/commands/moveuser"
	"github.com/hashicorp-forge/appsdir/internal/cmd/commands/token"
	"github.com/hashicorp-forge/appsdir/internal/cmd/commands/users"
	"github.com/hashicorp-forge/appsdir/internal/cmd/commands/version"
)

// Commands is the mapping of all available appsdir commands.
var Commands map[string]cli.CommandFactory

func initCommands(log hclog.Logger, ui cli.Ui) {
	b := base.NewCommand(log, ui)

	Commands = map[string]cli.CommandFactory{
		"customer-id": func() (cli.Command, error) {
			return &customerid.Command{Command: b}, nil
		},
		"get-user": func() (cli.Command, error) {
			return &users.GetCommand{Command: b}, nil
		},
		"list-users": func() (cli.Command, error) {
			return &users.ListCommand{Command: b}, nil
		},
		"move-user": func() (cli.Command, error) {
			return &moveuser.Command{Command: b}, nil
		},
		"token": func() (cli.Command, error) {
			return &token.Command{Command: b}, nil
		},
		"version": func() (cli.Command, error) {
			return &version.Command{Command: b}, nil
		},
	}
}

package cmd

import (
	"sort"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitCommands(t *testing.T) {
	initCommands(hclog.NewNullLogger(), cli.NewMockUi())

	var names []string
	for name, factory := range Commands {
		names = append(names, name)

		c, err := factory()
		require.NoError(t, err)
		assert.NotEmpty(t, c.Synopsis(), name)
		assert.Contains(t, c.Help(), "Usage: appsdir "+name, name)
	}
	sort.Strings(names)

	assert.Equal(t, []string{
		"customer-id", "get-user", "list-users", "move-user", "token", "version",
	}, names)
}

func TestMain_Version(t *testing.T) {
	assert.Equal(t, 0, Main([]string{"appsdir", "-version"}))
}

func TestMain_UnknownCommand(t *testing.T) {
	assert.Equal(t, 127, Main([]string{"appsdir", "frobnicate"}))
}

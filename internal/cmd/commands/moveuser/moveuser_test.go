package moveuser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/appsdir/internal/cmd/commands/cmdtest"
)

func TestRun(t *testing.T) {
	server := cmdtest.NewServer(t)
	b, ui := cmdtest.NewCommand(t, server)
	c := &Command{Command: b}

	code := c.Run([]string{"-config", cmdtest.ConfigPath, "-org-unit", "engineering", "jake@example.com"})
	require.Equal(t, 0, code, ui.ErrorWriter.String())
	assert.Contains(t, ui.OutputWriter.String(), "Moved jake@example.com to engineering")

	moves := server.Moves()
	require.Len(t, moves, 1)
	assert.Contains(t, moves[0], cmdtest.OrgUnitPath+cmdtest.CustomerID+"/engineering ")
	assert.Contains(t, moves[0], `<apps:property name="usersToMove" value="jake@example.com"/>`)
}

func TestRun_SeveralUsers(t *testing.T) {
	server := cmdtest.NewServer(t)
	b, ui := cmdtest.NewCommand(t, server)
	c := &Command{Command: b}

	code := c.Run([]string{"-config", cmdtest.ConfigPath, "-org-unit", "sales",
		"liz@example.com", "jake@example.com"})
	require.Equal(t, 0, code, ui.ErrorWriter.String())

	moves := server.Moves()
	require.Len(t, moves, 1, "several users move in one call")
	assert.Contains(t, moves[0], `value="liz@example.com, jake@example.com"`)
}

func TestRun_EmptyResponse(t *testing.T) {
	server := cmdtest.NewServer(t)
	server.MoveResponse = ""
	b, ui := cmdtest.NewCommand(t, server)
	c := &Command{Command: b}

	code := c.Run([]string{"-config", cmdtest.ConfigPath, "-org-unit", "engineering", "jake@example.com"})
	assert.Equal(t, 2, code)
	assert.Contains(t, ui.ErrorWriter.String(), "not moved")
}

func TestRun_InvalidArguments(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		errorMsg string
	}{
		{"no config", []string{"-org-unit", "x", "jake"}, "config flag is required"},
		{"no org unit", []string{"-config", cmdtest.ConfigPath, "jake"}, "org-unit flag is required"},
		{"no users", []string{"-config", cmdtest.ConfigPath, "-org-unit", "x"}, "at least one user"},
		{"missing config file", []string{"-config", "/missing.hcl", "-org-unit", "x", "jake"}, "failed to read"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := cmdtest.NewServer(t)
			b, ui := cmdtest.NewCommand(t, server)
			c := &Command{Command: b}

			assert.Equal(t, 1, c.Run(tt.args))
			assert.Contains(t, ui.ErrorWriter.String(), tt.errorMsg)
			assert.Empty(t, server.Moves())
		})
	}
}

func TestHelp(t *testing.T) {
	c := &Command{}
	help := c.Help()
	assert.Contains(t, help, "Usage: appsdir move-user")
	assert.Contains(t, help, "-config=<string>")
	assert.Contains(t, help, "-org-unit=<string>")
}

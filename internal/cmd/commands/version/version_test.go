package version

import (
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/stretchr/testify/assert"

	"github.com/hashicorp-forge/appsdir/internal/cmd/base"
	"github.com/hashicorp-forge/appsdir/internal/version"
)

func TestRun(t *testing.T) {
	ui := cli.NewMockUi()
	c := &Command{Command: base.NewCommand(hclog.NewNullLogger(), ui)}

	assert.Equal(t, 0, c.Run(nil))
	assert.Equal(t, version.Version, strings.TrimSpace(ui.OutputWriter.String()))
}

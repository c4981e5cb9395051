package customerid

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/hashicorp-forge/appsdir/internal/cmd/commands/cmdtest"
)

func TestRun_Formats(t *testing.T) {
	server := cmdtest.NewServer(t)

	t.Run("raw", func(t *testing.T) {
		b, ui := cmdtest.NewCommand(t, server)
		c := &Command{Command: b}

		code := c.Run([]string{"-config", cmdtest.ConfigPath, "-format", "raw"})
		require.Equal(t, 0, code, ui.ErrorWriter.String())
		assert.Equal(t, cmdtest.CustomerDocument, strings.TrimSpace(ui.OutputWriter.String()))
	})

	t.Run("json", func(t *testing.T) {
		b, ui := cmdtest.NewCommand(t, server)
		c := &Command{Command: b}

		code := c.Run([]string{"-config", cmdtest.ConfigPath, "-format", "json"})
		require.Equal(t, 0, code, ui.ErrorWriter.String())

		var got customer
		require.NoError(t, json.Unmarshal([]byte(ui.OutputWriter.String()), &got))
		assert.Equal(t, cmdtest.CustomerID, got.CustomerID)
		assert.Len(t, got.Properties, 2)
	})

	t.Run("yaml", func(t *testing.T) {
		b, ui := cmdtest.NewCommand(t, server)
		c := &Command{Command: b}

		code := c.Run([]string{"-config", cmdtest.ConfigPath})
		require.Equal(t, 0, code, ui.ErrorWriter.String())

		var got customer
		require.NoError(t, yaml.Unmarshal([]byte(ui.OutputWriter.String()), &got))
		assert.Equal(t, cmdtest.CustomerID, got.CustomerID)
		assert.Equal(t, "https://apps-apis.google.com/a/feeds/customer/2.0/C03az79cb", got.ID)
		assert.Equal(t, property{Name: "customerOrgUnitName", Value: "example.com"}, got.Properties[0])
	})
}

func TestRun_UnsupportedFormat(t *testing.T) {
	server := cmdtest.NewServer(t)
	b, ui := cmdtest.NewCommand(t, server)
	c := &Command{Command: b}

	assert.Equal(t, 1, c.Run([]string{"-config", cmdtest.ConfigPath, "-format", "xml"}))
	assert.Contains(t, ui.ErrorWriter.String(), `unsupported format "xml"`)
}

func TestRender_Malformed(t *testing.T) {
	_, err := render([]byte("not xml"), formatJSON)
	assert.Error(t, err)
}

package customerid

import (
	"encoding/json"
	"flag"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/hashicorp-forge/appsdir/internal/cmd/base"
	"github.com/hashicorp-forge/appsdir/pkg/atom"
)

const (
	formatRaw  = "raw"
	formatJSON = "json"
	formatYAML = "yaml"
)

type Command struct {
	*base.Command

	flagConfig string
	flagFormat string
}

// customer is the printed form of a customer document.
type customer struct {
	ID         string     `json:"id,omitempty" yaml:"id,omitempty"`
	CustomerID string     `json:"customerId" yaml:"customerId"`
	Properties []property `json:"properties" yaml:"properties"`
}

type property struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

func (c *Command) Synopsis() string {
	return "Print the customer document"
}

func (c *Command) Help() string {
	return `Usage: appsdir customer-id [options]

  This command prints the customer document of the domain. With -format=raw
  the document is printed as returned; json and yaml print its decoded
  properties.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("customer-id", flag.ContinueOnError))

	f.StringVar(
		&c.flagConfig, "config", "", "(Required) Path to appsdir config file",
	)
	f.StringVar(
		&c.flagFormat, "format", formatYAML,
		"Output format: raw, json or yaml.",
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
	switch c.flagFormat {
	case formatRaw, formatJSON, formatYAML:
	default:
		ui.Error(fmt.Sprintf("unsupported format %q", c.flagFormat))
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

	data, err := client.CustomerID(ctx, token)
	if err != nil {
		ui.Error(fmt.Sprintf("error fetching customer id: %v", err))
		return 1
	}

	if c.flagFormat == formatRaw {
		ui.Output(string(data))
		return 0
	}

	out, err := render(data, c.flagFormat)
	if err != nil {
		ui.Error(fmt.Sprintf("error rendering customer document: %v", err))
		return 1
	}

	ui.Output(out)
	return 0
}

func render(data []byte, format string) (string, error) {
	entry, err := atom.Unmarshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode customer document: %w", err)
	}

	view := customer{
		ID:         entry.ID,
		Properties: make([]property, 0, len(entry.Properties)),
	}
	view.CustomerID, _ = entry.CustomerID()
	for _, p := range entry.Properties {
		view.Properties = append(view.Properties, property{Name: p.Name, Value: p.Value})
	}

	var out []byte
	switch format {
	case formatJSON:
		out, err = json.MarshalIndent(view, "", "  ")
	case formatYAML:
		out, err = yaml.Marshal(view)
	default:
		return "", fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return string(out), nil
}

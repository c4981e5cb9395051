package base

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"

	"github.com/hashicorp-forge/appsdir/internal/config"
	"github.com/hashicorp-forge/appsdir/pkg/directory"
	"github.com/hashicorp-forge/appsdir/pkg/session"
)

// LogLevelEnv overrides the log level of the configuration file.
const LogLevelEnv = "APPSDIR_LOG_LEVEL"

// Command is embedded by every appsdir command.
type Command struct {
	Log hclog.Logger
	UI  cli.Ui

	// Fs is where configuration files are read from.
	Fs afero.Fs
}

func NewCommand(log hclog.Logger, ui cli.Ui) *Command {
	return &Command{
		Log: log,
		UI:  ui,
		Fs:  afero.NewOsFs(),
	}
}

// Context returns a context canceled on interrupt or SIGTERM.
func (c *Command) Context() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// NewClient loads the configuration file at path and builds a directory
// client from it.
func (c *Command) NewClient(path string) (*directory.Client, error) {
	cfg, err := config.Load(c.Fs, path)
	if err != nil {
		return nil, err
	}

	if _, ok := os.LookupEnv(LogLevelEnv); !ok {
		c.Log.SetLevel(hclog.LevelFromString(cfg.LogLevel))
	}

	s, err := session.New(cfg.Directory.SessionConfig(c.Log))
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	client, err := directory.New(s, cfg.Directory.Endpoints(), c.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory client: %w", err)
	}

	return client, nil
}

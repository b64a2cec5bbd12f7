package cmd

import (
	"context"
	"io"
	"os"

	"github.com/klauern/hookgate/internal/constants"
	"github.com/urfave/cli/v3"
)

// NewRootCommand creates the hookgate command tree
func NewRootCommand(open RuntimeOpener, info VersionInfo) *cli.Command {
	if open == nil {
		open = OpenRuntime
	}
	return &cli.Command{
		Name:    constants.BinaryName,
		Version: info.Version,
		Usage: "Run hook plugins, gating external ones behind an administrator's risk consent",
		Description: `hookgate runs bundled and external hook plugins. At startup it reconciles the
plugin risk consent with the installed plugins: external plugins only load once
the administrator has accepted the risk.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a config file (.json or .toml); defaults to the XDG config directory",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error or none",
			},
		},
		Commands: []*cli.Command{
			newCheckCommand(open),
			newConsentCommand(open),
			newPluginsCommand(open),
			newRunCommand(open),
			newConfigCommand(),
			NewVersionCmd(info),
		},
	}
}

// withRuntime opens a Runtime from the root flags, runs fn and closes it
func withRuntime(ctx context.Context, cmd *cli.Command, open RuntimeOpener, fn func(*Runtime) error) error {
	root := cmd.Root()
	rt, err := open(ctx, Options{
		ConfigPath: root.String("config"),
		LogLevel:   root.String("log-level"),
		Stdin:      root.Reader,
		Stdout:     writer(cmd),
		Stderr:     errWriter(cmd),
	})
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()
	return fn(rt)
}

func writer(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func errWriter(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}

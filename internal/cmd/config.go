package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"

	"github.com/klauern/hookgate/internal/config"
	"github.com/klauern/hookgate/internal/store"
	"github.com/urfave/cli/v3"
)

// newConfigCommand creates the config command with subcommands
func newConfigCommand() *cli.Command {
	return &cli.Command{
		Name:        "config",
		Usage:       "Manage the hookgate configuration file",
		Description: `Create, inspect and edit the configuration stored in the XDG config directory.`,
		Commands: []*cli.Command{
			newConfigInitCommand(),
			newConfigShowCommand(),
			newConfigEditCommand(),
		},
	}
}

// configPath resolves --config or the XDG location for the given format
func configPath(cmd *cli.Command, xdg *config.XDGConfig, format string) string {
	if p := cmd.Root().String("config"); p != "" {
		return p
	}
	if p := xdg.FindConfigFile(); p != "" {
		return p
	}
	return xdg.GetConfigPath(format)
}

func newConfigInitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Write a default configuration file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "format",
				Value: "json",
				Usage: "Config file format: json or toml",
			},
			&cli.StringFlag{
				Name:  "store",
				Value: store.DriverFile,
				Usage: "Property store driver: memory, file, sqlite, postgres or redis",
			},
			&cli.StringFlag{
				Name:  "dsn",
				Usage: "Connection string for sqlite, postgres or redis",
			},
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "Overwrite an existing config file",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			format := cmd.String("format")
			if format != "json" && format != "toml" {
				return fmt.Errorf("invalid format '%s'. Valid formats: json, toml", format)
			}

			xdg := config.NewXDGConfig()
			if err := xdg.EnsureDirectories(); err != nil {
				return err
			}
			path := cmd.Root().String("config")
			if path == "" {
				path = xdg.GetConfigPath(format)
			}
			if _, err := os.Stat(path); err == nil && !cmd.Bool("force") {
				return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
			}

			cfg := config.Default(xdg)
			cfg.Store.Driver = cmd.String("store")
			cfg.Store.DSN = cmd.String("dsn")
			if cfg.Store.Driver != store.DriverFile {
				cfg.Store.Path = ""
				cfg.Store.Format = ""
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			fmt.Fprintf(writer(cmd), "Wrote %s\n", path)
			return nil
		},
	}
}

func newConfigShowCommand() *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "Print the effective configuration",
		Description: `Prints the configuration after applying defaults, the config file and
HOOKGATE_* environment overrides.`,
		Action: func(_ context.Context, cmd *cli.Command) error {
			xdg := config.NewXDGConfig()
			if err := config.LoadDotEnv(xdg.GetConfigDir()); err != nil {
				return err
			}
			path := configPath(cmd, xdg, "json")
			cfg, err := config.Load(path, xdg)
			if err != nil {
				return err
			}
			cfg.ApplyEnv(os.Getenv)

			out := writer(cmd)
			fmt.Fprintf(out, "# %s\n", path)
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(cfg)
		},
	}
}

func newConfigEditCommand() *cli.Command {
	return &cli.Command{
		Name:        "edit",
		Usage:       "Edit the configuration file",
		Description: `Open the configuration file in your default editor.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "editor",
				Aliases: []string{"e"},
				Usage:   "Override default editor (uses $EDITOR environment variable by default)",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			xdg := config.NewXDGConfig()
			path := configPath(cmd, xdg, "json")

			editor, err := selectEditor(cmd.String("editor"))
			if err != nil {
				return err
			}
			fmt.Fprintf(writer(cmd), "Opening %s with %s...\n", path, editor)
			c := exec.Command(editor, path) // #nosec G204 - editor is from controlled sources: user flag, $EDITOR env var, or predefined safe list
			c.Stdin = os.Stdin
			c.Stdout = writer(cmd)
			c.Stderr = errWriter(cmd)
			return c.Run()
		},
	}
}

func selectEditor(editorFlag string) (string, error) {
	if editorFlag != "" {
		return editorFlag, nil
	}
	if envEditor := os.Getenv("EDITOR"); envEditor != "" {
		return envEditor, nil
	}
	for _, editor := range []string{"code", "vim", "nano"} {
		if _, err := exec.LookPath(editor); err == nil {
			return editor, nil
		}
	}
	return "", fmt.Errorf("no editor found. Set $EDITOR environment variable or use --editor flag")
}

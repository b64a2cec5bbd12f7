package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/klauern/hookgate/internal/consent"
	"github.com/klauern/hookgate/internal/plugins"
	"github.com/urfave/cli/v3"
)

func newRunCommand(open RuntimeOpener) *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Run a plugin after the startup consent check",
		ArgsUsage: "[plugin-key]",
		Description: `Runs the consent check, then loads and runs one plugin. Bundled plugins always
run; external plugins only run once the plugin risk has been accepted.`,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args().Slice()
			if len(args) != 1 {
				return fmt.Errorf("exactly one argument required: [plugin-key]")
			}
			key := args[0]

			return withRuntime(ctx, cmd, open, func(rt *Runtime) error {
				if _, err := rt.Gate.Reconcile(ctx); err != nil {
					return fmt.Errorf("startup consent check failed: %w", err)
				}

				p, rec, err := rt.Inventory.Open(ctx, key)
				if err != nil {
					if plugins.IsNotFound(err) {
						return fmt.Errorf("plugin '%s' not found.\nAvailable plugins: %s", key, availablePlugins(ctx, rt))
					}
					return err
				}

				if err := rt.Gate.Authorize(ctx, rec); err != nil {
					if errors.Is(err, consent.ErrConsentRequired) {
						return fmt.Errorf("%w\nAn administrator must run '%s consent accept' before external plugins can load",
							err, cmd.Root().Name)
					}
					return err
				}

				rt.Loggers.Debugf("Running %s plugin '%s'", strings.ToLower(rec.Type.String()), key)
				if err := p.Run(ctx); err != nil {
					return fmt.Errorf("plugin '%s' failed: %w", key, err)
				}
				return nil
			})
		},
	}
}

func availablePlugins(ctx context.Context, rt *Runtime) string {
	records, err := rt.Inventory.Plugins(ctx)
	if err != nil {
		return "(unavailable)"
	}
	names := make([]string, 0, len(records))
	for _, r := range records {
		names = append(names, r.Name)
	}
	return strings.Join(names, ", ")
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"text/tabwriter"

	"github.com/klauern/hookgate/internal/plugins"
	"github.com/urfave/cli/v3"
)

func newPluginsCommand(open RuntimeOpener) *cli.Command {
	return &cli.Command{
		Name:  "plugins",
		Usage: "Inspect installed plugins",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List bundled and external plugins",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "external",
						Aliases: []string{"e"},
						Usage:   "Only show external plugins",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withRuntime(ctx, cmd, open, func(rt *Runtime) error {
						records, err := rt.Inventory.Plugins(ctx)
						if err != nil {
							return err
						}
						return printRecords(cmd, records, cmd.Bool("external"))
					})
				},
			},
			{
				Name:  "init",
				Usage: "Write a sample custom plugins file",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Overwrite an existing plugins file",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withRuntime(ctx, cmd, open, func(rt *Runtime) error {
						path := rt.Config.Plugins.CustomConfig
						err := plugins.WriteSampleCustomPlugins(path, plugins.SampleCustomPlugins, cmd.Bool("force"))
						if errors.Is(err, fs.ErrExist) {
							return fmt.Errorf("%s already exists (use --force to overwrite)", path)
						}
						if err != nil {
							return err
						}
						out := writer(cmd)
						fmt.Fprintf(out, "Wrote %s\n", path)
						fmt.Fprintf(out, "Custom plugins are external: run '%s consent accept' before they can load.\n", cmd.Root().Name)
						return nil
					})
				},
			},
		},
	}
}

func printRecords(cmd *cli.Command, records []plugins.Record, externalOnly bool) error {
	tw := tabwriter.NewWriter(writer(cmd), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTYPE\tSOURCE\tDESCRIPTION")
	for _, r := range records {
		if externalOnly && r.Type != plugins.External {
			continue
		}
		desc := r.Description
		if desc == "" {
			desc = r.Path
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Name, r.Type, r.Source, desc)
	}
	return tw.Flush()
}

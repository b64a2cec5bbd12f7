package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func newConsentCommand(open RuntimeOpener) *cli.Command {
	return &cli.Command{
		Name:        "consent",
		Usage:       "Inspect or record the plugin risk consent",
		Description: `Shows the stored plugin risk consent, or records the administrator's decision.`,
		Commands: []*cli.Command{
			{
				Name:  "status",
				Usage: "Print the stored consent (ABSENT when never recorded)",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withRuntime(ctx, cmd, open, func(rt *Runtime) error {
						state, err := rt.Gate.State(ctx)
						if err != nil {
							return err
						}
						fmt.Fprintln(writer(cmd), state)
						return nil
					})
				},
			},
			{
				Name:  "accept",
				Usage: "Accept the risk of running external plugins",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withRuntime(ctx, cmd, open, func(rt *Runtime) error {
						if err := rt.Gate.Accept(ctx); err != nil {
							return err
						}
						fmt.Fprintln(writer(cmd), "Plugin risk accepted. External plugins may now be loaded.")
						return nil
					})
				},
			},
			{
				Name:  "decline",
				Usage: "Record that the risk of running external plugins is not accepted",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withRuntime(ctx, cmd, open, func(rt *Runtime) error {
						if err := rt.Gate.Decline(ctx); err != nil {
							return err
						}
						fmt.Fprintln(writer(cmd), "Plugin risk not accepted. External plugins will not be loaded.")
						return nil
					})
				},
			},
		},
	}
}

package cmd

import (
	"context"
	"fmt"

	"github.com/klauern/hookgate/internal/consent"
	"github.com/urfave/cli/v3"
)

func newCheckCommand(open RuntimeOpener) *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Reconcile the plugin risk consent with the installed plugins",
		Description: `Runs the startup consent check on its own: lists external plugins, escalates the
stored consent to REQUIRED when needed, or clears it when no external plugin remains.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "Fail when external plugins are installed and consent is not ACCEPTED",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withRuntime(ctx, cmd, open, func(rt *Runtime) error {
				res, err := rt.Gate.Reconcile(ctx)
				if err != nil {
					return err
				}
				out := writer(cmd)
				fmt.Fprintf(out, "External plugins: %d\n", len(res.External))
				for _, r := range res.External {
					fmt.Fprintf(out, "  %s (%s)\n", r.Name, r.Source)
				}
				fmt.Fprintf(out, "Plugin risk consent: %s\n", res.Current)

				if cmd.Bool("strict") && len(res.External) > 0 && !res.Current.Is(consent.Accepted) {
					return fmt.Errorf("%w: run '%s consent accept' after reviewing the plugins",
						consent.ErrConsentRequired, cmd.Root().Name)
				}
				return nil
			})
		},
	}
}

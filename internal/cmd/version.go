package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// VersionInfo holds version information
type VersionInfo struct {
	Version string
	Commit  string
	Date    string
	GoVer   string
}

// NewVersionCmd creates a new version command
func NewVersionCmd(info VersionInfo) *cli.Command {
	return &cli.Command{
		Name:    "version",
		Aliases: []string{"v"},
		Usage:   "Show version information",
		Action: func(_ context.Context, cmd *cli.Command) error {
			out := writer(cmd)
			fmt.Fprintf(out, "%s version %s\n", cmd.Root().Name, info.Version)
			fmt.Fprintf(out, "commit: %s\n", info.Commit)
			fmt.Fprintf(out, "date: %s\n", info.Date)
			fmt.Fprintf(out, "go: %s\n", info.GoVer)
			return nil
		},
	}
}

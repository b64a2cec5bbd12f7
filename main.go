package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/klauern/hookgate/internal/cmd"
	_ "github.com/klauern/hookgate/internal/plugins/builtin"
)

// Set by goreleaser
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	root := cmd.NewRootCommand(cmd.OpenRuntime, cmd.VersionInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
		GoVer:   runtime.Version(),
	})
	if err := root.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

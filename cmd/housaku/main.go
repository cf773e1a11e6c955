// Command housaku indexes personal content into a local search database and
// answers ranked keyword queries against it.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dnlzrgz/housaku/pkg/cmd"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	root := cmd.InitCommand(cmd.BuildInfo{
		Version: version,
		AppName: "housaku",
	})

	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// Command panchanga computes Panchanga calendars from the command line.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/zapponejosh/panchanga-api/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.RootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// Package main provides the nudbconfig command-line tool.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/nudb/nudbconfig/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

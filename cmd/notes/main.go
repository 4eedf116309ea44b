// Package main is the entry point for the notes CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"notes/internal/cli"
	"notes/internal/commands"
)

func main() {
	// Cancel on interrupt so serve shuts down cleanly
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, cli.OpenService)
	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// Package main is the inventory CLI executable
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/stockroom/inventory-system/internal/command"
)

func main() { os.Exit(run()) }

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := command.RootCommand().ExecuteContext(ctx)
	if err != nil {
		return 1
	}
	return 0
}

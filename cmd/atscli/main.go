package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"alfredoptarigan/ats-api/internal/cli"
	"alfredoptarigan/ats-api/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	if err := cli.Execute(ctx, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

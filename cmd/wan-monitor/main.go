package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
)

type CLI struct {
	Serve Serve `embed:""`
}

func main() {
	var cli CLI

	kong.Parse(&cli,
		kong.Name("wan-monitor"),
		kong.Description("Reports whether internet traffic egresses through the primary ISP or a secondary WAN."),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := serve(ctx, &cli, os.Stdout)
	if err != nil {
		cancel()
		os.Exit(1)
	}
}

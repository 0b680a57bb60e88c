package main

import (
	"context"
	"os"
	"os/signal"

	"taskplanner/internal/cli"
	"taskplanner/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cli.NewApp(config.LoadClient()).Run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

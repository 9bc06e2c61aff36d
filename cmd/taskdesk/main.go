package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/florianilch/taskdesk/cmd/taskdesk/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := commands.Execute(ctx, os.Args)
	stop()

	if err != nil {
		commands.Report(os.Stderr, err)
		os.Exit(commands.ExitCode(err))
	}
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"gptcopy/cmd"
)

func main() {
	// An interrupt cancels the walk and the read pool; no partial output
	// file is left behind.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.Execute(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

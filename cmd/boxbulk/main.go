package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/funktionslust/boxbulk"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		boxbulk.NewConsole(os.Stderr).WriteError(err.Error())
		stop()
		os.Exit(1)
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/dolanbernard/mobilecoin/cli/mintclient/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.New().Execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

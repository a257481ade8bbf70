// godial - a failover-aware TCP client.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"godial/cmd"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cmd.Execute(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "godial: %v\n", err)
		os.Exit(1)
	}
}

// Package main is the entry point for invoicedeskctl.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"invoicedesk/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

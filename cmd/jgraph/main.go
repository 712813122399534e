// Command jgraph is a CLI front end for the codec and store packages:
// encode/decode a graph from stdin, or put/get/list/delete an encoded graph
// in etcd. Shape mirrors stacktower's cmd/<binary>/main.go — signal-aware
// context, cobra root command built in root.go, exit code 130 on
// an interrupted run.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCommand().ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

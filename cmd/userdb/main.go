package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/qntx/userdb/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	// A second interrupt kills the process.
	context.AfterFunc(ctx, stop)
	err := cli.Execute(ctx)
	stop()

	if err != nil {
		var withExitCode interface{ ExitCode() int }
		if errors.As(err, &withExitCode) {
			os.Exit(withExitCode.ExitCode())
		}
		os.Exit(1)
	}
}

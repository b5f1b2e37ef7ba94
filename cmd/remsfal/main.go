package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/remsfal/remsfal-frontend-sub001/internal/cmd"
)

var (
	executeCmd  = cmd.Execute
	mapExitCode = cmd.ExitCode
	terminate   = os.Exit
)

// exitInterrupted follows the shell convention of 128 + SIGINT.
const exitInterrupted = 130

func run(ctx context.Context, args []string) int {
	if err := executeCmd(ctx, args); err != nil {
		if ctx.Err() != nil {
			return exitInterrupted
		}
		return mapExitCode(err)
	}
	return 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:])
	stop()
	terminate(code)
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dalemusser/storehub/internal/app/lifecycle"
	"github.com/spf13/viper"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(viper.New()).ExecuteContext(ctx); err != nil {
		// Stage failures are already logged by the lifecycle.
		if _, ok := lifecycle.FailedStage(err); !ok {
			fmt.Fprintln(os.Stderr, "storehub:", err)
		}
		stop()
		os.Exit(lifecycle.ExitCode(err))
	}
}

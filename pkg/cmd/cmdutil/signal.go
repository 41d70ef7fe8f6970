package cmdutil

import (
	"context"
	"os"
	"os/signal"
)

// WaitForSignal blocks until one of the signals arrives or ctx is done.
// It returns nil when ctx is done first.
func WaitForSignal(ctx context.Context, signals ...os.Signal) os.Signal {
	sigC := make(chan os.Signal, 1)
	signal.Notify(sigC, signals...)
	defer signal.Stop(sigC)

	select {
	case sig := <-sigC:
		return sig

	case <-ctx.Done():
		return nil
	}
}

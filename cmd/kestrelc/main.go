// Command kestrelc is the Kestrel front end
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/orizon-lang/kestrel/cmd/kestrelc/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.ExecuteContext(ctx)
	stop()
	os.Exit(cmd.ExitCode(err, os.Stderr))
}

// Command diwire compiles dependency injection container specs.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/roach88/diwire/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := cli.NewRootCommand().ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	code := cli.GetExitCode(err)
	stop()
	os.Exit(code)
}

package main

import (
	"context"
	"os"
	"os/signal"

	"pet-passport/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := cli.NewRootCommand(cli.DefaultDeps())
	if err := cmd.ExecuteContext(ctx); err != nil {
		f := &cli.OutputFormatter{Format: "text", Writer: os.Stderr}
		if v, _ := cmd.PersistentFlags().GetString("format"); v == "json" {
			f = &cli.OutputFormatter{Format: "json", Writer: os.Stdout}
		}
		f.Error(err)
		stop()
		os.Exit(cli.GetExitCode(err))
	}
}

// Package main provides the gradgraph command.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/born-ml/gradgraph/internal/app"
	"github.com/born-ml/gradgraph/internal/cli"
)

const version = "v0.1.0-dev"

func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(context.Background(), os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run holds the logic of main so it can be tested.
func run(ctx context.Context, outW, logW io.Writer, args []string) error {
	if len(args) > 0 && args[0] == "version" {
		fmt.Fprintf(outW, "gradgraph %s\n", version)
		return nil
	}

	cfg, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	return app.NewApp(outW, logW, cfg).Run(ctx)
}

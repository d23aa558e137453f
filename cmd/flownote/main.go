package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/puran-water/flownote/internal/app"
	"github.com/puran-water/flownote/internal/cli"
)

// main is the entrypoint for the flownote application.
func main() {
	if err := run(os.Stdout, os.Stderr, os.Stdin, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error
// handling.
func run(outW, errW io.Writer, stdin io.Reader, args []string) error {
	config, shouldExit, err := cli.Parse(args, errW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	a, err := app.NewApp(outW, errW, config)
	if err != nil {
		return err
	}
	return a.Run(context.Background(), stdin)
}

package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/puran-water/flownote/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config, a
// boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("flownote", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
flownote - converts between process-topology notation and a structured
plant model.

Usage:
  flownote [options] [INPUT_PATH]

Arguments:
  INPUT_PATH
    Path to the input file, or '-' to read stdin.

Options:
`)
		flagSet.PrintDefaults()
	}

	inFlag := flagSet.String("in", "", "Path to the input file, or '-' for stdin.")
	directionFlag := flagSet.String("direction", app.DirectionToModel,
		"Conversion direction. Options: 'to-model', 'to-notation', or 'roundtrip'.")
	templatesFlag := flagSet.String("templates", "templates", "Path to the process template directory.")
	definitionsFlag := flagSet.String("definitions", "", "Path to a component definition directory merged over built-ins.")
	canonicalFlag := flagSet.Bool("canonical", false, "Emit canonical (sorted, deterministic) notation.")
	expandFlag := flagSet.Bool("expand-blocks", false, "Expand abstract block types through the registry.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	path := *inFlag
	if path == "" && flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	if path == "" {
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	config, err := app.NewConfig(app.Config{
		InputPath:            path,
		Direction:            strings.ToLower(*directionFlag),
		TemplatesPath:        *templatesFlag,
		DefinitionsPath:      *definitionsFlag,
		Canonical:            *canonicalFlag,
		ExpandAbstractBlocks: *expandFlag,
		LogFormat:            logFormat,
		LogLevel:             logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return config, false, nil
}

package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/born-ml/gradgraph/internal/app"
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

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("gradgraph", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
gradgraph - Reverse-mode differentiation of scalar expression graphs.

Usage:
  gradgraph [options] [GRAPH_PATH]
  gradgraph version

Arguments:
  GRAPH_PATH
    Path to an .hcl file declaring leaves, values and the output.

Options:
`)
		flagSet.PrintDefaults()
	}

	graphFlag := flagSet.String("graph", "", "Path to the graph file.")
	gFlag := flagSet.String("g", "", "Path to the graph file (shorthand).")
	outputFlag := flagSet.String("output", "", "Name of the node to differentiate. Overrides the file's output.")
	dotFlag := flagSet.String("dot", "", "Write a Graphviz rendering to this path ('-' for stdout).")
	renderFlag := flagSet.String("render", "", "Lay the graph out into an image at this path (.svg, .png or .jpg).")
	checkFlag := flagSet.Bool("check", false, "Compare gradients of every leaf against finite differences.")
	toleranceFlag := flagSet.Float64("tolerance", app.DefaultTolerance, "Allowed gradient check error.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *graphFlag != "" {
		path = *graphFlag
	} else if *gFlag != "" {
		path = *gFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Graph path determined.", "path", path)

	if path == "" {
		slog.Debug("No graph path provided, printing usage and exiting.")
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
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	config, err := app.NewConfig(app.Config{
		GraphPath:  path,
		Output:     *outputFlag,
		DOTPath:    *dotFlag,
		RenderPath: *renderFlag,
		Check:      *checkFlag,
		Tolerance:  *toleranceFlag,
		LogFormat:  logFormat,
		LogLevel:   logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

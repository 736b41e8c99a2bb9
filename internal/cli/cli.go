// Package cli is responsible for parsing command-line arguments, validating
// user input, and handling process-level concerns like exit codes. It
// translates CLI flags and the optional config file into app.Config.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/pborges/almanac/internal/app"
	"github.com/pborges/almanac/internal/config"
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

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
//
// Settings are layered: defaults, then the -config file, then flags given
// explicitly on the command line.
func Parse(ctx context.Context, args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("almanac", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
almanac - resolve seeds through an almanac and print the lowest location.

Usage:
  almanac [options] INPUT_PATH

Options:
`)
		flagSet.PrintDefaults()
	}

	defaults := app.DefaultConfig()
	configFlag := flagSet.String("config", "", "Path to an HCL run configuration file.")
	partFlag := flagSet.Int("part", defaults.Part, "1: seeds are values, 2: seeds are (start, length) ranges.")
	workersFlag := flagSet.Int("workers", defaults.Workers, "Number of concurrent workers. 0 uses every CPU for ranges and a single goroutine for values.")
	batchFlag := flagSet.Uint64("batch-size", defaults.BatchSize, "Seeds per work item when searching ranges.")
	logFormatFlag := flagSet.String("log-format", defaults.LogFormat, "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", defaults.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	dumpFlag := flagSet.Bool("dump", false, "Print the parsed almanac before the result.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if flagSet.NArg() == 0 {
		slog.Debug("No input path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}
	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: "expected a single INPUT_PATH"}
	}

	cfg := defaults
	cfg.InputPath = flagSet.Arg(0)

	if *configFlag != "" {
		file, err := config.Load(ctx, *configFlag)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
		cfg.ApplyFile(file)
	}

	flagSet.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "part":
			cfg.Part = *partFlag
		case "workers":
			cfg.Workers = *workersFlag
		case "batch-size":
			cfg.BatchSize = *batchFlag
		case "log-format":
			cfg.LogFormat = strings.ToLower(*logFormatFlag)
		case "log-level":
			cfg.LogLevel = strings.ToLower(*logLevelFlag)
		case "dump":
			cfg.Dump = *dumpFlag
		}
	})

	validated, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", validated)
	return validated, false, nil
}

package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/pborges/almanac/internal/almanac"
	"github.com/pborges/almanac/internal/ctxlog"
)

// App encapsulates the application's configuration and output streams.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
}

// NewApp wires an App. Results go to outW, logs to logW.
func NewApp(outW, logW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.", "level", cfg.LogLevel, "format", cfg.LogFormat)
	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
	}
}

// Run loads the almanac, finds the lowest location and prints it.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	start := time.Now()

	parsed, err := a.load(ctx)
	if err != nil {
		return err
	}
	if a.config.Dump {
		spew.Fdump(a.outW, parsed)
	}

	lowest, err := a.lowest(ctx, parsed)
	if err != nil {
		return err
	}
	a.logger.Info("Resolved almanac.", "part", a.config.Part, "lowest", lowest, "elapsed", time.Since(start))

	_, err = fmt.Fprintln(a.outW, lowest)
	return err
}

func (a *App) load(ctx context.Context) (*almanac.Almanac, error) {
	a.logger.DebugContext(ctx, "Loading almanac.", "path", a.config.InputPath)
	f, err := os.Open(a.config.InputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	parsed, err := almanac.Parse(f)
	if err != nil {
		return nil, err
	}
	a.logger.DebugContext(ctx, "Almanac parsed.", "seeds", len(parsed.Seeds), "maps", len(parsed.Maps))
	return parsed, nil
}

func (a *App) lowest(ctx context.Context, parsed *almanac.Almanac) (uint64, error) {
	if a.config.Part == 2 {
		return parsed.LowestInRanges(ctx, almanac.Options{
			Workers:   a.config.Workers,
			BatchSize: a.config.BatchSize,
		})
	}
	if a.config.Workers > 1 {
		locations, err := parsed.ResolveConcurrent(ctx, a.config.Workers)
		if err != nil {
			return 0, err
		}
		return almanac.Min(locations)
	}
	return parsed.Lowest(ctx)
}

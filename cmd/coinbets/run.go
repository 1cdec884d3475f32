package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/coinbets/cmd/coinbets/shared"
	"github.com/lox/coinbets/internal/config"
	"github.com/lox/coinbets/internal/export"
	"github.com/lox/coinbets/internal/report"
	"github.com/lox/coinbets/internal/simulation"
)

// RunCmd runs a simulation. Flags override values from the config file.
type RunCmd struct {
	Config         string   `kong:"short='c',type='path',help='HCL (.hcl) or YAML (.yaml) run configuration'"`
	Trials         *int     `kong:"short='n',help='Parallel games per strategy (default 50)'"`
	Rounds         *int     `kong:"short='r',help='Rounds per game including the starting round (default 1000)'"`
	Wealth         *float64 `kong:"short='w',help='Initial wealth of every game (default 100)'"`
	WinProbability *float64 `kong:"name='win-probability',short='p',help='Probability the coin wins (default 0.6)'"`
	Seed           *int64   `kong:"help='Deterministic RNG seed (optional)'"`
	Strategy       []string `kong:"short='s',sep='none',help='Strategy as name=fraction, name=kelly or name=kelly:scale (repeatable, replaces configured strategies)'"`
	Parallel       bool     `kong:"help='Simulate strategies concurrently'"`
	Output         string   `kong:"short='o',help='Write wealth series to this file, or - for stdout'"`
	Format         string   `kong:"default='auto',enum='auto,csv,json',help='Series format (auto picks from the output extension)'"`
	Quiet          bool     `kong:"short='q',help='Do not print the summary table'"`
	Debug          bool     `kong:"help='Enable debug logging'"`
}

func (c *RunCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)
	ctx, stop := shared.SetupSignalHandler(logger)
	defer stop()

	return c.execute(ctx, os.Stdout, logger)
}

func (c *RunCmd) execute(ctx context.Context, stdout io.Writer, logger *log.Logger) error {
	cfg, err := c.buildConfig(logger)
	if err != nil {
		return err
	}

	result, err := simulation.Run(ctx, cfg)
	if err != nil {
		return err
	}

	if c.Output != "" {
		if err := c.export(stdout, result, logger); err != nil {
			return err
		}
	}

	// keep stdout clean when it carries the series
	if c.Quiet || c.Output == "-" {
		return nil
	}
	return report.Write(stdout, result)
}

func (c *RunCmd) buildConfig(logger *log.Logger) (simulation.Config, error) {
	file := config.Default()
	if c.Config != "" {
		loaded, err := config.Load(c.Config)
		if err != nil {
			return simulation.Config{}, err
		}
		file = loaded
		logger.Debug("Loaded config", "path", c.Config)
	}

	s := file.Simulation
	if c.Trials != nil {
		s.Trials = c.Trials
	}
	if c.Rounds != nil {
		s.Rounds = c.Rounds
	}
	if c.Wealth != nil {
		s.InitialWealth = c.Wealth
	}
	if c.WinProbability != nil {
		s.WinProbability = c.WinProbability
	}
	if c.Seed != nil {
		s.Seed = c.Seed
	}
	if c.Parallel {
		s.Parallel = &c.Parallel
	}

	if s.Seed == nil {
		seed := time.Now().UnixNano()
		s.Seed = &seed
		logger.Info("Using random seed", "seed", seed)
	} else {
		logger.Info("Using deterministic seed", "seed", *s.Seed)
	}

	if len(c.Strategy) > 0 {
		file.Strategies = file.Strategies[:0]
		for _, raw := range c.Strategy {
			strategy, err := config.ParseStrategyFlag(raw)
			if err != nil {
				return simulation.Config{}, err
			}
			file.Strategies = append(file.Strategies, strategy)
		}
	}

	return file.Build(logger)
}

func (c *RunCmd) export(stdout io.Writer, result *simulation.Result, logger *log.Logger) error {
	format := export.FormatFromPath(c.Output)
	if c.Format != "" && c.Format != "auto" {
		f, err := export.ParseFormat(c.Format)
		if err != nil {
			return err
		}
		format = f
	}

	if c.Output == "-" {
		return export.Write(stdout, result, format)
	}
	if err := export.WriteFile(c.Output, result, format); err != nil {
		return fmt.Errorf("export series: %w", err)
	}
	logger.Info("Wrote wealth series", "path", c.Output, "format", format, "strategies", len(result.All()))
	return nil
}

// Package simulation drives named gamblers through a fixed number of coin
// tossing rounds and records the wealth history of each.
package simulation

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/lox/coinbets/internal/gambler"
	"golang.org/x/sync/errgroup"
)

// Simulator runs fixed-fraction betting simulations
type Simulator struct {
	config Config
	logger *log.Logger
}

// New validates config and creates a simulator.
func New(config Config) (*Simulator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	config.applyDefaults()
	return &Simulator{config: config, logger: config.Logger}, nil
}

// Config returns the effective configuration.
func (s *Simulator) Config() Config {
	return s.config
}

// Run plays every strategy for Rounds-1 rounds after recording the initial
// wealth as round 0. Each call starts from fresh gamblers; with the same seed
// it reproduces the same series.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	cfg := s.config
	start := cfg.Clock.Now()

	result := &Result{
		RunID:          uuid.NewString(),
		StartedAt:      start,
		Trials:         cfg.Trials,
		Rounds:         cfg.Rounds,
		InitialWealth:  cfg.InitialWealth,
		WinProbability: cfg.WinProbability,
		Seed:           cfg.Seed,
		index:          make(map[string]int, len(cfg.Strategies)),
	}

	logger := s.logger.With("run", result.RunID)
	logger.Info("Starting simulation",
		"strategies", len(cfg.Strategies),
		"trials", cfg.Trials,
		"rounds", cfg.Rounds,
		"p", cfg.WinProbability,
		"seed", cfg.Seed,
		"parallel", cfg.Parallel)

	players, err := s.seat(result)
	if err != nil {
		return nil, err
	}

	if cfg.Parallel {
		err = s.runParallel(ctx, players, logger)
	} else {
		err = s.runSequential(ctx, players, logger)
	}
	if err != nil {
		return nil, err
	}

	result.Elapsed = cfg.Clock.Since(start)
	logger.Info("Simulation complete", "elapsed", result.Elapsed)
	return result, nil
}

type player struct {
	gambler *gambler.Gambler
	series  *Series
}

// seat creates one gambler per strategy and records round 0.
func (s *Simulator) seat(result *Result) ([]player, error) {
	cfg := s.config

	initial := make([]float64, cfg.Trials)
	for i := range initial {
		initial[i] = cfg.InitialWealth
	}

	players := make([]player, len(cfg.Strategies))
	for i, strat := range cfg.Strategies {
		coin, err := cfg.NewCoin(i)
		if err != nil {
			return nil, fmt.Errorf("coin for strategy %q: %w", strat.Name, err)
		}
		g, err := gambler.New(initial, strat.Policy, coin)
		if err != nil {
			return nil, fmt.Errorf("gambler for strategy %q: %w", strat.Name, err)
		}

		series := &Series{
			Name:   strat.Name,
			Policy: strat.Policy,
			Wealth: make([][]float64, 0, cfg.Rounds),
		}
		series.Wealth = append(series.Wealth, g.Wealth())

		players[i] = player{gambler: g, series: series}
		result.series = append(result.series, series)
		result.index[strat.Name] = i
	}
	return players, nil
}

func (s *Simulator) runSequential(ctx context.Context, players []player, logger *log.Logger) error {
	for round := 1; round < s.config.Rounds; round++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("simulation cancelled at round %d: %w", round, err)
		}
		for _, p := range players {
			if err := step(p, round); err != nil {
				return err
			}
		}
		s.progress(logger, round, "")
	}
	return nil
}

func (s *Simulator) runParallel(ctx context.Context, players []player, logger *log.Logger) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, p := range players {
		g.Go(func() error {
			for round := 1; round < s.config.Rounds; round++ {
				if err := ctx.Err(); err != nil {
					return fmt.Errorf("simulation cancelled at round %d: %w", round, err)
				}
				if err := step(p, round); err != nil {
					return err
				}
				s.progress(logger, round, p.series.Name)
			}
			return nil
		})
	}

	return g.Wait()
}

func step(p player, round int) error {
	if err := p.gambler.Play(); err != nil {
		return fmt.Errorf("strategy %q round %d: %w", p.series.Name, round, err)
	}
	p.series.Wealth = append(p.series.Wealth, p.gambler.Wealth())
	return nil
}

func (s *Simulator) progress(logger *log.Logger, round int, strategy string) {
	if round%s.config.ProgressEvery != 0 {
		return
	}
	if strategy == "" {
		logger.Debug("Round complete", "round", round, "of", s.config.Rounds-1)
		return
	}
	logger.Debug("Round complete", "strategy", strategy, "round", round, "of", s.config.Rounds-1)
}

// Run is a convenience wrapper around New and Simulator.Run.
func Run(ctx context.Context, config Config) (*Result, error) {
	sim, err := New(config)
	if err != nil {
		return nil, err
	}
	return sim.Run(ctx)
}

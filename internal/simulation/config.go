package simulation

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/coinbets/internal/gambler"
	"github.com/lox/coinbets/internal/policy"
	"github.com/lox/coinbets/internal/randutil"
)

// ErrInvalidConfig is returned by Validate and New for unusable configurations.
var ErrInvalidConfig = errors.New("invalid simulation config")

// Strategy names a betting policy. Names label the series handed to plotting.
type Strategy struct {
	Name   string
	Policy policy.Policy
}

// CoinFactory builds the coin for the strategy at the given index. Every
// strategy gets its own coin so their draws stay independent.
type CoinFactory func(stream int) (gambler.Coin, error)

// Config holds configuration for a simulation run
type Config struct {
	Trials         int     // parallel games per strategy (B)
	Rounds         int     // snapshots per series including round 0 (T)
	InitialWealth  float64 // starting wealth of every trial
	WinProbability float64 // coin bias p
	Seed           int64
	Parallel       bool // play strategies on separate goroutines
	Strategies     []Strategy

	// ProgressEvery logs a debug line every n rounds. Zero picks Rounds/10.
	ProgressEvery int

	Logger *log.Logger
	Clock  quartz.Clock
	// NewCoin overrides the default biased coin, mainly for tests.
	NewCoin CoinFactory
}

// Validate reports the first problem with the configuration.
func (c *Config) Validate() error {
	if c.Trials < 1 {
		return fmt.Errorf("%w: trials must be at least 1, got %d", ErrInvalidConfig, c.Trials)
	}
	if c.Rounds < 1 {
		return fmt.Errorf("%w: rounds must be at least 1, got %d", ErrInvalidConfig, c.Rounds)
	}
	if c.InitialWealth < 0 || math.IsNaN(c.InitialWealth) || math.IsInf(c.InitialWealth, 0) {
		return fmt.Errorf("%w: initial wealth must be finite and non-negative, got %v", ErrInvalidConfig, c.InitialWealth)
	}
	if math.IsNaN(c.WinProbability) || c.WinProbability < 0 || c.WinProbability > 1 {
		return fmt.Errorf("%w: win probability must be in [0,1], got %v", ErrInvalidConfig, c.WinProbability)
	}
	if len(c.Strategies) == 0 {
		return fmt.Errorf("%w: at least one strategy is required", ErrInvalidConfig)
	}

	seen := make(map[string]bool, len(c.Strategies))
	for i, s := range c.Strategies {
		if s.Name == "" {
			return fmt.Errorf("%w: strategy %d has no name", ErrInvalidConfig, i)
		}
		if seen[s.Name] {
			return fmt.Errorf("%w: duplicate strategy %q", ErrInvalidConfig, s.Name)
		}
		seen[s.Name] = true
		if s.Policy == nil {
			return fmt.Errorf("%w: strategy %q has no policy", ErrInvalidConfig, s.Name)
		}
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Logger == nil {
		c.Logger = log.New(io.Discard)
	}
	if c.Clock == nil {
		c.Clock = quartz.NewReal()
	}
	if c.ProgressEvery <= 0 {
		c.ProgressEvery = max(1, c.Rounds/10)
	}
	if c.NewCoin == nil {
		p, seed := c.WinProbability, c.Seed
		c.NewCoin = func(stream int) (gambler.Coin, error) {
			return gambler.NewBiasedCoin(p, randutil.NewStream(seed, stream))
		}
	}
}

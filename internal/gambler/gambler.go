// Package gambler advances a batch of independent betting trials one coin toss
// at a time.
package gambler

import (
	"errors"
	"fmt"
	"math"

	"github.com/lox/coinbets/internal/policy"
)

var (
	// ErrShapeMismatch is returned when a policy or coin produces a vector
	// whose length differs from the number of trials.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrInvalidBet is returned when a policy stakes a negative, non-finite
	// or larger-than-wealth amount.
	ErrInvalidBet = errors.New("invalid bet")
)

// Gambler plays B trials in lockstep under a single policy. It is the sole
// owner of its wealth vector.
type Gambler struct {
	wealth []float64
	policy policy.Policy
	coin   Coin
}

// New creates a gambler holding a copy of initial.
func New(initial []float64, p policy.Policy, coin Coin) (*Gambler, error) {
	if p == nil {
		return nil, errors.New("gambler requires a policy")
	}
	if coin == nil {
		return nil, errors.New("gambler requires a coin")
	}
	for i, w := range initial {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("initial wealth of trial %d must be finite and non-negative, got %v", i, w)
		}
	}

	wealth := make([]float64, len(initial))
	copy(wealth, initial)
	return &Gambler{wealth: wealth, policy: p, coin: coin}, nil
}

// Play simulates one round: every trial stakes what the policy asks for, the
// coin is tossed once per trial and the stake is won or lost. Wealth that would
// drop below zero is clamped to zero, which is absorbing for proportional bets.
//
// A bet vector of the wrong length, or a stake outside [0, wealth], is rejected
// before any coin is tossed and leaves the wealth unchanged.
func (g *Gambler) Play() error {
	n := len(g.wealth)

	bet := g.policy.Bet(g.Wealth())
	if len(bet) != n {
		return fmt.Errorf("%w: policy returned %d bets for %d trials", ErrShapeMismatch, len(bet), n)
	}
	for i, b := range bet {
		if math.IsNaN(b) || b < 0 || b > g.wealth[i] {
			return fmt.Errorf("%w: trial %d staked %v with wealth %v", ErrInvalidBet, i, b, g.wealth[i])
		}
	}

	outcomes := g.coin.Toss(n)
	if len(outcomes) != n {
		return fmt.Errorf("%w: coin returned %d outcomes for %d trials", ErrShapeMismatch, len(outcomes), n)
	}

	for i, won := range outcomes {
		switch {
		case won:
			g.wealth[i] += bet[i]
		case bet[i] >= g.wealth[i]:
			// all-in loss; also keeps Inf-Inf from producing NaN
			g.wealth[i] = 0
		default:
			g.wealth[i] -= bet[i]
		}
		if g.wealth[i] < 0 {
			g.wealth[i] = 0
		}
	}
	return nil
}

// Wealth returns a copy of the current wealth of every trial.
func (g *Gambler) Wealth() []float64 {
	out := make([]float64, len(g.wealth))
	copy(out, g.wealth)
	return out
}

// Trials returns the number of parallel trials.
func (g *Gambler) Trials() int {
	return len(g.wealth)
}

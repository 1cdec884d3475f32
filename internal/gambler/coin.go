package gambler

import (
	"fmt"
	"math"
	rand "math/rand/v2"

	"github.com/lox/coinbets/internal/policy"
)

// Coin produces n independent tosses. true means the gambler wins the toss.
type Coin interface {
	Toss(n int) []bool
}

// BiasedCoin lands heads (a win) with probability p.
type BiasedCoin struct {
	p   float64
	rng *rand.Rand
}

// NewBiasedCoin returns a coin with win probability p drawing from rng.
func NewBiasedCoin(p float64, rng *rand.Rand) (*BiasedCoin, error) {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return nil, fmt.Errorf("%w: win probability must be in [0,1], got %v", policy.ErrInvalidParameter, p)
	}
	if rng == nil {
		return nil, fmt.Errorf("biased coin requires a random source")
	}
	return &BiasedCoin{p: p, rng: rng}, nil
}

// Toss draws n Bernoulli(p) outcomes.
func (c *BiasedCoin) Toss(n int) []bool {
	out := make([]bool, n)
	for i := range out {
		out[i] = c.rng.Float64() < c.p
	}
	return out
}

// P returns the win probability.
func (c *BiasedCoin) P() float64 {
	return c.p
}

// Package policy defines betting policies: rules that map a gambler's current
// wealth vector to the vector of stakes for the next coin toss.
package policy

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParameter is returned when a policy is constructed with a
// parameter outside its valid range.
var ErrInvalidParameter = errors.New("invalid policy parameter")

// Policy sizes one bet per trial. Implementations must return a slice of the
// same length as wealth and must not retain or modify the input.
type Policy interface {
	Bet(wealth []float64) []float64
}

// PolicyFunc adapts an ordinary function to the Policy interface.
type PolicyFunc func(wealth []float64) []float64

// Bet calls f(wealth).
func (f PolicyFunc) Bet(wealth []float64) []float64 {
	return f(wealth)
}

// FixedFraction stakes a constant fraction of current wealth every round.
type FixedFraction struct {
	f float64
}

// NewFixedFraction returns a policy staking fraction f of wealth.
// f must be a finite value in [0, 1].
func NewFixedFraction(f float64) (*FixedFraction, error) {
	if err := checkUnit("fraction", f); err != nil {
		return nil, err
	}
	return &FixedFraction{f: f}, nil
}

// Bet returns f * wealth elementwise as a new slice.
func (p *FixedFraction) Bet(wealth []float64) []float64 {
	bet := make([]float64, len(wealth))
	for i, w := range wealth {
		bet[i] = p.f * w
	}
	return bet
}

// Fraction returns the staked fraction.
func (p *FixedFraction) Fraction() float64 {
	return p.f
}

func (p *FixedFraction) String() string {
	return fmt.Sprintf("fixed(%.4g)", p.f)
}

// KellyFraction returns the fixed fraction p - q that maximises the expected
// log-growth of wealth for an even-money coin that wins with probability p.
// An unfavourable coin (p < 0.5) yields 0.
func KellyFraction(p float64) (float64, error) {
	if err := checkUnit("win probability", p); err != nil {
		return 0, err
	}
	return math.Max(0, p-(1-p)), nil
}

// NewKelly returns a fixed-fraction policy staking scale times the Kelly
// fraction for win probability p. scale 1 is full Kelly, 0.5 is half Kelly.
func NewKelly(p, scale float64) (*FixedFraction, error) {
	if err := checkUnit("kelly scale", scale); err != nil {
		return nil, err
	}
	k, err := KellyFraction(p)
	if err != nil {
		return nil, err
	}
	return NewFixedFraction(scale * k)
}

func checkUnit(name string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return fmt.Errorf("%w: %s must be in [0,1], got %v", ErrInvalidParameter, name, v)
	}
	return nil
}

// ExpectedGrowth returns the expected per-round log growth of wealth when
// staking fraction f on a coin that wins with probability p:
// p*log(1+f) + (1-p)*log(1-f). Staking everything on a coin that can lose
// yields -Inf.
func ExpectedGrowth(p, f float64) float64 {
	q := 1 - p
	switch {
	case f == 1 && q > 0:
		return math.Inf(-1)
	case f == 1:
		return math.Log(2)
	}
	return p*math.Log1p(f) + q*math.Log1p(-f)
}

package simulation

import (
	"time"

	"github.com/lox/coinbets/internal/policy"
)

// Series is the wealth history of one strategy: one snapshot per round, each
// snapshot holding the wealth of every trial (a rounds x trials matrix).
type Series struct {
	Name   string
	Policy policy.Policy
	Wealth [][]float64
}

// Len returns the number of recorded rounds.
func (s *Series) Len() int {
	return len(s.Wealth)
}

// At returns the snapshot recorded for round r.
func (s *Series) At(r int) []float64 {
	return s.Wealth[r]
}

// Initial returns the round 0 snapshot.
func (s *Series) Initial() []float64 {
	return s.Wealth[0]
}

// Final returns the last recorded snapshot.
func (s *Series) Final() []float64 {
	return s.Wealth[len(s.Wealth)-1]
}

// Trial returns the wealth path of a single trial across all rounds.
func (s *Series) Trial(i int) []float64 {
	path := make([]float64, len(s.Wealth))
	for r, snap := range s.Wealth {
		path[r] = snap[i]
	}
	return path
}

// Fraction reports the staked fraction when the policy is fixed-fraction.
func (s *Series) Fraction() (float64, bool) {
	if f, ok := s.Policy.(interface{ Fraction() float64 }); ok {
		return f.Fraction(), true
	}
	return 0, false
}

// Result is the output of one simulation run.
type Result struct {
	RunID          string
	StartedAt      time.Time
	Elapsed        time.Duration
	Trials         int
	Rounds         int
	InitialWealth  float64
	WinProbability float64
	Seed           int64

	series []*Series
	index  map[string]int
}

// Names returns strategy names in configuration order.
func (r *Result) Names() []string {
	names := make([]string, len(r.series))
	for i, s := range r.series {
		names[i] = s.Name
	}
	return names
}

// Series looks up the series recorded for name.
func (r *Result) Series(name string) (*Series, bool) {
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.series[i], true
}

// All returns every series in configuration order.
func (r *Result) All() []*Series {
	return r.series
}

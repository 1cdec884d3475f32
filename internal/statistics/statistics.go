// Package statistics summarises the final wealth distribution of a strategy.
package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/coinbets/internal/simulation"
)

// Statistics accumulates trial outcomes for one strategy
type Statistics struct {
	Name    string
	Trials  int
	Sum     float64
	Sum2    float64   // Sum of squares for variance calculation
	Values  []float64 // Final wealth per trial for median/percentile calculation
	Growth  []float64 // Per-round log growth rate per trial (-Inf when ruined)
	Ruined  int       // Trials that finished with zero wealth
	MaxSeen float64   // Largest final wealth observed
}

// Add incorporates one trial that started at initial and finished at final
// after the given number of plays.
func (s *Statistics) Add(initial, final float64, plays int) {
	s.Trials++
	s.Sum += final
	s.Sum2 += final * final
	s.Values = append(s.Values, final)

	if final == 0 {
		s.Ruined++
	}
	if final > s.MaxSeen {
		s.MaxSeen = final
	}
	s.Growth = append(s.Growth, growthRate(initial, final, plays))
}

func growthRate(initial, final float64, plays int) float64 {
	switch {
	case plays == 0 || initial == final:
		return 0
	case final == 0:
		return math.Inf(-1)
	case initial == 0:
		return math.Inf(1)
	}
	return math.Log(final/initial) / float64(plays)
}

// Mean returns the arithmetic mean of final wealth
func (s *Statistics) Mean() float64 {
	if s.Trials == 0 {
		return 0
	}
	return s.Sum / float64(s.Trials)
}

// Variance returns the sample variance of final wealth
func (s *Statistics) Variance() float64 {
	if s.Trials < 2 {
		return 0
	}
	mean := s.Mean()
	v := (s.Sum2 - float64(s.Trials)*mean*mean) / float64(s.Trials-1)
	return math.Max(0, v)
}

// StdDev returns the sample standard deviation of final wealth
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Trials == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Trials))
}

// Median returns the median final wealth
func (s *Statistics) Median() float64 {
	return median(s.Values)
}

// Percentile returns the final wealth at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := sortedCopy(s.Values)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// RuinRate returns the fraction of trials that went broke
func (s *Statistics) RuinRate() float64 {
	if s.Trials == 0 {
		return 0
	}
	return float64(s.Ruined) / float64(s.Trials)
}

// MedianGrowthRate returns the median per-round log growth rate. The median
// stays finite as long as fewer than half the trials are ruined.
func (s *Statistics) MedianGrowthRate() float64 {
	return median(s.Growth)
}

// Validate performs consistency checks on the accumulated data
func (s *Statistics) Validate() error {
	if s.Trials <= 0 {
		return fmt.Errorf("invalid trials count: %d", s.Trials)
	}
	if len(s.Values) != s.Trials {
		return fmt.Errorf("values array length (%d) does not match trials count (%d)",
			len(s.Values), s.Trials)
	}
	if len(s.Growth) != s.Trials {
		return fmt.Errorf("growth array length (%d) does not match trials count (%d)",
			len(s.Growth), s.Trials)
	}
	if s.Ruined > s.Trials {
		return fmt.Errorf("ruined trials (%d) exceeds total trials (%d)", s.Ruined, s.Trials)
	}
	for i, v := range s.Values {
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("trial %d has invalid final wealth %v", i, v)
		}
	}
	return nil
}

// Summary is a flat snapshot of Statistics for reporting.
type Summary struct {
	Name             string
	Fraction         float64
	HasFraction      bool
	Trials           int
	Mean             float64
	Median           float64
	StdDev           float64
	StdError         float64
	P05              float64
	P95              float64
	Max              float64
	Ruined           int
	RuinRate         float64
	MedianGrowthRate float64
}

// Summary captures the derived statistics.
func (s *Statistics) Summary() Summary {
	return Summary{
		Name:             s.Name,
		Trials:           s.Trials,
		Mean:             s.Mean(),
		Median:           s.Median(),
		StdDev:           s.StdDev(),
		StdError:         s.StdError(),
		P05:              s.Percentile(0.05),
		P95:              s.Percentile(0.95),
		Max:              s.MaxSeen,
		Ruined:           s.Ruined,
		RuinRate:         s.RuinRate(),
		MedianGrowthRate: s.MedianGrowthRate(),
	}
}

// FromSeries accumulates the final snapshot of a series.
func FromSeries(series *simulation.Series) (*Statistics, error) {
	if series.Len() == 0 {
		return nil, fmt.Errorf("series %q has no snapshots", series.Name)
	}

	stats := &Statistics{Name: series.Name}
	initial, final := series.Initial(), series.Final()
	if len(initial) != len(final) {
		return nil, fmt.Errorf("series %q: initial has %d trials, final has %d", series.Name, len(initial), len(final))
	}
	for i := range final {
		stats.Add(initial[i], final[i], series.Len()-1)
	}
	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("series %q: %w", series.Name, err)
	}
	return stats, nil
}

// Summarize builds one summary per strategy in result order.
func Summarize(result *simulation.Result) ([]Summary, error) {
	summaries := make([]Summary, 0, len(result.All()))
	for _, series := range result.All() {
		stats, err := FromSeries(series)
		if err != nil {
			return nil, err
		}
		summary := stats.Summary()
		summary.Fraction, summary.HasFraction = series.Fraction()
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := sortedCopy(values)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

func sortedCopy(values []float64) []float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return sorted
}

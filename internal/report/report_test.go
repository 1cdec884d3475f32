package report

import (
	"bytes"
	"context"
	"math"
	"strings"
	"testing"

	"github.com/lox/coinbets/internal/policy"
	"github.com/lox/coinbets/internal/simulation"
	"github.com/lox/coinbets/internal/statistics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	out := Render([]statistics.Summary{
		{Name: "kelly", HasFraction: true, Fraction: 0.2, Trials: 10, Median: 1234.5, Mean: 2000, MedianGrowthRate: 0.0201},
		{Name: "all_or_nothing", HasFraction: true, Fraction: 1, Trials: 10, Ruined: 10, RuinRate: 1, MedianGrowthRate: math.Inf(-1)},
		{Name: "custom", Trials: 10},
	})

	for _, col := range Columns {
		assert.Contains(t, out, col)
	}
	assert.Contains(t, out, "kelly")
	assert.Contains(t, out, "1234.5")
	assert.Contains(t, out, "+0.0201")
	assert.Contains(t, out, "10 (100%)")
	assert.Contains(t, out, "ruin")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	// top border, header, separator, 3 rows, bottom border
	assert.Len(t, lines, 7)
}

func TestMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{100, "100"},
		{75.5, "75.5"},
		{12.346, "12.35"},
		{2e9, "2.000e+09"},
		{0.001, "1.000e-03"},
		{math.Inf(1), "+Inf"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, money(tt.in), "money(%v)", tt.in)
	}
}

func TestWrite(t *testing.T) {
	half, err := policy.NewFixedFraction(0.5)
	require.NoError(t, err)

	res, err := simulation.Run(context.Background(), simulation.Config{
		Trials:         10,
		Rounds:         20,
		InitialWealth:  100,
		WinProbability: 0.6,
		Seed:           1,
		Strategies:     []simulation.Strategy{{Name: "halving", Policy: half}},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, res))

	out := buf.String()
	assert.Contains(t, out, "10 games x 20 rounds")
	assert.Contains(t, out, res.RunID)
	assert.Contains(t, out, "halving")
}

// Package report renders per-strategy wealth summaries for the terminal.
package report

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/lox/coinbets/internal/simulation"
	"github.com/lox/coinbets/internal/statistics"
)

// Columns in render order.
var Columns = []string{"Strategy", "f", "Median", "Mean", "P05", "P95", "Max", "Ruined", "Growth/round"}

const ruinColumn = 7

// Render draws the summaries as a table.
func Render(summaries []statistics.Summary) string {
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, row(s))
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(BorderStyle).
		Headers(Columns...).
		Rows(rows...).
		StyleFunc(func(r, c int) lipgloss.Style {
			switch {
			case r == table.HeaderRow:
				return HeaderStyle
			case c == 0:
				return NameStyle
			case c == ruinColumn && r >= 0 && r < len(summaries) && summaries[r].Ruined > 0:
				return RuinStyle
			default:
				return CellStyle
			}
		})

	return t.String()
}

// Write prints a one-line run description followed by the summary table.
func Write(w io.Writer, result *simulation.Result) error {
	summaries, err := statistics.Summarize(result)
	if err != nil {
		return err
	}

	header := fmt.Sprintf("%d games x %d rounds, p=%.3g, start=%s, seed=%d, run=%s (%s)",
		result.Trials, result.Rounds, result.WinProbability, money(result.InitialWealth),
		result.Seed, result.RunID, result.Elapsed.Round(time.Millisecond))

	_, err = fmt.Fprintf(w, "%s\n%s\n", InfoStyle.Render(header), Render(summaries))
	return err
}

func row(s statistics.Summary) []string {
	fraction := "-"
	if s.HasFraction {
		fraction = fmt.Sprintf("%.3g", s.Fraction)
	}
	return []string{
		s.Name,
		fraction,
		money(s.Median),
		money(s.Mean),
		money(s.P05),
		money(s.P95),
		money(s.Max),
		fmt.Sprintf("%d (%.0f%%)", s.Ruined, 100*s.RuinRate),
		rate(s.MedianGrowthRate),
	}
}

// money keeps huge all-in fortunes readable.
func money(v float64) string {
	switch {
	case math.IsInf(v, 0) || math.IsNaN(v):
		return fmt.Sprint(v)
	case v != 0 && (math.Abs(v) >= 1e7 || math.Abs(v) < 0.01):
		return fmt.Sprintf("%.3e", v)
	default:
		return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
	}
}

func rate(v float64) string {
	if math.IsInf(v, -1) {
		return "ruin"
	}
	return fmt.Sprintf("%+.4f", v)
}

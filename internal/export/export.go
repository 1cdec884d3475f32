// Package export writes simulated wealth series in formats plotting tools
// can consume.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/lox/coinbets/internal/fileutil"
	"github.com/lox/coinbets/internal/simulation"
)

// Format selects the series encoding.
type Format string

const (
	// CSV writes one row per (strategy, round, trial) in long format.
	CSV Format = "csv"
	// JSON writes run metadata plus a rounds x trials matrix per strategy.
	JSON Format = "json"
)

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case CSV, JSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want csv or json)", name)
	}
}

// FormatFromPath infers the format from a file extension, defaulting to CSV.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return JSON
	}
	return CSV
}

// Document is the JSON export layout.
type Document struct {
	RunID          string           `json:"run_id"`
	StartedAt      time.Time        `json:"started_at"`
	ElapsedSeconds float64          `json:"elapsed_seconds"`
	Trials         int              `json:"trials"`
	Rounds         int              `json:"rounds"`
	InitialWealth  float64          `json:"initial_wealth"`
	WinProbability float64          `json:"win_probability"`
	Seed           int64            `json:"seed"`
	Strategies     []StrategySeries `json:"strategies"`
}

// StrategySeries is one labelled wealth matrix.
type StrategySeries struct {
	Name     string      `json:"name"`
	Fraction *float64    `json:"fraction,omitempty"`
	Wealth   [][]float64 `json:"wealth"`
}

// NewDocument converts a result into its JSON layout.
func NewDocument(result *simulation.Result) Document {
	doc := Document{
		RunID:          result.RunID,
		StartedAt:      result.StartedAt,
		ElapsedSeconds: result.Elapsed.Seconds(),
		Trials:         result.Trials,
		Rounds:         result.Rounds,
		InitialWealth:  result.InitialWealth,
		WinProbability: result.WinProbability,
		Seed:           result.Seed,
	}
	for _, s := range result.All() {
		ss := StrategySeries{Name: s.Name, Wealth: s.Wealth}
		if f, ok := s.Fraction(); ok {
			ss.Fraction = &f
		}
		doc.Strategies = append(doc.Strategies, ss)
	}
	return doc
}

// Write encodes result to w.
func Write(w io.Writer, result *simulation.Result, format Format) error {
	switch format {
	case CSV:
		return writeCSV(w, result)
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(NewDocument(result)); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// WriteFile encodes result into path atomically.
func WriteFile(path string, result *simulation.Result, format Format) error {
	return fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return Write(w, result, format)
	})
}

// CSVHeader is the header row of CSV exports.
var CSVHeader = []string{"strategy", "round", "trial", "wealth"}

func writeCSV(w io.Writer, result *simulation.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	row := make([]string, len(CSVHeader))
	for _, s := range result.All() {
		row[0] = s.Name
		for round, snap := range s.Wealth {
			row[1] = strconv.Itoa(round)
			for trial, wealth := range snap {
				row[2] = strconv.Itoa(trial)
				row[3] = strconv.FormatFloat(wealth, 'g', -1, 64)
				if err := cw.Write(row); err != nil {
					return fmt.Errorf("write csv row: %w", err)
				}
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

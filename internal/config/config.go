// Package config loads simulation run configuration from HCL or YAML files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/coinbets/internal/policy"
	"github.com/lox/coinbets/internal/simulation"
	"gopkg.in/yaml.v3"
)

// Defaults used when a file or flag leaves a value unset.
const (
	DefaultTrials         = 50
	DefaultRounds         = 1000
	DefaultInitialWealth  = 100.0
	DefaultWinProbability = 0.6
)

// File represents the complete run configuration
type File struct {
	Simulation *SimulationSettings `hcl:"simulation,block" yaml:"simulation"`
	Strategies []StrategyConfig    `hcl:"strategy,block" yaml:"strategies"`
}

// SimulationSettings contains run-level configuration. Nil fields fall back
// to defaults.
type SimulationSettings struct {
	Trials         *int     `hcl:"trials,optional" yaml:"trials"`
	Rounds         *int     `hcl:"rounds,optional" yaml:"rounds"`
	InitialWealth  *float64 `hcl:"initial_wealth,optional" yaml:"initial_wealth"`
	WinProbability *float64 `hcl:"win_probability,optional" yaml:"win_probability"`
	Seed           *int64   `hcl:"seed,optional" yaml:"seed"`
	Parallel       *bool    `hcl:"parallel,optional" yaml:"parallel"`
}

// StrategyConfig defines one named betting strategy. Either Fraction is set,
// or Kelly is true with an optional Scale (default 1).
type StrategyConfig struct {
	Name     string   `hcl:"name,label" yaml:"name"`
	Fraction *float64 `hcl:"fraction,optional" yaml:"fraction"`
	Kelly    bool     `hcl:"kelly,optional" yaml:"kelly"`
	Scale    *float64 `hcl:"scale,optional" yaml:"scale"`
}

// Default returns the classic comparison: all-in, Kelly and halving.
func Default() *File {
	allIn, half := 1.0, 0.5
	return &File{
		Simulation: &SimulationSettings{},
		Strategies: []StrategyConfig{
			{Name: "all_or_nothing", Fraction: &allIn},
			{Name: "kelly", Kelly: true},
			{Name: "halving", Fraction: &half},
		},
	}
}

// Load reads configuration from an HCL or YAML file, chosen by extension.
// A missing file yields Default().
func Load(filename string) (*File, error) {
	data, err := os.ReadFile(filename)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".hcl":
		return ParseHCL(data, filename)
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return nil, fmt.Errorf("unsupported config format %q (want .hcl, .yaml or .yml)", filepath.Ext(filename))
	}
}

// ParseHCL decodes an HCL document.
func ParseHCL(src []byte, filename string) (*File, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config File
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	return config.normalize(), nil
}

// ParseYAML decodes a YAML document.
func ParseYAML(src []byte) (*File, error) {
	var config File
	if err := yaml.Unmarshal(src, &config); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return config.normalize(), nil
}

// normalize fills an absent simulation block and falls back to the default
// strategies when none are configured.
func (f *File) normalize() *File {
	if f.Simulation == nil {
		f.Simulation = &SimulationSettings{}
	}
	if len(f.Strategies) == 0 {
		f.Strategies = Default().Strategies
	}
	return f
}

// Policy builds the betting policy for a strategy at win probability p.
func (s StrategyConfig) Policy(p float64) (policy.Policy, error) {
	switch {
	case s.Kelly && s.Fraction != nil:
		return nil, fmt.Errorf("strategy %q: fraction and kelly are mutually exclusive", s.Name)
	case s.Kelly:
		scale := 1.0
		if s.Scale != nil {
			scale = *s.Scale
		}
		return policy.NewKelly(p, scale)
	case s.Scale != nil:
		return nil, fmt.Errorf("strategy %q: scale only applies to kelly strategies", s.Name)
	case s.Fraction == nil:
		return nil, fmt.Errorf("strategy %q: one of fraction or kelly is required", s.Name)
	default:
		return policy.NewFixedFraction(*s.Fraction)
	}
}

// Build converts the file into a simulation configuration. Policy parameters
// are checked here, before any round is played.
func (f *File) Build(logger *log.Logger) (simulation.Config, error) {
	f.normalize()
	settings := f.Simulation

	cfg := simulation.Config{
		Trials:         valueOr(settings.Trials, DefaultTrials),
		Rounds:         valueOr(settings.Rounds, DefaultRounds),
		InitialWealth:  valueOr(settings.InitialWealth, DefaultInitialWealth),
		WinProbability: valueOr(settings.WinProbability, DefaultWinProbability),
		Seed:           valueOr(settings.Seed, 0),
		Parallel:       valueOr(settings.Parallel, false),
		Logger:         logger,
	}

	for _, s := range f.Strategies {
		p, err := s.Policy(cfg.WinProbability)
		if err != nil {
			return simulation.Config{}, fmt.Errorf("strategy %q: %w", s.Name, err)
		}
		cfg.Strategies = append(cfg.Strategies, simulation.Strategy{Name: s.Name, Policy: p})
	}

	if err := cfg.Validate(); err != nil {
		return simulation.Config{}, err
	}
	return cfg, nil
}

// ParseStrategyFlag parses a command line strategy of the form
// "name=0.5", "name=kelly" or "name=kelly:0.5".
func ParseStrategyFlag(value string) (StrategyConfig, error) {
	name, rule, ok := strings.Cut(value, "=")
	name, rule = strings.TrimSpace(name), strings.TrimSpace(rule)
	if !ok || name == "" || rule == "" {
		return StrategyConfig{}, fmt.Errorf("invalid strategy %q: want name=fraction, name=kelly or name=kelly:scale", value)
	}

	if kind, scale, hasScale := strings.Cut(rule, ":"); strings.EqualFold(kind, "kelly") {
		s := StrategyConfig{Name: name, Kelly: true}
		if hasScale {
			v, err := strconv.ParseFloat(scale, 64)
			if err != nil {
				return StrategyConfig{}, fmt.Errorf("invalid kelly scale in %q: %w", value, err)
			}
			s.Scale = &v
		}
		return s, nil
	}

	f, err := strconv.ParseFloat(rule, 64)
	if err != nil {
		return StrategyConfig{}, fmt.Errorf("invalid fraction in %q: %w", value, err)
	}
	return StrategyConfig{Name: name, Fraction: &f}, nil
}

func valueOr[T any](v *T, fallback T) T {
	if v == nil {
		return fallback
	}
	return *v
}

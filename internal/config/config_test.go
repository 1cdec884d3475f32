package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lox/coinbets/internal/policy"
	"github.com/lox/coinbets/internal/simulation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHCL = `
simulation {
  trials          = 20
  rounds          = 300
  initial_wealth  = 50
  win_probability = 0.55
  seed            = 7
  parallel        = true
}

strategy "all_in" {
  fraction = 1.0
}

strategy "kelly" {
  kelly = true
}

strategy "half_kelly" {
  kelly = true
  scale = 0.5
}
`

const sampleYAML = `
simulation:
  trials: 20
  rounds: 300
  initial_wealth: 50
  win_probability: 0.55
  seed: 7
  parallel: true
strategies:
  - name: all_in
    fraction: 1.0
  - name: kelly
    kelly: true
  - name: half_kelly
    kelly: true
    scale: 0.5
`

func fraction(t *testing.T, s simulation.Strategy) float64 {
	t.Helper()
	ff, ok := s.Policy.(*policy.FixedFraction)
	require.True(t, ok, "strategy %q is not fixed-fraction", s.Name)
	return ff.Fraction()
}

func assertSample(t *testing.T, file *File) {
	t.Helper()

	cfg, err := file.Build(nil)
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.Trials)
	assert.Equal(t, 300, cfg.Rounds)
	assert.Equal(t, 50.0, cfg.InitialWealth)
	assert.Equal(t, 0.55, cfg.WinProbability)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.True(t, cfg.Parallel)

	require.Len(t, cfg.Strategies, 3)
	assert.Equal(t, "all_in", cfg.Strategies[0].Name)
	assert.Equal(t, 1.0, fraction(t, cfg.Strategies[0]))
	assert.InDelta(t, 0.1, fraction(t, cfg.Strategies[1]), 1e-12)
	assert.InDelta(t, 0.05, fraction(t, cfg.Strategies[2]), 1e-12)
}

func TestParseHCL(t *testing.T) {
	file, err := ParseHCL([]byte(sampleHCL), "sample.hcl")
	require.NoError(t, err)
	assertSample(t, file)
}

func TestParseYAML(t *testing.T) {
	file, err := ParseYAML([]byte(sampleYAML))
	require.NoError(t, err)
	assertSample(t, file)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	hclPath := filepath.Join(dir, "run.hcl")
	require.NoError(t, os.WriteFile(hclPath, []byte(sampleHCL), 0o644))
	file, err := Load(hclPath)
	require.NoError(t, err)
	assertSample(t, file)

	yamlPath := filepath.Join(dir, "run.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(sampleYAML), 0o644))
	file, err = Load(yamlPath)
	require.NoError(t, err)
	assertSample(t, file)

	txtPath := filepath.Join(dir, "run.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("x"), 0o644))
	_, err = Load(txtPath)
	assert.Error(t, err)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	file, err := Load(filepath.Join(t.TempDir(), "absent.hcl"))
	require.NoError(t, err)

	cfg, err := file.Build(nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultTrials, cfg.Trials)
	assert.Equal(t, DefaultRounds, cfg.Rounds)
	assert.Equal(t, DefaultInitialWealth, cfg.InitialWealth)
	assert.Equal(t, DefaultWinProbability, cfg.WinProbability)
	assert.False(t, cfg.Parallel)

	require.Len(t, cfg.Strategies, 3)
	assert.Equal(t, "all_or_nothing", cfg.Strategies[0].Name)
	assert.Equal(t, 1.0, fraction(t, cfg.Strategies[0]))
	assert.Equal(t, "kelly", cfg.Strategies[1].Name)
	assert.InDelta(t, 0.2, fraction(t, cfg.Strategies[1]), 1e-12)
	assert.Equal(t, "halving", cfg.Strategies[2].Name)
	assert.Equal(t, 0.5, fraction(t, cfg.Strategies[2]))
}

func TestParseHCL_Errors(t *testing.T) {
	_, err := ParseHCL([]byte(`simulation {`), "broken.hcl")
	assert.Error(t, err)

	_, err = ParseHCL([]byte(`simulation { trials = "many" }`), "typed.hcl")
	assert.Error(t, err)
}

func TestBuild_InvalidFractionFailsBeforeRunning(t *testing.T) {
	file, err := ParseHCL([]byte(`
strategy "reckless" {
  fraction = 1.5
}
`), "reckless.hcl")
	require.NoError(t, err)

	_, err = file.Build(nil)
	assert.ErrorIs(t, err, policy.ErrInvalidParameter)
}

func TestBuild_InvalidSimulation(t *testing.T) {
	file := Default()
	zero := 0
	file.Simulation.Trials = &zero

	_, err := file.Build(nil)
	assert.ErrorIs(t, err, simulation.ErrInvalidConfig)
}

func TestStrategyConfigPolicy(t *testing.T) {
	half := 0.5

	tests := []struct {
		name    string
		s       StrategyConfig
		want    float64
		wantErr bool
	}{
		{"fraction", StrategyConfig{Name: "a", Fraction: &half}, 0.5, false},
		{"kelly", StrategyConfig{Name: "b", Kelly: true}, 0.2, false},
		{"scaled kelly", StrategyConfig{Name: "c", Kelly: true, Scale: &half}, 0.1, false},
		{"both", StrategyConfig{Name: "d", Kelly: true, Fraction: &half}, 0, true},
		{"neither", StrategyConfig{Name: "e"}, 0, true},
		{"scale without kelly", StrategyConfig{Name: "f", Fraction: &half, Scale: &half}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tt.s.Policy(0.6)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, p.(*policy.FixedFraction).Fraction(), 1e-12)
		})
	}
}

func TestParseStrategyFlag(t *testing.T) {
	s, err := ParseStrategyFlag("halving=0.5")
	require.NoError(t, err)
	assert.Equal(t, "halving", s.Name)
	require.NotNil(t, s.Fraction)
	assert.Equal(t, 0.5, *s.Fraction)

	s, err = ParseStrategyFlag("k=kelly")
	require.NoError(t, err)
	assert.True(t, s.Kelly)
	assert.Nil(t, s.Scale)

	s, err = ParseStrategyFlag("hk = KELLY:0.5")
	require.NoError(t, err)
	assert.Equal(t, "hk", s.Name)
	assert.True(t, s.Kelly)
	require.NotNil(t, s.Scale)
	assert.Equal(t, 0.5, *s.Scale)

	for _, bad := range []string{"", "noequals", "=0.5", "x=", "x=abc", "x=kelly:abc"} {
		_, err := ParseStrategyFlag(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

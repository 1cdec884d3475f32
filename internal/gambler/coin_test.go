package gambler

import (
	"testing"

	"github.com/lox/coinbets/internal/policy"
	"github.com/lox/coinbets/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBiasedCoinFrequency(t *testing.T) {
	coin, err := NewBiasedCoin(0.6, randutil.New(12345))
	require.NoError(t, err)

	const n = 100000
	wins := 0
	for _, won := range coin.Toss(n) {
		if won {
			wins++
		}
	}

	// 0.6 ± ~6 standard errors
	assert.InDelta(t, 0.6, float64(wins)/n, 0.01)
	assert.Equal(t, 0.6, coin.P())
}

func TestBiasedCoinExtremes(t *testing.T) {
	never, err := NewBiasedCoin(0, randutil.New(1))
	require.NoError(t, err)
	for _, won := range never.Toss(1000) {
		require.False(t, won)
	}

	always, err := NewBiasedCoin(1, randutil.New(1))
	require.NoError(t, err)
	for _, won := range always.Toss(1000) {
		require.True(t, won)
	}
}

func TestBiasedCoinIsReproducible(t *testing.T) {
	a, err := NewBiasedCoin(0.5, randutil.New(9))
	require.NoError(t, err)
	b, err := NewBiasedCoin(0.5, randutil.New(9))
	require.NoError(t, err)

	assert.Equal(t, a.Toss(256), b.Toss(256))
}

func TestNewBiasedCoinValidation(t *testing.T) {
	_, err := NewBiasedCoin(1.1, randutil.New(1))
	assert.ErrorIs(t, err, policy.ErrInvalidParameter)

	_, err = NewBiasedCoin(0.5, nil)
	assert.Error(t, err)
}

package domain

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTerminalSimulatorValidation(t *testing.T) {
	base := SimulationConfig{Spot: 100, Sigma: 0.2, T: 1}

	tests := []struct {
		name    string
		mutate  func(*SimulationConfig)
		wantErr string
	}{
		{"零现价", func(c *SimulationConfig) { c.Spot = 0 }, "spot must be positive"},
		{"NaN 现价", func(c *SimulationConfig) { c.Spot = math.NaN() }, "spot must be positive"},
		{"负波动率", func(c *SimulationConfig) { c.Sigma = -0.1 }, "volatility must be non-negative"},
		{"负期限", func(c *SimulationConfig) { c.T = -1 }, "time horizon must be non-negative"},
		{"NaN 漂移", func(c *SimulationConfig) { c.Drift = math.NaN() }, "drift must be finite"},
		{"倒置区间", func(c *SimulationConfig) { c.DomainLo = 100; c.DomainHi = 50 }, "invalid histogram domain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			_, err := NewTerminalSimulator(cfg)
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestTerminalSimulationDeterministicWithSeed(t *testing.T) {
	cfg := SimulationConfig{
		Spot:      100,
		Sigma:     0.2,
		T:         1,
		Paths:     5000,
		Bins:      40,
		BatchSize: 1000, // 多批合并也必须可复现
		Seed:      42,
	}

	run := func() *SimulationResult {
		sim, err := NewTerminalSimulator(cfg)
		require.NoError(t, err)
		res, err := sim.Run(context.Background())
		require.NoError(t, err)
		return res
	}

	a := run()
	b := run()

	assert.True(t, a.Seeded)
	assert.Equal(t, a.TerminalPrices, b.TerminalPrices)
	assert.Equal(t, a.ProbabilityMass, b.ProbabilityMass)
	assert.Equal(t, a.Quantiles, b.Quantiles)
	assert.Equal(t, a.BinCenters, b.BinCenters)
}

func TestTerminalSimulationMatchesLognormal(t *testing.T) {
	const (
		spot  = 100.0
		sigma = 0.2
		horiz = 1.0
		z95   = 1.6448536269514722
	)
	sim, err := NewTerminalSimulator(SimulationConfig{
		Spot:  spot,
		Sigma: sigma,
		T:     horiz,
		Paths: 500000,
		Seed:  7,
	})
	require.NoError(t, err)

	res, err := sim.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, res.TerminalPrices, 500000)

	// 零漂移下终值期望等于现价
	var sum float64
	for _, p := range res.TerminalPrices {
		require.Greater(t, p, 0.0)
		sum += p
	}
	mean := sum / float64(len(res.TerminalPrices))
	assert.InDelta(t, spot, mean, 1.0)

	// 分位数对照对数正态解析值
	m := math.Log(spot) - 0.5*sigma*sigma*horiz
	s := sigma * math.Sqrt(horiz)
	assert.InEpsilon(t, math.Exp(m-z95*s), res.Quantiles.Q05, 0.03)
	assert.InEpsilon(t, math.Exp(m+z95*s), res.Quantiles.Q95, 0.03)
	assert.Less(t, res.Quantiles.Q01, res.Quantiles.Q05)
	assert.Less(t, res.Quantiles.Q05, res.Quantiles.Q95)
	assert.Less(t, res.Quantiles.Q95, res.Quantiles.Q99)

	// 概率质量守恒，渲染高度峰值为 1
	var mass float64
	peak := 0.0
	for i, pm := range res.ProbabilityMass {
		mass += pm
		peak = math.Max(peak, res.NormalizedHeights[i])
	}
	assert.InDelta(t, 1.0, mass, 1e-9)
	assert.Equal(t, 1.0, peak)
}

func TestTerminalSimulationZeroVolatility(t *testing.T) {
	sim, err := NewTerminalSimulator(SimulationConfig{
		Spot:  100,
		Sigma: 0,
		T:     1,
		Drift: 0.05,
		Paths: 500,
		Seed:  1,
	})
	require.NoError(t, err)

	res, err := sim.Run(context.Background())
	require.NoError(t, err)

	want := 100 * math.Exp(0.05)
	for _, p := range res.TerminalPrices {
		assert.Equal(t, want, p)
	}

	// 全部质量集中于一桶，分位带宽不超过两个桶宽
	binWidth := res.BinCenters[1] - res.BinCenters[0]
	assert.InDelta(t, want, res.Quantiles.Q05, 2*binWidth)
	assert.InDelta(t, want, res.Quantiles.Q95, 2*binWidth)
}

func TestTerminalSimulationCanceledContext(t *testing.T) {
	sim, err := NewTerminalSimulator(SimulationConfig{Spot: 100, Sigma: 0.2, T: 1, Paths: 50000, Seed: 3})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = sim.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTerminalSimulationDefaults(t *testing.T) {
	sim, err := NewTerminalSimulator(SimulationConfig{Spot: 100, Sigma: 0.2, T: 0.5, Seed: 9})
	require.NoError(t, err)

	res, err := sim.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, DefaultPaths, res.Paths)
	assert.Len(t, res.TerminalPrices, DefaultPaths)
	assert.Len(t, res.BinCenters, DefaultBins)
	assert.Len(t, res.ProbabilityMass, DefaultBins)
	assert.True(t, res.Seeded)
}

func TestTerminalSimulationUnseeded(t *testing.T) {
	sim, err := NewTerminalSimulator(SimulationConfig{Spot: 100, Sigma: 0.2, T: 1, Paths: 200, Bins: 20})
	require.NoError(t, err)

	res, err := sim.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Seeded)
}

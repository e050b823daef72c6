package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkts(spot, sigma, t, drift float64) MarketParams {
	return MarketParams{Spot: spot, Sigma: sigma, T: t, Drift: drift}
}

func longCallPayoff(strike, premium float64) PayoffFunc {
	return func(st float64) float64 { return math.Max(st-strike, 0) - premium }
}

func shortCallPayoff(strike, premium float64) PayoffFunc {
	return func(st float64) float64 { return premium - math.Max(st-strike, 0) }
}

func TestPoPSingleThresholdAbove(t *testing.T) {
	// 多头看涨：平衡点上方盈利
	res := ProbabilityOfProfit([]float64{105}, longCallPayoff(100, 5), mkts(100, 0.2, 1, 0))
	require.NotNil(t, res.Probability)
	assert.Equal(t, RegionAbove, res.Region)

	// P(S_T > 105)，对数正态手工计算值
	m := math.Log(100.0) + (0-0.5*0.04)*1
	z := (math.Log(105.0) - m) / 0.2
	expected := 1 - 0.5*(1+math.Erf(z/math.Sqrt2))
	assert.InDelta(t, expected, *res.Probability, 1e-12)
	assert.Equal(t, []float64{105}, res.BreakEvensUsed)
}

func TestPoPSingleThresholdBelow(t *testing.T) {
	// 空头看涨：平衡点下方盈利
	res := ProbabilityOfProfit([]float64{105}, shortCallPayoff(100, 5), mkts(100, 0.2, 1, 0))
	require.NotNil(t, res.Probability)
	assert.Equal(t, RegionBelow, res.Region)
	assert.Greater(t, *res.Probability, 0.5) // 现价在平衡点下方，下方盈利概率过半
}

// 同一对平衡点的内外概率互补
func TestPoPInsideOutsideComplement(t *testing.T) {
	bes := []float64{88, 112}
	market := mkts(100, 0.25, 0.5, 0.02)

	shortStrangle := func(st float64) float64 {
		return 7 - math.Max(88-st, 0) - math.Max(st-112, 0) // 区间内盈利的近似形状
	}
	longStrangle := func(st float64) float64 { return -shortStrangle(st) }

	inside := ProbabilityOfProfit(bes, shortStrangle, market)
	outside := ProbabilityOfProfit(bes, longStrangle, market)
	require.NotNil(t, inside.Probability)
	require.NotNil(t, outside.Probability)
	assert.Equal(t, RegionInside, inside.Region)
	assert.Equal(t, RegionOutside, outside.Region)
	assert.InDelta(t, 1.0, *inside.Probability+*outside.Probability, 1e-12)
}

func TestPoPDegenerateIsExact(t *testing.T) {
	// σ=0：按 payoff(S0) 符号收敛为恰好 0 或 1
	win := ProbabilityOfProfit([]float64{105}, longCallPayoff(100, 5), mkts(110, 0, 1, 0))
	require.NotNil(t, win.Probability)
	assert.Equal(t, 1.0, *win.Probability)
	assert.Equal(t, RegionNone, win.Region)

	lose := ProbabilityOfProfit([]float64{105}, longCallPayoff(100, 5), mkts(100, 0, 1, 0))
	require.NotNil(t, lose.Probability)
	assert.Equal(t, 0.0, *lose.Probability)

	// T=0 同样退化
	expiry := ProbabilityOfProfit([]float64{105}, longCallPayoff(100, 5), mkts(110, 0.2, 0, 0))
	require.NotNil(t, expiry.Probability)
	assert.Equal(t, 1.0, *expiry.Probability)
}

func TestPoPUnavailableWithoutThresholds(t *testing.T) {
	res := ProbabilityOfProfit(nil, longCallPayoff(100, 5), mkts(100, 0.2, 1, 0))
	assert.Nil(t, res.Probability)
	assert.Equal(t, RegionNone, res.Region)
	assert.Equal(t, "no break-even thresholds", res.Reason)
}

func TestPoPInvalidInputs(t *testing.T) {
	res := ProbabilityOfProfit([]float64{105}, longCallPayoff(100, 5), mkts(0, 0.2, 1, 0))
	assert.Nil(t, res.Probability)
	assert.Equal(t, "invalid spot price", res.Reason)

	res = ProbabilityOfProfit([]float64{105}, longCallPayoff(100, 5), mkts(100, -0.1, 1, 0))
	assert.Nil(t, res.Probability)
	assert.Equal(t, "invalid market parameters", res.Reason)

	res = ProbabilityOfProfit([]float64{105}, longCallPayoff(100, 5), mkts(100, 0.2, 1, math.NaN()))
	assert.Nil(t, res.Probability)
	assert.Equal(t, "invalid market parameters", res.Reason)
}

func TestPoPAlwaysProfitableSingleThreshold(t *testing.T) {
	// 平衡点两侧都盈利（套利结构）：概率 1，区域 NONE
	alwaysWin := func(st float64) float64 { return 3 + math.Abs(st-100) }
	res := ProbabilityOfProfit([]float64{100}, alwaysWin, mkts(100, 0.2, 1, 0))
	require.NotNil(t, res.Probability)
	assert.Equal(t, 1.0, *res.Probability)
	assert.Equal(t, RegionNone, res.Region)
}

func TestPoPBounds(t *testing.T) {
	res := ProbabilityOfProfit([]float64{88, 112}, func(st float64) float64 {
		if st > 88 && st < 112 {
			return 1
		}
		return -1
	}, mkts(100, 0.8, 2, 0.05))
	require.NotNil(t, res.Probability)
	assert.GreaterOrEqual(t, *res.Probability, 0.0)
	assert.LessOrEqual(t, *res.Probability, 1.0)
}

func TestPoPMoreThanTwoThresholdsUsesOutermost(t *testing.T) {
	bes := []float64{90, 100, 110}
	res := ProbabilityOfProfit(bes, func(st float64) float64 {
		if st > 90 && st < 110 {
			return 1
		}
		return -1
	}, mkts(100, 0.2, 1, 0))
	require.NotNil(t, res.Probability)
	assert.Equal(t, RegionInside, res.Region)
	assert.Equal(t, bes, res.BreakEvensUsed)
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalTag(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Bull Call Spread", "bull_call_spread"},
		{"iron-butterfly", "iron_butterfly"},
		{"  Long  Call ", "long_call"},
		{"SHORT_STRANGLE", "short_strangle"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanonicalTag(tt.raw))
	}
}

func TestBuildTopologySortsByStrike(t *testing.T) {
	ns := Normalize([]Leg{
		NewCallLeg(LegSideLong, 110, 1, 1),
		NewCallLeg(LegSideLong, 90, 5, 1),
		NewPutLeg(LegSideShort, 105, 4, 1),
		NewStockLeg(LegSideShort, 50, 1),
	})
	top := buildTopology(ns)
	require.Len(t, top.longCalls, 2)
	assert.Equal(t, 90.0, top.longCalls[0].Strike)
	assert.Equal(t, 110.0, top.longCalls[1].Strike)
	assert.Len(t, top.shortPuts, 1)
	assert.Equal(t, 1, top.stockCount())
	assert.Equal(t, 3, top.optionCount())
}

func TestBuildTopologySkipsZeroQuantity(t *testing.T) {
	ns := Normalize([]Leg{
		NewCallLeg(LegSideLong, 100, 5, 0),
		NewPutLeg(LegSideLong, 95, 3, 1),
	})
	top := buildTopology(ns)
	assert.Empty(t, top.longCalls)
	assert.Len(t, top.longPuts, 1)
}

func TestUniformQty(t *testing.T) {
	a := []Leg{NewCallLeg(LegSideLong, 100, 5, 2)}
	b := []Leg{NewPutLeg(LegSideShort, 95, 3, 2)}
	q, ok := uniformQty(a, b)
	require.True(t, ok)
	assert.Equal(t, 2.0, q)

	c := []Leg{NewPutLeg(LegSideShort, 95, 3, 1)}
	_, ok = uniformQty(a, c)
	assert.False(t, ok)

	_, ok = uniformQty([]Leg{})
	assert.False(t, ok)
}

func TestMedianStrike(t *testing.T) {
	odd := []Leg{
		NewPutLeg(LegSideShort, 90, 1, 1),
		NewPutLeg(LegSideShort, 100, 1, 1),
		NewPutLeg(LegSideShort, 120, 1, 1),
	}
	assert.Equal(t, 100.0, medianStrike(odd))

	even := []Leg{
		NewPutLeg(LegSideShort, 90, 1, 1),
		NewPutLeg(LegSideShort, 100, 1, 1),
	}
	assert.Equal(t, 95.0, medianStrike(even))

	assert.Equal(t, 0.0, medianStrike(nil))
}

func TestFallbackTagEchoesKnownLabels(t *testing.T) {
	// 已识别但未匹配的标签在回退时原样回显，未知标签记为 custom
	ns := Normalize([]Leg{
		NewCallLeg(LegSideLong, 100, 2, 1),
		NewCallLeg(LegSideShort, 110, 5, 1),
	})
	res := SolveBreakEvens(ns, "bull call spread", 100)
	assert.Equal(t, TagBullCallSpread, res.StrategyTag)

	res = SolveBreakEvens(ns, "my exotic combo", 100)
	assert.Equal(t, TagCustom, res.StrategyTag)
}

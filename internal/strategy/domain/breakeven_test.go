package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolveBreakEvensSingleLegs(t *testing.T) {
	tests := []struct {
		name string
		legs []Leg
		tag  string
		want []float64
	}{
		{"long call", []Leg{NewCallLeg(LegSideLong, 100, 5, 1)}, TagLongCall, []float64{105}},
		{"long put", []Leg{NewPutLeg(LegSideLong, 100, 5, 1)}, TagLongPut, []float64{95}},
		{"short call", []Leg{NewCallLeg(LegSideShort, 100, 5, 1)}, TagShortCall, []float64{105}},
		{"short put", []Leg{NewPutLeg(LegSideShort, 95, 3, 1)}, TagShortPut, []float64{92}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := SolveBreakEvens(Normalize(tt.legs), "", 100)
			require.Equal(t, MethodClosedForm, res.Method)
			assert.Equal(t, tt.tag, res.StrategyTag)
			require.Len(t, res.BreakEvens, len(tt.want))
			for i, be := range tt.want {
				assert.InDelta(t, be, res.BreakEvens[i], 1e-9)
			}
		})
	}
}

func TestBullCallSpreadScenario(t *testing.T) {
	res := SolveBreakEvens(Normalize([]Leg{
		NewCallLeg(LegSideLong, 100, 5, 1),
		NewCallLeg(LegSideShort, 110, 2, 1),
	}), "", 100)
	require.Equal(t, MethodClosedForm, res.Method)
	assert.Equal(t, TagBullCallSpread, res.StrategyTag)
	require.Len(t, res.BreakEvens, 1)
	assert.InDelta(t, 103, res.BreakEvens[0], 1e-9)
	assert.InDelta(t, 3, res.Diagnostics.NetPremium, 1e-12)
}

func TestShortStrangleScenario(t *testing.T) {
	res := SolveBreakEvens(Normalize([]Leg{
		NewPutLeg(LegSideShort, 95, 3, 1),
		NewCallLeg(LegSideShort, 105, 4, 1),
	}), "", 100)
	require.Equal(t, MethodClosedForm, res.Method)
	assert.Equal(t, TagShortStrangle, res.StrategyTag)
	require.Len(t, res.BreakEvens, 2)
	assert.InDelta(t, 88, res.BreakEvens[0], 1e-9)
	assert.InDelta(t, 112, res.BreakEvens[1], 1e-9)
	assert.InDelta(t, -7, res.Diagnostics.NetPremium, 1e-12)
}

func TestIronButterflyScenario(t *testing.T) {
	res := SolveBreakEvens(Normalize([]Leg{
		NewPutLeg(LegSideShort, 100, 3.2, 1),
		NewCallLeg(LegSideShort, 100, 3.3, 1),
		NewPutLeg(LegSideLong, 95, 1.2, 1),
		NewCallLeg(LegSideLong, 105, 1.1, 1),
	}), "", 100)
	require.Equal(t, MethodClosedForm, res.Method)
	assert.Equal(t, TagIronButterfly, res.StrategyTag)
	assert.Equal(t, -4.2, res.Diagnostics.NetPremium)
	require.Len(t, res.BreakEvens, 2)
	assert.InDelta(t, 95.8, res.BreakEvens[0], 1e-9)
	assert.InDelta(t, 104.2, res.BreakEvens[1], 1e-9)
}

// 多腿跨/宽跨：同类空头多腿时行权价取中位数。
func TestShortStrangleMedianStrike(t *testing.T) {
	res := SolveBreakEvens(Normalize([]Leg{
		NewPutLeg(LegSideShort, 90, 2, 1),
		NewPutLeg(LegSideShort, 100, 3, 1),
		NewCallLeg(LegSideShort, 110, 3, 1),
		NewCallLeg(LegSideShort, 120, 2, 1),
	}), "", 105)
	require.Equal(t, MethodClosedForm, res.Method)
	assert.Equal(t, TagShortStrangle, res.StrategyTag)
	require.Len(t, res.BreakEvens, 2)
	assert.InDelta(t, 85, res.BreakEvens[0], 1e-9)  // median put 95 - credit 10
	assert.InDelta(t, 125, res.BreakEvens[1], 1e-9) // median call 115 + credit 10
}

func TestBoxSpreadHasNoBreakEvens(t *testing.T) {
	res := SolveBreakEvens(Normalize([]Leg{
		NewCallLeg(LegSideLong, 95, 7, 1),
		NewPutLeg(LegSideShort, 95, 3, 1),
		NewCallLeg(LegSideShort, 105, 2, 1),
		NewPutLeg(LegSideLong, 105, 8, 1),
	}), "", 100)
	require.Equal(t, MethodClosedForm, res.Method)
	assert.Equal(t, TagBoxSpread, res.StrategyTag)
	assert.NotNil(t, res.BreakEvens)
	assert.Empty(t, res.BreakEvens)
	assert.True(t, res.Diagnostics.FixedPayoff)
	assert.Empty(t, res.Diagnostics.Reason)
}

func TestConversionReversalFixedPayoff(t *testing.T) {
	res := SolveBreakEvens(Normalize([]Leg{
		NewStockLeg(LegSideLong, 100, 1),
		NewCallLeg(LegSideShort, 100, 5, 1),
		NewPutLeg(LegSideLong, 100, 4, 1),
	}), "", 100)
	require.Equal(t, MethodClosedForm, res.Method)
	assert.Equal(t, TagReversal, res.StrategyTag)
	assert.Empty(t, res.BreakEvens)
	assert.True(t, res.Diagnostics.FixedPayoff)
}

func TestCalendarSpreadExplicitTagOnly(t *testing.T) {
	legs := []Leg{
		NewCallLeg(LegSideLong, 100, 5, 1),
		NewCallLeg(LegSideShort, 100, 3, 1),
	}

	// 显式标签：共享行权价近似
	res := SolveBreakEvens(Normalize(legs), "Calendar Spread", 100)
	require.Equal(t, MethodClosedForm, res.Method)
	assert.Equal(t, TagCalendarSpread, res.StrategyTag)
	assert.True(t, res.Diagnostics.Approx)
	require.Len(t, res.BreakEvens, 1)
	assert.InDelta(t, 100, res.BreakEvens[0], 1e-9)

	// 无标签：同一腿结构不会被探测为日历价差
	res = SolveBreakEvens(Normalize(legs), "", 100)
	assert.NotEqual(t, TagCalendarSpread, res.StrategyTag)
}

func TestDiagonalSpreadMidpointApproximation(t *testing.T) {
	res := SolveBreakEvens(Normalize([]Leg{
		NewCallLeg(LegSideLong, 105, 4, 1),
		NewCallLeg(LegSideShort, 95, 7, 1),
	}), "diagonal-spread", 100)
	require.Equal(t, MethodClosedForm, res.Method)
	assert.Equal(t, TagDiagonalSpread, res.StrategyTag)
	assert.True(t, res.Diagnostics.Approx)
	require.Len(t, res.BreakEvens, 1)
	assert.InDelta(t, 100, res.BreakEvens[0], 1e-9)
}

func TestEmptyLegsIsNotAnError(t *testing.T) {
	res := SolveBreakEvens(Normalize(nil), "", 100)
	assert.NotNil(t, res.BreakEvens)
	assert.Empty(t, res.BreakEvens)
	assert.Equal(t, MethodNumericFallback, res.Method)
	assert.Equal(t, TagCustom, res.StrategyTag)
	assert.Equal(t, "no legs", res.Diagnostics.Reason)
}

// 方向由结构推导：标签声称多头，腿却是空头，结果按空头算。
func TestDirectionComesFromStructureNotLabel(t *testing.T) {
	res := SolveBreakEvens(Normalize([]Leg{
		NewCallLeg(LegSideShort, 100, 5, 1),
	}), TagLongCall, 100)
	require.Equal(t, MethodClosedForm, res.Method)
	assert.Equal(t, TagShortCall, res.StrategyTag)
	require.Len(t, res.BreakEvens, 1)
	assert.InDelta(t, 105, res.BreakEvens[0], 1e-9)
}

// 标签声称借方价差、净权利金却为收入：闭式不匹配，落到数值扫描。
// 该结构恒盈利，合法地没有平衡点。
func TestMislabeledCreditSpreadFallsBack(t *testing.T) {
	ns := Normalize([]Leg{
		NewCallLeg(LegSideLong, 100, 2, 1),
		NewCallLeg(LegSideShort, 110, 5, 1),
	})
	res := SolveBreakEvens(ns, TagBullCallSpread, 100)
	assert.Equal(t, MethodNumericFallback, res.Method)
	assert.Equal(t, TagBullCallSpread, res.StrategyTag)
	assert.Empty(t, res.BreakEvens)
	assert.Greater(t, ns.PayoffAt(100), 0.0)
	assert.Greater(t, ns.PayoffAt(130), 0.0)
}

func TestUnrecognizedComboNumericFallback(t *testing.T) {
	ns := Normalize([]Leg{
		NewCallLeg(LegSideLong, 100, 5, 1),
		NewPutLeg(LegSideLong, 90, 3, 2),
	})
	res := SolveBreakEvens(ns, "", 95)
	require.Equal(t, MethodNumericFallback, res.Method)
	assert.Equal(t, TagCustom, res.StrategyTag)
	require.Len(t, res.BreakEvens, 2)
	assert.InDelta(t, 84.5, res.BreakEvens[0], 1e-6)
	assert.InDelta(t, 111, res.BreakEvens[1], 1e-6)
}

// 目录内全部闭式公式与数值扫描在 1e-6 内一致。
func TestClosedFormAgreesWithNumeric(t *testing.T) {
	tests := []struct {
		name string
		legs []Leg
		tag  string
		want []float64
	}{
		{
			"long call",
			[]Leg{NewCallLeg(LegSideLong, 100, 5, 1)},
			TagLongCall, []float64{105},
		},
		{
			"short put",
			[]Leg{NewPutLeg(LegSideShort, 95, 3, 1)},
			TagShortPut, []float64{92},
		},
		{
			"bull call spread",
			[]Leg{NewCallLeg(LegSideLong, 100, 5, 1), NewCallLeg(LegSideShort, 110, 2, 1)},
			TagBullCallSpread, []float64{103},
		},
		{
			"bear put spread",
			[]Leg{NewPutLeg(LegSideLong, 110, 6, 1), NewPutLeg(LegSideShort, 100, 2.5, 1)},
			TagBearPutSpread, []float64{106.5},
		},
		{
			"long straddle",
			[]Leg{NewCallLeg(LegSideLong, 100, 5, 1), NewPutLeg(LegSideLong, 100, 4, 1)},
			TagLongStraddle, []float64{91, 109},
		},
		{
			"short straddle",
			[]Leg{NewCallLeg(LegSideShort, 100, 5, 1), NewPutLeg(LegSideShort, 100, 4, 1)},
			TagShortStraddle, []float64{91, 109},
		},
		{
			"long strangle",
			[]Leg{NewPutLeg(LegSideLong, 95, 3, 1), NewCallLeg(LegSideLong, 105, 4, 1)},
			TagLongStrangle, []float64{88, 112},
		},
		{
			"short strangle",
			[]Leg{NewPutLeg(LegSideShort, 95, 3, 1), NewCallLeg(LegSideShort, 105, 4, 1)},
			TagShortStrangle, []float64{88, 112},
		},
		{
			"long call butterfly",
			[]Leg{
				NewCallLeg(LegSideLong, 90, 5.7, 1),
				NewCallLeg(LegSideShort, 100, 3, 2),
				NewCallLeg(LegSideLong, 110, 1.5, 1),
			},
			TagLongCallButterfly, []float64{91.2, 108.8},
		},
		{
			"iron condor",
			[]Leg{
				NewPutLeg(LegSideLong, 90, 1, 1),
				NewPutLeg(LegSideShort, 95, 2.5, 1),
				NewCallLeg(LegSideShort, 105, 2.6, 1),
				NewCallLeg(LegSideLong, 110, 1.1, 1),
			},
			TagIronCondor, []float64{92, 108},
		},
		{
			"call ratio spread",
			[]Leg{NewCallLeg(LegSideLong, 100, 6, 1), NewCallLeg(LegSideShort, 110, 2.5, 2)},
			TagCallRatioSpread, []float64{101, 119},
		},
		{
			"put backspread",
			[]Leg{NewPutLeg(LegSideShort, 110, 8, 1), NewPutLeg(LegSideLong, 100, 3, 2)},
			TagPutBackspread, []float64{92, 108},
		},
		{
			"strap",
			[]Leg{NewCallLeg(LegSideLong, 100, 4, 2), NewPutLeg(LegSideLong, 100, 3, 1)},
			TagStrap, []float64{89, 105.5},
		},
		{
			"strip",
			[]Leg{NewPutLeg(LegSideLong, 100, 3, 2), NewCallLeg(LegSideLong, 100, 4, 1)},
			TagStrip, []float64{95, 110},
		},
		{
			"covered call",
			[]Leg{NewStockLeg(LegSideLong, 50, 1), NewCallLeg(LegSideShort, 55, 2, 1)},
			TagCoveredCall, []float64{48},
		},
		{
			"protective put",
			[]Leg{NewStockLeg(LegSideLong, 50, 1), NewPutLeg(LegSideLong, 48, 1.5, 1)},
			TagProtectivePut, []float64{51.5},
		},
		{
			"collar",
			[]Leg{
				NewStockLeg(LegSideLong, 50, 1),
				NewPutLeg(LegSideLong, 48, 1.5, 1),
				NewCallLeg(LegSideShort, 55, 2, 1),
			},
			TagCollar, []float64{49.5},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ns := Normalize(tt.legs)
			res := SolveBreakEvens(ns, "", 100)
			require.Equal(t, MethodClosedForm, res.Method, "probe should hit a closed form")
			assert.Equal(t, tt.tag, res.StrategyTag)
			require.Len(t, res.BreakEvens, len(tt.want))
			for i, be := range tt.want {
				assert.InDelta(t, be, res.BreakEvens[i], 1e-9)
			}

			numeric := FindBreakEvensNumeric(ns, 100)
			require.Len(t, numeric, len(res.BreakEvens), "numeric scan should find the same root count")
			for i := range numeric {
				assert.InDelta(t, res.BreakEvens[i], numeric[i], 1e-6)
			}
		})
	}
}

func TestBreakEvensSortedAscending(t *testing.T) {
	res := SolveBreakEvens(Normalize([]Leg{
		NewCallLeg(LegSideShort, 100, 5, 1),
		NewPutLeg(LegSideShort, 100, 4, 1),
	}), "", 100)
	require.Len(t, res.BreakEvens, 2)
	assert.Less(t, res.BreakEvens[0], res.BreakEvens[1])
}

// 深度实值跨式的下侧平衡点会落到非正价格，闭式结果须剔除。
func TestNonPositiveBreakEvenFiltered(t *testing.T) {
	res := SolveBreakEvens(Normalize([]Leg{
		NewCallLeg(LegSideLong, 10, 12, 1),
		NewPutLeg(LegSideLong, 10, 3, 1),
	}), "", 10)
	require.Equal(t, MethodClosedForm, res.Method)
	assert.Equal(t, TagLongStraddle, res.StrategyTag)
	require.Len(t, res.BreakEvens, 1)
	assert.InDelta(t, 25, res.BreakEvens[0], 1e-9)
}

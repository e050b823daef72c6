// Package domain 包含风险评估的领域模型：盈利概率、损益分布指标与尾部风险。
package domain

import "math"

// PoPRegion 盈利区域形态
type PoPRegion string

const (
	RegionBelow   PoPRegion = "BELOW"   // 低于单一平衡点盈利
	RegionAbove   PoPRegion = "ABOVE"   // 高于单一平衡点盈利
	RegionInside  PoPRegion = "INSIDE"  // 两平衡点之间盈利
	RegionOutside PoPRegion = "OUTSIDE" // 两平衡点之外盈利
	RegionNone    PoPRegion = "NONE"    // 无界定区域（恒盈、恒亏或退化）
)

// PayoffFunc 到期损益函数，自变量为到期标的价。
type PayoffFunc func(terminalPrice float64) float64

// MarketParams 终值对数正态分布参数。
// Drift 为年化漂移率，风险中性口径下取 r-q。
type MarketParams struct {
	Spot  float64
	Sigma float64
	T     float64
	Drift float64
}

// PoPResult 盈利概率结果。
// Probability 为 nil 表示不可用（Reason 给出原因），与概率恰好为 0 是两种状态。
type PoPResult struct {
	Probability    *float64
	Region         PoPRegion
	BreakEvensUsed []float64
	Reason         string
}

// ProbabilityOfProfit 计算到期盈利概率：ln(S_T) ~ N(ln(S0)+(drift-σ²/2)T, σ²T)。
// 每个平衡点的盈利方向通过在区域内部代表点处对 payoff 求值确定
// （两平衡点取中点，单平衡点取两侧微扰），从不信任策略的方向标签。
// 退化情形（σ=0 或 T=0）按 payoff(S0) 符号收敛为恰好 0 或 1；
// 无平衡点且 σ>0 时不存在阈值，返回不可用。
func ProbabilityOfProfit(breakEvens []float64, payoff PayoffFunc, mkt MarketParams) PoPResult {
	used := make([]float64, len(breakEvens))
	copy(used, breakEvens)

	if !finite(mkt.Spot) || mkt.Spot <= 0 {
		return PoPResult{Region: RegionNone, BreakEvensUsed: used, Reason: "invalid spot price"}
	}
	if !finite(mkt.Sigma) || mkt.Sigma < 0 || !finite(mkt.T) || mkt.T < 0 || !finite(mkt.Drift) {
		return PoPResult{Region: RegionNone, BreakEvensUsed: used, Reason: "invalid market parameters"}
	}

	if mkt.Sigma == 0 || mkt.T == 0 {
		p := 0.0
		if payoff(mkt.Spot) > 0 {
			p = 1.0
		}
		return PoPResult{Probability: &p, Region: RegionNone, BreakEvensUsed: used}
	}

	if len(used) == 0 {
		return PoPResult{Region: RegionNone, BreakEvensUsed: used, Reason: "no break-even thresholds"}
	}

	if len(used) == 1 {
		return singleThresholdPoP(used, payoff, mkt)
	}
	return bandedPoP(used, payoff, mkt)
}

// singleThresholdPoP 单平衡点：在两侧微扰处探测盈利方向。
func singleThresholdPoP(used []float64, payoff PayoffFunc, mkt MarketParams) PoPResult {
	b := used[0]
	h := math.Max(0.01*b, 1e-6)
	below := payoff(b-h) > 0
	above := payoff(b+h) > 0
	pBelow := terminalCdf(b, mkt)

	var p float64
	var region PoPRegion
	switch {
	case below && !above:
		p, region = pBelow, RegionBelow
	case above && !below:
		p, region = 1-pBelow, RegionAbove
	case below && above:
		p, region = 1, RegionNone
	default:
		p, region = 0, RegionNone
	}
	p = clampUnit(p)
	return PoPResult{Probability: &p, Region: region, BreakEvensUsed: used}
}

// bandedPoP 两个（含以上取最外侧一对）平衡点：在中点探测盈利方向。
func bandedPoP(used []float64, payoff PayoffFunc, mkt MarketParams) PoPResult {
	lo, hi := used[0], used[len(used)-1]
	pInside := terminalCdf(hi, mkt) - terminalCdf(lo, mkt)

	var p float64
	var region PoPRegion
	if payoff((lo+hi)/2) > 0 {
		p, region = pInside, RegionInside
	} else {
		p, region = 1-pInside, RegionOutside
	}
	p = clampUnit(p)
	return PoPResult{Probability: &p, Region: region, BreakEvensUsed: used}
}

// terminalCdf P(S_T <= b)，对数正态。
func terminalCdf(b float64, mkt MarketParams) float64 {
	if b <= 0 {
		return 0
	}
	m := math.Log(mkt.Spot) + (mkt.Drift-0.5*mkt.Sigma*mkt.Sigma)*mkt.T
	s := mkt.Sigma * math.Sqrt(mkt.T)
	return stdNormCdf((math.Log(b) - m) / s)
}

// stdNormCdf 标准正态分布累积分布函数
func stdNormCdf(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}

func clampUnit(p float64) float64 {
	return math.Min(1, math.Max(0, p))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

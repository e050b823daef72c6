package domain

import (
	"errors"
	"math"

	"github.com/montanaflynn/stats"
)

// RiskSummary 基于模拟损益样本的策略风险摘要。
// MaxProfit/MaxLoss 在"现实价格带"（分位数区间并各行权价）内搜索，均以 0 为下限。
type RiskSummary struct {
	ExpectedProfit      float64  // 盈利场景损益均值
	ExpectedLoss        float64  // 亏损场景损益绝对值均值
	ExpectedReturn      *float64 // 样本均值 / |净权利金|；净权利金为 0 时不可用
	ApproxSharpe        float64  // 样本均值 / 样本标准差，标准差为 0 时记 0
	ProbabilityOfProfit float64  // 经验盈利概率
	MaxProfit           float64
	MaxLoss             float64
}

// SummarizeRisk 汇总损益样本。
// searchPoints 为损益函数的极值候选点（分位数带边界与带内行权价）；
// 损益分段线性，区间极值必在候选点处取得。
func SummarizeRisk(pnl []float64, netPremium float64, payoff PayoffFunc, searchPoints []float64) (*RiskSummary, error) {
	if len(pnl) == 0 {
		return nil, errors.New("pnl sample is empty")
	}

	mean, err := stats.Mean(pnl)
	if err != nil {
		return nil, err
	}
	sd, err := stats.StandardDeviation(pnl)
	if err != nil {
		return nil, err
	}

	var winSum, lossSum float64
	var winN, lossN int
	for _, v := range pnl {
		switch {
		case v > 0:
			winSum += v
			winN++
		case v < 0:
			lossSum += -v
			lossN++
		}
	}

	summary := &RiskSummary{
		ProbabilityOfProfit: float64(winN) / float64(len(pnl)),
	}
	if winN > 0 {
		summary.ExpectedProfit = winSum / float64(winN)
	}
	if lossN > 0 {
		summary.ExpectedLoss = lossSum / float64(lossN)
	}
	if netPremium != 0 {
		ret := mean / math.Abs(netPremium)
		summary.ExpectedReturn = &ret
	}
	if sd > 0 {
		summary.ApproxSharpe = mean / sd
	}

	summary.MaxProfit, summary.MaxLoss = payoffExtremes(payoff, searchPoints)
	return summary, nil
}

// payoffExtremes 在候选点处求损益上下界，均截断为非负口径。
func payoffExtremes(payoff PayoffFunc, points []float64) (maxProfit, maxLoss float64) {
	if payoff == nil || len(points) == 0 {
		return 0, 0
	}
	hi := math.Inf(-1)
	lo := math.Inf(1)
	for _, p := range points {
		if !finite(p) || p < 0 {
			continue
		}
		v := payoff(p)
		hi = math.Max(hi, v)
		lo = math.Min(lo, v)
	}
	if math.IsInf(hi, -1) {
		return 0, 0
	}
	return math.Max(0, hi), math.Max(0, -lo)
}

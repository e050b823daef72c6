package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// NormalizedStrategy 规范化后的策略：合法腿集合、升序去重的期权行权价、期权净权利金。
// NetPremium 约定支出为正（借方）、收入为负（贷方）。
type NormalizedStrategy struct {
	Legs       []Leg
	Strikes    []float64
	NetPremium float64
}

// Normalize 将原始腿集合规范化。
// 未知类型的腿被静默过滤；期权腿缺少有限正行权价时丢弃；
// 数量取 max(0, v)，非有限值视为未指定并回退为 1；权利金非有限时回退为 0
// （0 是"未知权利金"哨兵，需由定价器补齐后盈亏平衡/盈利概率才有意义）。
// 对畸形输入从不报错，返回可能为空的结果。
func Normalize(legs []Leg) NormalizedStrategy {
	kept := make([]Leg, 0, len(legs))
	for _, l := range legs {
		switch l.Kind {
		case LegKindCall, LegKindPut:
			if !isFinite(l.Strike) || l.Strike <= 0 {
				continue
			}
		case LegKindStock:
			// 正股腿无行权价约束
		default:
			continue
		}
		if l.Side != LegSideLong && l.Side != LegSideShort {
			continue
		}
		if !isFinite(l.Quantity) {
			l.Quantity = 1
		} else if l.Quantity < 0 {
			l.Quantity = 0
		}
		if !isFinite(l.Premium) {
			l.Premium = 0
		}
		if !isFinite(l.Multiplier) || l.Multiplier <= 0 {
			if l.Kind == LegKindStock {
				l.Multiplier = 1
			} else {
				l.Multiplier = DefaultMultiplier
			}
		}
		kept = append(kept, l)
	}

	return NormalizedStrategy{
		Legs:       kept,
		Strikes:    uniqueSortedStrikes(kept),
		NetPremium: netOptionPremium(kept),
	}
}

// uniqueSortedStrikes 提取期权行权价并升序去重。
func uniqueSortedStrikes(legs []Leg) []float64 {
	strikes := make([]float64, 0, len(legs))
	for _, l := range legs {
		if l.IsOption() {
			strikes = append(strikes, l.Strike)
		}
	}
	sort.Float64s(strikes)
	out := strikes[:0]
	for i, k := range strikes {
		if i == 0 || k != out[len(out)-1] {
			out = append(out, k)
		}
	}
	return out
}

// netOptionPremium 计算期权净权利金 Σ (多头 ? +premium : -premium) × qty。
// 用 decimal 累加，避免美分级权利金在浮点求和中漂移（如 3.2+3.3-1.2-1.1 应恰为 4.2）。
func netOptionPremium(legs []Leg) float64 {
	sum := decimal.Zero
	for _, l := range legs {
		if !l.IsOption() {
			continue
		}
		term := decimal.NewFromFloat(l.Premium).Mul(decimal.NewFromFloat(l.Quantity))
		if l.Side == LegSideShort {
			sum = sum.Sub(term)
		} else {
			sum = sum.Add(term)
		}
	}
	f, _ := sum.Float64()
	return f
}

// HasOptions 是否包含至少一条期权腿。
func (s NormalizedStrategy) HasOptions() bool {
	return len(s.Strikes) > 0
}

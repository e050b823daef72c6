package domain

import "math"

// PayoffAt 计算策略在到期价 st 处的总盈亏（每股口径）。
// 看涨 payoff = max(st-K, 0)，看跌 = max(K-st, 0)，正股 = st-成本价（空头取反）。
// 期权腿贡献 qty × (多头 ? payoff-premium : premium-payoff)。
// 总盈亏关于 st 分段线性，折点恰好落在各行权价上，数值求根依赖该性质。
func (s NormalizedStrategy) PayoffAt(st float64) float64 {
	total := 0.0
	for _, l := range s.Legs {
		total += legPayoff(st, l)
	}
	return total
}

// legPayoff 单腿到期盈亏。
func legPayoff(st float64, l Leg) float64 {
	switch l.Kind {
	case LegKindCall:
		intrinsic := math.Max(st-l.Strike, 0)
		return l.Quantity * l.direction() * (intrinsic - l.Premium)
	case LegKindPut:
		intrinsic := math.Max(l.Strike-st, 0)
		return l.Quantity * l.direction() * (intrinsic - l.Premium)
	case LegKindStock:
		return l.Quantity * l.direction() * (st - l.Premium)
	default:
		return 0
	}
}

// PayoffFunc 返回以到期价为自变量的盈亏闭包，供概率与风险计算方复用。
func (s NormalizedStrategy) PayoffFunc() func(float64) float64 {
	return func(st float64) float64 { return s.PayoffAt(st) }
}

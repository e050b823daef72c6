package application

// ProbabilityDTO 盈利概率 DTO。
// Probability 为 null 表示不可用（Reason 给出原因），调用方须区别于 0。
type ProbabilityDTO struct {
	Probability    *float64  `json:"probability"`
	Region         string    `json:"region"`
	BreakEvensUsed []float64 `json:"breakEvensUsed"`
	Reason         string    `json:"reason,omitempty"`
}

// StrategyRiskDTO 策略风险汇总 DTO。
// MaxProfit/MaxLoss 在分位带与行权价围成的"现实价格带"内搜索；
// VaR/ES 仅在样本量足够时填充（HasTailMetrics 标识）。
type StrategyRiskDTO struct {
	ExpectedProfit      float64  `json:"expectedProfit"`
	ExpectedLoss        float64  `json:"expectedLoss"`
	ExpectedReturn      *float64 `json:"expectedReturn"`
	ApproxSharpe        float64  `json:"approxSharpe"`
	ProbabilityOfProfit float64  `json:"probabilityOfProfit"`
	MaxProfit           float64  `json:"maxProfit"`
	MaxLoss             float64  `json:"maxLoss"`
	VaR95               float64  `json:"var95,omitempty"`
	VaR99               float64  `json:"var99,omitempty"`
	ES95                float64  `json:"es95,omitempty"`
	ES99                float64  `json:"es99,omitempty"`
	HasTailMetrics      bool     `json:"hasTailMetrics"`
}

package application

// SimulationRequest 终值分布模拟请求 DTO。
// Paths/Bins 非正时由领域层取默认值；Seed 非 0 时结果可复现。
type SimulationRequest struct {
	Spot         float64 `json:"spot"`
	Sigma        float64 `json:"sigma"`
	TimeToExpiry float64 `json:"t"`
	Drift        float64 `json:"drift"`
	Paths        int     `json:"paths,omitempty"`
	Bins         int     `json:"bins,omitempty"`
	DomainLo     float64 `json:"domainLo,omitempty"`
	DomainHi     float64 `json:"domainHi,omitempty"`
	Seed         uint64  `json:"seed,omitempty"`
}

// QuantileBandDTO 分位带
type QuantileBandDTO struct {
	Q01 float64 `json:"q01"`
	Q05 float64 `json:"q05"`
	Q95 float64 `json:"q95"`
	Q99 float64 `json:"q99"`
}

// SimulationDTO 模拟结果 DTO。
// TerminalPrices 为原始终值样本，仅供进程内的风险指标计算复用，不参与序列化。
type SimulationDTO struct {
	BinCenters        []float64       `json:"binCenters"`
	NormalizedHeights []float64       `json:"normalizedHeights"`
	ProbabilityMass   []float64       `json:"probabilityMass"`
	QuantileBand      QuantileBandDTO `json:"quantileBand"`
	Paths             int             `json:"paths"`
	Seeded            bool            `json:"seeded"`
	TerminalPrices    []float64       `json:"-"`
}

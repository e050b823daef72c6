package domain

import (
	"errors"
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// TailRisk 95%/99% 置信度的 VaR 与预期亏损 (ES)。
// VaR 表示为正的损失金额，策略在对应分位处仍盈利时记 0。
type TailRisk struct {
	VaR95 decimal.Decimal
	VaR99 decimal.Decimal
	ES95  decimal.Decimal
	ES99  decimal.Decimal
}

// minTailSample 保证 1% 尾部至少有一个样本。
const minTailSample = 100

// CalculateTailRisk 从损益样本计算 VaR 与 ES。
// VaR 取对应分位的损失，ES 为超出 VaR 的尾部损失均值，两者均以 0 为下限。
func CalculateTailRisk(pnl []float64) (*TailRisk, error) {
	if len(pnl) < minTailSample {
		return nil, errors.New("pnl sample too small for tail metrics")
	}

	sorted := make([]float64, len(pnl))
	copy(sorted, pnl)
	sort.Float64s(sorted)

	var95, es95 := tailAt(sorted, 0.05)
	var99, es99 := tailAt(sorted, 0.01)

	return &TailRisk{
		VaR95: decimal.NewFromFloat(var95),
		VaR99: decimal.NewFromFloat(var99),
		ES95:  decimal.NewFromFloat(es95),
		ES99:  decimal.NewFromFloat(es99),
	}, nil
}

// tailAt 返回尾部占比 alpha 处的 (VaR, ES)。
func tailAt(sorted []float64, alpha float64) (float64, float64) {
	idx := int(float64(len(sorted)) * alpha)
	if idx < 1 {
		idx = 1
	}
	v := math.Max(0, -sorted[idx])

	var sum float64
	for i := 0; i < idx; i++ {
		sum += sorted[i]
	}
	es := math.Max(0, -sum/float64(idx))
	return v, es
}

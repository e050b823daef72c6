// Package domain 包含期权策略分析引擎的领域模型。
package domain

import "math"

// LegKind 持仓腿类型
type LegKind string

const (
	LegKindCall  LegKind = "CALL"
	LegKindPut   LegKind = "PUT"
	LegKindStock LegKind = "STOCK"
)

// LegSide 持仓方向
type LegSide string

const (
	LegSideLong  LegSide = "LONG"
	LegSideShort LegSide = "SHORT"
)

// DefaultMultiplier 合约乘数默认值，仅用于美元规模展示，从不参与每股盈亏平衡计算。
const DefaultMultiplier = 100.0

// Leg 策略中的单条持仓腿。
// Premium 仅保存幅度（每股），方向由 Side 推导；正股腿复用该字段存放成本价。
type Leg struct {
	Kind       LegKind
	Side       LegSide
	Strike     float64
	Premium    float64
	Quantity   float64
	Multiplier float64
}

// NewCallLeg 构造看涨期权腿。
func NewCallLeg(side LegSide, strike, premium, qty float64) Leg {
	return Leg{
		Kind:       LegKindCall,
		Side:       side,
		Strike:     strike,
		Premium:    premium,
		Quantity:   qty,
		Multiplier: DefaultMultiplier,
	}
}

// NewPutLeg 构造看跌期权腿。
func NewPutLeg(side LegSide, strike, premium, qty float64) Leg {
	return Leg{
		Kind:       LegKindPut,
		Side:       side,
		Strike:     strike,
		Premium:    premium,
		Quantity:   qty,
		Multiplier: DefaultMultiplier,
	}
}

// NewStockLeg 构造正股腿，basis 为每股成本价。
func NewStockLeg(side LegSide, basis, qty float64) Leg {
	return Leg{
		Kind:       LegKindStock,
		Side:       side,
		Premium:    basis,
		Quantity:   qty,
		Multiplier: 1,
	}
}

// IsOption 是否为期权腿。
func (l Leg) IsOption() bool {
	return l.Kind == LegKindCall || l.Kind == LegKindPut
}

// direction 多头 +1，空头 -1。
func (l Leg) direction() float64 {
	if l.Side == LegSideShort {
		return -1
	}
	return 1
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

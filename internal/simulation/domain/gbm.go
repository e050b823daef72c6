package domain

import (
	"math"
	"math/rand/v2"
)

// PriceGenerator defines the interface for generating price updates
type PriceGenerator interface {
	Next(currentPrice float64, dt float64) float64
}

// GeometricBrownianMotion implements a GBM price process
// S(t+dt) = S(t) * exp((mu - 0.5*sigma^2)*dt + sigma*sqrt(dt)*Z)。
// 正态抽样用 Box-Muller 变换（缓存第二支），不依赖库内置的 ziggurat 实现。
type GeometricBrownianMotion struct {
	Drift      float64 // mu
	Volatility float64 // sigma

	rng      *rand.Rand
	spare    float64
	hasSpare bool
}

// NewGBM 构造 GBM 过程，随机源由调用方注入以控制可复现性。
func NewGBM(drift, volatility float64, rng *rand.Rand) *GeometricBrownianMotion {
	return &GeometricBrownianMotion{
		Drift:      drift,
		Volatility: volatility,
		rng:        rng,
	}
}

func (gbm *GeometricBrownianMotion) Next(currentPrice float64, dt float64) float64 {
	z := gbm.normal()
	return currentPrice * math.Exp((gbm.Drift-0.5*gbm.Volatility*gbm.Volatility)*dt+gbm.Volatility*math.Sqrt(dt)*z)
}

// normal Box-Muller 标准正态抽样。u1 需严格为正以保证 log 有定义。
func (gbm *GeometricBrownianMotion) normal() float64 {
	if gbm.hasSpare {
		gbm.hasSpare = false
		return gbm.spare
	}
	u1 := gbm.rng.Float64()
	for u1 == 0 {
		u1 = gbm.rng.Float64()
	}
	u2 := gbm.rng.Float64()
	r := math.Sqrt(-2 * math.Log(u1))
	theta := 2 * math.Pi * u2
	gbm.spare = r * math.Sin(theta)
	gbm.hasSpare = true
	return r * math.Cos(theta)
}

package domain

import (
	"errors"
	"math"
)

const (
	ivInitialGuess = 0.2
	ivMaxIter      = 100
	ivPriceTol     = 1e-6
	ivMinSigma     = 1e-4
	ivMaxSigma     = 10.0
	ivVegaFloor    = 1e-10
)

// CalculateImpliedVol 用 Newton-Raphson 从市场价反解隐含波动率。
// 初值 0.2，价格容差 1e-6，迭代中将 σ 夹在 [1e-4, 10] 区间内；
// Vega 过小（深度实值/虚值或临近到期）时牛顿步发散，直接返回错误。
// 传入的 input.V 被忽略。
func CalculateImpliedVol(optionType OptionType, marketPrice float64, input BlackScholesInput) (float64, error) {
	if math.IsNaN(marketPrice) || math.IsInf(marketPrice, 0) || marketPrice <= 0 {
		return 0, errors.New("market price must be positive")
	}
	if input.T <= 0 {
		return 0, errors.New("time to expiry must be positive")
	}

	sigma := ivInitialGuess
	for i := 0; i < ivMaxIter; i++ {
		in := input
		in.V = sigma
		res, err := CalculateBlackScholes(optionType, in)
		if err != nil {
			return 0, err
		}
		diff := res.Price.InexactFloat64() - marketPrice
		if math.Abs(diff) < ivPriceTol {
			return sigma, nil
		}
		vega := res.Vega.InexactFloat64()
		if vega < ivVegaFloor {
			return 0, errors.New("vega too small to solve implied volatility")
		}
		sigma -= diff / vega
		if sigma < ivMinSigma {
			sigma = ivMinSigma
		} else if sigma > ivMaxSigma {
			sigma = ivMaxSigma
		}
	}
	return 0, errors.New("implied volatility did not converge")
}

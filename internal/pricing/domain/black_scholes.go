package domain

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

// OptionType 期权类型
type OptionType string

const (
	OptionTypeCall OptionType = "CALL" // 看涨期权
	OptionTypePut  OptionType = "PUT"  // 看跌期权
)

// BlackScholesInput Black-Scholes 模型输入
type BlackScholesInput struct {
	S float64 // 标的资产价格
	K float64 // 执行价格
	T float64 // 到期时间 (年)
	R float64 // 无风险利率（连续复利）
	Q float64 // 连续股息率
	V float64 // 波动率
}

// BlackScholesResult Black-Scholes 模型输出。
// Theta 为年化口径，Vega 对应波动率变动 1.0（而非 1%）。
type BlackScholesResult struct {
	Price decimal.Decimal
	Delta decimal.Decimal
	Gamma decimal.Decimal
	Theta decimal.Decimal
	Vega  decimal.Decimal
	Rho   decimal.Decimal
}

// CalculateBlackScholes 计算含连续股息率的 Black-Scholes 价格和 Greeks。
// V==0 或 T==0 时模型退化：价格为贴现后的远期内在价值 e^(-RT)·max(±(F-K), 0)，
// F = S·e^((R-Q)T)，此时 Greeks 全部置零。
func CalculateBlackScholes(optionType OptionType, input BlackScholesInput) (*BlackScholesResult, error) {
	if err := validateBlackScholesInput(optionType, input); err != nil {
		return nil, err
	}
	S, K, T, R, Q, V := input.S, input.K, input.T, input.R, input.Q, input.V

	if V == 0 || T == 0 {
		forward := S * math.Exp((R-Q)*T)
		disc := math.Exp(-R * T)
		var price float64
		if optionType == OptionTypeCall {
			price = disc * math.Max(forward-K, 0)
		} else {
			price = disc * math.Max(K-forward, 0)
		}
		return &BlackScholesResult{Price: decimal.NewFromFloat(price)}, nil
	}

	sqrtT := math.Sqrt(T)
	d1 := (math.Log(S/K) + (R-Q+0.5*V*V)*T) / (V * sqrtT)
	d2 := d1 - V*sqrtT
	discR := math.Exp(-R * T)
	discQ := math.Exp(-Q * T)

	gamma := discQ * normPdf(d1) / (S * V * sqrtT)
	vega := S * discQ * normPdf(d1) * sqrtT

	var price, delta, theta, rho float64
	if optionType == OptionTypeCall {
		price = S*discQ*normCdf(d1) - K*discR*normCdf(d2)
		delta = discQ * normCdf(d1)
		theta = -S*discQ*normPdf(d1)*V/(2*sqrtT) - R*K*discR*normCdf(d2) + Q*S*discQ*normCdf(d1)
		rho = K * T * discR * normCdf(d2)
	} else {
		price = K*discR*normCdf(-d2) - S*discQ*normCdf(-d1)
		delta = discQ * (normCdf(d1) - 1)
		theta = -S*discQ*normPdf(d1)*V/(2*sqrtT) + R*K*discR*normCdf(-d2) - Q*S*discQ*normCdf(-d1)
		rho = -K * T * discR * normCdf(-d2)
	}

	return &BlackScholesResult{
		Price: decimal.NewFromFloat(price),
		Delta: decimal.NewFromFloat(delta),
		Gamma: decimal.NewFromFloat(gamma),
		Theta: decimal.NewFromFloat(theta),
		Vega:  decimal.NewFromFloat(vega),
		Rho:   decimal.NewFromFloat(rho),
	}, nil
}

func validateBlackScholesInput(optionType OptionType, input BlackScholesInput) error {
	if optionType != OptionTypeCall && optionType != OptionTypePut {
		return errors.New("option type must be CALL or PUT")
	}
	for _, v := range []float64{input.S, input.K, input.T, input.R, input.Q, input.V} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New("inputs must be finite")
		}
	}
	if input.S <= 0 {
		return errors.New("underlying price must be positive")
	}
	if input.K <= 0 {
		return errors.New("strike price must be positive")
	}
	if input.T < 0 {
		return errors.New("time to expiry must be non-negative")
	}
	if input.V < 0 {
		return errors.New("volatility must be non-negative")
	}
	return nil
}

// normCdf 标准正态分布累积分布函数
func normCdf(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}

// normPdf 标准正态分布概率密度函数
func normPdf(x float64) float64 {
	return math.Exp(-x*x/2) / math.Sqrt(2*math.Pi)
}

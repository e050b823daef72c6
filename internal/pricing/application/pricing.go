// Package application 包含期权定价服务的用例逻辑
package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/Axelcisn/portfolio-sub000/internal/pricing/domain"
	"github.com/wyfcoding/pkg/logging"
)

// PricingService 期权定价应用服务，封装 Black-Scholes 定价与隐含波动率反解。
type PricingService struct{}

// NewPricingService 创建定价应用服务实例。
func NewPricingService() *PricingService {
	return &PricingService{}
}

// CalculateOptionPrice 计算期权理论价格与 Greeks。
func (s *PricingService) CalculateOptionPrice(ctx context.Context, req *OptionPriceRequest) (*OptionPriceDTO, error) {
	input := domain.BlackScholesInput{
		S: req.Spot,
		K: req.Strike,
		T: req.TimeToExpiry,
		R: req.RiskFreeRate,
		Q: req.DividendYield,
		V: req.Volatility,
	}
	res, err := domain.CalculateBlackScholes(normalizeOptionType(req.OptionType), input)
	if err != nil {
		logging.Error(ctx, "Failed to price option",
			"option_type", req.OptionType,
			"strike", req.Strike,
			"error", err,
		)
		return nil, fmt.Errorf("failed to price option: %w", err)
	}
	return &OptionPriceDTO{
		Price: res.Price.InexactFloat64(),
		Delta: res.Delta.InexactFloat64(),
		Gamma: res.Gamma.InexactFloat64(),
		Theta: res.Theta.InexactFloat64(),
		Vega:  res.Vega.InexactFloat64(),
		Rho:   res.Rho.InexactFloat64(),
	}, nil
}

// CalculateImpliedVolatility 从期权市场价反解隐含波动率。
func (s *PricingService) CalculateImpliedVolatility(ctx context.Context, req *ImpliedVolRequest) (*ImpliedVolDTO, error) {
	input := domain.BlackScholesInput{
		S: req.Spot,
		K: req.Strike,
		T: req.TimeToExpiry,
		R: req.RiskFreeRate,
		Q: req.DividendYield,
	}
	iv, err := domain.CalculateImpliedVol(normalizeOptionType(req.OptionType), req.MarketPrice, input)
	if err != nil {
		logging.Error(ctx, "Failed to solve implied volatility",
			"option_type", req.OptionType,
			"market_price", req.MarketPrice,
			"error", err,
		)
		return nil, fmt.Errorf("failed to solve implied volatility: %w", err)
	}
	return &ImpliedVolDTO{ImpliedVolatility: iv}, nil
}

func normalizeOptionType(raw string) domain.OptionType {
	return domain.OptionType(strings.ToUpper(strings.TrimSpace(raw)))
}

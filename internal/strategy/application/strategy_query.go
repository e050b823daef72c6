package application

import (
	"context"

	priceapp "github.com/Axelcisn/portfolio-sub000/internal/pricing/application"
	"github.com/Axelcisn/portfolio-sub000/internal/strategy/domain"
)

const defaultCurveSamples = 200

// AnalyticsQueryService 处理策略分析的只读查询：
// 单独的盈亏平衡求解、损益曲线采样与头寸希腊字母。
type AnalyticsQueryService struct {
	pricing *priceapp.PricingService
}

// NewAnalyticsQueryService 创建新的 AnalyticsQueryService 实例
func NewAnalyticsQueryService(pricing *priceapp.PricingService) *AnalyticsQueryService {
	return &AnalyticsQueryService{pricing: pricing}
}

// ComputeBreakEven 只求盈亏平衡，不做概率与模拟。
func (q *AnalyticsQueryService) ComputeBreakEven(ctx context.Context, req *AnalyzeStrategyRequest) (*BreakEvenDTO, error) {
	legs := parseLegs(req.Legs)
	normalized := domain.Normalize(legs)
	res := domain.SolveBreakEvens(normalized, req.Strategy, req.Spot)
	return newBreakEvenDTO(res), nil
}

// ComputePayoffCurve 在策略关注区间上等距采样到期损益。
// samples 小于 2 时取默认采样数。
func (q *AnalyticsQueryService) ComputePayoffCurve(ctx context.Context, req *AnalyzeStrategyRequest, samples int) (*PayoffCurveDTO, error) {
	if samples <= 1 {
		samples = defaultCurveSamples
	}
	normalized := domain.Normalize(parseLegs(req.Legs))
	lo, hi := curveDomain(normalized, req.Spot)

	prices := make([]float64, samples)
	payoffs := make([]float64, samples)
	step := (hi - lo) / float64(samples-1)
	for i := range samples {
		p := lo + float64(i)*step
		prices[i] = p
		payoffs[i] = normalized.PayoffAt(p)
	}
	return &PayoffCurveDTO{Prices: prices, Payoffs: payoffs}, nil
}

// ComputePositionGreeks 聚合头寸希腊字母。
func (q *AnalyticsQueryService) ComputePositionGreeks(ctx context.Context, req *AnalyzeStrategyRequest) (*GreeksDTO, error) {
	normalized := domain.Normalize(parseLegs(req.Legs))
	return aggregatePositionGreeks(ctx, q.pricing, normalized, req.scalars())
}

// curveDomain 损益曲线采样区间：有行权价时覆盖 [最低价×0.5, 最高价×1.5]，
// 否则以现价为锚取 ±50%。
func curveDomain(s domain.NormalizedStrategy, spot float64) (float64, float64) {
	if len(s.Strikes) > 0 {
		return s.Strikes[0] * 0.5, s.Strikes[len(s.Strikes)-1] * 1.5
	}
	anchor := spot
	if anchor <= 0 {
		anchor = 1
	}
	return anchor * 0.5, anchor * 1.5
}

// aggregatePositionGreeks 按腿聚合策略希腊字母（每股口径）。
// 正股腿只贡献 Delta；期权腿逐条定价并按方向与数量叠加。
func aggregatePositionGreeks(ctx context.Context, pricing *priceapp.PricingService, s domain.NormalizedStrategy, mkt marketScalars) (*GreeksDTO, error) {
	out := &GreeksDTO{}
	for _, l := range s.Legs {
		dir := 1.0
		if l.Side == domain.LegSideShort {
			dir = -1.0
		}
		if l.Kind == domain.LegKindStock {
			out.Delta += dir * l.Quantity
			continue
		}
		res, err := pricing.CalculateOptionPrice(ctx, &priceapp.OptionPriceRequest{
			OptionType:    string(l.Kind),
			Spot:          mkt.spot,
			Strike:        l.Strike,
			TimeToExpiry:  mkt.t,
			RiskFreeRate:  mkt.riskFree,
			DividendYield: mkt.yield,
			Volatility:    mkt.sigma,
		})
		if err != nil {
			return nil, err
		}
		out.Delta += dir * l.Quantity * res.Delta
		out.Gamma += dir * l.Quantity * res.Gamma
		out.Theta += dir * l.Quantity * res.Theta
		out.Vega += dir * l.Quantity * res.Vega
		out.Rho += dir * l.Quantity * res.Rho
	}
	return out, nil
}

package application

import (
	"context"
	"fmt"
	"time"

	priceapp "github.com/Axelcisn/portfolio-sub000/internal/pricing/application"
	riskapp "github.com/Axelcisn/portfolio-sub000/internal/risk/application"
	simapp "github.com/Axelcisn/portfolio-sub000/internal/simulation/application"
	"github.com/Axelcisn/portfolio-sub000/internal/strategy/domain"
	"github.com/wyfcoding/pkg/idgen"
	"github.com/wyfcoding/pkg/logging"
)

// AnalyticsCommandService 处理策略分析的完整编排：
// 补齐权利金、求解盈亏平衡、盈利概率、希腊字母、终值模拟与风险汇总。
type AnalyticsCommandService struct {
	pricing *priceapp.PricingService
	risk    *riskapp.RiskService
	sim     *simapp.SimulationService
}

// NewAnalyticsCommandService 创建新的 AnalyticsCommandService 实例
func NewAnalyticsCommandService(pricing *priceapp.PricingService, risk *riskapp.RiskService, sim *simapp.SimulationService) *AnalyticsCommandService {
	return &AnalyticsCommandService{
		pricing: pricing,
		risk:    risk,
		sim:     sim,
	}
}

// AnalyzeStrategy 执行一次完整的策略分析。
// 盈亏平衡与盈利概率始终计算；希腊字母、模拟与风险汇总
// 在市场参数不足时降级省略，降级从不让整个分析失败。
func (c *AnalyticsCommandService) AnalyzeStrategy(ctx context.Context, req *AnalyzeStrategyRequest) (*AnalysisDTO, error) {
	defer logging.LogDuration(ctx, "Strategy analysis",
		"legs", len(req.Legs),
		"strategy", req.Strategy,
	)()

	mkt := req.scalars()

	// 1. 解析腿并按公允价补齐缺失权利金
	legs := parseLegs(req.Legs)
	c.fillMissingPremiums(ctx, legs, mkt)

	// 2. 规范化并求解盈亏平衡
	normalized := domain.Normalize(legs)
	beRes := domain.SolveBreakEvens(normalized, req.Strategy, req.Spot)
	beDTO := newBreakEvenDTO(beRes)

	// 3. 解析盈利概率
	payoff := normalized.PayoffFunc()
	drift := req.drift()
	pop := c.risk.EvaluateProbabilityOfProfit(ctx, riskapp.ProbabilityCommand{
		BreakEvens: beRes.BreakEvens,
		Payoff:     payoff,
		Spot:       req.Spot,
		Sigma:      req.Sigma,
		T:          mkt.t,
		Drift:      drift,
	})

	result := &AnalysisDTO{
		AnalysisID:  fmt.Sprintf("AN-%d", idgen.GenID()),
		Strategy:    beRes.StrategyTag,
		BreakEven:   beDTO,
		Probability: pop,
		GeneratedAt: time.Now().UnixMilli(),
	}

	// 4. 聚合希腊字母
	if mkt.spot > 0 && mkt.sigma > 0 && mkt.t > 0 {
		greeks, err := aggregatePositionGreeks(ctx, c.pricing, normalized, mkt)
		if err != nil {
			logging.Warn(ctx, "Skipping position greeks", "error", err)
		} else {
			result.Greeks = greeks
		}
	}

	// 5. 终值模拟与风险汇总
	if mkt.spot > 0 && mkt.sigma > 0 && mkt.t > 0 && len(normalized.Legs) > 0 {
		simDTO, err := c.sim.RunTerminalSimulation(ctx, &simapp.SimulationRequest{
			Spot:         mkt.spot,
			Sigma:        mkt.sigma,
			TimeToExpiry: mkt.t,
			Drift:        drift,
			Paths:        req.Paths,
			Seed:         req.Seed,
		})
		if err != nil {
			logging.Warn(ctx, "Skipping simulation", "error", err)
		} else {
			result.Simulation = simDTO

			pnl := make([]float64, len(simDTO.TerminalPrices))
			for i, st := range simDTO.TerminalPrices {
				pnl[i] = payoff(st)
			}
			riskDTO, err := c.risk.AssessStrategyRisk(ctx, riskapp.StrategyRiskCommand{
				PnL:          pnl,
				NetPremium:   normalized.NetPremium,
				Payoff:       payoff,
				SearchPoints: riskSearchPoints(simDTO.QuantileBand, normalized.Strikes),
			})
			if err != nil {
				logging.Warn(ctx, "Skipping risk summary", "error", err)
			} else {
				result.Risk = riskDTO
			}
		}
	}

	logging.Info(ctx, "Strategy analysis completed",
		"analysis_id", result.AnalysisID,
		"strategy", result.Strategy,
		"break_evens", len(beDTO.BE),
	)
	return result, nil
}

// fillMissingPremiums 用 Black-Scholes 公允价补齐权利金为 0 的期权腿。
// 市场参数不足时原样保留；单腿定价失败只告警并跳过该腿。
func (c *AnalyticsCommandService) fillMissingPremiums(ctx context.Context, legs []domain.Leg, mkt marketScalars) {
	if mkt.spot <= 0 || mkt.sigma <= 0 || mkt.t <= 0 {
		return
	}
	for i := range legs {
		l := &legs[i]
		if !l.IsOption() || l.Premium != 0 || !(l.Strike > 0) {
			continue
		}
		res, err := c.pricing.CalculateOptionPrice(ctx, &priceapp.OptionPriceRequest{
			OptionType:    string(l.Kind),
			Spot:          mkt.spot,
			Strike:        l.Strike,
			TimeToExpiry:  mkt.t,
			RiskFreeRate:  mkt.riskFree,
			DividendYield: mkt.yield,
			Volatility:    mkt.sigma,
		})
		if err != nil {
			logging.Warn(ctx, "Failed to fill missing premium",
				"kind", l.Kind,
				"strike", l.Strike,
				"error", err,
			)
			continue
		}
		l.Premium = res.Price
	}
}

// riskSearchPoints 组装盈亏极值搜索候选点：分位带端点加带内行权价。
func riskSearchPoints(band simapp.QuantileBandDTO, strikes []float64) []float64 {
	points := []float64{band.Q01, band.Q99}
	for _, k := range strikes {
		if k > band.Q01 && k < band.Q99 {
			points = append(points, k)
		}
	}
	return points
}

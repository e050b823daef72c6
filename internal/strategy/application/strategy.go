// Package application 包含策略分析服务的用例逻辑。
package application

import (
	"context"

	priceapp "github.com/Axelcisn/portfolio-sub000/internal/pricing/application"
	riskapp "github.com/Axelcisn/portfolio-sub000/internal/risk/application"
	simapp "github.com/Axelcisn/portfolio-sub000/internal/simulation/application"
)

// AnalyticsService 策略分析门面服务。
type AnalyticsService struct {
	Command *AnalyticsCommandService
	Query   *AnalyticsQueryService
}

// NewAnalyticsService 构造函数。
func NewAnalyticsService(pricing *priceapp.PricingService, risk *riskapp.RiskService, sim *simapp.SimulationService) *AnalyticsService {
	return &AnalyticsService{
		Command: NewAnalyticsCommandService(pricing, risk, sim),
		Query:   NewAnalyticsQueryService(pricing),
	}
}

// --- Command Facade ---

func (s *AnalyticsService) AnalyzeStrategy(ctx context.Context, req *AnalyzeStrategyRequest) (*AnalysisDTO, error) {
	return s.Command.AnalyzeStrategy(ctx, req)
}

// --- Query Facade ---

func (s *AnalyticsService) ComputeBreakEven(ctx context.Context, req *AnalyzeStrategyRequest) (*BreakEvenDTO, error) {
	return s.Query.ComputeBreakEven(ctx, req)
}

func (s *AnalyticsService) ComputePayoffCurve(ctx context.Context, req *AnalyzeStrategyRequest, samples int) (*PayoffCurveDTO, error) {
	return s.Query.ComputePayoffCurve(ctx, req, samples)
}

func (s *AnalyticsService) ComputePositionGreeks(ctx context.Context, req *AnalyzeStrategyRequest) (*GreeksDTO, error) {
	return s.Query.ComputePositionGreeks(ctx, req)
}

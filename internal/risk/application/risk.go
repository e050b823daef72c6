// Package application 包含策略风险评估的用例逻辑
package application

import (
	"context"
	"fmt"

	"github.com/Axelcisn/portfolio-sub000/internal/risk/domain"
	"github.com/wyfcoding/pkg/logging"
)

// RiskService 策略风险应用服务：盈利概率与损益分布指标。
// 损益函数以闭包形式随命令传入，本服务不感知策略腿结构。
type RiskService struct{}

// NewRiskService 创建风险应用服务实例。
func NewRiskService() *RiskService {
	return &RiskService{}
}

// ProbabilityCommand 盈利概率命令
type ProbabilityCommand struct {
	BreakEvens []float64
	Payoff     domain.PayoffFunc
	Spot       float64
	Sigma      float64
	T          float64
	Drift      float64
}

// EvaluateProbabilityOfProfit 计算解析盈利概率。
// 求不出概率时返回 Probability 为 nil 的 DTO 并附原因，从不报错。
func (s *RiskService) EvaluateProbabilityOfProfit(ctx context.Context, cmd ProbabilityCommand) *ProbabilityDTO {
	res := domain.ProbabilityOfProfit(cmd.BreakEvens, cmd.Payoff, domain.MarketParams{
		Spot:  cmd.Spot,
		Sigma: cmd.Sigma,
		T:     cmd.T,
		Drift: cmd.Drift,
	})
	if res.Probability == nil {
		logging.Debug(ctx, "Probability of profit unavailable",
			"reason", res.Reason,
			"break_evens", len(cmd.BreakEvens),
		)
	}
	return &ProbabilityDTO{
		Probability:    res.Probability,
		Region:         string(res.Region),
		BreakEvensUsed: res.BreakEvensUsed,
		Reason:         res.Reason,
	}
}

// StrategyRiskCommand 策略风险汇总命令。
// PnL 为模拟终值经损益函数映射后的样本；SearchPoints 为极值搜索候选点。
type StrategyRiskCommand struct {
	PnL          []float64
	NetPremium   float64
	Payoff       domain.PayoffFunc
	SearchPoints []float64
}

// AssessStrategyRisk 汇总损益样本的风险指标与尾部风险。
// 样本不足以支撑尾部分位时仅记录告警并省略 VaR/ES。
func (s *RiskService) AssessStrategyRisk(ctx context.Context, cmd StrategyRiskCommand) (*StrategyRiskDTO, error) {
	summary, err := domain.SummarizeRisk(cmd.PnL, cmd.NetPremium, cmd.Payoff, cmd.SearchPoints)
	if err != nil {
		logging.Error(ctx, "Failed to summarize strategy risk",
			"samples", len(cmd.PnL),
			"error", err,
		)
		return nil, fmt.Errorf("failed to summarize strategy risk: %w", err)
	}

	dto := &StrategyRiskDTO{
		ExpectedProfit:      summary.ExpectedProfit,
		ExpectedLoss:        summary.ExpectedLoss,
		ExpectedReturn:      summary.ExpectedReturn,
		ApproxSharpe:        summary.ApproxSharpe,
		ProbabilityOfProfit: summary.ProbabilityOfProfit,
		MaxProfit:           summary.MaxProfit,
		MaxLoss:             summary.MaxLoss,
	}

	tail, err := domain.CalculateTailRisk(cmd.PnL)
	if err != nil {
		logging.Warn(ctx, "Skipping tail risk metrics",
			"samples", len(cmd.PnL),
			"error", err,
		)
		return dto, nil
	}
	dto.VaR95 = tail.VaR95.InexactFloat64()
	dto.VaR99 = tail.VaR99.InexactFloat64()
	dto.ES95 = tail.ES95.InexactFloat64()
	dto.ES99 = tail.ES99.InexactFloat64()
	dto.HasTailMetrics = true
	return dto, nil
}

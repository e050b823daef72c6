package application

import (
	"math"
	"strings"

	riskapp "github.com/Axelcisn/portfolio-sub000/internal/risk/application"
	simapp "github.com/Axelcisn/portfolio-sub000/internal/simulation/application"
	"github.com/Axelcisn/portfolio-sub000/internal/strategy/domain"
)

// LegInput 腿输入。指针字段缺省表示未提供：
// 数量缺省按 1 处理，期权权利金缺省记 0（未知哨兵，由定价器按公允价补齐）；
// 正股腿的 price 与 premium 指向同一内部槽位（每股成本价）。
type LegInput struct {
	Type    string   `json:"type"`
	Side    string   `json:"side"`
	Strike  *float64 `json:"strike,omitempty"`
	Premium *float64 `json:"premium,omitempty"`
	Qty     *float64 `json:"qty,omitempty"`
	Price   *float64 `json:"price,omitempty"`
}

// AnalyzeStrategyRequest 策略分析请求。
// T 与 Days 二选一（Days 按 365 天折年）；DividendYield 与 Q 同义；
// Drift 与 Mu 同义，缺省取风险中性口径 riskFree - dividendYield。
type AnalyzeStrategyRequest struct {
	Legs          []LegInput `json:"legs"`
	Strategy      string     `json:"strategy,omitempty"`
	Spot          float64    `json:"spot"`
	Sigma         float64    `json:"sigma"`
	TimeToExpiry  float64    `json:"T,omitempty"`
	Days          float64    `json:"days,omitempty"`
	RiskFree      float64    `json:"riskFree,omitempty"`
	DividendYield *float64   `json:"dividendYield,omitempty"`
	Q             *float64   `json:"q,omitempty"`
	Drift         *float64   `json:"drift,omitempty"`
	Mu            *float64   `json:"mu,omitempty"`
	Paths         int        `json:"paths,omitempty"`
	Seed          uint64     `json:"seed,omitempty"`
}

// BreakEvenMeta 求解诊断信息。
type BreakEvenMeta struct {
	Strategy    string  `json:"strategy"`
	Method      string  `json:"method"`
	Formula     string  `json:"formula,omitempty"`
	NetPremium  float64 `json:"netPremium"`
	Approx      bool    `json:"approx,omitempty"`
	FixedPayoff bool    `json:"fixedPayoff,omitempty"`
	Reason      string  `json:"reason,omitempty"`
}

// BreakEvenDTO 盈亏平衡响应：0~2 个升序平衡价加求解诊断。
type BreakEvenDTO struct {
	BE   []float64     `json:"be"`
	Meta BreakEvenMeta `json:"meta"`
}

// GreeksDTO 头寸聚合希腊字母（每股口径，多空按方向叠加）。
type GreeksDTO struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Theta float64 `json:"theta"`
	Vega  float64 `json:"vega"`
	Rho   float64 `json:"rho"`
}

// PayoffCurveDTO 到期损益采样曲线。
type PayoffCurveDTO struct {
	Prices  []float64 `json:"prices"`
	Payoffs []float64 `json:"payoffs"`
}

// AnalysisDTO 策略分析聚合结果。
// Greeks/Risk/Simulation 仅在市场参数足以计算时填充。
type AnalysisDTO struct {
	AnalysisID  string                   `json:"analysisId"`
	Strategy    string                   `json:"strategy"`
	BreakEven   *BreakEvenDTO            `json:"breakEven"`
	Probability *riskapp.ProbabilityDTO  `json:"probability"`
	Greeks      *GreeksDTO               `json:"greeks,omitempty"`
	Risk        *riskapp.StrategyRiskDTO `json:"risk,omitempty"`
	Simulation  *simapp.SimulationDTO    `json:"simulation,omitempty"`
	GeneratedAt int64                    `json:"generatedAt"`
}

// marketScalars 定价与概率计算所需的市场参数。
type marketScalars struct {
	spot     float64
	sigma    float64
	t        float64
	riskFree float64
	yield    float64
}

func (r *AnalyzeStrategyRequest) scalars() marketScalars {
	return marketScalars{
		spot:     r.Spot,
		sigma:    r.Sigma,
		t:        r.timeToExpiry(),
		riskFree: r.RiskFree,
		yield:    r.dividendYield(),
	}
}

// timeToExpiry T 优先，否则 Days 按 365 天折年。
func (r *AnalyzeStrategyRequest) timeToExpiry() float64 {
	if r.TimeToExpiry > 0 {
		return r.TimeToExpiry
	}
	if r.Days > 0 {
		return r.Days / 365
	}
	return 0
}

func (r *AnalyzeStrategyRequest) dividendYield() float64 {
	if r.DividendYield != nil {
		return *r.DividendYield
	}
	if r.Q != nil {
		return *r.Q
	}
	return 0
}

// drift 显式 drift/mu 优先，缺省取风险中性口径 r-q。
func (r *AnalyzeStrategyRequest) drift() float64 {
	if r.Drift != nil {
		return *r.Drift
	}
	if r.Mu != nil {
		return *r.Mu
	}
	return r.RiskFree - r.dividendYield()
}

// parseLegs 将外部腿输入映射为领域腿。
// 未知类型原样传递，由规范化层静默过滤；缺失数量以 NaN 标记交由规范化层取默认。
func parseLegs(inputs []LegInput) []domain.Leg {
	legs := make([]domain.Leg, 0, len(inputs))
	for _, in := range inputs {
		kind := domain.LegKind(strings.ToUpper(strings.TrimSpace(in.Type)))
		side := domain.LegSide(strings.ToUpper(strings.TrimSpace(in.Side)))
		qty := math.NaN()
		if in.Qty != nil {
			qty = *in.Qty
		}
		switch kind {
		case domain.LegKindCall:
			legs = append(legs, domain.NewCallLeg(side, floatField(in.Strike), optionPremium(in), qty))
		case domain.LegKindPut:
			legs = append(legs, domain.NewPutLeg(side, floatField(in.Strike), optionPremium(in), qty))
		case domain.LegKindStock:
			legs = append(legs, domain.NewStockLeg(side, stockBasis(in), qty))
		default:
			legs = append(legs, domain.Leg{Kind: kind, Side: side, Quantity: qty})
		}
	}
	return legs
}

// optionPremium 期权腿权利金：premium 优先，price 兜底。
func optionPremium(in LegInput) float64 {
	if in.Premium != nil {
		return *in.Premium
	}
	if in.Price != nil {
		return *in.Price
	}
	return 0
}

// stockBasis 正股腿成本价：price 优先，premium 兜底。
func stockBasis(in LegInput) float64 {
	if in.Price != nil {
		return *in.Price
	}
	if in.Premium != nil {
		return *in.Premium
	}
	return 0
}

func floatField(p *float64) float64 {
	if p != nil {
		return *p
	}
	return math.NaN()
}

// newBreakEvenDTO 将领域求解结果映射为响应 DTO。
func newBreakEvenDTO(res domain.BreakEvenResult) *BreakEvenDTO {
	return &BreakEvenDTO{
		BE: res.BreakEvens,
		Meta: BreakEvenMeta{
			Strategy:    res.StrategyTag,
			Method:      string(res.Method),
			Formula:     res.Diagnostics.Formula,
			NetPremium:  res.Diagnostics.NetPremium,
			Approx:      res.Diagnostics.Approx,
			FixedPayoff: res.Diagnostics.FixedPayoff,
			Reason:      res.Diagnostics.Reason,
		},
	}
}

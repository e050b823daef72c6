package domain

import (
	"math"
	"sort"
	"strings"
)

// BreakEvenMethod 盈亏平衡点求解方式
type BreakEvenMethod string

const (
	MethodClosedForm      BreakEvenMethod = "CLOSED_FORM"
	MethodNumericFallback BreakEvenMethod = "NUMERIC_FALLBACK"
)

// TagCustom 未识别拓扑的兜底标签。
const TagCustom = "custom"

// Diagnostics 求解过程信息，随结果一并返回供调用方展示解释。
type Diagnostics struct {
	Formula     string
	NetPremium  float64
	Approx      bool
	FixedPayoff bool
	Reason      string
}

// BreakEvenResult 盈亏平衡求解结果：0~2 个升序价格。
// 固定收益结构（盒式、转换）返回零个平衡点并置 FixedPayoff 标记，区别于无法计算。
type BreakEvenResult struct {
	BreakEvens  []float64
	Method      BreakEvenMethod
	StrategyTag string
	Diagnostics Diagnostics
}

// CanonicalTag 将外部策略标签规范化为小写下划线形式。
func CanonicalTag(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, " ", "_")
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return s
}

// topology 腿集合的拓扑指纹：按类型/方向分组并按行权价升序。
type topology struct {
	longCalls   []Leg
	shortCalls  []Leg
	longPuts    []Leg
	shortPuts   []Leg
	longStocks  []Leg
	shortStocks []Leg
}

func buildTopology(s NormalizedStrategy) topology {
	var t topology
	for _, l := range s.Legs {
		if l.Quantity <= 0 {
			continue
		}
		switch {
		case l.Kind == LegKindCall && l.Side == LegSideLong:
			t.longCalls = append(t.longCalls, l)
		case l.Kind == LegKindCall && l.Side == LegSideShort:
			t.shortCalls = append(t.shortCalls, l)
		case l.Kind == LegKindPut && l.Side == LegSideLong:
			t.longPuts = append(t.longPuts, l)
		case l.Kind == LegKindPut && l.Side == LegSideShort:
			t.shortPuts = append(t.shortPuts, l)
		case l.Kind == LegKindStock && l.Side == LegSideLong:
			t.longStocks = append(t.longStocks, l)
		case l.Kind == LegKindStock && l.Side == LegSideShort:
			t.shortStocks = append(t.shortStocks, l)
		}
	}
	byStrike := func(legs []Leg) {
		sort.Slice(legs, func(i, j int) bool { return legs[i].Strike < legs[j].Strike })
	}
	byStrike(t.longCalls)
	byStrike(t.shortCalls)
	byStrike(t.longPuts)
	byStrike(t.shortPuts)
	return t
}

func (t topology) stockCount() int {
	return len(t.longStocks) + len(t.shortStocks)
}

func (t topology) optionCount() int {
	return len(t.longCalls) + len(t.shortCalls) + len(t.longPuts) + len(t.shortPuts)
}

// uniformQty 所有腿数量一致时返回该数量。
func uniformQty(groups ...[]Leg) (float64, bool) {
	q := 0.0
	for _, legs := range groups {
		for _, l := range legs {
			if q == 0 {
				q = l.Quantity
				continue
			}
			if !almostEq(l.Quantity, q) {
				return 0, false
			}
		}
	}
	return q, q > 0
}

// medianStrike 行权价中位数；偶数条腿取中间两值均值（空头同类多腿时的"中间行权价"规则）。
func medianStrike(legs []Leg) float64 {
	n := len(legs)
	if n == 0 {
		return 0
	}
	ks := make([]float64, n)
	for i, l := range legs {
		ks[i] = l.Strike
	}
	sort.Float64s(ks)
	if n%2 == 1 {
		return ks[n/2]
	}
	return (ks[n/2-1] + ks[n/2]) / 2
}

func almostEq(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

// SolveBreakEvens 求解策略盈亏平衡点。
// 显式标签优先匹配对应闭式公式；否则按目录顺序探测拓扑；全部不中时退化为数值扫描。
// 对结构合法的腿集合从不报错：求不出根时返回空数组。
func SolveBreakEvens(s NormalizedStrategy, tag string, spot float64) BreakEvenResult {
	canon := CanonicalTag(tag)
	if len(s.Legs) == 0 {
		return BreakEvenResult{
			BreakEvens:  []float64{},
			Method:      MethodNumericFallback,
			StrategyTag: fallbackTag(canon),
			Diagnostics: Diagnostics{Reason: "no legs", NetPremium: 0},
		}
	}

	t := buildTopology(s)

	// 日历/对角价差携带不同到期日，腿结构上与垂直价差同形，只能由显式标签选中。
	if canon == TagCalendarSpread || canon == TagDiagonalSpread {
		if res, ok := tryCalendarOrDiagonal(s, t, canon); ok {
			return *res
		}
	}
	if try, ok := taggedForms[canon]; ok {
		if res, ok2 := try(s, t); ok2 {
			return *res
		}
	}
	for _, cf := range probeCatalog {
		if res, ok := cf.try(s, t); ok {
			return *res
		}
	}

	roots := FindBreakEvensNumeric(s, spot)
	if roots == nil {
		roots = []float64{}
	}
	return BreakEvenResult{
		BreakEvens:  roots,
		Method:      MethodNumericFallback,
		StrategyTag: fallbackTag(canon),
		Diagnostics: Diagnostics{
			Formula:    "piecewise linear scan",
			NetPremium: s.NetPremium,
		},
	}
}

// fallbackTag 回退路径的标签：已识别标签原样回显，否则记为 custom。
func fallbackTag(canon string) string {
	if canon == "" {
		return TagCustom
	}
	if _, ok := taggedForms[canon]; ok {
		return canon
	}
	if canon == TagCalendarSpread || canon == TagDiagonalSpread {
		return canon
	}
	return TagCustom
}

// closedFormResult 组装闭式结果：过滤非正价格并升序。
func closedFormResult(tag, formula string, net float64, bes ...float64) *BreakEvenResult {
	out := make([]float64, 0, len(bes))
	for _, b := range bes {
		if isFinite(b) && b > 0 {
			out = append(out, b)
		}
	}
	sort.Float64s(out)
	return &BreakEvenResult{
		BreakEvens:  out,
		Method:      MethodClosedForm,
		StrategyTag: tag,
		Diagnostics: Diagnostics{Formula: formula, NetPremium: net},
	}
}

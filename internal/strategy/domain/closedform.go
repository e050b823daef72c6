package domain

// 闭式公式目录。每个条目对腿拓扑做严格匹配：不匹配时返回 (nil, false)
// 交给下一个候选，全部不中由数值回退兜底；借贷方向一律由净权利金符号推导，
// 从不信任策略展示名。

const (
	TagLongCall             = "long_call"
	TagShortCall            = "short_call"
	TagLongPut              = "long_put"
	TagShortPut             = "short_put"
	TagCoveredCall          = "covered_call"
	TagProtectivePut        = "protective_put"
	TagCoveredPut           = "covered_put"
	TagProtectiveCall       = "protective_call"
	TagBullCallSpread       = "bull_call_spread"
	TagBearCallSpread       = "bear_call_spread"
	TagBullPutSpread        = "bull_put_spread"
	TagBearPutSpread        = "bear_put_spread"
	TagLongStraddle         = "long_straddle"
	TagShortStraddle        = "short_straddle"
	TagLongStrangle         = "long_strangle"
	TagShortStrangle        = "short_strangle"
	TagLongCallButterfly    = "long_call_butterfly"
	TagLongPutButterfly     = "long_put_butterfly"
	TagShortCallButterfly   = "short_call_butterfly"
	TagShortPutButterfly    = "short_put_butterfly"
	TagIronButterfly        = "iron_butterfly"
	TagReverseIronButterfly = "reverse_iron_butterfly"
	TagIronCondor           = "iron_condor"
	TagReverseIronCondor    = "reverse_iron_condor"
	TagCallRatioSpread      = "call_ratio_spread"
	TagPutRatioSpread       = "put_ratio_spread"
	TagCallBackspread       = "call_backspread"
	TagPutBackspread        = "put_backspread"
	TagCollar               = "collar"
	TagBoxSpread            = "box_spread"
	TagReversal             = "reversal"
	TagCalendarSpread       = "calendar_spread"
	TagDiagonalSpread       = "diagonal_spread"
	TagStrap                = "strap"
	TagStrip                = "strip"
)

type tryFunc func(s NormalizedStrategy, t topology) (*BreakEvenResult, bool)

type closedForm struct {
	tag string
	try tryFunc
}

// probeCatalog 拓扑探测顺序：结构最特殊的优先，单腿兜底。
// 日历/对角价差不参与探测（与垂直价差同形），仅由显式标签选中。
var probeCatalog = []closedForm{
	{TagBoxSpread, tryBoxSpread},
	{TagReversal, tryReversal},
	{TagIronButterfly, tryIronButterfly},
	{TagReverseIronButterfly, tryReverseIronButterfly},
	{TagIronCondor, tryIronCondor},
	{TagReverseIronCondor, tryReverseIronCondor},
	{TagLongCallButterfly, tryLongCallButterfly},
	{TagLongPutButterfly, tryLongPutButterfly},
	{TagShortCallButterfly, tryShortCallButterfly},
	{TagShortPutButterfly, tryShortPutButterfly},
	{TagLongStraddle, tryLongStraddle},
	{TagShortStraddle, tryShortStraddle},
	{TagLongStrangle, tryLongStrangle},
	{TagShortStrangle, tryShortStrangle},
	{TagStrap, tryStrap},
	{TagStrip, tryStrip},
	{TagCoveredCall, tryCoveredCall},
	{TagProtectivePut, tryProtectivePut},
	{TagCoveredPut, tryCoveredPut},
	{TagProtectiveCall, tryProtectiveCall},
	{TagCollar, tryCollar},
	{TagBullCallSpread, tryBullCallSpread},
	{TagBearCallSpread, tryBearCallSpread},
	{TagBullPutSpread, tryBullPutSpread},
	{TagBearPutSpread, tryBearPutSpread},
	{TagCallRatioSpread, tryCallRatioSpread},
	{TagPutRatioSpread, tryPutRatioSpread},
	{TagCallBackspread, tryCallBackspread},
	{TagPutBackspread, tryPutBackspread},
	{TagLongCall, tryLongCall},
	{TagShortCall, tryShortCall},
	{TagLongPut, tryLongPut},
	{TagShortPut, tryShortPut},
}

// taggedForms 显式标签到公式的索引。
var taggedForms = func() map[string]tryFunc {
	m := make(map[string]tryFunc, len(probeCatalog))
	for _, cf := range probeCatalog {
		m[cf.tag] = cf.try
	}
	return m
}()

// strikeLevel 同一行权价上的多空数量汇总。
type strikeLevel struct {
	strike   float64
	longQty  float64
	shortQty float64
}

func strikeLevels(longLegs, shortLegs []Leg) []strikeLevel {
	levels := make([]strikeLevel, 0, len(longLegs)+len(shortLegs))
	add := func(k, q float64, long bool) {
		for i := range levels {
			if almostEq(levels[i].strike, k) {
				if long {
					levels[i].longQty += q
				} else {
					levels[i].shortQty += q
				}
				return
			}
		}
		lv := strikeLevel{strike: k}
		if long {
			lv.longQty = q
		} else {
			lv.shortQty = q
		}
		levels = append(levels, lv)
	}
	for _, l := range longLegs {
		add(l.Strike, l.Quantity, true)
	}
	for _, l := range shortLegs {
		add(l.Strike, l.Quantity, false)
	}
	for i := 1; i < len(levels); i++ {
		for j := i; j > 0 && levels[j].strike < levels[j-1].strike; j-- {
			levels[j], levels[j-1] = levels[j-1], levels[j]
		}
	}
	return levels
}

func onlyCalls(t topology) bool {
	return len(t.longPuts) == 0 && len(t.shortPuts) == 0 && t.stockCount() == 0
}

func onlyPuts(t topology) bool {
	return len(t.longCalls) == 0 && len(t.shortCalls) == 0 && t.stockCount() == 0
}

func onlyOptions(t topology) bool {
	return t.stockCount() == 0
}

const widthTol = 1e-12

// ---- 单腿 ----

func tryLongCall(s NormalizedStrategy, t topology) (*BreakEvenResult, bool) {
	if !onlyCalls(t) || len(t.longCalls) != 1 || len(t.shortCalls) != 0 {
		return nil, false
	}
	l := t.longCalls[0]
	return closedFormResult(TagLongCall, "strike + premium", s.NetPremium, l.Strike+l.Premium), true
}

func tryShortCall(s NormalizedStrategy, t topology) (*BreakEvenResult, bool) {
	if !onlyCalls(t) || len(t.shortCalls) != 1 || len(t.longCalls) != 0 {
		return nil, false
	}
	l := t.shortCalls[0]
	return closedFormResult(TagShortCall, "strike + credit", s.NetPremium, l.Strike+l.Premium), true
}

func tryLongPut(s NormalizedStrategy, t topology) (*BreakEvenResult, bool) {
	if !onlyPuts(t) || len(t.longPuts) != 1 || len(t.shortPuts) != 0 {
		return nil, false
	}
	l := t.longPuts[0]
	return closedFormResult(TagLongPut, "strike - premium", s.NetPremium, l.Strike-l.Premium), true
}

func tryShortPut(s NormalizedStrategy, t topology) (*BreakEvenResult, bool) {
	if !onlyPuts(t) || len(t.shortPuts) != 1 || len(t.longPuts) != 0 {
		return nil, false
	}
	l := t.shortPuts[0]
	return closedFormResult(TagShortPut, "strike - credit", s.NetPremium, l.Strike-l.Premium), true
}

// ---- 垂直价差（等量两腿） ----

func tryBullCallSpread(s NormalizedStrategy, t topology) (*BreakEvenResult, bool) {
	if !onlyCalls(t) || len(t.longCalls) != 1 || len(t.shortCalls) != 1 {
		return nil, false
	}
	lo, hi := t.longCalls[0], t.shortCalls[0]
	u, ok := uniformQty(t.longCalls, t.shortCalls)
	if !ok || lo.Strike >= hi.Strike {
		return nil, false
	}
	d := s.NetPremium / u
	if d <= 0 || d > hi.Strike-lo.Strike+widthTol {
		return nil, false
	}
	return closedFormResult(TagBullCallSpread, "lower strike + net debit", s.NetPremium, lo.Strike+d), true
}

func tryBearCallSpread(s NormalizedStrategy, t topology) (*BreakEvenResult, bool) {
	if !onlyCalls(t) || len(t.longCalls) != 1 || len(t.shortCalls) != 1 {
		return nil, false
	}
	lo, hi := t.shortCalls[0], t.longCalls[0]
	u, ok := uniformQty(t.longCalls, t.shortCalls)
	if !ok || lo.Strike >= hi.Strike {
		return nil, false
	}
	c := -s.NetPremium / u
	if c <= 0 || c > hi.Strike-lo.Strike+widthTol {
		return nil, false
	}
	return closedFormResult(TagBearCallSpread, "lower strike + net credit", s.NetPremium, lo.Strike+c), true
}

func tryBullPutSpread(s NormalizedStrategy, t topology) (*BreakEvenResult, bool) {
	if !onlyPuts(t) || len(t.longPuts) != 1 || len(t.shortPuts) != 1 {
		return nil, false
	}
	lo, hi := t.longPuts[0], t.shortPuts[0]
	u, ok := uniformQty(t.longPuts, t.shortPuts)
	if !ok || lo.Strike >= hi.Strike {
		return nil, false
	}
	c := -s.NetPremium / u
	if c <= 0 || c > hi.Strike-lo.Strike+widthTol {
		return nil, false
	}
	return closedFormResult(TagBullPutSpread, "upper strike - net credit", s.NetPremium, hi.Strike-c), true
}

func tryBearPutSpread(s NormalizedStrategy, t topology) (*BreakEvenResult, bool) {
	if !onlyPuts(t) || len(t.longPuts) != 1 || len(t.shortPuts) != 1 {
		return nil, false
	}
	lo, hi := t.shortPuts[0], t.longPuts[0]
	u, ok := uniformQty(t.longPuts, t.shortPuts)
	if !ok || lo.Strike >= hi.Strike {
		return nil, false
	}
	d := s.NetPremium / u
	if d <= 0 || d > hi.Strike-lo.Strike+widthTol {
		return nil, false
	}
	return closedFormResult(TagBearPutSpread, "upper strike - net debit", s.NetPremium, hi.Strike-d), true
}

// ---- 跨式 / 宽跨式 ----

func tryLongStraddle(s NormalizedStrategy, t topology) (*BreakEvenResult, bool) {
	if !onlyOptions(t) || len(t.longCalls) != 1 || len(t.longPuts) != 1 ||
		len(t.shortCalls) != 0 || len(t.shortPuts) != 0 {
		return nil, false
	}
	c, p := t.longCalls[0], t.longPuts[0]
	u, ok := uniformQty(t.longCalls, t.longPuts)
	if !ok || !almostEq(c.Strike, p.Strike) {
		return nil, false
	}
	d := s.NetPremium / u
	if d <= 0 {
		return nil, false
	}
	return closedFormResult(TagLongStraddle, "strike ± total debit", s.NetPremium, c.Strike-d, c.Strike+d), true
}

func tryShortStraddle(s NormalizedStrategy, t topology) (*BreakEvenResult, bool) {
	if !onlyOptions(t) || len(t.shortCalls) != 1 || len(t.shortPuts) != 1 ||
		len(t.longCalls) != 0 || len(t.longPuts) != 0 {
		return nil, false
	}
	c, p := t.shortCalls[0], t.shortPuts[0]
	u, ok := uniformQty(t.shortCalls, t.shortPuts)
	if !ok || !almostEq(c.Strike, p.Strike) {
		return nil, false
	}
	cr := -s.NetPremium / u
	if cr <= 0 {
		return nil, false
	}
	return closedFormResult(TagShortStraddle, "strike ± total credit", s.NetPremium, c.Strike-cr, c.Strike+cr), true
}

func tryLongStrangle(s NormalizedStrategy, t topology) (*BreakEvenResult, bool) {
	if !onlyOptions(t) || len(t.longCalls) != 1 || len(t.longPuts) != 1 ||
		len(t.shortCalls) != 0 || len(t.shortPuts) != 0 {
		return nil, false
	}
	c, p := t.longCalls[0], t.longPuts[0]
	u, ok := uniformQty(t.longCalls, t.longPuts)
	if !ok || p.Strike >= c.Strike {
		return nil, false
	}
	d := s.NetPremium / u
	if d <= 0 {
		return nil, false
	}
	return closedFormResult(TagLongStrangle, "put strike - debit / call strike + debit", s.NetPremium, p.Strike-d, c.Strike+d), true
}

// tryShortStrangle 允许每侧多条空头腿：同类空头多腿时按"中间行权价"规则取中位数。
func tryShortStrangle(s NormalizedStrategy, t topology) (*BreakEvenResult, bool) {
	if !onlyOptions(t) || len(t.shortCalls) == 0 || len(t.shortPuts) == 0 ||
		len(t.longCalls) != 0 || len(t.longPuts) != 0 {
		return nil, false
	}
	u, ok := uniformQty(t.shortCalls, t.shortPuts)
	if !ok {
		return nil, false
	}
	kp := medianStrike(t.shortPuts)
	kc := medianStrike(t.shortCalls)
	if kp >= kc {
		return nil, false
	}
	cr := -s.NetPremium / u
	if cr <= 0 {
		return nil, false
	}
	return closedFormResult(TagShortStrangle, "put strike - credit / call strike + credit", s.NetPremium, kp-cr, kc+cr), true
}

// ---- 带式（同一行权价、2:1 的纯多头组合） ----

func tryStrap(s NormalizedStrategy, t topology) (*BreakEvenResult, bool) {
	return tryStrapStrip(s, t, TagStrap)
}

func tryStrip(s NormalizedStrategy, t topology) (*BreakEvenResult, bool) {
	return tryStrapStrip(s, t, TagStrip)
}

func tryStrapStrip(s NormalizedStrategy, t topology, tag string) (*BreakEvenResult, bool) {
	if !onlyOptions(t) || len(t.shortCalls) != 0 || len(t.shortPuts) != 0 ||
		len(t.longCalls) == 0 || len(t.longPuts) == 0 {
		return nil, false
	}
	cl := strikeLevels(t.longCalls, nil)
	pl := strikeLevels(t.longPuts, nil)
	if len(cl) != 1 || len(pl) != 1 || !almostEq(cl[0].strike, pl[0].strike) {
		return nil, false
	}
	qc, qp := cl[0].longQty, pl[0].longQty
	if tag == TagStrap && !almostEq(qc, 2*qp) {
		return nil, false
	}
	if tag == TagStrip && !almostEq(qp, 2*qc) {
		return nil, false
	}
	net := s.NetPremium
	if net <= 0 {
		return nil, false
	}
	k := cl[0].strike
	return closedFormResult(tag, "strike - debit/put qty, strike + debit/call qty", net, k-net/qp, k+net/qc), true
}

// ---- 含正股组合 ----

func tryCoveredCall(s NormalizedStrategy, t topology) (*BreakEvenResult, bool) {
	if len(t.longStocks) != 1 || t.stockCount() != 1 || t.optionCount() != 1 || len(t.shortCalls) != 1 {
		return nil, false
	}
	st, c := t.longStocks[0], t.shortCalls[0]
	if !almostEq(st.Quantity, c.Quantity) || st.Premium <= 0 {
		return nil, false
	}
	be := st.Premium - c.Premium
	if be > c.Strike+widthTol {
		return nil, false
	}
	return closedFormResult(TagCoveredCall, "stock basis - call credit", s.NetPremium, be), true
}

func tryProtectivePut(s NormalizedStrategy, t topology) (*BreakEvenResult, bool) {
	if len(t.longStocks) != 1 || t.stockCount() != 1 || t.optionCount() != 1 || len(t.longPuts) != 1 {
		return nil, false
	}
	st, p := t.longStocks[0], t.longPuts[0]
	if !almostEq(st.Quantity, p.Quantity) || st.Premium <= 0 {
		return nil, false
	}
	be := st.Premium + p.Premium
	if be < p.Strike-widthTol {
		return nil, false
	}
	return closedFormResult(TagProtectivePut, "stock basis + put debit", s.NetPremium, be), true
}

func tryCoveredPut(s NormalizedStrategy, t topology) (*BreakEvenResult, bool) {
	if len(t.shortStocks) != 1 || t.stockCount() != 1 || t.optionCount() != 1 || len(t.shortPuts) != 1 {
		return nil, false
	}
	st, p := t.shortStocks[0], t.shortPuts[0]
	if !almostEq(st.Quantity, p.Quantity) || st.Premium <= 0 {
		return nil, false
	}
	be := st.Premium + p.Premium
	if be < p.Strike-widthTol {
		return nil, false
	}
	return closedFormResult(TagCoveredPut, "short basis + put credit", s.NetPremium, be), true
}

func tryProtectiveCall(s NormalizedStrategy, t topology) (*BreakEvenResult, bool) {
	if len(t.shortStocks) != 1 || t.stockCount() != 1 || t.optionCount() != 1 || len(t.longCalls) != 1 {
		return nil, false
	}
	st, c := t.shortStocks[0], t.longCalls[0]
	if !almostEq(st.Quantity, c.Quantity) || st.Premium <= 0 {
		return nil, false
	}
	be := st.Premium - c.Premium
	if be > c.Strike+widthTol {
		return nil, false
	}
	return closedFormResult(TagProtectiveCall, "short basis - call debit", s.NetPremium, be), true
}

func tryCollar(s NormalizedStrategy, t topology) (*BreakEvenResult, bool) {
	if len(t.longStocks) != 1 || t.stockCount() != 1 ||
		len(t.longPuts) != 1 || len(t.shortCalls) != 1 || t.optionCount() != 2 {
		return nil, false
	}
	st, p, c := t.longStocks[0], t.longPuts[0], t.shortCalls[0]
	u, ok := uniformQty([]Leg{st}, t.longPuts, t.shortCalls)
	if !ok || p.Strike >= c.Strike || st.Premium <= 0 {
		return nil, false
	}
	be := st.Premium + s.NetPremium/u
	if be < p.Strike-widthTol || be > c.Strike+widthTol {
		return nil, false
	}
	return closedFormResult(TagCollar, "stock basis + net option premium", s.NetPremium, be), true
}

// ---- 蝶式 ----

// butterflyLevels 校验 1:2:1 翼宽相等的三层结构。wingsLong 表示翼为多头（体为空头）。
func butterflyLevels(longLegs, shortLegs []Leg, wingsLong bool) ([]strikeLevel, float64, bool) {
	levels := strikeLevels(longLegs, shortLegs)
	if len(levels) != 3 {
		return nil, 0, false
	}
	w0, body, w1 := levels[0], levels[1], levels[2]
	if !almostEq(w1.strike-body.strike, body.strike-w0.strike) {
		return nil, 0, false
	}
	if wingsLong {
		u := w0.longQty
		if u <= 0 || w0.shortQty != 0 || w1.shortQty != 0 || body.longQty != 0 ||
			!almostEq(w1.longQty, u) || !almostEq(body.shortQty, 2*u) {
			return nil, 0, false
		}
		return levels, u, true
	}
	u := w0.shortQty
	if u <= 0 || w0.longQty != 0 || w1.longQty != 0 || body.shortQty != 0 ||
		!almostEq(w1.shortQty, u) || !almostEq(body.longQty, 2*u) {
		return nil, 0, false
	}
	return levels, u, true
}

func tryLongCallButterfly(s NormalizedStrategy, t topology) (*BreakEvenResult, bool) {
	if !onlyCalls(t) {
		return nil, false
	}
	return longButterfly(s, t.longCalls, t.shortCalls, TagLongCallButterfly)
}

func tryLongPutButterfly(s NormalizedStrategy, t topology) (*BreakEvenResult, bool) {
	if !onlyPuts(t) {
		return nil, false
	}
	return longButterfly(s, t.longPuts, t.shortPuts, TagLongPutButterfly)
}

func tryShortCallButterfly(s NormalizedStrategy, t topology) (*BreakEvenResult, bool) {
	if !onlyCalls(t) {
		return nil, false
	}
	return shortButterfly(s, t.longCalls, t.shortCalls, TagShortCallButterfly)
}

func tryShortPutButterfly(s NormalizedStrategy, t topology) (*BreakEvenResult, bool) {
	if !onlyPuts(t) {
		return nil, false
	}
	return shortButterfly(s, t.longPuts, t.shortPuts, TagShortPutButterfly)
}

// longButterfly 翼多体空，净支出 D：平衡点 [K1+D, K3-D]（D 不超过翼宽时）。
func longButterfly(s NormalizedStrategy, longLegs, shortLegs []Leg, tag string) (*BreakEvenResult, bool) {
	levels, u, ok := butterflyLevels(longLegs, shortLegs, true)
	if !ok {
		return nil, false
	}
	d := s.NetPremium / u
	if d <= 0 {
		return nil, false
	}
	bes := make([]float64, 0, 2)
	if d <= levels[1].strike-levels[0].strike+widthTol {
		bes = append(bes, levels[0].strike+d)
	}
	if d <= levels[2].strike-levels[1].strike+widthTol {
		bes = append(bes, levels[2].strike-d)
	}
	return closedFormResult(tag, "lower wing + debit / upper wing - debit", s.NetPremium, bes...), true
}

// shortButterfly 翼空体多，净收入 C：平衡点 [K1+C, K3-C]，盈利区在两翼之外。
func shortButterfly(s NormalizedStrategy, longLegs, shortLegs []Leg, tag string) (*BreakEvenResult, bool) {
	levels, u, ok := butterflyLevels(longLegs, shortLegs, false)
	if !ok {
		return nil, false
	}
	c := -s.NetPremium / u
	if c <= 0 {
		return nil, false
	}
	bes := make([]float64, 0, 2)
	if c <= levels[1].strike-levels[0].strike+widthTol {
		bes = append(bes, levels[0].strike+c)
	}
	if c <= levels[2].strike-levels[1].strike+widthTol {
		bes = append(bes, levels[2].strike-c)
	}
	return closedFormResult(tag, "lower wing + credit / upper wing - credit", s.NetPremium, bes...), true
}

// ---- 铁蝶 / 铁鹰 ----

func tryIronButterfly(s NormalizedStrategy, t topology) (*BreakEvenResult, bool) {
	if !onlyOptions(t) || len(t.shortPuts) != 1 || len(t.shortCalls) != 1 ||
		len(t.longPuts) != 1 || len(t.longCalls) != 1 {
		return nil, false
	}
	sp, sc, lp, lc := t.shortPuts[0], t.shortCalls[0], t.longPuts[0], t.longCalls[0]
	u, ok := uniformQty(t.shortPuts, t.shortCalls, t.longPuts, t.longCalls)
	if !ok || !almostEq(sp.Strike, sc.Strike) || lp.Strike >= sp.Strike || lc.Strike <= sc.Strike {
		return nil, false
	}
	cr := -s.NetPremium / u
	if cr <= 0 {
		return nil, false
	}
	body := sp.Strike
	bes := make([]float64, 0, 2)
	if cr <= body-lp.Strike+widthTol {
		bes = append(bes, body-cr)
	}
	if cr <= lc.Strike-body+widthTol {
		bes = append(bes, body+cr)
	}
	return closedFormResult(TagIronButterfly, "body strike ± net credit", s.NetPremium, bes...), true
}

func tryReverseIronButterfly(s NormalizedStrategy, t topology) (*BreakEvenResult, bool) {
	if !onlyOptions(t) || len(t.shortPuts) != 1 || len(t.shortCalls) != 1 ||
		len(t.longPuts) != 1 || len(t.longCalls) != 1 {
		return nil, false
	}
	sp, sc, lp, lc := t.shortPuts[0], t.shortCalls[0], t.longPuts[0], t.longCalls[0]
	u, ok := uniformQty(t.shortPuts, t.shortCalls, t.longPuts, t.longCalls)
	if !ok || !almostEq(lp.Strike, lc.Strike) || sp.Strike >= lp.Strike || sc.Strike <= lc.Strike {
		return nil, false
	}
	d := s.NetPremium / u
	if d <= 0 {
		return nil, false
	}
	body := lp.Strike
	bes := make([]float64, 0, 2)
	if d <= body-sp.Strike+widthTol {
		bes = append(bes, body-d)
	}
	if d <= sc.Strike-body+widthTol {
		bes = append(bes, body+d)
	}
	return closedFormResult(TagReverseIronButterfly, "body strike ± net debit", s.NetPremium, bes...), true
}

func tryIronCondor(s NormalizedStrategy, t topology) (*BreakEvenResult, bool) {
	if !onlyOptions(t) || len(t.shortPuts) != 1 || len(t.shortCalls) != 1 ||
		len(t.longPuts) != 1 || len(t.longCalls) != 1 {
		return nil, false
	}
	lp, sp, sc, lc := t.longPuts[0], t.shortPuts[0], t.shortCalls[0], t.longCalls[0]
	u, ok := uniformQty(t.shortPuts, t.shortCalls, t.longPuts, t.longCalls)
	if !ok || !(lp.Strike < sp.Strike && sp.Strike < sc.Strike && sc.Strike < lc.Strike) {
		return nil, false
	}
	cr := -s.NetPremium / u
	if cr <= 0 {
		return nil, false
	}
	bes := make([]float64, 0, 2)
	if cr <= sp.Strike-lp.Strike+widthTol {
		bes = append(bes, sp.Strike-cr)
	}
	if cr <= lc.Strike-sc.Strike+widthTol {
		bes = append(bes, sc.Strike+cr)
	}
	return closedFormResult(TagIronCondor, "short put - credit / short call + credit", s.NetPremium, bes...), true
}

func tryReverseIronCondor(s NormalizedStrategy, t topology) (*BreakEvenResult, bool) {
	if !onlyOptions(t) || len(t.shortPuts) != 1 || len(t.shortCalls) != 1 ||
		len(t.longPuts) != 1 || len(t.longCalls) != 1 {
		return nil, false
	}
	sp, lp, lc, sc := t.shortPuts[0], t.longPuts[0], t.longCalls[0], t.shortCalls[0]
	u, ok := uniformQty(t.shortPuts, t.shortCalls, t.longPuts, t.longCalls)
	if !ok || !(sp.Strike < lp.Strike && lp.Strike < lc.Strike && lc.Strike < sc.Strike) {
		return nil, false
	}
	d := s.NetPremium / u
	if d <= 0 {
		return nil, false
	}
	bes := make([]float64, 0, 2)
	if d <= lp.Strike-sp.Strike+widthTol {
		bes = append(bes, lp.Strike-d)
	}
	if d <= sc.Strike-lc.Strike+widthTol {
		bes = append(bes, lc.Strike+d)
	}
	return closedFormResult(TagReverseIronCondor, "long put - debit / long call + debit", s.NetPremium, bes...), true
}

// ---- 比例价差 / 反向比例价差 ----

// ratioLevels 同类期权两层行权价、一多一空的数量与行权价。
func ratioLevels(longLegs, shortLegs []Leg) (kLong, kShort, qLong, qShort float64, ok bool) {
	ll := strikeLevels(longLegs, nil)
	sl := strikeLevels(shortLegs, nil)
	if len(ll) != 1 || len(sl) != 1 || almostEq(ll[0].strike, sl[0].strike) {
		return 0, 0, 0, 0, false
	}
	return ll[0].strike, sl[0].strike, ll[0].longQty, sl[0].shortQty, true
}

// tryCallRatioSpread 低买高卖且空头更多：上方平衡点 K2 + 峰值/(qS-qL)。
func tryCallRatioSpread(s NormalizedStrategy, t topology) (*BreakEvenResult, bool) {
	if !onlyCalls(t) || len(t.longCalls) == 0 || len(t.shortCalls) == 0 {
		return nil, false
	}
	k1, k2, qL, qS, ok := ratioLevels(t.longCalls, t.shortCalls)
	if !ok || k1 >= k2 || qS <= qL {
		return nil, false
	}
	net := s.NetPremium
	bes := make([]float64, 0, 2)
	if net >= 0 && net/qL <= k2-k1+widthTol {
		bes = append(bes, k1+net/qL)
	}
	peak := qL*(k2-k1) - net
	if peak > 0 {
		bes = append(bes, k2+peak/(qS-qL))
	}
	return closedFormResult(TagCallRatioSpread, "lower strike + debit/long qty, upper strike + peak/extra shorts", net, bes...), true
}

func tryPutRatioSpread(s NormalizedStrategy, t topology) (*BreakEvenResult, bool) {
	if !onlyPuts(t) || len(t.longPuts) == 0 || len(t.shortPuts) == 0 {
		return nil, false
	}
	k2, k1, qL, qS, ok := ratioLevels(t.longPuts, t.shortPuts)
	if !ok || k1 >= k2 || qS <= qL {
		return nil, false
	}
	net := s.NetPremium
	bes := make([]float64, 0, 2)
	if net >= 0 && net/qL <= k2-k1+widthTol {
		bes = append(bes, k2-net/qL)
	}
	peak := qL*(k2-k1) - net
	if peak > 0 {
		bes = append(bes, k1-peak/(qS-qL))
	}
	return closedFormResult(TagPutRatioSpread, "upper strike - debit/long qty, lower strike - peak/extra shorts", net, bes...), true
}

// tryCallBackspread 低卖高买且多头更多。
func tryCallBackspread(s NormalizedStrategy, t topology) (*BreakEvenResult, bool) {
	if !onlyCalls(t) || len(t.longCalls) == 0 || len(t.shortCalls) == 0 {
		return nil, false
	}
	k2, k1, qL, qS, ok := ratioLevels(t.longCalls, t.shortCalls)
	if !ok || k1 >= k2 || qL <= qS {
		return nil, false
	}
	net := s.NetPremium
	bes := make([]float64, 0, 2)
	if net <= 0 && -net/qS <= k2-k1+widthTol {
		bes = append(bes, k1-net/qS)
	}
	valley := -qS*(k2-k1) - net
	if valley < 0 {
		bes = append(bes, k2-valley/(qL-qS))
	}
	return closedFormResult(TagCallBackspread, "lower strike + credit/short qty, upper strike + valley/extra longs", net, bes...), true
}

func tryPutBackspread(s NormalizedStrategy, t topology) (*BreakEvenResult, bool) {
	if !onlyPuts(t) || len(t.longPuts) == 0 || len(t.shortPuts) == 0 {
		return nil, false
	}
	k1, k2, qL, qS, ok := ratioLevels(t.longPuts, t.shortPuts)
	if !ok || k1 >= k2 || qL <= qS {
		return nil, false
	}
	net := s.NetPremium
	bes := make([]float64, 0, 2)
	if net <= 0 && -net/qS <= k2-k1+widthTol {
		bes = append(bes, k2+net/qS)
	}
	valley := -qS*(k2-k1) - net
	if valley < 0 {
		bes = append(bes, k1+valley/(qL-qS))
	}
	return closedFormResult(TagPutBackspread, "upper strike - credit/short qty, lower strike - valley/extra longs", net, bes...), true
}

// ---- 固定收益结构 ----

// tryBoxSpread 盒式价差：合成多头 + 合成空头，到期收益恒定，合法地没有盈亏平衡点。
func tryBoxSpread(s NormalizedStrategy, t topology) (*BreakEvenResult, bool) {
	if !onlyOptions(t) || len(t.longCalls) != 1 || len(t.shortCalls) != 1 ||
		len(t.longPuts) != 1 || len(t.shortPuts) != 1 {
		return nil, false
	}
	lc, sc, lp, sp := t.longCalls[0], t.shortCalls[0], t.longPuts[0], t.shortPuts[0]
	u, ok := uniformQty(t.longCalls, t.shortCalls, t.longPuts, t.shortPuts)
	if !ok || u <= 0 {
		return nil, false
	}
	if almostEq(lc.Strike, sc.Strike) || !almostEq(lc.Strike, sp.Strike) || !almostEq(sc.Strike, lp.Strike) {
		return nil, false
	}
	return &BreakEvenResult{
		BreakEvens:  []float64{},
		Method:      MethodClosedForm,
		StrategyTag: TagBoxSpread,
		Diagnostics: Diagnostics{
			Formula:     "synthetic long + synthetic short, constant payoff",
			NetPremium:  s.NetPremium,
			FixedPayoff: true,
		},
	}, true
}

// tryReversal 转换/反转套利：正股 + 同一行权价的反向合成头寸，收益恒定。
func tryReversal(s NormalizedStrategy, t topology) (*BreakEvenResult, bool) {
	if t.stockCount() != 1 || t.optionCount() != 2 {
		return nil, false
	}
	var call, put Leg
	switch {
	case len(t.longCalls) == 1 && len(t.shortPuts) == 1:
		call, put = t.longCalls[0], t.shortPuts[0]
	case len(t.shortCalls) == 1 && len(t.longPuts) == 1:
		call, put = t.shortCalls[0], t.longPuts[0]
	default:
		return nil, false
	}
	if !almostEq(call.Strike, put.Strike) {
		return nil, false
	}
	var stock Leg
	if len(t.longStocks) == 1 {
		stock = t.longStocks[0]
	} else {
		stock = t.shortStocks[0]
	}
	u, ok := uniformQty([]Leg{stock}, []Leg{call}, []Leg{put})
	if !ok || u <= 0 {
		return nil, false
	}
	// 合成方向须与正股方向相反，否则头寸非对冲结构
	syntheticLong := call.Side == LegSideLong
	stockLong := stock.Side == LegSideLong
	if syntheticLong == stockLong {
		return nil, false
	}
	return &BreakEvenResult{
		BreakEvens:  []float64{},
		Method:      MethodClosedForm,
		StrategyTag: TagReversal,
		Diagnostics: Diagnostics{
			Formula:     "stock vs synthetic, constant payoff",
			NetPremium:  s.NetPremium,
			FixedPayoff: true,
		},
	}, true
}

// ---- 日历 / 对角（仅显式标签选中） ----

// tryCalendarOrDiagonal 不同到期日的价差在本层没有到期日信息，
// 以共享行权价（对角取两行权价中点）给出近似平衡点并置 Approx 标记。
func tryCalendarOrDiagonal(s NormalizedStrategy, t topology, tag string) (*BreakEvenResult, bool) {
	if !onlyOptions(t) || t.optionCount() != 2 {
		return nil, false
	}
	sameKind := (len(t.longCalls)+len(t.shortCalls) == 2) || (len(t.longPuts)+len(t.shortPuts) == 2)
	if !sameKind {
		return nil, false
	}
	if len(s.Strikes) == 0 {
		return nil, false
	}
	be := s.Strikes[0]
	if len(s.Strikes) > 1 {
		be = (s.Strikes[0] + s.Strikes[len(s.Strikes)-1]) / 2
	}
	return &BreakEvenResult{
		BreakEvens:  []float64{be},
		Method:      MethodClosedForm,
		StrategyTag: tag,
		Diagnostics: Diagnostics{
			Formula:    "shared strike approximation",
			NetPremium: s.NetPremium,
			Approx:     true,
		},
	}, true
}

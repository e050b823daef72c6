package domain

import (
	"math"
	"sort"
)

const (
	// rootDedupRelTol 根去重的相对容差。
	rootDedupRelTol = 1e-8
	// bisectWidthTol 二分收敛的区间宽度绝对容差。
	bisectWidthTol = 1e-10
	// maxBisectIter 二分迭代上限。
	maxBisectIter = 200
	// bracketExpand 括号区间向行权价两侧外扩的比例。
	bracketExpand = 0.5
)

// FindBreakEvensNumeric 数值求解盈亏平衡点，仅在闭式公式不匹配时使用。
// 括号点取全部行权价并向最小/最大行权价外侧留安全边际（无行权价时取现价相对区间）；
// 逐个相邻区间扫描 PayoffAt 的符号变化并在其中求根。
// 由于盈亏分段线性，每个行权价间区间至多一个根，收敛无条件成立。
func FindBreakEvensNumeric(s NormalizedStrategy, spot float64) []float64 {
	if len(s.Legs) == 0 {
		return nil
	}

	points := bracketPoints(s, spot)
	if len(points) < 2 {
		return nil
	}

	roots := make([]float64, 0, 4)
	fPrev := s.PayoffAt(points[0])
	if fPrev == 0 {
		roots = append(roots, points[0])
	}
	for i := 1; i < len(points); i++ {
		a, b := points[i-1], points[i]
		fa, fb := fPrev, s.PayoffAt(b)
		fPrev = fb
		if fb == 0 {
			roots = append(roots, b)
			continue
		}
		if fa == 0 || fa*fb > 0 {
			continue
		}
		roots = append(roots, solveInterval(s, a, b, fa, fb))
	}

	roots = dedupRoots(roots)
	// 产品目录内的策略至多两个盈亏平衡点；病态组合截取最外侧一对。
	if len(roots) > 2 {
		roots = []float64{roots[0], roots[len(roots)-1]}
	}
	return roots
}

// bracketPoints 构造升序括号点：[lo, K1, ..., Kn, hi]，过滤非正价格。
func bracketPoints(s NormalizedStrategy, spot float64) []float64 {
	var lo, hi float64
	if len(s.Strikes) > 0 {
		minK := s.Strikes[0]
		maxK := s.Strikes[len(s.Strikes)-1]
		pad := math.Max(math.Abs(s.NetPremium)*2, 1e-6)
		lo = minK - math.Max(minK*bracketExpand, pad)
		hi = maxK + math.Max(maxK*bracketExpand, pad)
	} else {
		anchor := spot
		if !isFinite(anchor) || anchor <= 0 {
			anchor = stockAnchor(s.Legs)
		}
		lo = anchor * (1 - bracketExpand)
		hi = anchor * (1 + bracketExpand)
	}
	if lo < 0 {
		lo = 0
	}

	points := make([]float64, 0, len(s.Strikes)+2)
	points = append(points, lo)
	for _, k := range s.Strikes {
		if k > lo && k < hi {
			points = append(points, k)
		}
	}
	points = append(points, hi)
	sort.Float64s(points)
	return points
}

// stockAnchor 无行权价且无现价时，用首条正股腿的成本价兜底。
func stockAnchor(legs []Leg) float64 {
	for _, l := range legs {
		if l.Kind == LegKindStock && l.Premium > 0 {
			return l.Premium
		}
	}
	return 1
}

// solveInterval 在符号相反的区间内求根。
// 线性插值对分段线性函数一步即精确；再以二分收敛兜底非精确算术。
func solveInterval(s NormalizedStrategy, a, b, fa, fb float64) float64 {
	if fb != fa {
		x := a - fa*(b-a)/(fb-fa)
		if x > a && x < b {
			fx := s.PayoffAt(x)
			if fx == 0 {
				return x
			}
			if fa*fx < 0 {
				b = x
			} else {
				a, fa = x, fx
			}
		}
	}
	for i := 0; i < maxBisectIter && b-a > bisectWidthTol; i++ {
		m := (a + b) / 2
		fm := s.PayoffAt(m)
		if fm == 0 {
			return m
		}
		if fa*fm < 0 {
			b = m
		} else {
			a, fa = m, fm
		}
	}
	return (a + b) / 2
}

// dedupRoots 升序排序并按 1e-8 相对容差去重，剔除非正根。
func dedupRoots(roots []float64) []float64 {
	if len(roots) == 0 {
		return roots
	}
	sort.Float64s(roots)
	out := roots[:0]
	for _, r := range roots {
		if r <= 0 {
			continue
		}
		if len(out) > 0 {
			prev := out[len(out)-1]
			tol := rootDedupRelTol * math.Max(1, math.Max(math.Abs(prev), math.Abs(r)))
			if r-prev <= tol {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

// Package domain 包含终值分布模拟的领域模型。
package domain

import "errors"

// Histogram 固定宽度直方图，区间 [Lo, Hi) 均分为 len(Counts) 个桶。
type Histogram struct {
	Lo     float64
	Hi     float64
	Counts []int
	Total  int
}

// NewHistogram 构造直方图。
func NewHistogram(lo, hi float64, bins int) (*Histogram, error) {
	if bins <= 0 {
		return nil, errors.New("bins must be positive")
	}
	if !(hi > lo) {
		return nil, errors.New("histogram domain must be non-empty")
	}
	return &Histogram{Lo: lo, Hi: hi, Counts: make([]int, bins)}, nil
}

// BinWidth 单桶宽度。
func (h *Histogram) BinWidth() float64 {
	return (h.Hi - h.Lo) / float64(len(h.Counts))
}

// Observe 记录一个样本。越界样本并入边缘桶，保证概率质量守恒。
func (h *Histogram) Observe(v float64) {
	idx := int((v - h.Lo) / h.BinWidth())
	if idx < 0 {
		idx = 0
	} else if idx >= len(h.Counts) {
		idx = len(h.Counts) - 1
	}
	h.Counts[idx]++
	h.Total++
}

// Merge 并入一张同构直方图（桶数与区间一致时逐桶相加）。
func (h *Histogram) Merge(other *Histogram) error {
	if other == nil || len(other.Counts) != len(h.Counts) || other.Lo != h.Lo || other.Hi != h.Hi {
		return errors.New("histogram shapes differ")
	}
	for i, c := range other.Counts {
		h.Counts[i] += c
	}
	h.Total += other.Total
	return nil
}

// BinCenters 各桶中心价。
func (h *Histogram) BinCenters() []float64 {
	w := h.BinWidth()
	centers := make([]float64, len(h.Counts))
	for i := range centers {
		centers[i] = h.Lo + (float64(i)+0.5)*w
	}
	return centers
}

// ProbabilityMass 各桶概率质量，总和为 1（无样本时全零）。
func (h *Histogram) ProbabilityMass() []float64 {
	mass := make([]float64, len(h.Counts))
	if h.Total == 0 {
		return mass
	}
	for i, c := range h.Counts {
		mass[i] = float64(c) / float64(h.Total)
	}
	return mass
}

// NormalizedHeights 以最高桶为 1 的渲染高度数组（无样本时全零）。
func (h *Histogram) NormalizedHeights() []float64 {
	heights := make([]float64, len(h.Counts))
	peak := 0
	for _, c := range h.Counts {
		if c > peak {
			peak = c
		}
	}
	if peak == 0 {
		return heights
	}
	for i, c := range h.Counts {
		heights[i] = float64(c) / float64(peak)
	}
	return heights
}

// Quantile 由累积计数求 p 分位，跨越桶内线性插值。
func (h *Histogram) Quantile(p float64) float64 {
	if h.Total == 0 {
		return h.Lo
	}
	if p <= 0 {
		return h.Lo
	}
	if p >= 1 {
		return h.Hi
	}
	target := p * float64(h.Total)
	cum := 0.0
	w := h.BinWidth()
	for i, c := range h.Counts {
		next := cum + float64(c)
		if next >= target {
			frac := 0.0
			if c > 0 {
				frac = (target - cum) / float64(c)
			}
			return h.Lo + (float64(i)+frac)*w
		}
		cum = next
	}
	return h.Hi
}

package domain

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultPaths 默认模拟路径数。
	DefaultPaths = 100000
	// DefaultBins 默认直方图桶数。
	DefaultBins = 140
	// DefaultBatchSize 默认单批路径数，批间让出调度。
	DefaultBatchSize = 20000
	// domainSigmas 自动区间覆盖对数正态 ±4σ。
	domainSigmas = 4.0
)

// SimulationConfig 终值模拟配置。
// Paths/Bins/BatchSize 非正时取默认值；DomainLo/DomainHi 均为 0 时按现价自动推导；
// Seed 非 0 时结果全程可复现。
type SimulationConfig struct {
	Spot      float64
	Sigma     float64
	T         float64
	Drift     float64
	Paths     int
	Bins      int
	BatchSize int
	DomainLo  float64
	DomainHi  float64
	Seed      uint64
}

// QuantileBand 累积直方图分位带。
type QuantileBand struct {
	Q01 float64
	Q05 float64
	Q95 float64
	Q99 float64
}

// SimulationResult 模拟输出。
// NormalizedHeights 供渲染（峰值为 1），ProbabilityMass 为各桶真实概率（总和为 1）；
// TerminalPrices 为原始终值样本，供损益类指标复用。
type SimulationResult struct {
	BinCenters        []float64
	NormalizedHeights []float64
	ProbabilityMass   []float64
	Quantiles         QuantileBand
	Paths             int
	Seeded            bool
	TerminalPrices    []float64
}

// TerminalSimulator 到期价分布模拟器。
type TerminalSimulator struct {
	cfg SimulationConfig
}

// NewTerminalSimulator 校验配置并填充默认值。
func NewTerminalSimulator(cfg SimulationConfig) (*TerminalSimulator, error) {
	if err := validateSimulationConfig(cfg); err != nil {
		return nil, err
	}
	if cfg.Paths <= 0 {
		cfg.Paths = DefaultPaths
	}
	if cfg.Bins <= 0 {
		cfg.Bins = DefaultBins
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.DomainLo == 0 && cfg.DomainHi == 0 {
		cfg.DomainLo, cfg.DomainHi = autoDomain(cfg)
	}
	if cfg.DomainLo < 0 {
		cfg.DomainLo = 0
	}
	if !(cfg.DomainHi > cfg.DomainLo) {
		return nil, errors.New("invalid histogram domain")
	}
	return &TerminalSimulator{cfg: cfg}, nil
}

// Run 并行分批模拟到期价并聚合直方图。
// 每批使用独立的 (rootSeed, 批序号) PCG 流，调度顺序不影响结果；
// 各批写入预分配样本切片的不相交区段，合并只在全部批完成后进行。
func (ts *TerminalSimulator) Run(ctx context.Context) (*SimulationResult, error) {
	cfg := ts.cfg
	rootSeed := cfg.Seed
	seeded := rootSeed != 0
	if !seeded {
		rootSeed = uint64(time.Now().UnixNano())
	}

	batches := (cfg.Paths + cfg.BatchSize - 1) / cfg.BatchSize
	prices := make([]float64, cfg.Paths)
	parts := make([]*Histogram, batches)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for b := range batches {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			hist, err := NewHistogram(cfg.DomainLo, cfg.DomainHi, cfg.Bins)
			if err != nil {
				return err
			}
			gen := NewGBM(cfg.Drift, cfg.Sigma, rand.New(rand.NewPCG(rootSeed, uint64(b))))
			start := b * cfg.BatchSize
			end := min(start+cfg.BatchSize, cfg.Paths)
			for i := start; i < end; i++ {
				st := gen.Next(cfg.Spot, cfg.T)
				prices[i] = st
				hist.Observe(st)
			}
			parts[b] = hist
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged, err := NewHistogram(cfg.DomainLo, cfg.DomainHi, cfg.Bins)
	if err != nil {
		return nil, err
	}
	for _, part := range parts {
		if err := merged.Merge(part); err != nil {
			return nil, err
		}
	}

	return &SimulationResult{
		BinCenters:        merged.BinCenters(),
		NormalizedHeights: merged.NormalizedHeights(),
		ProbabilityMass:   merged.ProbabilityMass(),
		Quantiles: QuantileBand{
			Q01: merged.Quantile(0.01),
			Q05: merged.Quantile(0.05),
			Q95: merged.Quantile(0.95),
			Q99: merged.Quantile(0.99),
		},
		Paths:          cfg.Paths,
		Seeded:         seeded,
		TerminalPrices: prices,
	}, nil
}

func validateSimulationConfig(cfg SimulationConfig) error {
	if math.IsNaN(cfg.Spot) || math.IsInf(cfg.Spot, 0) || cfg.Spot <= 0 {
		return errors.New("spot must be positive")
	}
	if math.IsNaN(cfg.Sigma) || math.IsInf(cfg.Sigma, 0) || cfg.Sigma < 0 {
		return errors.New("volatility must be non-negative")
	}
	if math.IsNaN(cfg.T) || math.IsInf(cfg.T, 0) || cfg.T < 0 {
		return errors.New("time horizon must be non-negative")
	}
	if math.IsNaN(cfg.Drift) || math.IsInf(cfg.Drift, 0) {
		return errors.New("drift must be finite")
	}
	return nil
}

// autoDomain 现价对数正态 ±4σ 区间；σ=0 或 T=0 时终值确定，取其 ±50%。
func autoDomain(cfg SimulationConfig) (float64, float64) {
	if cfg.Sigma == 0 || cfg.T == 0 {
		center := cfg.Spot * math.Exp(cfg.Drift*cfg.T)
		return center * 0.5, center * 1.5
	}
	m := math.Log(cfg.Spot) + (cfg.Drift-0.5*cfg.Sigma*cfg.Sigma)*cfg.T
	s := cfg.Sigma * math.Sqrt(cfg.T)
	return math.Exp(m - domainSigmas*s), math.Exp(m + domainSigmas*s)
}

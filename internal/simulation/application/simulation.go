// Package application 包含终值分布模拟服务的用例逻辑
package application

import (
	"context"
	"fmt"

	"github.com/Axelcisn/portfolio-sub000/internal/simulation/domain"
	"github.com/wyfcoding/pkg/logging"
)

// SimulationService 终值分布模拟应用服务。
type SimulationService struct{}

// NewSimulationService 创建模拟应用服务实例。
func NewSimulationService() *SimulationService {
	return &SimulationService{}
}

// RunTerminalSimulation 运行到期价分布蒙特卡洛模拟。
func (s *SimulationService) RunTerminalSimulation(ctx context.Context, req *SimulationRequest) (*SimulationDTO, error) {
	defer logging.LogDuration(ctx, "Terminal price simulation",
		"paths", req.Paths,
		"seeded", req.Seed != 0,
	)()

	sim, err := domain.NewTerminalSimulator(domain.SimulationConfig{
		Spot:     req.Spot,
		Sigma:    req.Sigma,
		T:        req.TimeToExpiry,
		Drift:    req.Drift,
		Paths:    req.Paths,
		Bins:     req.Bins,
		DomainLo: req.DomainLo,
		DomainHi: req.DomainHi,
		Seed:     req.Seed,
	})
	if err != nil {
		logging.Error(ctx, "Invalid simulation config",
			"spot", req.Spot,
			"sigma", req.Sigma,
			"error", err,
		)
		return nil, fmt.Errorf("invalid simulation config: %w", err)
	}

	res, err := sim.Run(ctx)
	if err != nil {
		logging.Error(ctx, "Simulation run failed", "error", err)
		return nil, fmt.Errorf("simulation run failed: %w", err)
	}

	return &SimulationDTO{
		BinCenters:        res.BinCenters,
		NormalizedHeights: res.NormalizedHeights,
		ProbabilityMass:   res.ProbabilityMass,
		QuantileBand: QuantileBandDTO{
			Q01: res.Quantiles.Q01,
			Q05: res.Quantiles.Q05,
			Q95: res.Quantiles.Q95,
			Q99: res.Quantiles.Q99,
		},
		Paths:          res.Paths,
		Seeded:         res.Seeded,
		TerminalPrices: res.TerminalPrices,
	}, nil
}

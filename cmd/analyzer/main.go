package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	priceapp "github.com/Axelcisn/portfolio-sub000/internal/pricing/application"
	riskapp "github.com/Axelcisn/portfolio-sub000/internal/risk/application"
	simapp "github.com/Axelcisn/portfolio-sub000/internal/simulation/application"
	strategyapp "github.com/Axelcisn/portfolio-sub000/internal/strategy/application"
	"github.com/wyfcoding/pkg/config"
	"github.com/wyfcoding/pkg/logging"
)

// Config 服务扩展配置
type Config struct {
	config.Config `mapstructure:",squash"`
}

var (
	configPath = flag.String("config", "configs/analyzer/config.toml", "config file path")
	inputPath  = flag.String("input", "-", "analysis request JSON path, - for stdin")
	outputPath = flag.String("output", "-", "analysis response JSON path, - for stdout")
)

func main() {
	flag.Parse()

	// 1. 配置与日志：批处理工具允许无配置文件直接运行
	var cfg Config
	var logger *logging.Logger
	if err := config.Load(*configPath, &cfg); err != nil {
		logger = logging.NewLogger("analyzer", "main", "info")
	} else {
		logCfg := &logging.Config{Service: cfg.Server.Name, Level: cfg.Log.Level}
		logger = logging.NewFromConfig(logCfg)
	}
	slog.SetDefault(logger.Logger)

	// 2. 信号
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. 应用服务
	svc := strategyapp.NewAnalyticsService(
		priceapp.NewPricingService(),
		riskapp.NewRiskService(),
		simapp.NewSimulationService(),
	)

	// 4. 读取请求、分析、写出结果
	if err := run(ctx, svc, *inputPath, *outputPath); err != nil {
		slog.Error("analysis failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, svc *strategyapp.AnalyticsService, in, out string) error {
	req, err := readRequest(in)
	if err != nil {
		return err
	}
	result, err := svc.AnalyzeStrategy(ctx, req)
	if err != nil {
		return err
	}
	return writeResult(out, result)
}

func readRequest(path string) (*strategyapp.AnalyzeStrategyRequest, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		r = f
	}
	var req strategyapp.AnalyzeStrategyRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return nil, fmt.Errorf("failed to decode request: %w", err)
	}
	return &req, nil
}

func writeResult(path string, result *strategyapp.AnalysisDTO) error {
	var w io.Writer = os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"optionslab/src/analytics"
	"optionslab/src/backtest"
	"optionslab/src/marketdata"
	"optionslab/src/models"
	"optionslab/src/positions"
	"optionslab/src/pricing"
	"optionslab/src/strategy"
	"optionslab/src/utils"
)

// DataConfig selects the upstream provider and the cache location.
type DataConfig struct {
	Provider string `yaml:"provider"`
	CSVDir   string `yaml:"csv_dir"`
	CacheDir string `yaml:"cache_dir"`
	WarmUp   bool   `yaml:"warm_up"`
}

// AppConfig is the full YAML configuration of one backtest run.
type AppConfig struct {
	Backtest   backtest.Config          `yaml:"backtest"`
	Strategy   strategy.Config          `yaml:"strategy"`
	Quality    marketdata.QualityConfig `yaml:"quality"`
	Thresholds analytics.Thresholds     `yaml:"thresholds"`
	Data       DataConfig               `yaml:"data"`
}

func loadConfig(path string) (*AppConfig, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loadConfig: failed to read %s: %w", path, err)
	}

	config := &AppConfig{
		Quality:    marketdata.DefaultQualityConfig(),
		Thresholds: analytics.DefaultThresholds(),
	}
	config.Backtest.Costs = backtest.DefaultCostConfig()

	if err := yaml.Unmarshal(payload, config); err != nil {
		return nil, fmt.Errorf("loadConfig: failed to parse %s: %w", path, err)
	}

	if err := config.Backtest.Validate(); err != nil {
		return nil, fmt.Errorf("loadConfig: %w", err)
	}

	return config, nil
}

func buildProvider(config *AppConfig) (marketdata.Provider, error) {
	switch config.Data.Provider {
	case "csv":
		if config.Data.CSVDir == "" {
			return nil, fmt.Errorf("buildProvider: csv provider requires csv_dir")
		}

		return marketdata.NewCSVProvider(config.Data.CSVDir), nil

	case "polygon":
		apiKey := os.Getenv("POLYGON_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("buildProvider: missing POLYGON_API_KEY environment variable")
		}

		return marketdata.NewRetryProvider(marketdata.NewPolygonProvider(apiKey)), nil
	}

	return nil, fmt.Errorf("buildProvider: unknown provider: %s", config.Data.Provider)
}

type RunArgs struct {
	ConfigPath string
	OutDir     string
}

func Run(args RunArgs) error {
	if err := utils.InitEnvironmentVariables(); err != nil {
		return fmt.Errorf("Run: %w", err)
	}

	config, err := loadConfig(args.ConfigPath)
	if err != nil {
		return fmt.Errorf("Run: %w", err)
	}

	provider, err := buildProvider(config)
	if err != nil {
		return fmt.Errorf("Run: %w", err)
	}

	var cache *marketdata.FileCache
	if config.Data.CacheDir != "" {
		cache, err = marketdata.NewFileCache(config.Data.CacheDir)
		if err != nil {
			return fmt.Errorf("Run: %w", err)
		}
	}

	store := marketdata.NewStore([]marketdata.Provider{provider}, cache, config.Quality)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if config.Data.WarmUp {
		days := backtest.TradingDays(config.Backtest.Start, config.Backtest.End, config.Backtest.HolidayMap())
		log.Infof("warming cache for %d trading days", len(days))
		store.WarmCache(ctx, config.Backtest.Underlying, days)
	}

	pricer := pricing.NewEngine(config.Backtest.RiskFreeRate, config.Backtest.DividendYield)
	manager := positions.NewManager(pricer)
	costs := backtest.NewCostModel(config.Backtest.Costs)

	adapter, err := strategy.New(config.Strategy)
	if err != nil {
		return fmt.Errorf("Run: %w", err)
	}

	engine := backtest.NewEngine(config.Backtest, store, pricer, manager, costs)

	log.Infof("running %s on %s from %s to %s", adapter.Name(), config.Backtest.Underlying, config.Backtest.StartDate, config.Backtest.EndDate)

	result, err := engine.Run(ctx, adapter)
	if err != nil {
		var invariant *models.AccountingInvariantError
		if errors.As(err, &invariant) {
			return fmt.Errorf("Run: aborted by data-integrity violation: %w", err)
		}

		return fmt.Errorf("Run: %w", err)
	}

	report, err := analytics.Summarize(result.DailyRecords, result.TradeRecords, config.Backtest.RiskFreeRate, config.Thresholds)
	if err != nil {
		return fmt.Errorf("Run: %w", err)
	}

	report.RenderTable(os.Stdout)

	if args.OutDir != "" {
		if _, err := analytics.ExportTradeLedger(args.OutDir, result.TradeRecords); err != nil {
			return fmt.Errorf("Run: %w", err)
		}

		if _, err := analytics.ExportDailyRecords(args.OutDir, result.DailyRecords); err != nil {
			return fmt.Errorf("Run: %w", err)
		}

		reportFile, err := analytics.ExportReport(args.OutDir, report)
		if err != nil {
			return fmt.Errorf("Run: %w", err)
		}

		log.Infof("analysis output: %s", reportFile)
	}

	return nil
}

var runCmd = &cobra.Command{
	Use:   "backtester --config config.yaml --outDir results",
	Short: "Replay an options strategy against historical chains",
	Run: func(cmd *cobra.Command, args []string) {
		configPath, err := cmd.Flags().GetString("config")
		if err != nil {
			log.Fatalf("error getting config: %v", err)
		}

		outDir, err := cmd.Flags().GetString("outDir")
		if err != nil {
			log.Fatalf("error getting outDir: %v", err)
		}

		if err := Run(RunArgs{ConfigPath: configPath, OutDir: outDir}); err != nil {
			log.Fatalf("Error: %v", err)
		}

		log.Info("Done")
	},
}

func main() {
	runCmd.Flags().String("config", "config.yaml", "path to the run configuration")
	runCmd.Flags().String("outDir", "results", "directory for exported records")

	if err := runCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

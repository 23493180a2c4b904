package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/mercatus/internal/common"
	"github.com/ternarybob/mercatus/internal/services/analysis"
	"github.com/ternarybob/mercatus/internal/services/router"
	"github.com/ternarybob/mercatus/internal/services/scrape"
	badgerstorage "github.com/ternarybob/mercatus/internal/storage/badger"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	configFiles  configPaths
	skipAnalysis = flag.Bool("skip-analysis", false, "Collect and persist data, skip the analysis pass")
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	flag.Parse()

	if *showVersion || *showVersionV {
		fmt.Printf("Mercatus version %s\n", common.GetVersion())
		os.Exit(0)
	}

	// Startup sequence (REQUIRED ORDER):
	// 1. Load config (defaults -> file1 -> file2 -> ... -> env)
	// 2. Initialize logger
	// 3. Print banner
	// 4. Open storage, run the pipeline once, exit

	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, err := os.Stat("mercatus.toml"); err == nil {
			configFiles = append(configFiles, "mercatus.toml")
		} else if _, err := os.Stat("deployments/local/mercatus.toml"); err == nil {
			configFiles = append(configFiles, "deployments/local/mercatus.toml")
		}
	}

	config, err := common.LoadFromFiles(configFiles...)
	if err != nil {
		tempLogger := arbor.NewLogger()
		tempLogger.Fatal().Strs("paths", configFiles).Err(err).Msg("Failed to load configuration")
	}

	logger := common.InitLogger(config)
	common.PrintBanner(common.GetVersion())

	if err := run(config, logger); err != nil {
		logger.Error().Err(err).Msg("Run failed")
		os.Exit(1)
	}
}

// run executes one collect-route-analyze pass. The pass only fails on a
// storage failure: scrape failures are partial by design and the
// analysis call degrades to a stub before it degrades to an error.
func run(config *common.Config, logger arbor.ILogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage, err := badgerstorage.NewManager(logger, &config.Storage.Badger)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if err := storage.Close(); err != nil {
			logger.Warn().Err(err).Msg("Storage close failed")
		}
	}()

	// Collect
	scrapers := scrape.BuildScrapers(&config.Scrape, logger)
	service := scrape.NewService(scrapers, logger)
	runResult := service.Run(ctx)
	for _, srcErr := range runResult.Errors {
		logger.Warn().Str("source", srcErr.Source).Err(srcErr.Err).Msg("Source failed this run")
	}

	// Route
	r := router.NewRouter(storage.IndicatorStorage(), storage.ObservationStorage(), logger)
	summary := r.Route(ctx, runResult.Data)
	for _, routeErr := range summary.Errors {
		logger.Warn().Err(routeErr).Msg("Sink write failed")
	}

	if *skipAnalysis {
		logger.Info().Msg("Analysis pass skipped by flag")
		return nil
	}

	// Analyze
	builder := analysis.NewContextBuilder(storage.IndicatorStorage(), storage.ObservationStorage(), config.Analysis, logger)
	client := analysis.NewClient(config.LLM, logger)
	daily := analysis.NewService(builder, client, storage.AnalysisStorage(), logger)

	result, err := daily.Run(ctx, runResult.News)
	if err != nil {
		return err
	}

	logger.Info().
		Str("id", result.ID).
		Bool("stub", result.IsStub()).
		Int("sources_failed", len(runResult.Errors)).
		Int("indicators", summary.IndicatorsUpserted).
		Int("observations", summary.ObservationsInserted).
		Msg("Daily run complete")

	return nil
}

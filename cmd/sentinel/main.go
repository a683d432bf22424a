package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"options-sentinel/internal/logger"
	"options-sentinel/internal/provider"
	"options-sentinel/internal/sentiment"
	"options-sentinel/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := store.LoadConfig("config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.InitWithConfig(logger.Config{
		Level:          cfg.Logging.Level,
		Format:         cfg.Logging.Format,
		TracingEnabled: cfg.Logging.TracingEnabled,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	defer logger.Shutdown(ctx)

	timeout := time.Duration(cfg.Provider.TimeoutSeconds) * time.Second

	var fetcher provider.SnapshotFetcher
	if cfg.DataSource == "MOCK" {
		fmt.Println("📊 Using MOCK options data for testing")
		fetcher = provider.NewMockFetcher()
	} else {
		fmt.Println("📊 Fetching LIVE options data from Yahoo Finance")
		oracle := provider.NewPriceOracle(timeout)
		fetcher = provider.NewYahooFetcher(timeout, oracle)
	}
	fetcher = provider.NewCachingFetcher(fetcher, time.Duration(cfg.Provider.CacheMinutes)*time.Minute)

	engine := sentiment.NewEngine(sentiment.Config{
		OIRangeThreshold:    cfg.Analysis.OIRangeThreshold,
		BoxDistanceFraction: cfg.Analysis.BoxDistanceFraction,
	})

	fmt.Printf("🔍 Analyzing %d tickers...\n\n", len(cfg.Tickers))

	reports := make([]*sentiment.AnalysisReport, 0, len(cfg.Tickers))
	for i, ticker := range cfg.Tickers {
		op := logger.StartOperation(ctx, "analyze_ticker")

		snap, err := fetcher.FetchSnapshot(op.Context(), ticker, "")
		if err != nil {
			op.EndWithError(err)
			fmt.Printf("  ✗ %s: fetch failed: %v\n\n", ticker, err)
			continue
		}

		report, err := engine.Analyze(op.Context(), snap, time.Now())
		if err != nil {
			op.EndWithError(err)
			fmt.Printf("  ✗ %s: analysis rejected: %v\n\n", ticker, err)
			continue
		}
		op.End()

		logger.Signal(op.Context(), report.Ticker, string(report.Strategy), report.ReliabilityIndex,
			"put_call_ratio", report.PutCallRatio,
			"iv_skew", report.IVSkew)

		printReport(report)
		reports = append(reports, report)

		// Be polite to the upstream between live fetches.
		if cfg.DataSource == "LIVE" && i < len(cfg.Tickers)-1 {
			time.Sleep(time.Duration(cfg.Provider.RateLimitSeconds) * time.Second)
		}
	}

	if len(os.Args) > 1 && os.Args[1] == "--json" {
		saveReportsJSON(reports, "sentiment_reports.json")
	}
}

func printReport(r *sentiment.AnalysisReport) {
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Printf("📌 %s options sentiment report\n", r.Ticker)
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()
	fmt.Printf("%s %s\n", strategyEmoji(r.Strategy), r.Strategy.Description())
	fmt.Println()
	fmt.Printf("📅 Expiry:        %s (%d days out)\n", r.ExpiryDate, r.DaysToExpiry)
	if r.PriceSubstituted {
		fmt.Printf("💰 Price:         $%.2f (median strike fallback)\n", r.CurrentPrice)
	} else {
		fmt.Printf("💰 Price:         $%.2f\n", r.CurrentPrice)
	}
	fmt.Println()
	fmt.Println("🔥 Most traded contracts")
	fmt.Printf("  📈 Call strike: $%.2f (volume %.0f, OI %.0f)\n",
		r.MostTradedCallStrike, r.MostTradedCallVolume, r.MostTradedCallOpenInterest)
	fmt.Printf("  📉 Put strike:  $%.2f (volume %.0f, OI %.0f)\n",
		r.MostTradedPutStrike, r.MostTradedPutVolume, r.MostTradedPutOpenInterest)
	fmt.Println()
	fmt.Println("📊 Market sentiment")
	fmt.Printf("  🔄 Put/Call ratio: %.2f\n", r.PutCallRatio)
	fmt.Printf("  🔄 IV skew:        %.2f%%\n", r.IVSkew)
	fmt.Printf("  📌 Mean IV:        %.1f%%\n", r.MeanImpliedVolatility)
	fmt.Println()
	fmt.Println("📐 Ranges")
	fmt.Printf("  OI range:  $%.2f - $%.2f\n", r.OpenInterestRangeLow, r.OpenInterestRangeHigh)
	if r.HasBoxRange {
		fmt.Printf("  Box range: $%.2f - $%.2f\n", r.BoxRangeLow, r.BoxRangeHigh)
	}
	fmt.Println()
	fmt.Printf("🎯 Reliability: %.2f (%s)\n", r.ReliabilityIndex, r.ReliabilityMessage)
	fmt.Println()
}

func strategyEmoji(s sentiment.StrategyLabel) string {
	switch s {
	case sentiment.StrategyVeryStrongBuy, sentiment.StrategyBuy:
		return "🚀"
	case sentiment.StrategyCautiousBuyVolatile, sentiment.StrategyCautiousBuyUnclear, sentiment.StrategyMildBullish:
		return "📈"
	case sentiment.StrategyVeryStrongSell, sentiment.StrategySell:
		return "⚠️"
	case sentiment.StrategyCautiousSellVolatile, sentiment.StrategyCautiousSellUnclear, sentiment.StrategyDefensive:
		return "📉"
	default:
		return "🔍"
	}
}

func saveReportsJSON(reports []*sentiment.AnalysisReport, filename string) {
	file, err := os.Create(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create JSON file: %v\n", err)
		return
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(reports); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write JSON: %v\n", err)
		return
	}

	fmt.Printf("💾 Reports saved to %s\n", filename)
}

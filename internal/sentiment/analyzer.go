package sentiment

import (
	"context"
	"fmt"
	"time"

	"options-sentinel/internal/logger"
	"options-sentinel/internal/types"
)

// Config tunes the supporting range estimators. The classification thresholds
// themselves are fixed business rules and not configurable.
type Config struct {
	// OIRangeThreshold is the cumulative open-interest fraction retained by
	// the open-interest range estimator.
	OIRangeThreshold float64 `yaml:"oi_range_threshold"`

	// BoxDistanceFraction restricts the weighted box strike to strikes
	// within this fraction of the current price.
	BoxDistanceFraction float64 `yaml:"box_distance_fraction"`
}

// DefaultConfig returns the tuning the original rule set was calibrated with.
func DefaultConfig() Config {
	return Config{
		OIRangeThreshold:    DefaultOIRangeThreshold,
		BoxDistanceFraction: DefaultBoxDistanceFraction,
	}
}

// Engine runs the whole analysis pipeline. It holds no state across calls:
// Analyze is a pure function of the snapshot and the supplied clock, so
// identical inputs always produce identical reports.
type Engine struct {
	cfg Config
}

// NewEngine creates an analysis engine, filling zero config fields with
// defaults.
func NewEngine(cfg Config) *Engine {
	if cfg.OIRangeThreshold <= 0 {
		cfg.OIRangeThreshold = DefaultOIRangeThreshold
	}
	if cfg.BoxDistanceFraction <= 0 {
		cfg.BoxDistanceFraction = DefaultBoxDistanceFraction
	}
	return &Engine{cfg: cfg}
}

// Analyze turns one market snapshot into a sentiment report. The raw tables
// are normalized, aggregated per side, classified against the decision table,
// and scored for reliability. Fatal conditions are a missing Strike column,
// an empty side, and zero traded volume on both sides; every other
// irregularity degrades to a documented fallback.
func (e *Engine) Analyze(ctx context.Context, snap *types.MarketSnapshot, now time.Time) (*AnalysisReport, error) {
	calls, err := Normalize(&snap.Calls)
	if err != nil {
		return nil, fmt.Errorf("call table: %w", err)
	}
	puts, err := Normalize(&snap.Puts)
	if err != nil {
		return nil, fmt.Errorf("put table: %w", err)
	}

	if len(calls) == 0 {
		return nil, fmt.Errorf("call side: %w", ErrEmptyChain)
	}
	if len(puts) == 0 {
		return nil, fmt.Errorf("put side: %w", ErrEmptyChain)
	}

	price := snap.CurrentPrice
	substituted := false
	if !snap.HasPrice {
		price = MedianStrike(calls)
		substituted = true
		logger.Debug(ctx, "Underlying price unavailable, substituting median call strike",
			"ticker", snap.Ticker, "price", price)
	}

	callMetrics, err := ComputeMetrics(calls, price)
	if err != nil {
		return nil, fmt.Errorf("call side: %w", err)
	}
	putMetrics, err := ComputeMetrics(puts, price)
	if err != nil {
		return nil, fmt.Errorf("put side: %w", err)
	}

	if callMetrics.MostTraded.Volume == 0 && putMetrics.MostTraded.Volume == 0 {
		return nil, fmt.Errorf("ticker %s: %w", snap.Ticker, ErrInsufficientLiquidity)
	}

	signals := DeriveSignals(callMetrics, putMetrics)
	strategy := ClassifyStrategy(signals)

	expiry := ExpiryDate(calls)
	if expiry == ExpiryUnknown && snap.ExpiryDate != "" {
		expiry = snap.ExpiryDate
	}
	daysToExpiry := DaysToExpiry(expiry, now)
	if expiry == ExpiryUnknown {
		logger.Debug(ctx, "Expiry date not found in contract names, assuming 30 days",
			"ticker", snap.Ticker)
	}

	oiLow, _ := OpenInterestRange(puts, e.cfg.OIRangeThreshold)
	_, oiHigh := OpenInterestRange(calls, e.cfg.OIRangeThreshold)

	putBox, putOK := WeightedBoxStrike(puts, price, e.cfg.BoxDistanceFraction)
	callBox, callOK := WeightedBoxStrike(calls, price, e.cfg.BoxDistanceFraction)

	index, message := ScoreReliability(callMetrics, putMetrics, calls, puts, price, daysToExpiry)

	report := &AnalysisReport{
		Ticker:           snap.Ticker,
		ExpiryDate:       expiry,
		DaysToExpiry:     daysToExpiry,
		CurrentPrice:     price,
		PriceSubstituted: substituted,

		Strategy: strategy,
		Signals:  signals,

		PutCallRatio:          signals.PutCallRatio,
		IVSkew:                signals.IVSkew,
		MeanImpliedVolatility: signals.MeanIV,

		MostTradedCallStrike:       callMetrics.MostTraded.Strike,
		MostTradedPutStrike:        putMetrics.MostTraded.Strike,
		MostTradedCallVolume:       callMetrics.MostTraded.Volume,
		MostTradedPutVolume:        putMetrics.MostTraded.Volume,
		MostTradedCallOpenInterest: callMetrics.MostTraded.OpenInterest,
		MostTradedPutOpenInterest:  putMetrics.MostTraded.OpenInterest,

		ReliabilityIndex:   index,
		ReliabilityMessage: message,

		OpenInterestRangeLow:  oiLow,
		OpenInterestRangeHigh: oiHigh,
	}

	if putOK && callOK {
		report.BoxRangeLow = putBox
		report.BoxRangeHigh = callBox
		report.HasBoxRange = true
	}

	return report, nil
}

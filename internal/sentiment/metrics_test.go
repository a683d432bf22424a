package sentiment

import (
	"errors"
	"testing"
	"time"
)

func TestComputeMetrics(t *testing.T) {
	chain := OptionChain{
		{Strike: 90, Volume: 100, OpenInterest: 500, ImpliedVolatility: 20, Change: 0.5},
		{Strike: 100, Volume: 300, OpenInterest: 1000, ImpliedVolatility: 25, Change: 2.0},
		{Strike: 110, Volume: 200, OpenInterest: 250, ImpliedVolatility: 30, Change: -1.0},
	}

	m, err := ComputeMetrics(chain, 101)
	if err != nil {
		t.Fatalf("ComputeMetrics returned error: %v", err)
	}

	if m.TotalVolume != 600 {
		t.Errorf("Expected total volume 600, got %f", m.TotalVolume)
	}
	if m.TotalOpenInterest != 1750 {
		t.Errorf("Expected total OI 1750, got %f", m.TotalOpenInterest)
	}
	if m.MeanVolume != 200 {
		t.Errorf("Expected mean volume 200, got %f", m.MeanVolume)
	}
	if m.MeanIV != 25 {
		t.Errorf("Expected mean IV 25, got %f", m.MeanIV)
	}
	if m.MaxChange != 2.0 {
		t.Errorf("Expected max change 2.0, got %f", m.MaxChange)
	}
	if m.MostTraded.Strike != 100 {
		t.Errorf("Expected most traded strike 100, got %f", m.MostTraded.Strike)
	}
	if m.ATM.Strike != 100 {
		t.Errorf("Expected ATM strike 100, got %f", m.ATM.Strike)
	}
}

func TestComputeMetricsStableTieBreaks(t *testing.T) {
	chain := OptionChain{
		{Strike: 95, Volume: 300},
		{Strike: 105, Volume: 300},
	}

	m, err := ComputeMetrics(chain, 100)
	if err != nil {
		t.Fatalf("ComputeMetrics returned error: %v", err)
	}

	// Both rows tie on volume and on distance to the reference price; the
	// first row in chain order wins both.
	if m.MostTraded.Strike != 95 {
		t.Errorf("Expected first-row tie-break for most traded, got strike %f", m.MostTraded.Strike)
	}
	if m.ATM.Strike != 95 {
		t.Errorf("Expected first-row tie-break for ATM, got strike %f", m.ATM.Strike)
	}
}

func TestComputeMetricsEmptyChain(t *testing.T) {
	_, err := ComputeMetrics(OptionChain{}, 100)
	if !errors.Is(err, ErrEmptyChain) {
		t.Errorf("Expected ErrEmptyChain, got %v", err)
	}
}

func TestComputeMetricsZeroVolumeSide(t *testing.T) {
	chain := OptionChain{
		{Strike: 90, Volume: 0},
		{Strike: 100, Volume: 0},
	}

	m, err := ComputeMetrics(chain, 100)
	if err != nil {
		t.Fatalf("Single-sided zero volume must not error, got %v", err)
	}
	if m.MostTraded.Volume != 0 {
		t.Errorf("Expected most traded volume 0, got %f", m.MostTraded.Volume)
	}
}

func TestExpiryDate(t *testing.T) {
	chain := OptionChain{{ContractName: "AAPL250321C00150000"}}
	if got := ExpiryDate(chain); got != "2025-03-21" {
		t.Errorf("Expected 2025-03-21, got %s", got)
	}

	noDate := OptionChain{{ContractName: "WEIRD-TICKER"}}
	if got := ExpiryDate(noDate); got != ExpiryUnknown {
		t.Errorf("Expected unknown expiry, got %s", got)
	}

	if got := ExpiryDate(OptionChain{}); got != ExpiryUnknown {
		t.Errorf("Expected unknown expiry for empty chain, got %s", got)
	}
}

func TestDaysToExpiry(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	if got := DaysToExpiry("2025-03-21", now); got != 19 {
		t.Errorf("Expected 19 days, got %d", got)
	}
	if got := DaysToExpiry("2025-02-24", now); got != -5 {
		t.Errorf("Expected -5 days for expired date, got %d", got)
	}
	if got := DaysToExpiry(ExpiryUnknown, now); got != fallbackDaysToExpiry {
		t.Errorf("Expected fallback of %d days, got %d", fallbackDaysToExpiry, got)
	}
	if got := DaysToExpiry("not-a-date", now); got != fallbackDaysToExpiry {
		t.Errorf("Expected fallback of %d days for unparsable date, got %d", fallbackDaysToExpiry, got)
	}
}

func TestMedianStrike(t *testing.T) {
	odd := OptionChain{{Strike: 110}, {Strike: 90}, {Strike: 100}}
	if got := MedianStrike(odd); got != 100 {
		t.Errorf("Expected median 100, got %f", got)
	}

	even := OptionChain{{Strike: 90}, {Strike: 100}, {Strike: 110}, {Strike: 120}}
	if got := MedianStrike(even); got != 105 {
		t.Errorf("Expected median 105, got %f", got)
	}

	if got := MedianStrike(OptionChain{}); got != 0 {
		t.Errorf("Expected 0 for empty chain, got %f", got)
	}
}

package sentiment

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"time"
)

// ExpiryUnknown is the sentinel reported when no expiry date could be read out
// of the chain's contract names.
const ExpiryUnknown = "unknown"

// fallbackDaysToExpiry is assumed when the expiry is unknown, so the time
// score degrades gracefully instead of failing the analysis.
const fallbackDaysToExpiry = 30

var contractDatePattern = regexp.MustCompile(`\d{6}`)

// ComputeMetrics aggregates one side of the chain against the reference price.
// Most-traded and ATM selection are stable: ties go to the first row in table
// order.
func ComputeMetrics(chain OptionChain, referencePrice float64) (ChainMetrics, error) {
	if len(chain) == 0 {
		return ChainMetrics{}, fmt.Errorf("compute metrics: %w", ErrEmptyChain)
	}

	m := ChainMetrics{
		MostTraded: chain[0],
		ATM:        chain[0],
		MaxChange:  chain[0].Change,
	}
	bestDistance := math.Abs(chain[0].Strike - referencePrice)

	for _, row := range chain {
		m.TotalVolume += row.Volume
		m.TotalOpenInterest += row.OpenInterest
		m.MeanIV += row.ImpliedVolatility
		if row.Volume > m.MostTraded.Volume {
			m.MostTraded = row
		}
		if row.Change > m.MaxChange {
			m.MaxChange = row.Change
		}
		if d := math.Abs(row.Strike - referencePrice); d < bestDistance {
			bestDistance = d
			m.ATM = row
		}
	}

	n := float64(len(chain))
	m.MeanVolume = m.TotalVolume / n
	m.MeanIV /= n

	return m, nil
}

// ExpiryDate extracts the expiry from the 6-digit YYMMDD block embedded in
// the first row's contract name (e.g. AAPL250321C00150000 -> 2025-03-21).
// Chains whose contract names carry no such block report ExpiryUnknown.
func ExpiryDate(chain OptionChain) string {
	if len(chain) == 0 {
		return ExpiryUnknown
	}
	raw := contractDatePattern.FindString(chain[0].ContractName)
	if raw == "" {
		return ExpiryUnknown
	}
	return fmt.Sprintf("20%s-%s-%s", raw[:2], raw[2:4], raw[4:])
}

// DaysToExpiry counts whole days from now until the given expiry date. An
// unknown or unparsable expiry falls back to 30 days. A past expiry yields a
// negative count; the reliability scorer treats that like any other stale
// window.
func DaysToExpiry(expiry string, now time.Time) int {
	if expiry == ExpiryUnknown || expiry == "" {
		return fallbackDaysToExpiry
	}
	t, err := time.Parse("2006-01-02", expiry)
	if err != nil {
		return fallbackDaysToExpiry
	}
	return int(t.Sub(now).Hours() / 24)
}

// MedianStrike is the substitution policy for a missing underlying price: the
// median of the chain's strikes, averaging the middle pair on even counts.
func MedianStrike(chain OptionChain) float64 {
	if len(chain) == 0 {
		return 0
	}
	strikes := make([]float64, len(chain))
	for i, row := range chain {
		strikes[i] = row.Strike
	}
	sort.Float64s(strikes)
	mid := len(strikes) / 2
	if len(strikes)%2 == 1 {
		return strikes[mid]
	}
	return (strikes[mid-1] + strikes[mid]) / 2
}

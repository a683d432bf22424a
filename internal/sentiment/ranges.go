package sentiment

import "sort"

// Default tuning for the two range estimators. Both are overridable through
// the engine config.
const (
	DefaultOIRangeThreshold    = 0.85
	DefaultBoxDistanceFraction = 0.3
)

// Box-strike score weights: open interest carries the standing positions,
// volume carries today's conviction.
const (
	boxOpenInterestWeight = 0.3
	boxVolumeWeight       = 0.7
)

// OpenInterestRange returns the (low, high) strikes covering the leading
// threshold-fraction of cumulative open interest, walking strikes in ascending
// order. When total open interest is zero or the retained subset is empty it
// falls back to the chain's full strike span; the degenerate case is never an
// error.
func OpenInterestRange(chain OptionChain, threshold float64) (low, high float64) {
	if len(chain) == 0 {
		return 0, 0
	}

	sorted := make(OptionChain, len(chain))
	copy(sorted, chain)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Strike < sorted[j].Strike })

	var totalOI float64
	for _, row := range sorted {
		totalOI += row.OpenInterest
	}

	low, high = sorted[0].Strike, sorted[len(sorted)-1].Strike
	if totalOI == 0 {
		return low, high
	}

	cutoff := totalOI * threshold
	var cumulative float64
	var retainedLow, retainedHigh float64
	retained := 0
	for _, row := range sorted {
		cumulative += row.OpenInterest
		if cumulative > cutoff {
			continue
		}
		if retained == 0 {
			retainedLow = row.Strike
		}
		retainedHigh = row.Strike
		retained++
	}
	if retained == 0 {
		return low, high
	}

	return retainedLow, retainedHigh
}

// WeightedBoxStrike picks the strike where open interest and volume
// concentrate, restricted to strikes within distanceFraction of the current
// price. The second return is false when the restricted subset is empty or
// carries no weight at all; callers omit the box range rather than erroring.
func WeightedBoxStrike(chain OptionChain, currentPrice, distanceFraction float64) (float64, bool) {
	lower := currentPrice * (1 - distanceFraction)
	upper := currentPrice * (1 + distanceFraction)

	var bestStrike, bestScore float64
	found := false
	for _, row := range chain {
		if row.Strike < lower || row.Strike > upper {
			continue
		}
		score := boxOpenInterestWeight*row.OpenInterest + boxVolumeWeight*row.Volume
		// Strict comparison keeps the first row on ties and rejects an
		// all-zero subset.
		if score > bestScore {
			bestScore = score
			bestStrike = row.Strike
			found = true
		}
	}

	return bestStrike, found
}

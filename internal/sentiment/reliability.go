package sentiment

import "math"

// Reliability component scales. Volume and open interest saturate at the
// levels of a liquid large-cap chain; the ATM window is in strike points.
const (
	volumeSaturation   = 100000.0
	oiSaturation       = 200000.0
	atmStrikeWindow    = 5.0
	concentrationEps   = 1e-9
	reliabilityHighCut = 0.8
	reliabilityModCut  = 0.6
)

// Reliability messages, banded on the rounded index.
const (
	MessageHighConfidence     = "high confidence"
	MessageModerateConfidence = "moderate confidence, interpret with care"
	MessageLowConfidence      = "low confidence, reference only"
)

// ScoreReliability blends liquidity, open-interest depth, at-the-money volume
// concentration, and time-to-expiry into one confidence index in [0, 1],
// rounded to two decimals, plus its message band.
func ScoreReliability(calls, puts ChainMetrics, callChain, putChain OptionChain, currentPrice float64, daysToExpiry int) (float64, string) {
	volumeScore := math.Min((calls.TotalVolume+puts.TotalVolume)/volumeSaturation, 1.0)
	oiScore := math.Min((calls.TotalOpenInterest+puts.TotalOpenInterest)/oiSaturation, 1.0)

	atmVolume := volumeNearPrice(callChain, currentPrice) + volumeNearPrice(putChain, currentPrice)
	concentration := atmVolume / (calls.TotalVolume + puts.TotalVolume + concentrationEps)
	atmScore := math.Min(concentration*2, 1.0)

	timeScore := scoreTimeWindow(daysToExpiry)

	index := 0.3*volumeScore + 0.3*oiScore + 0.2*atmScore + 0.2*timeScore
	index = math.Round(index*100) / 100

	switch {
	case index >= reliabilityHighCut:
		return index, MessageHighConfidence
	case index >= reliabilityModCut:
		return index, MessageModerateConfidence
	default:
		return index, MessageLowConfidence
	}
}

// scoreTimeWindow prefers expiries 5-30 days out, tolerates up to 60, and
// discounts everything else, expired snapshots included.
func scoreTimeWindow(daysToExpiry int) float64 {
	switch {
	case daysToExpiry >= 5 && daysToExpiry <= 30:
		return 1.0
	case daysToExpiry > 30 && daysToExpiry <= 60:
		return 0.7
	default:
		return 0.3
	}
}

func volumeNearPrice(chain OptionChain, price float64) float64 {
	var total float64
	for _, row := range chain {
		if math.Abs(row.Strike-price) <= atmStrikeWindow {
			total += row.Volume
		}
	}
	return total
}

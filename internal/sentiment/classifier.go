package sentiment

import "math"

// StrategyLabel is the rule-based directional call the classifier emits.
type StrategyLabel string

const (
	StrategyVeryStrongBuy        StrategyLabel = "VERY_STRONG_BUY"
	StrategyCautiousBuyVolatile  StrategyLabel = "CAUTIOUS_BUY_VOLATILITY_RISK"
	StrategyBuy                  StrategyLabel = "BUY"
	StrategyCautiousBuyUnclear   StrategyLabel = "CAUTIOUS_BUY_UNCLEAR"
	StrategyVeryStrongSell       StrategyLabel = "VERY_STRONG_SELL"
	StrategyCautiousSellVolatile StrategyLabel = "CAUTIOUS_SELL_VOLATILITY_CAUTION"
	StrategySell                 StrategyLabel = "SELL"
	StrategyCautiousSellUnclear  StrategyLabel = "CAUTIOUS_SELL_UNCLEAR"
	StrategyDefensive            StrategyLabel = "FEAR_DEFENSIVE_BIAS"
	StrategyMildBullish          StrategyLabel = "MILD_BULLISH_WEAK_CONVICTION"
	StrategyNeutral              StrategyLabel = "NEUTRAL"
)

// Description returns the human-readable reading of the label for report
// rendering.
func (s StrategyLabel) Description() string {
	switch s {
	case StrategyVeryStrongBuy:
		return "Very strong buy: directional longs plus a low-volatility entry."
	case StrategyCautiousBuyVolatile:
		return "Cautious buy: bullish flow, but elevated volatility - size down."
	case StrategyBuy:
		return "Buy signal: bullish flow in a calm volatility regime."
	case StrategyCautiousBuyUnclear:
		return "Cautious buy: bullish flow but the volatility picture is unclear."
	case StrategyVeryStrongSell:
		return "Very strong sell: exit longs, short exposure favored."
	case StrategyCautiousSellVolatile:
		return "Cautious sell: bearish flow with volatility caution."
	case StrategySell:
		return "General sell signal: market weakness likely, consider defensive positioning."
	case StrategyCautiousSellUnclear:
		return "Cautious sell: bearish flow but the volatility picture is unclear."
	case StrategyDefensive:
		return "Fear / defensive bias: heavy put volume into high volatility."
	case StrategyMildBullish:
		return "Mild bullish bias, weak conviction."
	default:
		return "Neutral: no clear market direction."
	}
}

// Classification thresholds. These are the business rules the whole engine
// exists to apply; do not tune them casually.
const (
	skewThreshold      = 2.0  // IV skew points before skew counts as sentiment
	highIVMeanLevel    = 30.0 // mean IV above this is a high-volatility regime
	highIVSpreadLevel  = 5.0  // ATM call/put IV gap above this also counts
	fearRatioLevel     = 1.2  // put/call ratio above this reads as fear
	weakBullRatioLevel = 0.8  // put/call ratio below this reads as mild optimism
)

// DeriveSignals combines the per-side metrics into the boolean gauges the
// decision table runs on.
func DeriveSignals(calls, puts ChainMetrics) Signals {
	ratio := math.Inf(1)
	if calls.TotalVolume > 0 {
		ratio = puts.TotalVolume / calls.TotalVolume
	}

	skew := puts.ATM.ImpliedVolatility - calls.ATM.ImpliedVolatility
	meanIV := (calls.MeanIV + puts.MeanIV) / 2

	return Signals{
		PutCallRatio: ratio,
		IVSkew:       skew,
		MeanIV:       meanIV,
		Bullish: calls.MeanVolume > puts.MeanVolume &&
			ratio < 1 &&
			calls.MaxChange > puts.MaxChange,
		Bearish: puts.MeanVolume > calls.MeanVolume,
		HighIV: meanIV > highIVMeanLevel ||
			math.Abs(calls.ATM.ImpliedVolatility-puts.ATM.ImpliedVolatility) > highIVSpreadLevel,
		SignificantPositiveSkew: skew > skewThreshold,
		SignificantNegativeSkew: skew < -skewThreshold,
	}
}

// ClassifyStrategy walks the priority-ordered decision table: bullish branches
// first, then bearish, then the neutral sub-cases. First match wins and
// exactly one label comes out.
func ClassifyStrategy(s Signals) StrategyLabel {
	switch {
	case s.Bullish:
		switch {
		case !s.HighIV && s.SignificantNegativeSkew:
			return StrategyVeryStrongBuy
		case s.HighIV && s.SignificantNegativeSkew:
			return StrategyCautiousBuyVolatile
		case !s.HighIV:
			return StrategyBuy
		default:
			return StrategyCautiousBuyUnclear
		}
	case s.Bearish:
		switch {
		case !s.HighIV && s.SignificantPositiveSkew:
			return StrategyVeryStrongSell
		case s.HighIV && s.SignificantPositiveSkew:
			return StrategyCautiousSellVolatile
		case !s.HighIV:
			return StrategySell
		default:
			return StrategyCautiousSellUnclear
		}
	default:
		switch {
		case s.PutCallRatio > fearRatioLevel && s.HighIV:
			return StrategyDefensive
		case s.PutCallRatio < weakBullRatioLevel && !s.HighIV:
			return StrategyMildBullish
		default:
			return StrategyNeutral
		}
	}
}

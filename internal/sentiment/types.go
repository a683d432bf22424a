package sentiment

// OptionContractRow is one strike's contract after cell coercion. All numeric
// fields are finite; values the source table left blank, dashed, or garbled
// are 0, never a missing marker, so downstream code must treat 0 as a real
// degenerate value.
type OptionContractRow struct {
	ContractName      string  `json:"contract_name"`
	Strike            float64 `json:"strike"`
	LastPrice         float64 `json:"last_price"`
	Bid               float64 `json:"bid"`
	Ask               float64 `json:"ask"`
	Change            float64 `json:"change"`
	Volume            float64 `json:"volume"`
	OpenInterest      float64 `json:"open_interest"`
	ImpliedVolatility float64 `json:"implied_volatility"` // percentage points
	BidAskSpread      float64 `json:"bid_ask_spread"`
}

// OptionChain is one side (calls or puts) of a chain in table order. The order
// is whatever the source page used; nothing here assumes it is sorted by
// strike.
type OptionChain []OptionContractRow

// ChainMetrics holds the per-chain aggregates the classifier and scorer work
// from.
type ChainMetrics struct {
	TotalVolume       float64 `json:"total_volume"`
	TotalOpenInterest float64 `json:"total_open_interest"`
	MeanVolume        float64 `json:"mean_volume"`
	MeanIV            float64 `json:"mean_iv"`
	MaxChange         float64 `json:"max_change"`

	// MostTraded is the row with maximum volume, first occurrence winning
	// ties. ATM is the row whose strike is closest to the reference price.
	MostTraded OptionContractRow `json:"most_traded"`
	ATM        OptionContractRow `json:"atm"`
}

// Signals are the boolean sentiment gauges derived from both sides of the
// chain. Bullish and Bearish can both be false on balanced volume but never
// both true.
type Signals struct {
	PutCallRatio            float64 `json:"put_call_ratio"`
	IVSkew                  float64 `json:"iv_skew"`
	MeanIV                  float64 `json:"mean_iv"`
	Bullish                 bool    `json:"bullish"`
	Bearish                 bool    `json:"bearish"`
	HighIV                  bool    `json:"high_iv"`
	SignificantPositiveSkew bool    `json:"significant_positive_skew"`
	SignificantNegativeSkew bool    `json:"significant_negative_skew"`
}

// AnalysisReport is the engine's sole output. It is a plain value: build it,
// hand it to the caller, done.
type AnalysisReport struct {
	Ticker           string  `json:"ticker"`
	ExpiryDate       string  `json:"expiry_date"` // "2006-01-02" or "unknown"
	DaysToExpiry     int     `json:"days_to_expiry"`
	CurrentPrice     float64 `json:"current_price"`
	PriceSubstituted bool    `json:"price_substituted"`

	Strategy StrategyLabel `json:"strategy"`
	Signals  Signals       `json:"signals"`

	PutCallRatio          float64 `json:"put_call_ratio"`
	IVSkew                float64 `json:"iv_skew"`
	MeanImpliedVolatility float64 `json:"mean_implied_volatility"`

	MostTradedCallStrike       float64 `json:"most_traded_call_strike"`
	MostTradedPutStrike        float64 `json:"most_traded_put_strike"`
	MostTradedCallVolume       float64 `json:"most_traded_call_volume"`
	MostTradedPutVolume        float64 `json:"most_traded_put_volume"`
	MostTradedCallOpenInterest float64 `json:"most_traded_call_open_interest"`
	MostTradedPutOpenInterest  float64 `json:"most_traded_put_open_interest"`

	ReliabilityIndex   float64 `json:"reliability_index"`
	ReliabilityMessage string  `json:"reliability_message"`

	// OpenInterestRangeLow/High come from the cumulative open-interest range
	// (put side low, call side high) and are supporting evidence only.
	OpenInterestRangeLow  float64 `json:"open_interest_range_low"`
	OpenInterestRangeHigh float64 `json:"open_interest_range_high"`

	// Box range is present only when both sides produced a weighted strike.
	BoxRangeLow  float64 `json:"box_range_low,omitempty"`
	BoxRangeHigh float64 `json:"box_range_high,omitempty"`
	HasBoxRange  bool    `json:"has_box_range"`
}

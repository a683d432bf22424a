package sentiment

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"options-sentinel/internal/types"
)

// Column names as they appear on the Yahoo Finance options tables.
const (
	colContractName = "Contract Name"
	colStrike       = "Strike"
	colLastPrice    = "Last Price"
	colBid          = "Bid"
	colAsk          = "Ask"
	colChange       = "Change"
	colVolume       = "Volume"
	colOpenInterest = "Open Interest"
	colImpliedVol   = "Implied Volatility"
)

// Normalize coerces one raw options table into a clean chain. Cell coercion is
// fail-soft: thousands separators and a trailing % on implied volatility are
// stripped, a lone "-" reads as zero, and anything still unparsable reads as
// zero. The only structural requirement is a Strike column; a table without
// one is rejected with ErrMalformedChain.
func Normalize(table *types.RawOptionTable) (OptionChain, error) {
	strikeIdx := table.ColumnIndex(colStrike)
	if strikeIdx < 0 {
		return nil, fmt.Errorf("normalize: %w", ErrMalformedChain)
	}

	nameIdx := table.ColumnIndex(colContractName)
	lastIdx := table.ColumnIndex(colLastPrice)
	bidIdx := table.ColumnIndex(colBid)
	askIdx := table.ColumnIndex(colAsk)
	changeIdx := table.ColumnIndex(colChange)
	volumeIdx := table.ColumnIndex(colVolume)
	oiIdx := table.ColumnIndex(colOpenInterest)
	ivIdx := table.ColumnIndex(colImpliedVol)

	chain := make(OptionChain, 0, len(table.Rows))
	for i := range table.Rows {
		row := OptionContractRow{
			ContractName:      table.Cell(i, nameIdx),
			Strike:            coerceNumeric(table.Cell(i, strikeIdx)),
			LastPrice:         coerceNumeric(table.Cell(i, lastIdx)),
			Bid:               coerceNumeric(table.Cell(i, bidIdx)),
			Ask:               coerceNumeric(table.Cell(i, askIdx)),
			Change:            coerceNumeric(table.Cell(i, changeIdx)),
			Volume:            coerceNumeric(table.Cell(i, volumeIdx)),
			OpenInterest:      coerceNumeric(table.Cell(i, oiIdx)),
			ImpliedVolatility: coercePercent(table.Cell(i, ivIdx)),
		}
		row.BidAskSpread = math.Abs(row.Ask - row.Bid)
		chain = append(chain, row)
	}

	return chain, nil
}

// coerceNumeric turns a raw cell into a float64, mapping every irregularity to
// zero rather than an error.
func coerceNumeric(cell string) float64 {
	cell = strings.TrimSpace(cell)
	if cell == "" || cell == "-" {
		return 0
	}
	cell = strings.ReplaceAll(cell, ",", "")
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// coercePercent is coerceNumeric with a trailing percent sign allowed, for the
// implied volatility column.
func coercePercent(cell string) float64 {
	cell = strings.TrimSpace(cell)
	cell = strings.TrimSuffix(cell, "%")
	return coerceNumeric(cell)
}

package sentiment

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"testing"

	"options-sentinel/internal/types"
)

func rawTable(rows [][]string) types.RawOptionTable {
	return types.RawOptionTable{
		Columns: []string{
			"Contract Name", "Strike", "Last Price", "Bid", "Ask",
			"Change", "Volume", "Open Interest", "Implied Volatility",
		},
		Rows: rows,
	}
}

func TestNormalizeCoercion(t *testing.T) {
	table := rawTable([][]string{
		{"AAPL250321C00150000", "150.00", "3.25", "3.10", "3.40", "0.45", "1,234", "5,678", "24.56%"},
		{"AAPL250321C00155000", "155.00", "-", "-", "-", "-", "-", "-", "-"},
		{"AAPL250321C00160000", "160.00", "garbage", "1.00", "0.50", "x", "", "12", "n/a"},
	})

	chain, err := Normalize(&table)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if len(chain) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(chain))
	}

	first := chain[0]
	if first.Volume != 1234 {
		t.Errorf("Expected volume 1234, got %f", first.Volume)
	}
	if first.OpenInterest != 5678 {
		t.Errorf("Expected open interest 5678, got %f", first.OpenInterest)
	}
	if first.ImpliedVolatility != 24.56 {
		t.Errorf("Expected IV 24.56, got %f", first.ImpliedVolatility)
	}
	if first.BidAskSpread < 0.2999 || first.BidAskSpread > 0.3001 {
		t.Errorf("Expected spread 0.30, got %f", first.BidAskSpread)
	}

	dashed := chain[1]
	if dashed.Volume != 0 || dashed.OpenInterest != 0 || dashed.LastPrice != 0 {
		t.Errorf("Dash cells should coerce to zero, got %+v", dashed)
	}
	if dashed.Strike != 155 {
		t.Errorf("Expected strike 155, got %f", dashed.Strike)
	}

	garbled := chain[2]
	if garbled.LastPrice != 0 || garbled.Change != 0 || garbled.ImpliedVolatility != 0 {
		t.Errorf("Unparsable cells should coerce to zero, got %+v", garbled)
	}
	if garbled.OpenInterest != 12 {
		t.Errorf("Expected open interest 12, got %f", garbled.OpenInterest)
	}
	// |0.50 - 1.00|
	if garbled.BidAskSpread != 0.5 {
		t.Errorf("Expected spread 0.5, got %f", garbled.BidAskSpread)
	}
}

func TestNormalizeMissingStrikeColumn(t *testing.T) {
	table := types.RawOptionTable{
		Columns: []string{"Contract Name", "Volume"},
		Rows:    [][]string{{"AAPL250321C00150000", "10"}},
	}

	_, err := Normalize(&table)
	if !errors.Is(err, ErrMalformedChain) {
		t.Errorf("Expected ErrMalformedChain, got %v", err)
	}
}

func TestNormalizeEmptyTableIsNotAnError(t *testing.T) {
	table := rawTable(nil)
	chain, err := Normalize(&table)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if len(chain) != 0 {
		t.Errorf("Expected empty chain, got %d rows", len(chain))
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	table := rawTable([][]string{
		{"AAPL250321C00150000", "150.00", "3.25", "3.10", "3.40", "0.45", "1,234", "5,678", "24.56%"},
		{"AAPL250321C00155000", "155.00", "2.00", "1.90", "2.10", "-0.30", "987", "2,000", "22.10%"},
	})

	chain, err := Normalize(&table)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	// Render the clean chain back into a raw table and normalize again.
	rendered := rawTable(nil)
	for _, row := range chain {
		rendered.Rows = append(rendered.Rows, []string{
			row.ContractName,
			strconv.FormatFloat(row.Strike, 'f', -1, 64),
			strconv.FormatFloat(row.LastPrice, 'f', -1, 64),
			strconv.FormatFloat(row.Bid, 'f', -1, 64),
			strconv.FormatFloat(row.Ask, 'f', -1, 64),
			strconv.FormatFloat(row.Change, 'f', -1, 64),
			strconv.FormatFloat(row.Volume, 'f', -1, 64),
			strconv.FormatFloat(row.OpenInterest, 'f', -1, 64),
			fmt.Sprintf("%s%%", strconv.FormatFloat(row.ImpliedVolatility, 'f', -1, 64)),
		})
	}

	again, err := Normalize(&rendered)
	if err != nil {
		t.Fatalf("Second Normalize returned error: %v", err)
	}
	if !reflect.DeepEqual(chain, again) {
		t.Errorf("Normalization is not idempotent:\nfirst:  %+v\nsecond: %+v", chain, again)
	}
}

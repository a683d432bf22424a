package provider

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"options-sentinel/internal/types"
)

// SnapshotFetcher supplies raw option-chain snapshots for the analysis
// engine. Implementations own retries, caching, and expiry discovery; the
// engine stays a pure consumer.
type SnapshotFetcher interface {
	// FetchSnapshot fetches the chain for one ticker. An empty expiry means
	// the front-month chain.
	FetchSnapshot(ctx context.Context, ticker, expiry string) (*types.MarketSnapshot, error)
}

// MockFetcher generates synthetic snapshots for testing and offline
// development. Chains are seeded per ticker, so the same ticker always gets
// the same snapshot.
type MockFetcher struct {
	now func() time.Time
}

// NewMockFetcher creates a mock snapshot fetcher.
func NewMockFetcher() *MockFetcher {
	return &MockFetcher{now: time.Now}
}

// FetchSnapshot generates a synthetic but structurally realistic snapshot:
// raw string cells with thousands separators, percent signs, and the
// occasional dash, exactly as a scrape would deliver them.
func (m *MockFetcher) FetchSnapshot(ctx context.Context, ticker, expiry string) (*types.MarketSnapshot, error) {
	seed := int64(0)
	for _, c := range ticker {
		seed += int64(c)
	}
	r := rand.New(rand.NewSource(seed))

	basePrice := 50.0 + r.Float64()*400.0

	expiryDate := m.now().AddDate(0, 0, 14+r.Intn(21))
	if expiry != "" {
		parsed, err := time.Parse("2006-01-02", expiry)
		if err != nil {
			return nil, fmt.Errorf("invalid expiry %q: %w", expiry, err)
		}
		expiryDate = parsed
	}

	snap := &types.MarketSnapshot{
		Ticker:       ticker,
		ExpiryDate:   expiryDate.Format("2006-01-02"),
		Calls:        m.generateTable(ticker, "C", basePrice, expiryDate, r),
		Puts:         m.generateTable(ticker, "P", basePrice, expiryDate, r),
		CurrentPrice: basePrice,
		HasPrice:     true,
	}

	// Sometimes the oracle is down; the engine must cope.
	if r.Float64() < 0.1 {
		snap.CurrentPrice = 0
		snap.HasPrice = false
	}

	return snap, nil
}

func (m *MockFetcher) generateTable(ticker, side string, basePrice float64, expiry time.Time, r *rand.Rand) types.RawOptionTable {
	table := types.RawOptionTable{
		Columns: []string{
			"Contract Name", "Last Trade Date", "Strike", "Last Price",
			"Bid", "Ask", "Change", "% Change", "Volume", "Open Interest",
			"Implied Volatility",
		},
	}

	strikes := 11
	for i := 0; i < strikes; i++ {
		strike := basePrice * (0.75 + 0.05*float64(i))
		last := basePrice * (0.01 + r.Float64()*0.08)
		bid := last * 0.95
		ask := last * 1.05
		change := -2.0 + r.Float64()*4.0
		volume := r.Intn(20000)
		oi := r.Intn(40000)
		iv := 15.0 + r.Float64()*40.0

		volumeCell := formatWithCommas(volume)
		if volume == 0 || r.Float64() < 0.05 {
			volumeCell = "-"
		}

		contract := fmt.Sprintf("%s%s%s%08d", ticker, expiry.Format("060102"), side, int(strike*1000))
		table.Rows = append(table.Rows, []string{
			contract,
			expiry.AddDate(0, 0, -1).Format("2006-01-02 3:04PM EST"),
			strconv.FormatFloat(strike, 'f', 2, 64),
			strconv.FormatFloat(last, 'f', 2, 64),
			strconv.FormatFloat(bid, 'f', 2, 64),
			strconv.FormatFloat(ask, 'f', 2, 64),
			strconv.FormatFloat(change, 'f', 2, 64),
			fmt.Sprintf("%.2f%%", change*10),
			volumeCell,
			formatWithCommas(oi),
			fmt.Sprintf("%.2f%%", iv),
		})
	}

	return table
}

func formatWithCommas(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	return string(out)
}

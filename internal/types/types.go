package types

// RawOptionTable holds one scraped options table (calls or puts) exactly as it
// appeared on the quote page: a header row plus string cells. Cell values may
// contain thousands separators, percent signs, or "-" placeholders; cleaning
// them up is the sentiment engine's job, not the provider's.
type RawOptionTable struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// ColumnIndex returns the position of the named column, or -1 if absent.
func (t *RawOptionTable) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Cell returns the cell at (row, col), or "" when the row is ragged.
func (t *RawOptionTable) Cell(row, col int) string {
	if col < 0 || row < 0 || row >= len(t.Rows) || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// MarketSnapshot is one point-in-time capture of an options chain for a single
// ticker and expiry: the raw call and put tables plus whatever the price oracle
// could tell us about the underlying.
type MarketSnapshot struct {
	Ticker     string         `json:"ticker"`
	ExpiryDate string         `json:"expiry_date"` // "2006-01-02" or "" when unknown
	Calls      RawOptionTable `json:"calls"`
	Puts       RawOptionTable `json:"puts"`

	// CurrentPrice is the underlying's last price. HasPrice is false when the
	// oracle could not supply one; the engine substitutes the median call
	// strike in that case rather than failing the analysis.
	CurrentPrice float64 `json:"current_price"`
	HasPrice     bool    `json:"has_price"`
}

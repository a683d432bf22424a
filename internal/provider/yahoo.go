package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"options-sentinel/internal/logger"
	"options-sentinel/internal/types"
)

const yahooOptionsURL = "https://finance.yahoo.com/quote/%s/options"

// YahooFetcher scrapes the Yahoo Finance options page for a ticker's call and
// put tables and asks the price oracle for the underlying's last price.
type YahooFetcher struct {
	oracle  *PriceOracle
	timeout time.Duration
}

// NewYahooFetcher creates a live snapshot fetcher backed by the given oracle.
func NewYahooFetcher(timeout time.Duration, oracle *PriceOracle) *YahooFetcher {
	return &YahooFetcher{
		oracle:  oracle,
		timeout: timeout,
	}
}

// FetchSnapshot scrapes the options page. The first table on the page is the
// call side, the second the put side; fewer than two tables means Yahoo
// served something unusable. A failed price lookup is not fatal: the snapshot
// is returned without a price and the engine substitutes per its policy.
func (y *YahooFetcher) FetchSnapshot(ctx context.Context, ticker, expiry string) (*types.MarketSnapshot, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, fmt.Errorf("ticker cannot be empty")
	}

	pageURL := fmt.Sprintf(yahooOptionsURL, ticker)
	if expiry != "" {
		t, err := time.Parse("2006-01-02", expiry)
		if err != nil {
			return nil, fmt.Errorf("invalid expiry %q: %w", expiry, err)
		}
		pageURL = fmt.Sprintf("%s?date=%d", pageURL, t.Unix())
	}

	tables, err := y.scrapeTables(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to scrape options page for %s: %w", ticker, err)
	}
	if len(tables) < 2 {
		return nil, fmt.Errorf("options page for %s has %d tables, expected calls and puts", ticker, len(tables))
	}

	snap := &types.MarketSnapshot{
		Ticker:     ticker,
		ExpiryDate: expiry,
		Calls:      tables[0],
		Puts:       tables[1],
	}

	price, err := y.oracle.CurrentPrice(ctx, ticker)
	if err != nil {
		logger.Warn(ctx, "Price lookup failed, snapshot carries no underlying price",
			"ticker", ticker, "error", err)
	} else {
		snap.CurrentPrice = price
		snap.HasPrice = true
	}

	logger.Info(ctx, "Snapshot fetched",
		"ticker", ticker,
		"calls", len(snap.Calls.Rows),
		"puts", len(snap.Puts.Rows),
		"hasPrice", snap.HasPrice)

	return snap, nil
}

// scrapeTables visits the page and extracts every HTML table in document
// order.
func (y *YahooFetcher) scrapeTables(ctx context.Context, pageURL string) ([]types.RawOptionTable, error) {
	var tables []types.RawOptionTable

	c := colly.NewCollector(
		colly.AllowedDomains("finance.yahoo.com"),
		colly.MaxDepth(1),
		colly.Async(false),
	)
	c.SetRequestTimeout(y.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	})

	c.OnHTML("table", func(e *colly.HTMLElement) {
		table := parseTable(e.DOM)
		if len(table.Columns) > 0 && len(table.Rows) > 0 {
			tables = append(tables, table)
		}
	})

	c.OnError(func(r *colly.Response, err error) {
		logger.ErrorWithErr(ctx, "Options page scrape error", err, "url", r.Request.URL.String())
	})

	if err := c.Visit(pageURL); err != nil {
		return nil, fmt.Errorf("failed to visit %s: %w", pageURL, err)
	}
	c.Wait()

	return tables, nil
}

// parseTable lifts one <table> element into a raw table, cells untouched.
func parseTable(sel *goquery.Selection) types.RawOptionTable {
	var table types.RawOptionTable

	sel.Find("thead th").Each(func(_ int, th *goquery.Selection) {
		table.Columns = append(table.Columns, strings.TrimSpace(th.Text()))
	})

	sel.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		var row []string
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			row = append(row, strings.TrimSpace(td.Text()))
		})
		if len(row) > 0 {
			table.Rows = append(table.Rows, row)
		}
	})

	return table
}

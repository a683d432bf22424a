package provider

import (
	"context"
	"fmt"
	"time"

	"options-sentinel/internal/api"
)

const yahooChartURL = "https://query1.finance.yahoo.com/v8/finance/chart/%s?range=1d&interval=1d"

// PriceOracle looks up the underlying's last traded price via the Yahoo
// chart API. "Unavailable" is an ordinary outcome here, reported as an error
// for the caller to absorb, never to escalate.
type PriceOracle struct {
	client *api.Client
}

// NewPriceOracle creates an oracle with its own HTTP client.
func NewPriceOracle(timeout time.Duration) *PriceOracle {
	return &PriceOracle{
		client: api.NewClient(
			api.WithTimeout(timeout),
			api.WithLogging(true),
		),
	}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// CurrentPrice returns the last market price for the ticker.
func (o *PriceOracle) CurrentPrice(ctx context.Context, ticker string) (float64, error) {
	url := fmt.Sprintf(yahooChartURL, ticker)
	resp, err := o.client.GETWithRetry(ctx, url, nil, api.YahooFinanceHeaders())
	if err != nil {
		return 0, err
	}

	var chart chartResponse
	if err := resp.ParseJSON(&chart); err != nil {
		return 0, err
	}
	if chart.Chart.Error != nil {
		return 0, fmt.Errorf("chart API error for %s: %s", ticker, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return 0, fmt.Errorf("chart API returned no result for %s", ticker)
	}

	price := chart.Chart.Result[0].Meta.RegularMarketPrice
	if price <= 0 {
		return 0, fmt.Errorf("chart API returned no price for %s", ticker)
	}

	return price, nil
}

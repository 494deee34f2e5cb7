package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"squeeze-scanner/internal/domain"
)

const DefaultBaseURL = "https://query1.finance.yahoo.com"

// etfSectors maps the common sector ETFs to their sector label so scans over
// an ETF universe still get a usable grouping without a profile lookup.
var etfSectors = map[string]string{
	"XLK":  "Technology",
	"XLF":  "Financials",
	"XLE":  "Energy",
	"XLV":  "Health Care",
	"XLY":  "Consumer Discretionary",
	"XLP":  "Consumer Staples",
	"XLI":  "Industrials",
	"XLB":  "Materials",
	"XLU":  "Utilities",
	"XLRE": "Real Estate",
	"XLC":  "Communication Services",
	"SPY":  "Index",
	"QQQ":  "Index",
	"IWM":  "Index",
	"DIA":  "Index",
}

// Client fetches OHLCV history from the Yahoo Finance chart API. Requests
// run through a shared rate limiter, and transient upstream failures (429,
// 5xx) are retried with exponential backoff.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
	retryBase  time.Duration
	log        zerolog.Logger
}

func NewClient(baseURL string, requestsPerSecond float64, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = 5
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		maxRetries: 3,
		retryBase:  time.Second,
		log:        log,
	}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// WeeklyBars fetches daily history and resamples it into Friday-anchored
// weekly bars, returning at most the trailing `weeks` of them.
func (c *Client) WeeklyBars(ctx context.Context, symbol string, weeks int) (domain.BarSeries, error) {
	daily, err := c.fetchDaily(ctx, symbol, rangeForDays(weeks*7))
	if err != nil {
		return domain.BarSeries{}, err
	}
	weekly := ResampleWeekly(daily)
	if len(weekly) > weeks {
		weekly = weekly[len(weekly)-weeks:]
	}
	return domain.BarSeries{Symbol: symbol, Bars: weekly}, nil
}

// DailyBars fetches the trailing `days` of daily history.
func (c *Client) DailyBars(ctx context.Context, symbol string, days int) (domain.BarSeries, error) {
	daily, err := c.fetchDaily(ctx, symbol, rangeForDays(days))
	if err != nil {
		return domain.BarSeries{}, err
	}
	if len(daily) > days {
		daily = daily[len(daily)-days:]
	}
	return domain.BarSeries{Symbol: symbol, Bars: daily}, nil
}

// Profile returns the symbol's 20-day average volume and its sector. Sector
// lookup is best effort: known ETFs map statically, everything else reports
// "Unknown".
func (c *Client) Profile(ctx context.Context, symbol string) (float64, string, error) {
	bars, err := c.fetchDaily(ctx, symbol, "3mo")
	if err != nil {
		return 0, "", err
	}
	if len(bars) == 0 {
		return 0, "", fmt.Errorf("no recent bars for %s", symbol)
	}

	window := bars
	if len(window) > 20 {
		window = window[len(window)-20:]
	}
	total := 0.0
	for _, b := range window {
		total += b.Volume
	}
	avgVolume := total / float64(len(window))

	sector, ok := etfSectors[symbol]
	if !ok {
		sector = "Unknown"
	}
	return avgVolume, sector, nil
}

func (c *Client) fetchDaily(ctx context.Context, symbol, rng string) ([]domain.Bar, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=1d&events=", c.baseURL, url.PathEscape(symbol), rng)

	var parsed chartResponse
	if err := c.getJSON(ctx, endpoint, &parsed); err != nil {
		return nil, err
	}
	if parsed.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error for %s: %s", symbol, parsed.Chart.Error.Description)
	}
	if len(parsed.Chart.Result) == 0 || len(parsed.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("empty chart result for %s", symbol)
	}

	result := parsed.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	n := len(result.Timestamp)
	for _, col := range [][]*float64{quote.Open, quote.High, quote.Low, quote.Close} {
		if len(col) < n {
			n = len(col)
		}
	}

	bars := make([]domain.Bar, 0, n)
	for i, ts := range result.Timestamp[:n] {
		// Rows with null prices (halts, partial sessions) are dropped.
		if quote.Close[i] == nil || quote.Open[i] == nil || quote.High[i] == nil || quote.Low[i] == nil {
			continue
		}
		volume := 0.0
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			volume = *quote.Volume[i]
		}
		bars = append(bars, domain.Bar{
			Time:   time.Unix(ts, 0).UTC(),
			Open:   *quote.Open[i],
			High:   *quote.High[i],
			Low:    *quote.Low[i],
			Close:  *quote.Close[i],
			Volume: volume,
		})
	}
	return bars, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * c.retryBase
			c.log.Debug().Str("url", endpoint).Int("attempt", attempt).Dur("backoff", backoff).Msg("retrying request")
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", "Mozilla/5.0 (squeeze-scanner)")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusOK {
			err = json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			return err
		}

		resp.Body.Close()
		lastErr = fmt.Errorf("chart API status %d", resp.StatusCode)
		if resp.StatusCode != http.StatusTooManyRequests && resp.StatusCode < 500 {
			return lastErr
		}
	}
	return lastErr
}

// rangeForDays picks the smallest chart API range covering the requested
// number of calendar days.
func rangeForDays(days int) string {
	switch {
	case days <= 90:
		return "3mo"
	case days <= 365:
		return "1y"
	case days <= 730:
		return "2y"
	case days <= 1825:
		return "5y"
	default:
		return "10y"
	}
}

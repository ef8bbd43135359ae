package prices

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"SenateInsight/internal/domain/models"
	"SenateInsight/internal/domain/service"
	"SenateInsight/internal/service/ratelimit"
	xhttp "SenateInsight/pkg/http"
	applogger "SenateInsight/pkg/logger"
)

// Client implements PriceSource against an Alpha Vantage style daily series
// endpoint. The full series comes back in one response; the client trims it
// to the requested window.
type Client struct {
	baseURL string
	apiKey  string
	rps     float64
	client  *xhttp.Client
	limiter *ratelimit.Limiter
	l       *applogger.Logger
}

func New(baseURL, apiKey string, timeout time.Duration, rps float64, limiter *ratelimit.Limiter, l *applogger.Logger) *Client {
	if rps <= 0 {
		rps = 1
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		rps:     rps,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
		limiter: limiter,
		l:       l,
	}
}

type dailySeries struct {
	Series map[string]struct {
		Open   string `json:"1. open"`
		High   string `json:"2. high"`
		Low    string `json:"3. low"`
		Close  string `json:"4. close"`
		Volume string `json:"5. volume"`
	} `json:"Time Series (Daily)"`
	Note         string `json:"Note"`
	ErrorMessage string `json:"Error Message"`
}

func (c *Client) DailyBars(ctx context.Context, ticker string, from, to time.Time) ([]models.PriceBar, error) {
	for !c.limiter.Allow("prices", c.rps, c.rps) {
		select {
		case <-time.After(100 * time.Millisecond):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	var resp dailySeries
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/query",
		QueryParams: map[string][]string{
			"function":   {"TIME_SERIES_DAILY"},
			"symbol":     {ticker},
			"outputsize": {"full"},
			"apikey":     {c.apiKey},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("daily bars for %s: %w", ticker, err)
	}
	if resp.ErrorMessage != "" {
		return nil, fmt.Errorf("daily bars for %s: %s", ticker, resp.ErrorMessage)
	}
	if resp.Note != "" {
		return nil, fmt.Errorf("daily bars for %s: rate limited by provider", ticker)
	}

	bars := make([]models.PriceBar, 0, len(resp.Series))
	for day, row := range resp.Series {
		date, err := time.Parse("2006-01-02", day)
		if err != nil {
			continue
		}
		date = date.UTC()
		if date.Before(from) || date.After(to) {
			continue
		}
		b := models.PriceBar{Ticker: ticker, Date: date}
		if b.Open, err = decimal.NewFromString(row.Open); err != nil {
			continue
		}
		if b.High, err = decimal.NewFromString(row.High); err != nil {
			continue
		}
		if b.Low, err = decimal.NewFromString(row.Low); err != nil {
			continue
		}
		if b.Close, err = decimal.NewFromString(row.Close); err != nil {
			continue
		}
		fmt.Sscanf(row.Volume, "%d", &b.Volume)
		bars = append(bars, b)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	if c.l != nil {
		c.l.Debug("daily bars fetched",
			applogger.String("ticker", ticker),
			applogger.Int("bars", len(bars)),
		)
	}
	return bars, nil
}

var _ service.PriceSource = (*Client)(nil)

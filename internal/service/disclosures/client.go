package disclosures

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"SenateInsight/internal/domain/models"
	"SenateInsight/internal/domain/service"
	xhttp "SenateInsight/pkg/http"
	applogger "SenateInsight/pkg/logger"
)

// Client implements DisclosureSource over a JSON disclosure feed. The feed
// carries already-extracted periodic transaction reports; document scraping
// happens upstream of this service.
type Client struct {
	baseURL string
	client  *xhttp.Client
	l       *applogger.Logger
}

func New(baseURL string, timeout time.Duration, l *applogger.Logger) service.DisclosureSource {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
		l:       l,
	}
}

type feedResponse struct {
	Filings []struct {
		FilingID             string `json:"filing_id"`
		MemberID             string `json:"member_id"`
		FilingType           string `json:"filing_type"`
		FilingDate           string `json:"filing_date"`
		ReportingPeriodStart string `json:"reporting_period_start"`
		ReportingPeriodEnd   string `json:"reporting_period_end"`
		Transactions         []struct {
			TransactionID   string `json:"transaction_id"`
			Ticker          string `json:"ticker"`
			CompanyName     string `json:"company_name"`
			TransactionType string `json:"transaction_type"`
			TransactionDate string `json:"transaction_date"`
			AmountRange     string `json:"amount_range"`
			AssetType       string `json:"asset_type"`
			Owner           string `json:"owner"`
		} `json:"transactions"`
	} `json:"filings"`
}

func (c *Client) MemberDisclosures(ctx context.Context, memberName string, year int) ([]models.Disclosure, error) {
	var feed feedResponse
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/disclosures",
		QueryParams: map[string][]string{
			"member": {memberName},
			"year":   {fmt.Sprintf("%d", year)},
		},
	}, &feed)
	if err != nil {
		return nil, fmt.Errorf("disclosures for %s/%d: %w", memberName, year, err)
	}

	out := make([]models.Disclosure, 0, len(feed.Filings))
	for _, f := range feed.Filings {
		d := models.Disclosure{
			FilingID:             f.FilingID,
			MemberID:             f.MemberID,
			FilingType:           f.FilingType,
			FilingDate:           parseDate(f.FilingDate),
			ReportingPeriodStart: parseDate(f.ReportingPeriodStart),
			ReportingPeriodEnd:   parseDate(f.ReportingPeriodEnd),
		}
		for i, t := range f.Transactions {
			id := t.TransactionID
			if id == "" {
				id = fmt.Sprintf("%s_txn_%d", f.FilingID, i)
			}
			minAmt, maxAmt := ParseAmountRange(t.AmountRange)
			txn := models.Transaction{
				TransactionID:   id,
				MemberID:        f.MemberID,
				Ticker:          strings.ToUpper(t.Ticker),
				CompanyName:     t.CompanyName,
				TransactionType: t.TransactionType,
				TransactionDate: parseDate(t.TransactionDate),
				DisclosureDate:  d.FilingDate,
				AmountRange:     t.AmountRange,
				MinAmount:       minAmt,
				MaxAmount:       maxAmt,
				AssetType:       t.AssetType,
				Owner:           t.Owner,
			}
			if txn.AssetType == "" {
				txn.AssetType = "Stock"
			}
			if txn.Owner == "" {
				txn.Owner = "Self"
			}
			d.Transactions = append(d.Transactions, txn)
		}
		out = append(out, d)
	}
	if c.l != nil {
		c.l.Debug("disclosures fetched",
			applogger.String("member", memberName),
			applogger.Int("year", year),
			applogger.Int("filings", len(out)),
		)
	}
	return out, nil
}

// ParseAmountRange parses a disclosed range like "$1,001 - $15,000" into its
// bounds. Both bounds are zero when the range cannot be parsed; a single
// amount like "$50,000+" yields equal bounds.
func ParseAmountRange(s string) (decimal.Decimal, decimal.Decimal) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, decimal.Zero
	}
	parts := strings.SplitN(s, "-", 2)
	lo, ok := parseAmount(parts[0])
	if !ok {
		return decimal.Zero, decimal.Zero
	}
	if len(parts) == 1 {
		return lo, lo
	}
	hi, ok := parseAmount(parts[1])
	if !ok {
		return decimal.Zero, decimal.Zero
	}
	return lo, hi
}

func parseAmount(s string) (decimal.Decimal, bool) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '$', ',', ' ', '+':
			return -1
		}
		return r
	}, s)
	if cleaned == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

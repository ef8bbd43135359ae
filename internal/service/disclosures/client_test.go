package disclosures

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseAmountRange(t *testing.T) {
	cases := []struct {
		in       string
		min, max string
	}{
		{"$1,001-$15,000", "1001", "15000"},
		{"$1,001 - $15,000", "1001", "15000"},
		{"$50,000+", "50000", "50000"},
		{"", "0", "0"},
		{"undisclosed", "0", "0"},
	}
	for _, c := range cases {
		min, max := ParseAmountRange(c.in)
		if !min.Equal(decimal.RequireFromString(c.min)) || !max.Equal(decimal.RequireFromString(c.max)) {
			t.Errorf("ParseAmountRange(%q) = %s, %s; want %s, %s", c.in, min, max, c.min, c.max)
		}
	}
}

func TestMemberDisclosures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("member"); got != "Jane Doe" {
			t.Errorf("member query = %q", got)
		}
		if got := r.URL.Query().Get("year"); got != "2024" {
			t.Errorf("year query = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"filings": [{
				"filing_id": "f1",
				"member_id": "S001",
				"filing_type": "Periodic Transaction Report",
				"filing_date": "2024-03-15",
				"transactions": [{
					"ticker": "mtec",
					"company_name": "MegaTech Inc",
					"transaction_type": "Buy",
					"transaction_date": "2024-03-01",
					"amount_range": "$1,001-$15,000"
				}]
			}]
		}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second, nil)
	filings, err := c.MemberDisclosures(context.Background(), "Jane Doe", 2024)
	if err != nil {
		t.Fatalf("MemberDisclosures: %v", err)
	}
	if len(filings) != 1 || len(filings[0].Transactions) != 1 {
		t.Fatalf("filings = %+v, want one filing with one transaction", filings)
	}

	txn := filings[0].Transactions[0]
	if txn.Ticker != "MTEC" {
		t.Errorf("Ticker = %q, want upper-cased MTEC", txn.Ticker)
	}
	if txn.TransactionID != "f1_txn_0" {
		t.Errorf("TransactionID = %q, want derived f1_txn_0", txn.TransactionID)
	}
	if !txn.MinAmount.Equal(decimal.NewFromInt(1001)) {
		t.Errorf("MinAmount = %s, want 1001", txn.MinAmount)
	}
	if txn.AssetType != "Stock" || txn.Owner != "Self" {
		t.Errorf("defaults not applied: asset=%q owner=%q", txn.AssetType, txn.Owner)
	}
	if !txn.DisclosureDate.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("DisclosureDate = %v, want the filing date", txn.DisclosureDate)
	}
}

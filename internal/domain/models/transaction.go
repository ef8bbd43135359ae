package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a single reported stock transaction by a member.
// Amounts are disclosed as a coarse range; MinAmount/MaxAmount carry the
// parsed bounds when the range could be parsed, zero otherwise.
type Transaction struct {
	TransactionID   string
	MemberID        string
	Ticker          string
	CompanyName     string
	TransactionType string // "Buy", "Sell", "Exchange"
	TransactionDate time.Time
	DisclosureDate  time.Time
	AmountRange     string // e.g. "$1,001-$15,000"
	MinAmount       decimal.Decimal
	MaxAmount       decimal.Decimal
	AssetType       string // "Stock" unless noted otherwise
	Owner           string // "Self", "Spouse", "Child"
}

// Disclosure represents one periodic transaction report or annual filing.
type Disclosure struct {
	FilingID             string
	MemberID             string
	FilingType           string // "Annual", "Periodic Transaction Report"
	FilingDate           time.Time
	ReportingPeriodStart time.Time
	ReportingPeriodEnd   time.Time
	Transactions         []Transaction
}

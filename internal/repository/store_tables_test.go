package repository

import (
	"strings"
	"testing"
)

// Every ClickHouse store must build its table name from the configured
// database; a hardcoded qualifier breaks deployments using another one.
func TestTableDDLTakesTableParameter(t *testing.T) {
	ddls := map[string]string{
		"alerts":       alertsDDL,
		"daily_bars":   dailyBarsDDL,
		"transactions": transactionsDDL,
	}
	for name, ddl := range ddls {
		if !strings.Contains(ddl, "CREATE TABLE IF NOT EXISTS %s") {
			t.Errorf("%s DDL does not take the table name as a parameter:\n%s", name, ddl)
		}
	}
}

func TestStoreConstructorsKeepTable(t *testing.T) {
	if s := NewCHPriceStore(nil, "markets.daily_bars"); s.table != "markets.daily_bars" {
		t.Errorf("price store table = %q, want markets.daily_bars", s.table)
	}
	ts, ok := NewCHTransactionStore(nil, "markets.transactions").(*CHTransactionStore)
	if !ok || ts.table != "markets.transactions" {
		t.Errorf("transaction store table = %q, want markets.transactions", ts.table)
	}
	as, ok := NewClickHouseAlertStore(nil, "markets.alerts").(*ClickHouseAlertStore)
	if !ok || as.table != "markets.alerts" {
		t.Errorf("alert store table = %q, want markets.alerts", as.table)
	}
}

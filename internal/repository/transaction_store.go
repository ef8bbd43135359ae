package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"SenateInsight/internal/domain/models"
	"SenateInsight/internal/domain/repository"
)

const transactionsDDL = `
CREATE TABLE IF NOT EXISTS %s (
    transaction_id   String,
    member_id        String,
    ticker           LowCardinality(String),
    company_name     String,
    transaction_type LowCardinality(String),
    transaction_date Date,
    disclosure_date  Date,
    amount_range     String,
    min_amount       Decimal64(2),
    max_amount       Decimal64(2),
    asset_type       LowCardinality(String),
    owner            LowCardinality(String)
) ENGINE = ReplacingMergeTree
ORDER BY (member_id, transaction_date, transaction_id)
`

// CHTransactionStore implements TransactionStore for ClickHouse. Collected
// disclosures are kept around so past analysis runs can be replayed.
type CHTransactionStore struct {
	db    *sql.DB
	table string
}

func NewCHTransactionStore(db *sql.DB, table string) repository.TransactionStore {
	return &CHTransactionStore{db: db, table: table}
}

// Init creates the transactions table if missing.
func (s *CHTransactionStore) Init(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(transactionsDDL, s.table))
	return err
}

func (s *CHTransactionStore) StoreBatch(ctx context.Context, txns []*models.Transaction) error {
	if len(txns) == 0 {
		return nil
	}
	const chunkSize = 1000
	for start := 0; start < len(txns); start += chunkSize {
		end := start + chunkSize
		if end > len(txns) {
			end = len(txns)
		}
		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*12)
		for _, t := range txns[start:end] {
			if t == nil || t.TransactionID == "" {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args,
				t.TransactionID,
				t.MemberID,
				t.Ticker,
				t.CompanyName,
				t.TransactionType,
				t.TransactionDate,
				t.DisclosureDate,
				t.AmountRange,
				t.MinAmount,
				t.MaxAmount,
				t.AssetType,
				t.Owner,
			)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (transaction_id, member_id, ticker, company_name, transaction_type, transaction_date, disclosure_date, amount_range, min_amount, max_amount, asset_type, owner) VALUES %s", s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("store transactions: %w", err)
		}
	}
	return nil
}

func (s *CHTransactionStore) Close() error {
	return nil // Managed by pkg
}

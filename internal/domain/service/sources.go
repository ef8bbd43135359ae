package service

import (
	"context"
	"time"

	"SenateInsight/internal/domain/models"
)

// MemberSource supplies Congress member data and legislative records.
type MemberSource interface {
	CurrentMembers(ctx context.Context, chamber string) ([]models.Member, error)
	MemberVotes(ctx context.Context, memberID string, from, to time.Time) ([]models.LegislativeAction, error)
	MemberCommittees(ctx context.Context, memberID string) ([]models.CommitteeAssignment, error)
}

// DisclosureSource supplies financial disclosure filings for a member.
type DisclosureSource interface {
	MemberDisclosures(ctx context.Context, memberName string, year int) ([]models.Disclosure, error)
}

// PriceSource supplies daily OHLCV bars for a ticker.
type PriceSource interface {
	DailyBars(ctx context.Context, ticker string, from, to time.Time) ([]models.PriceBar, error)
}

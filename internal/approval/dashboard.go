package approval

import (
	"context"
	"fmt"

	"procurement/models"

	"github.com/samber/lo"
)

type DashboardStore interface {
	ListBidStats(ctx context.Context) ([]models.BidStats, error)
	CountApprovalsByTier(ctx context.Context) ([]models.TierCount, error)
}

// TierGroup заявки без одобренного предложения, ожидающие решения на уровне Tier
type TierGroup struct {
	Tier         Tier              `json:"tier"`
	Requisitions []models.BidStats `json:"requisitions"`
}

type Summary struct {
	ApprovedByTier []models.TierCount `json:"approvedByTier"`
	PendingByTier  []TierGroup        `json:"pendingByTier"`
}

// RequisitionsWithBids агрегаты по заявкам с вычисленным требуемым уровнем
func RequisitionsWithBids(ctx context.Context, store DashboardStore) ([]models.BidStats, error) {
	stats, err := store.ListBidStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bid stats: %w", err)
	}
	for i := range stats {
		stats[i].RequiredTier = Classify(stats[i].MaxBid).Name
	}
	return stats, nil
}

// BuildSummary счетчики одобрений по уровням и нерешенные заявки, сгруппированные по уровню
func BuildSummary(ctx context.Context, store DashboardStore) (*Summary, error) {
	stats, err := RequisitionsWithBids(ctx, store)
	if err != nil {
		return nil, err
	}
	counts, err := store.CountApprovalsByTier(ctx)
	if err != nil {
		return nil, fmt.Errorf("count approvals: %w", err)
	}
	byName := lo.SliceToMap(counts, func(c models.TierCount) (string, int) {
		return c.Tier, c.Count
	})

	pending := lo.GroupBy(lo.Reject(stats, func(s models.BidStats, _ int) bool {
		return s.Decided
	}), func(s models.BidStats) string {
		return s.RequiredTier
	})

	summary := &Summary{}
	for _, t := range Tiers() {
		summary.ApprovedByTier = append(summary.ApprovedByTier, models.TierCount{Tier: t.Name, Count: byName[t.Name]})
		summary.PendingByTier = append(summary.PendingByTier, TierGroup{
			Tier:         t,
			Requisitions: lo.Ternary(pending[t.Name] == nil, []models.BidStats{}, pending[t.Name]),
		})
	}
	return summary, nil
}

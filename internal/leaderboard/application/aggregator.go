package application

import (
	"context"
	"errors"
	"sort"

	identity "coopweigh/internal/identity/domain"

	"github.com/shopspring/decimal"
)

// TopN is how many collectors the leaderboard shows.
const TopN = 3

// PlaceholderWorkerName labels entries whose worker record went missing.
const PlaceholderWorkerName = "Collector"

// AggregateRow is one grouped ledger row: per-worker weight sum and count
// within a cooperative.
type AggregateRow struct {
	WorkerID      int64
	TotalWeightKg decimal.Decimal
	Count         int64
}

// LedgerQuery groups ledger entries by worker for a cooperative.
type LedgerQuery interface {
	AggregateByCooperative(ctx context.Context, cooperativeID int64) ([]AggregateRow, error)
}

// WorkerDirectory resolves worker profiles and display names.
type WorkerDirectory interface {
	GetByID(ctx context.Context, id int64) (*identity.WorkerProfile, error)
	ListNamesByIDs(ctx context.Context, ids []int64) (map[int64]string, error)
}

// Entry is one ranked leaderboard position.
type Entry struct {
	WorkerID       int64
	WorkerName     string
	TotalWeightKg  float64
	TotalWeighings int64
}

// Service produces the ranked top collectors of a cooperative.
type Service struct {
	ledger  LedgerQuery
	workers WorkerDirectory
}

// NewService constructs the leaderboard service.
func NewService(ledger LedgerQuery, workers WorkerDirectory) (*Service, error) {
	if ledger == nil || workers == nil {
		return nil, errors.New("leaderboard service: nil dependency")
	}
	return &Service{ledger: ledger, workers: workers}, nil
}

// TopCollectors ranks the caller's cooperative. The caller must belong to a
// cooperative. A cooperative with no ledger entries yields an empty list.
func (s *Service) TopCollectors(ctx context.Context, callerID int64) ([]Entry, error) {
	caller, err := s.workers.GetByID(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !caller.HasCooperative() {
		return nil, identity.ErrNoCooperative
	}

	rows, err := s.ledger.AggregateByCooperative(ctx, *caller.CooperativeID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []Entry{}, nil
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.WorkerID)
	}
	names, err := s.workers.ListNamesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	return Rank(rows, names), nil
}

// Rank sorts grouped rows descending by summed weight (ties keep their grouped
// order), substitutes a placeholder for missing worker names, rounds displayed
// weights to two decimal places, and truncates to the top entries.
func Rank(rows []AggregateRow, names map[int64]string) []Entry {
	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		name, ok := names[row.WorkerID]
		if !ok || name == "" {
			name = PlaceholderWorkerName
		}
		entries = append(entries, Entry{
			WorkerID:       row.WorkerID,
			WorkerName:     name,
			TotalWeightKg:  row.TotalWeightKg.Round(2).InexactFloat64(),
			TotalWeighings: row.Count,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalWeightKg > entries[j].TotalWeightKg
	})
	if len(entries) > TopN {
		entries = entries[:TopN]
	}
	return entries
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"coopweigh/internal/leaderboard/application"

	"github.com/shopspring/decimal"
)

// DBTX is the subset of *sql.DB / *sql.Tx the query needs.
type DBTX interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// LedgerQuery aggregates the weighing ledger for leaderboards.
type LedgerQuery struct {
	db DBTX
}

// NewLedgerQuery constructs a ledger query.
func NewLedgerQuery(db DBTX) *LedgerQuery {
	return &LedgerQuery{db: db}
}

// AggregateByCooperative groups ledger entries by worker within a cooperative,
// summing weight and counting entries.
func (q *LedgerQuery) AggregateByCooperative(ctx context.Context, cooperativeID int64) ([]application.AggregateRow, error) {
	if q == nil || q.db == nil {
		return nil, errors.New("ledger query: nil db")
	}

	query := `
SELECT m.worker_id, SUM(m.weight_kg)::text, COUNT(*)
FROM measurements m
JOIN workers w ON w.id = m.worker_id
WHERE w.cooperative_id = $1
GROUP BY m.worker_id`

	rows, err := q.db.QueryContext(ctx, query, cooperativeID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate ledger: %w", err)
	}
	defer rows.Close()

	var result []application.AggregateRow
	for rows.Next() {
		var row application.AggregateRow
		var totalText string
		if err := rows.Scan(&row.WorkerID, &totalText, &row.Count); err != nil {
			return nil, err
		}
		total, err := decimal.NewFromString(totalText)
		if err != nil {
			return nil, fmt.Errorf("bad aggregated weight %q: %w", totalText, err)
		}
		row.TotalWeightKg = total
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

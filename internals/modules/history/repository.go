package history

import (
	"context"
	"encoding/json"
	"sitepulse/internals/modules/report"
	"sitepulse/pkg/utils"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Repository persists finished cycles when a history database is
// configured. Every write failure is wrapped and handed back to the caller,
// which logs it against the cycle and moves on.
type Repository struct {
	pool   *pgxpool.Pool
	logger *zerolog.Logger
}

func NewRepository(pool *pgxpool.Pool, logger *zerolog.Logger) *Repository {
	return &Repository{
		pool:   pool,
		logger: logger,
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS cycle_reports (
	id             UUID PRIMARY KEY,
	ran_at         TIMESTAMPTZ NOT NULL,
	overall_status TEXT NOT NULL,
	failure_count  INT NOT NULL,
	cycle_error    TEXT NOT NULL DEFAULT '',
	outcomes       JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS cycle_reports_ran_at_idx ON cycle_reports (ran_at DESC);
`

func (r *Repository) EnsureSchema(ctx context.Context) error {
	const op string = "repo.history.ensure_schema"

	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return utils.WrapRepoError(op, err, false, r.logger)
	}
	return nil
}

func (r *Repository) SaveCycle(ctx context.Context, rep *report.CycleReport) error {
	const op string = "repo.history.save_cycle"

	// session tokens carry json:"-" so credentials never reach the table
	outcomes, err := json.Marshal(rep.Outcomes)
	if err != nil {
		return utils.WrapRepoError(op, err, false, r.logger)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO cycle_reports (id, ran_at, overall_status, failure_count, cycle_error, outcomes)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		rep.ID, rep.Timestamp, string(rep.OverallStatus), rep.FailureCount(), rep.Err, outcomes,
	)
	if err != nil {
		return utils.WrapRepoError(op, err, false, r.logger)
	}

	return nil
}

// CycleRow is the summary shape served by the history endpoint.
type CycleRow struct {
	ID            uuid.UUID `json:"id"`
	RanAt         time.Time `json:"ran_at"`
	OverallStatus string    `json:"overall_status"`
	FailureCount  int       `json:"failure_count"`
	CycleError    string    `json:"cycle_error,omitempty"`
}

func (r *Repository) RecentCycles(ctx context.Context, limit int) ([]CycleRow, error) {
	const op string = "repo.history.recent_cycles"

	if limit <= 0 || limit > 200 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, ran_at, overall_status, failure_count, cycle_error
		FROM cycle_reports
		ORDER BY ran_at DESC
		LIMIT $1`, limit,
	)
	if err != nil {
		return nil, utils.WrapRepoError(op, err, false, r.logger)
	}
	defer rows.Close()

	var out []CycleRow
	for rows.Next() {
		var row CycleRow
		if err := rows.Scan(&row.ID, &row.RanAt, &row.OverallStatus, &row.FailureCount, &row.CycleError); err != nil {
			return nil, utils.WrapRepoError(op, err, false, r.logger)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, utils.WrapRepoError(op, err, false, r.logger)
	}

	return out, nil
}

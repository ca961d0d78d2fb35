package mirror

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/shelfmirror/inventory-service/internal/pkg/cuid2"
)

// CreateSyncRun records the start of a full sync.
func (s *Store) CreateSyncRun(ctx context.Context) (*SyncRun, error) {
	id := cuid2.New("run")
	row := s.pool.QueryRow(ctx, `
		INSERT INTO sync_runs (id, status)
		VALUES ($1, $2)
		RETURNING id, started_at, completed_at, status, items_fetched, error_message
	`, id, SyncStatusInProgress)
	return scanSyncRun(row)
}

// SyncOutcome is the terminal state written exactly once per run.
type SyncOutcome struct {
	Status       string
	ItemsFetched int
	ErrorMessage string
}

// CompleteSyncRun moves a run to its terminal state.
func (s *Store) CompleteSyncRun(ctx context.Context, id string, outcome SyncOutcome) error {
	var errMsg *string
	if outcome.ErrorMessage != "" {
		errMsg = &outcome.ErrorMessage
	}
	_, err := s.pool.Exec(ctx, `
		UPDATE sync_runs
		SET status = $2, items_fetched = $3, error_message = $4, completed_at = now()
		WHERE id = $1
	`, id, outcome.Status, outcome.ItemsFetched, errMsg)
	if err != nil {
		return fmt.Errorf("complete sync run %s: %w", id, err)
	}
	return nil
}

// LatestSyncRun returns the most recently created run, or nil when no sync
// has ever run.
func (s *Store) LatestSyncRun(ctx context.Context) (*SyncRun, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, started_at, completed_at, status, items_fetched, error_message
		FROM sync_runs
		ORDER BY started_at DESC, id DESC
		LIMIT 1
	`)
	return scanSyncRun(row)
}

// MarkInterruptedRuns flags runs still in_progress at boot. A run cannot
// survive a restart, so anything non-terminal was interrupted.
func (s *Store) MarkInterruptedRuns(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE sync_runs
		SET status = $1, error_message = 'service restarted during sync', completed_at = now()
		WHERE status = $2
	`, SyncStatusError, SyncStatusInProgress)
	if err != nil {
		return 0, fmt.Errorf("mark interrupted runs: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanSyncRun(row pgx.Row) (*SyncRun, error) {
	var run SyncRun
	err := row.Scan(&run.ID, &run.StartedAt, &run.CompletedAt, &run.Status,
		&run.ItemsFetched, &run.ErrorMessage)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan sync run: %w", err)
	}
	return &run, nil
}

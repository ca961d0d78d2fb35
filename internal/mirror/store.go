package mirror

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store owns the mirror tables. All operations are single-row atomic; a
// whole sync or bulk apply is deliberately not one transaction, so partial
// completion is visible to concurrent readers.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a Store on an existing connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// EnsureSchema creates the mirror tables when absent.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS catalog_items (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			price         BIGINT NOT NULL DEFAULT 0,
			cost          BIGINT NOT NULL DEFAULT 0,
			sku           TEXT,
			code          TEXT,
			stock_count   BIGINT NOT NULL DEFAULT 0,
			available     BOOLEAN NOT NULL DEFAULT TRUE,
			category_id   TEXT,
			category_name TEXT,
			tags          TEXT[] NOT NULL DEFAULT '{}',
			modified_time BIGINT NOT NULL DEFAULT 0,
			last_synced   TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE UNIQUE INDEX IF NOT EXISTS catalog_items_sku_key
			ON catalog_items (sku) WHERE sku IS NOT NULL;
		CREATE INDEX IF NOT EXISTS catalog_items_tags_idx
			ON catalog_items USING GIN (tags);
		CREATE INDEX IF NOT EXISTS catalog_items_category_idx
			ON catalog_items (category_id);

		CREATE TABLE IF NOT EXISTS sync_runs (
			id            TEXT PRIMARY KEY,
			started_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
			completed_at  TIMESTAMPTZ,
			status        TEXT NOT NULL DEFAULT 'in_progress',
			items_fetched INT,
			error_message TEXT
		)
	`)
	if err != nil {
		return fmt.Errorf("ensure mirror schema: %w", err)
	}
	return nil
}

const itemColumns = `id, name, price, cost, sku, code, stock_count, available,
	category_id, category_name, tags, modified_time, last_synced`

// UpsertItem writes one mirror row keyed by remote ID.
func (s *Store) UpsertItem(ctx context.Context, item Item) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO catalog_items
			(id, name, price, cost, sku, code, stock_count, available,
			 category_id, category_name, tags, modified_time, last_synced)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			price = EXCLUDED.price,
			cost = EXCLUDED.cost,
			sku = EXCLUDED.sku,
			code = EXCLUDED.code,
			stock_count = EXCLUDED.stock_count,
			available = EXCLUDED.available,
			category_id = EXCLUDED.category_id,
			category_name = EXCLUDED.category_name,
			tags = EXCLUDED.tags,
			modified_time = EXCLUDED.modified_time,
			last_synced = now()
	`, item.ID, item.Name, item.Price, item.Cost, item.SKU, item.Code,
		item.StockCount, item.Available, item.CategoryID, item.CategoryName,
		item.Tags, item.ModifiedTime)
	if err != nil {
		return fmt.Errorf("upsert item %s: %w", item.ID, err)
	}
	return nil
}

// DeleteItem removes one mirror row.
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM catalog_items WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete item %s: %w", id, err)
	}
	return nil
}

// DeleteItemsNotIn removes every mirror row whose ID is absent from the
// given remote ID set. This is what makes a sync a mirror rather than an
// accumulator: items deleted or archived remotely disappear locally.
func (s *Store) DeleteItemsNotIn(ctx context.Context, remoteIDs []string) (int64, error) {
	if remoteIDs == nil {
		remoteIDs = []string{}
	}
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM catalog_items WHERE NOT (id = ANY($1))`, remoteIDs)
	if err != nil {
		return 0, fmt.Errorf("delete absent items: %w", err)
	}
	return tag.RowsAffected(), nil
}

// FindByID returns one mirror row, or nil when absent.
func (s *Store) FindByID(ctx context.Context, id string) (*Item, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+itemColumns+` FROM catalog_items WHERE id = $1`, id)
	return scanItem(row)
}

// FindBySKU returns the mirror row owning a SKU, or nil when absent.
func (s *Store) FindBySKU(ctx context.Context, sku string) (*Item, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+itemColumns+` FROM catalog_items WHERE sku = $1`, sku)
	return scanItem(row)
}

// ItemsWithoutTag returns mirror rows not carrying the given tag. The
// reconciliation engine narrows these down with fuzzy identifier matching;
// that comparison cannot be expressed in SQL.
func (s *Store) ItemsWithoutTag(ctx context.Context, tagID string) ([]Item, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+itemColumns+` FROM catalog_items WHERE NOT ($1 = ANY(tags)) ORDER BY name`, tagID)
	if err != nil {
		return nil, fmt.Errorf("query items without tag: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

// UpdateStock refreshes one row's stock count after a confirmed remote
// write.
func (s *Store) UpdateStock(ctx context.Context, id string, quantity int64) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE catalog_items SET stock_count = $2, last_synced = now() WHERE id = $1
	`, id, quantity)
	if err != nil {
		return fmt.Errorf("update stock for %s: %w", id, err)
	}
	return nil
}

// AddTag appends a tag to a mirror row's tag set if not already present.
func (s *Store) AddTag(ctx context.Context, id, tagID string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE catalog_items
		SET tags = array_append(tags, $2)
		WHERE id = $1 AND NOT ($2 = ANY(tags))
	`, id, tagID)
	if err != nil {
		return fmt.Errorf("add tag %s to %s: %w", tagID, id, err)
	}
	return nil
}

func scanItem(row pgx.Row) (*Item, error) {
	var it Item
	err := row.Scan(&it.ID, &it.Name, &it.Price, &it.Cost, &it.SKU, &it.Code,
		&it.StockCount, &it.Available, &it.CategoryID, &it.CategoryName,
		&it.Tags, &it.ModifiedTime, &it.LastSynced)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan item: %w", err)
	}
	return &it, nil
}

func scanItems(rows pgx.Rows) ([]Item, error) {
	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Price, &it.Cost, &it.SKU, &it.Code,
			&it.StockCount, &it.Available, &it.CategoryID, &it.CategoryName,
			&it.Tags, &it.ModifiedTime, &it.LastSynced); err != nil {
			return nil, fmt.Errorf("scan item row: %w", err)
		}
		items = append(items, it)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate item rows: %w", rows.Err())
	}
	return items, nil
}

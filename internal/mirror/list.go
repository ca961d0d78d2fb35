package mirror

import (
	"context"
	"fmt"
)

// ListItems returns a filtered, paginated page of the mirror plus the total
// row count for the filter. This backs the dashboard's read API; writes
// never go through here.
func (s *Store) ListItems(ctx context.Context, filter ItemFilter) ([]Item, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 500 {
		filter.Limit = 500
	}

	where := " WHERE 1=1"
	args := []interface{}{}
	argIdx := 1

	addArg := func(clause string, value interface{}) {
		where += fmt.Sprintf(clause, argIdx)
		args = append(args, value)
		argIdx++
	}

	if filter.Search != "" {
		addArg(" AND (name ILIKE $%[1]d OR sku ILIKE $%[1]d OR code ILIKE $%[1]d)", "%"+filter.Search+"%")
	}
	if filter.CategoryID != "" {
		addArg(" AND category_id = $%d", filter.CategoryID)
	}
	if filter.TagID != "" {
		addArg(" AND $%d = ANY(tags)", filter.TagID)
	}
	if filter.Available != nil {
		addArg(" AND available = $%d", *filter.Available)
	}
	if filter.MinPrice != nil {
		addArg(" AND price >= $%d", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		addArg(" AND price <= $%d", *filter.MaxPrice)
	}

	switch filter.StockBand {
	case StockBandOut:
		where += " AND stock_count <= 0"
	case StockBandLow:
		where += fmt.Sprintf(" AND stock_count > 0 AND stock_count <= %d", lowStockThreshold)
	case StockBandIn:
		where += fmt.Sprintf(" AND stock_count > %d", lowStockThreshold)
	}

	var total int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM catalog_items"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count items: %w", err)
	}

	query := "SELECT " + itemColumns + " FROM catalog_items" + where +
		fmt.Sprintf(" ORDER BY name LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items, err := scanItems(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

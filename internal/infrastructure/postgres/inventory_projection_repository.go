package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/piccolaroma/cadena-api/internal/domain/entity"
	"github.com/piccolaroma/cadena-api/internal/domain/repository"
)

var _ repository.InventoryProjectionRepository = (*InventoryProjectionRepo)(nil)

// InventoryProjectionRepo consultas de solo lectura sobre inventory_records.
type InventoryProjectionRepo struct {
	pool *pgxpool.Pool
}

// NewInventoryProjectionRepository construye el adaptador de proyecciones.
func NewInventoryProjectionRepository(pool *pgxpool.Pool) *InventoryProjectionRepo {
	return &InventoryProjectionRepo{pool: pool}
}

// ListLowStock devuelve los registros con quantity < min_stock_level, los más
// críticos primero. branchID vacío = todas las sucursales.
func (r *InventoryProjectionRepo) ListLowStock(ctx context.Context, branchID string) ([]*entity.InventoryRecord, error) {
	query := `
		SELECT ` + inventoryRecordColumns + `
		FROM inventory_records WHERE quantity < min_stock_level`
	args := []any{}
	if branchID != "" {
		query += " AND branch_id = $1"
		args = append(args, branchID)
	}
	query += " ORDER BY quantity ASC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryRecord
	for rows.Next() {
		var rec entity.InventoryRecord
		if err := scanInventoryRecord(rows, &rec); err != nil {
			return nil, fmt.Errorf("scan low stock record: %w", err)
		}
		list = append(list, &rec)
	}
	return list, rows.Err()
}

// Summarize agrega cantidad total, valor total y conteos por umbral en un
// solo round-trip.
func (r *InventoryProjectionRepo) Summarize(ctx context.Context, branchID string) (*repository.InventorySummary, error) {
	query := `
		SELECT
			COALESCE(SUM(quantity), 0) AS total_quantity,
			COALESCE(SUM(quantity * cost_per_unit), 0) AS total_value,
			COUNT(*) FILTER (WHERE quantity < min_stock_level) AS below_threshold,
			COUNT(*) FILTER (WHERE quantity = 0) AS zero_stock,
			COUNT(*) AS record_count
		FROM inventory_records`
	args := []any{}
	if branchID != "" {
		query += " WHERE branch_id = $1"
		args = append(args, branchID)
	}

	var s repository.InventorySummary
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&s.TotalQuantity, &s.TotalValue, &s.BelowThreshold, &s.ZeroStock, &s.RecordCount,
	)
	if err != nil {
		return nil, fmt.Errorf("summarize inventory: %w", err)
	}
	return &s, nil
}

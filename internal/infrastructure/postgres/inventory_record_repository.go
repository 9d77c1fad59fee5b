package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/piccolaroma/cadena-api/internal/domain"
	"github.com/piccolaroma/cadena-api/internal/domain/entity"
	"github.com/piccolaroma/cadena-api/internal/domain/repository"
)

var _ repository.InventoryRecordRepository = (*InventoryRecordRepo)(nil)

const inventoryRecordColumns = `id, item_id, branch_id, quantity, min_stock_level, max_stock_level, unit, cost_per_unit, last_restocked, created_at, updated_at`

// InventoryRecordRepo implementación sobre PostgreSQL (usable con pool o tx).
type InventoryRecordRepo struct {
	q Querier
}

// NewInventoryRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRecordRepository(q Querier) *InventoryRecordRepo {
	return &InventoryRecordRepo{q: q}
}

// Create inserta un registro nuevo con cantidad cero.
// El constraint único sobre (item_id, branch_id) resuelve la carrera de
// creación: el perdedor recibe ErrDuplicateRecord.
func (r *InventoryRecordRepo) Create(ctx context.Context, record *entity.InventoryRecord) error {
	query := `
		INSERT INTO inventory_records (id, item_id, branch_id, quantity, min_stock_level, max_stock_level, unit, cost_per_unit, last_restocked, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		record.ID, record.ItemID, record.BranchID, record.Quantity,
		record.MinStockLevel, record.MaxStockLevel, record.Unit, record.CostPerUnit,
		record.LastRestocked, record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateRecord
		}
		return fmt.Errorf("insert inventory record: %w", err)
	}
	return nil
}

// Get devuelve el registro por par (ítem, sucursal), o nil si no existe.
func (r *InventoryRecordRepo) Get(ctx context.Context, itemID, branchID string) (*entity.InventoryRecord, error) {
	query := `
		SELECT ` + inventoryRecordColumns + `
		FROM inventory_records WHERE item_id = $1 AND branch_id = $2`
	return r.scanOne(r.q.QueryRow(ctx, query, itemID, branchID))
}

// GetByID devuelve el registro por ID, o nil si no existe.
func (r *InventoryRecordRepo) GetByID(ctx context.Context, id string) (*entity.InventoryRecord, error) {
	query := `
		SELECT ` + inventoryRecordColumns + `
		FROM inventory_records WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// ApplyDelta suma delta a la cantidad solo si la almacenada sigue siendo
// expectedPrevious. Cero filas afectadas significa registro inexistente
// (ErrNotFound) o carrera perdida (ErrConflict); una relectura distingue los casos.
func (r *InventoryRecordRepo) ApplyDelta(ctx context.Context, recordID string, delta, expectedPrevious decimal.Decimal) (*entity.InventoryRecord, error) {
	query := `
		UPDATE inventory_records
		SET quantity = quantity + $2, updated_at = now()
		WHERE id = $1 AND quantity = $3
		RETURNING ` + inventoryRecordColumns
	updated, err := r.scanOne(r.q.QueryRow(ctx, query, recordID, delta, expectedPrevious))
	if err != nil {
		return nil, err
	}
	if updated == nil {
		current, err := r.GetByID(ctx, recordID)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrConflict
	}
	return updated, nil
}

// TouchRestocked actualiza last_restocked sin tocar la cantidad.
func (r *InventoryRecordRepo) TouchRestocked(ctx context.Context, recordID string, at time.Time) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE inventory_records SET last_restocked = $2 WHERE id = $1`,
		recordID, at,
	)
	if err != nil {
		return fmt.Errorf("touch last_restocked: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByBranch lista los registros de una sucursal con paginación.
func (r *InventoryRecordRepo) ListByBranch(ctx context.Context, branchID string, limit, offset int) ([]*entity.InventoryRecord, error) {
	query := `
		SELECT ` + inventoryRecordColumns + `
		FROM inventory_records WHERE branch_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, branchID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list inventory records: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryRecord
	for rows.Next() {
		var rec entity.InventoryRecord
		if err := scanInventoryRecord(rows, &rec); err != nil {
			return nil, fmt.Errorf("scan inventory record: %w", err)
		}
		list = append(list, &rec)
	}
	return list, rows.Err()
}

func (r *InventoryRecordRepo) scanOne(row pgx.Row) (*entity.InventoryRecord, error) {
	var rec entity.InventoryRecord
	if err := scanInventoryRecord(row, &rec); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory record: %w", err)
	}
	return &rec, nil
}

func scanInventoryRecord(row pgx.Row, rec *entity.InventoryRecord) error {
	return row.Scan(
		&rec.ID, &rec.ItemID, &rec.BranchID, &rec.Quantity,
		&rec.MinStockLevel, &rec.MaxStockLevel, &rec.Unit, &rec.CostPerUnit,
		&rec.LastRestocked, &rec.CreatedAt, &rec.UpdatedAt,
	)
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/piccolaroma/cadena-api/internal/domain/entity"
	"github.com/piccolaroma/cadena-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const stockMovementColumns = `id, inventory_record_id, branch_id, type, quantity_delta, previous_quantity, new_quantity, performed_by, reference_order_id, notes, unit_cost, created_at`

// StockMovementRepo implementación del ledger sobre PostgreSQL (usable con pool o tx).
// Solo inserta y lee: el ledger no admite UPDATE ni DELETE.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste una entrada del ledger.
func (r *StockMovementRepo) Create(ctx context.Context, movement *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, inventory_record_id, branch_id, type, quantity_delta, previous_quantity, new_quantity, performed_by, reference_order_id, notes, unit_cost, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	refOrder := (*string)(nil)
	if movement.ReferenceOrderID != "" {
		refOrder = &movement.ReferenceOrderID
	}
	_, err := r.q.Exec(ctx, query,
		movement.ID, movement.InventoryRecordID, movement.BranchID, movement.Type,
		movement.QuantityDelta, movement.PreviousQuantity, movement.NewQuantity,
		movement.PerformedBy, refOrder, movement.Notes, movement.UnitCost, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// ListByRecord lista las entradas de un registro, más reciente primero.
func (r *StockMovementRepo) ListByRecord(ctx context.Context, recordID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + stockMovementColumns + `
		FROM stock_movements WHERE inventory_record_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, recordID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list by record: %w", err)
	}
	return collectMovements(rows)
}

// ListByBranch lista las entradas de una sucursal con filtros opcionales por
// tipo y rango de fechas.
func (r *StockMovementRepo) ListByBranch(ctx context.Context, branchID, movementType string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + stockMovementColumns + `
		FROM stock_movements WHERE branch_id = $1`
	args := []any{branchID}
	pos := 2
	if movementType != "" {
		query += fmt.Sprintf(" AND type = $%d", pos)
		args = append(args, movementType)
		pos++
	}
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list by branch: %w", err)
	}
	return collectMovements(rows)
}

// ListByOrder lista las entradas originadas por un pedido, en orden de creación.
func (r *StockMovementRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + stockMovementColumns + `
		FROM stock_movements WHERE reference_order_id = $1
		ORDER BY created_at ASC`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list by order: %w", err)
	}
	return collectMovements(rows)
}

func collectMovements(rows pgx.Rows) ([]*entity.StockMovement, error) {
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var refOrder *string
		if err := rows.Scan(&m.ID, &m.InventoryRecordID, &m.BranchID, &m.Type,
			&m.QuantityDelta, &m.PreviousQuantity, &m.NewQuantity,
			&m.PerformedBy, &refOrder, &m.Notes, &m.UnitCost, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		if refOrder != nil {
			m.ReferenceOrderID = *refOrder
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

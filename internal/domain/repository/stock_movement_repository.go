package repository

import (
	"context"
	"time"

	"github.com/piccolaroma/cadena-api/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia para el ledger de
// movimientos. Solo Create escribe; el ledger nunca se actualiza ni se borra.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListByRecord(ctx context.Context, recordID string, limit, offset int) ([]*entity.StockMovement, error)
	// ListByBranch filtra opcionalmente por tipo de movimiento y rango de fechas.
	ListByBranch(ctx context.Context, branchID, movementType string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	ListByOrder(ctx context.Context, orderID string) ([]*entity.StockMovement, error)
}

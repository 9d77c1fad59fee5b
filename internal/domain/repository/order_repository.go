package repository

import (
	"context"
	"time"

	"github.com/piccolaroma/cadena-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para pedidos.
type OrderRepository interface {
	// Create inserta el pedido con sus líneas. Llamar dentro de una transacción
	// (TxRunner) para que pedido y líneas queden como una unidad.
	Create(ctx context.Context, order *entity.Order) error
	// GetByID devuelve el pedido con sus líneas, o nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// ListByBranch lista pedidos de una sucursal; status vacío = todos.
	ListByBranch(ctx context.Context, branchID, status string, limit, offset int) ([]*entity.Order, error)
	// UpdateStatus cambia el estado solo si el almacenado sigue siendo
	// fromStatus (escritura condicional). ErrConflict si perdió la carrera,
	// ErrNotFound si el pedido no existe.
	UpdateStatus(ctx context.Context, id, fromStatus, toStatus string) error
	// MarkStockConsumed / ClearStockConsumed administran la marca de consumo
	// de stock que usa la cancelación para decidir si compensar.
	MarkStockConsumed(ctx context.Context, id string, at time.Time) error
	ClearStockConsumed(ctx context.Context, id string) error
	AssignRider(ctx context.Context, id, riderID string) error
}

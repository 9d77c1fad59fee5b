package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/piccolaroma/cadena-api/internal/domain/entity"
)

// InventoryRecordRepository define el puerto de persistencia para los registros
// de inventario por (ítem, sucursal). La cantidad solo se muta vía ApplyDelta;
// el motor de movimientos es el único llamador legítimo.
type InventoryRecordRepository interface {
	// Create inserta un registro nuevo. Devuelve ErrDuplicateRecord si el par
	// (ItemID, BranchID) ya existe (carrera de creación incluida).
	Create(ctx context.Context, record *entity.InventoryRecord) error
	// Get devuelve el registro por par único, o nil si no existe.
	Get(ctx context.Context, itemID, branchID string) (*entity.InventoryRecord, error)
	GetByID(ctx context.Context, id string) (*entity.InventoryRecord, error)
	// ApplyDelta fija quantity = expectedPrevious + delta solo si la cantidad
	// almacenada sigue siendo expectedPrevious (escritura condicional).
	// Devuelve ErrConflict si otra operación ganó la carrera, ErrNotFound si
	// el registro no existe. No escribe entradas del ledger.
	ApplyDelta(ctx context.Context, recordID string, delta, expectedPrevious decimal.Decimal) (*entity.InventoryRecord, error)
	// TouchRestocked actualiza last_restocked (metadato de compras; no afecta
	// la cantidad ni participa del control de concurrencia).
	TouchRestocked(ctx context.Context, recordID string, at time.Time) error
	ListByBranch(ctx context.Context, branchID string, limit, offset int) ([]*entity.InventoryRecord, error)
}

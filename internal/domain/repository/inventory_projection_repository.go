package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/piccolaroma/cadena-api/internal/domain/entity"
)

// InventorySummary agrega el estado del inventario de una sucursal (o la cadena).
type InventorySummary struct {
	TotalQuantity  decimal.Decimal
	TotalValue     decimal.Decimal // Σ quantity × cost_per_unit
	BelowThreshold int             // registros con quantity < min_stock_level
	ZeroStock      int             // registros con quantity = 0
	RecordCount    int
}

// InventoryProjectionRepository define consultas de solo lectura sobre los
// registros de inventario. Nunca muta estado ni invoca al motor de movimientos.
type InventoryProjectionRepository interface {
	// ListLowStock devuelve los registros con quantity < min_stock_level,
	// orden ascendente por cantidad. branchID vacío = todas las sucursales.
	ListLowStock(ctx context.Context, branchID string) ([]*entity.InventoryRecord, error)
	Summarize(ctx context.Context, branchID string) (*InventorySummary, error)
}

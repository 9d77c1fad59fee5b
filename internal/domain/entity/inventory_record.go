package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryRecord representa la existencia actual de un ítem del menú en una
// sucursal. El par (ItemID, BranchID) es único.
//
// Invariante: Quantity >= 0 y coincide con la suma de los deltas del ledger
// (stock_movements) aplicados en orden de creación, partiendo de cero.
// Solo el motor de movimientos puede mutar Quantity.
type InventoryRecord struct {
	ID            string
	ItemID        string
	BranchID      string
	Quantity      decimal.Decimal
	MinStockLevel decimal.Decimal
	MaxStockLevel decimal.Decimal
	Unit          string // unidad, kg, litro...
	CostPerUnit   decimal.Decimal
	LastRestocked *time.Time // solo lo actualiza un movimiento purchase
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

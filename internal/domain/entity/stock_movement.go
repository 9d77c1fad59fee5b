package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementTypePurchase   = "purchase"   // compra a proveedor (entrada)
	MovementTypeSale       = "sale"       // consumo por pedido entregado (salida)
	MovementTypeTransfer   = "transfer"   // traslado saliente a otra sucursal
	MovementTypeAdjustment = "adjustment" // ajuste a cantidad absoluta (conteo físico)
	MovementTypeWaste      = "waste"      // merma o desperdicio (salida)
	MovementTypeReturn     = "return"     // devolución / compensación (entrada)
)

// StockMovement es una entrada inmutable del ledger de inventario: registra un
// cambio de cantidad con su cantidad previa y resultante.
//
// Invariantes: NewQuantity = PreviousQuantity + QuantityDelta y NewQuantity >= 0.
// Un movimiento que violaría esto nunca se crea. Las entradas no se actualizan
// ni se borran (auditoría append-only).
type StockMovement struct {
	ID                string
	InventoryRecordID string
	BranchID          string
	Type              string
	QuantityDelta     decimal.Decimal // con signo según el tipo
	PreviousQuantity  decimal.Decimal
	NewQuantity       decimal.Decimal
	PerformedBy       string // UserID o identificador del actor
	ReferenceOrderID  string // opcional: pedido que originó el movimiento
	Notes             string
	UnitCost          decimal.Decimal
	CreatedAt         time.Time
}

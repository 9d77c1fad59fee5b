package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateRecordRequest body para POST /api/inventory/records.
// Crea (o devuelve) el registro del par (item_id, branch_id) con cantidad 0.
type CreateRecordRequest struct {
	ItemID        string          `json:"item_id"`
	BranchID      string          `json:"branch_id"`
	MinStockLevel decimal.Decimal `json:"min_stock_level"`
	MaxStockLevel decimal.Decimal `json:"max_stock_level"`
	Unit          string          `json:"unit"`
	CostPerUnit   decimal.Decimal `json:"cost_per_unit"`
}

// InventoryRecordResponse registro de inventario en respuestas.
type InventoryRecordResponse struct {
	ID            string          `json:"id"`
	ItemID        string          `json:"item_id"`
	BranchID      string          `json:"branch_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	MinStockLevel decimal.Decimal `json:"min_stock_level"`
	MaxStockLevel decimal.Decimal `json:"max_stock_level"`
	Unit          string          `json:"unit"`
	CostPerUnit   decimal.Decimal `json:"cost_per_unit"`
	LastRestocked *time.Time      `json:"last_restocked,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// RegisterMovementRequest body para POST /api/inventory/movements.
// quantity es magnitud positiva; para adjustment es la cantidad objetivo absoluta.
type RegisterMovementRequest struct {
	RecordID         string          `json:"record_id"`
	Type             string          `json:"type"`
	Quantity         decimal.Decimal `json:"quantity"`
	Notes            string          `json:"notes,omitempty"`
	ReferenceOrderID string          `json:"reference_order_id,omitempty"`
}

// StockMovementResponse entrada del ledger en respuestas.
type StockMovementResponse struct {
	ID                string          `json:"id"`
	InventoryRecordID string          `json:"inventory_record_id"`
	BranchID          string          `json:"branch_id"`
	Type              string          `json:"type"`
	QuantityDelta     decimal.Decimal `json:"quantity_delta"`
	PreviousQuantity  decimal.Decimal `json:"previous_quantity"`
	NewQuantity       decimal.Decimal `json:"new_quantity"`
	PerformedBy       string          `json:"performed_by"`
	ReferenceOrderID  string          `json:"reference_order_id,omitempty"`
	Notes             string          `json:"notes,omitempty"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	CreatedAt         time.Time       `json:"created_at"`
}

// InventorySummaryResponse agregados del inventario (proyección de solo lectura).
type InventorySummaryResponse struct {
	BranchID       string          `json:"branch_id,omitempty"`
	TotalQuantity  decimal.Decimal `json:"total_quantity"`
	TotalValue     decimal.Decimal `json:"total_value"`
	BelowThreshold int             `json:"below_threshold"`
	ZeroStock      int             `json:"zero_stock"`
	RecordCount    int             `json:"record_count"`
}

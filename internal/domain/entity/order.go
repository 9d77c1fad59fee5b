package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de un pedido.
// delivered y cancelled son terminales.
const (
	OrderStatusPlaced         = "placed"
	OrderStatusConfirmed      = "confirmed"
	OrderStatusPreparing      = "preparing"
	OrderStatusBaking         = "baking"
	OrderStatusReady          = "ready"
	OrderStatusOutForDelivery = "out_for_delivery"
	OrderStatusDelivered      = "delivered"
	OrderStatusCancelled      = "cancelled"
)

// IsTerminalStatus indica si un estado de pedido ya no admite transiciones.
func IsTerminalStatus(status string) bool {
	return status == OrderStatusDelivered || status == OrderStatusCancelled
}

// Order representa un pedido de cliente en una sucursal.
// Total y AssignedRiderID son los campos canónicos (sin alias duplicados).
type Order struct {
	ID              string
	BranchID        string
	CustomerName    string
	CustomerPhone   string
	DeliveryAddress string
	Status          string
	Total           decimal.Decimal
	AssignedRiderID string
	Items           []OrderItem
	// StockConsumedAt marca cuándo se descontó stock por este pedido.
	// nil = aún no consumido; la cancelación lo usa para decidir si compensar.
	StockConsumedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderItem es una línea del pedido.
type OrderItem struct {
	ID        string
	OrderID   string
	ItemID    string // MenuItem
	Name      string // snapshot del nombre al momento del pedido
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

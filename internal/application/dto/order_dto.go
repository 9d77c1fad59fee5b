package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrderRequest body para POST /api/orders.
type CreateOrderRequest struct {
	BranchID        string                   `json:"branch_id"`
	CustomerName    string                   `json:"customer_name"`
	CustomerPhone   string                   `json:"customer_phone,omitempty"`
	DeliveryAddress string                   `json:"delivery_address,omitempty"`
	Items           []CreateOrderItemRequest `json:"items"`
}

// CreateOrderItemRequest línea del pedido.
type CreateOrderItemRequest struct {
	ItemID   string          `json:"item_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// TransitionOrderRequest body para PATCH /api/orders/{id}/status.
type TransitionOrderRequest struct {
	Status string `json:"status"`
}

// AssignRiderRequest body para PATCH /api/orders/{id}/rider.
type AssignRiderRequest struct {
	RiderID string `json:"rider_id"`
}

// OrderItemResponse línea del pedido en respuestas.
type OrderItemResponse struct {
	ItemID    string          `json:"item_id"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// OrderResponse pedido en respuestas. total y assigned_rider_id son los nombres
// canónicos (los alias históricos total_amount/rider_assigned no se exponen).
type OrderResponse struct {
	ID              string              `json:"id"`
	BranchID        string              `json:"branch_id"`
	CustomerName    string              `json:"customer_name"`
	CustomerPhone   string              `json:"customer_phone,omitempty"`
	DeliveryAddress string              `json:"delivery_address,omitempty"`
	Status          string              `json:"status"`
	Total           decimal.Decimal     `json:"total"`
	AssignedRiderID string              `json:"assigned_rider_id,omitempty"`
	Items           []OrderItemResponse `json:"items"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// OrderListResponse listado paginado de pedidos.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

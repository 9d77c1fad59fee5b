package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentCallbackRequest body para POST /api/payments/callback.
// La pasarela externa reporta el resultado del cobro de un pedido.
type PaymentCallbackRequest struct {
	OrderID   string          `json:"order_id"`
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status"` // succeeded | failed
	Provider  string          `json:"provider,omitempty"`
	Reference string          `json:"reference,omitempty"`
}

// PaymentResponse evento de pago registrado.
type PaymentResponse struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"order_id"`
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status"`
	Provider  string          `json:"provider,omitempty"`
	Reference string          `json:"reference,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

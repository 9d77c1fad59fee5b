package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Resultados reportados por la pasarela de pago.
const (
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusFailed    = "failed"
)

// Payment registra el resultado que la pasarela externa reporta para un pedido.
// La integración con la pasarela vive fuera del sistema; aquí solo queda el evento.
type Payment struct {
	ID        string
	OrderID   string
	Amount    decimal.Decimal
	Status    string
	Provider  string // stripe, wompi...
	Reference string // ID de la transacción en la pasarela
	CreatedAt time.Time
}

package repository

import (
	"context"

	"github.com/piccolaroma/cadena-api/internal/domain/entity"
)

// PaymentRepository define el puerto de persistencia para eventos de pago.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	ListByOrder(ctx context.Context, orderID string) ([]*entity.Payment, error)
}

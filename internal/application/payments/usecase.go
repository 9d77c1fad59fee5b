package payments

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/piccolaroma/cadena-api/internal/application/dto"
	"github.com/piccolaroma/cadena-api/internal/application/orders"
	"github.com/piccolaroma/cadena-api/internal/domain"
	"github.com/piccolaroma/cadena-api/internal/domain/entity"
	"github.com/piccolaroma/cadena-api/internal/domain/repository"
	"github.com/piccolaroma/cadena-api/pkg/logger"
)

// actorPasarela identifica a la pasarela en el ledger de movimientos que sus
// transiciones puedan disparar.
const actorPasarela = "payment-gateway"

// PaymentUseCase procesa los callbacks de la pasarela de pago: persiste el
// evento y avanza el pedido (confirmed en cobro exitoso, cancelled en fallo).
type PaymentUseCase struct {
	paymentRepo repository.PaymentRepository
	orderRepo   repository.OrderRepository
	sm          *orders.StateMachine
	log         *logger.Logger
}

// NewPaymentUseCase construye el caso de uso.
func NewPaymentUseCase(
	paymentRepo repository.PaymentRepository,
	orderRepo repository.OrderRepository,
	sm *orders.StateMachine,
	log *logger.Logger,
) *PaymentUseCase {
	return &PaymentUseCase{
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		sm:          sm,
		log:         log,
	}
}

// HandleCallback registra el evento de pago y ajusta el estado del pedido.
// Un monto que no coincide con el total del pedido se rechaza con
// ErrInvalidInput sin persistir nada. El callback es idempotente respecto al
// estado: si el pedido ya avanzó, el evento se guarda igual y la transición
// redundante se ignora.
func (uc *PaymentUseCase) HandleCallback(ctx context.Context, in dto.PaymentCallbackRequest) (*dto.PaymentResponse, error) {
	if in.OrderID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Status != entity.PaymentStatusSucceeded && in.Status != entity.PaymentStatusFailed {
		return nil, domain.ErrInvalidInput
	}
	order, err := uc.orderRepo.GetByID(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if !in.Amount.Equal(order.Total) {
		return nil, domain.ErrInvalidInput
	}

	payment := &entity.Payment{
		ID:        uuid.New().String(),
		OrderID:   order.ID,
		Amount:    in.Amount,
		Status:    in.Status,
		Provider:  in.Provider,
		Reference: in.Reference,
		CreatedAt: time.Now(),
	}
	if err := uc.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	switch in.Status {
	case entity.PaymentStatusSucceeded:
		if order.Status == entity.OrderStatusPlaced {
			if _, err := uc.sm.Transition(ctx, order.ID, entity.OrderStatusConfirmed, actorPasarela); err != nil {
				uc.log.Error().Err(err).Str("order_id", order.ID).Msg("pago exitoso pero la confirmación del pedido falló")
			}
		}
	case entity.PaymentStatusFailed:
		if !entity.IsTerminalStatus(order.Status) {
			if _, err := uc.sm.Transition(ctx, order.ID, entity.OrderStatusCancelled, actorPasarela); err != nil &&
				!errors.Is(err, domain.ErrInvalidTransition) {
				uc.log.Error().Err(err).Str("order_id", order.ID).Msg("pago fallido pero la cancelación del pedido falló")
			}
		}
	}

	return toPaymentResponse(payment), nil
}

// ListByOrder devuelve los eventos de pago registrados para un pedido.
func (uc *PaymentUseCase) ListByOrder(ctx context.Context, orderID string) ([]dto.PaymentResponse, error) {
	list, err := uc.paymentRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PaymentResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toPaymentResponse(p))
	}
	return out, nil
}

func toPaymentResponse(p *entity.Payment) *dto.PaymentResponse {
	return &dto.PaymentResponse{
		ID:        p.ID,
		OrderID:   p.OrderID,
		Amount:    p.Amount,
		Status:    p.Status,
		Provider:  p.Provider,
		Reference: p.Reference,
		CreatedAt: p.CreatedAt,
	}
}

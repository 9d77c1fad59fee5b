package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/piccolaroma/cadena-api/internal/application/dto"
	"github.com/piccolaroma/cadena-api/internal/application/inventory"
	"github.com/piccolaroma/cadena-api/internal/domain"
	"github.com/piccolaroma/cadena-api/internal/domain/entity"
	"github.com/piccolaroma/cadena-api/internal/domain/repository"
	"github.com/piccolaroma/cadena-api/pkg/logger"
)

// validTransitions define la máquina de estados del pedido.
// cancelled es alcanzable desde cualquier estado no terminal;
// delivered y cancelled no admiten salida.
var validTransitions = map[string][]string{
	entity.OrderStatusPlaced:         {entity.OrderStatusConfirmed, entity.OrderStatusCancelled},
	entity.OrderStatusConfirmed:      {entity.OrderStatusPreparing, entity.OrderStatusCancelled},
	entity.OrderStatusPreparing:      {entity.OrderStatusBaking, entity.OrderStatusCancelled},
	entity.OrderStatusBaking:         {entity.OrderStatusReady, entity.OrderStatusCancelled},
	entity.OrderStatusOutForDelivery: {entity.OrderStatusDelivered, entity.OrderStatusCancelled},
	entity.OrderStatusReady: {
		entity.OrderStatusOutForDelivery,
		entity.OrderStatusDelivered, // retiro en mostrador
		entity.OrderStatusCancelled,
	},
}

func isValidTransition(from, to string) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// StateMachine gobierna las transiciones de estado del pedido y dispara los
// movimientos de stock compensables a través del motor de inventario.
// Es el único punto de entrada que consume stock por pedidos.
//
// consumeOn define en qué estado se descuenta el stock ("delivered" por
// defecto, "confirmed" como política alternativa). La entrega aplica un
// movimiento sale por línea; si una línea falla, las anteriores se compensan
// con return y la transición se rechaza completa. La cancelación de un pedido
// que ya consumió stock reemite return por cada línea.
type StateMachine struct {
	orderRepo  repository.OrderRepository
	recordRepo repository.InventoryRecordRepository
	engine     *inventory.StockMovementEngine
	consumeOn  string
	log        *logger.Logger
}

// NewStateMachine construye la máquina de estados. consumeOn vacío usa delivered.
func NewStateMachine(
	orderRepo repository.OrderRepository,
	recordRepo repository.InventoryRecordRepository,
	engine *inventory.StockMovementEngine,
	consumeOn string,
	log *logger.Logger,
) *StateMachine {
	if consumeOn != entity.OrderStatusConfirmed {
		consumeOn = entity.OrderStatusDelivered
	}
	return &StateMachine{
		orderRepo:  orderRepo,
		recordRepo: recordRepo,
		engine:     engine,
		consumeOn:  consumeOn,
		log:        log,
	}
}

// Transition intenta llevar el pedido a targetStatus. Devuelve el pedido
// actualizado o un error tipado: ErrNotFound, ErrInvalidTransition,
// ErrInsufficientStock (alguna línea sin stock), ErrConflict (carrera perdida).
// El efecto sobre el stock es todo-o-nada a granularidad del pedido.
func (sm *StateMachine) Transition(ctx context.Context, orderID, targetStatus, actorID string) (*dto.OrderResponse, error) {
	if orderID == "" || actorID == "" {
		return nil, domain.ErrInvalidInput
	}
	order, err := sm.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if !isValidTransition(order.Status, targetStatus) {
		return nil, domain.ErrInvalidTransition
	}

	var applied []lineEffect
	switch {
	case targetStatus == sm.consumeOn && order.StockConsumedAt == nil:
		applied, err = sm.applyPerLine(ctx, order, entity.MovementTypeSale, actorID,
			fmt.Sprintf("consumo por pedido %s", order.ID))
		if err != nil {
			return nil, err
		}
	case targetStatus == entity.OrderStatusCancelled && order.StockConsumedAt != nil:
		// El pedido ya descontó stock: reemitir return por línea antes de cancelar.
		applied, err = sm.applyPerLine(ctx, order, entity.MovementTypeReturn, actorID,
			fmt.Sprintf("devolución por cancelación del pedido %s", order.ID))
		if err != nil {
			return nil, err
		}
	}

	if err := sm.orderRepo.UpdateStatus(ctx, order.ID, order.Status, targetStatus); err != nil {
		// El estado cambió por debajo (carrera perdida) o falló el storage:
		// los movimientos recién aplicados no deben sobrevivir a una
		// transición rechazada.
		sm.compensate(ctx, order, applied, actorID)
		return nil, err
	}

	now := time.Now()
	switch {
	case targetStatus == sm.consumeOn && order.StockConsumedAt == nil:
		if err := sm.orderRepo.MarkStockConsumed(ctx, order.ID, now); err != nil {
			sm.log.Error().Err(err).Str("order_id", order.ID).Msg("no se pudo marcar consumo de stock")
		}
	case targetStatus == entity.OrderStatusCancelled && order.StockConsumedAt != nil:
		if err := sm.orderRepo.ClearStockConsumed(ctx, order.ID); err != nil {
			sm.log.Error().Err(err).Str("order_id", order.ID).Msg("no se pudo limpiar la marca de consumo")
		}
	}

	order.Status = targetStatus
	order.UpdatedAt = now
	return toOrderResponse(order), nil
}

// lineEffect registra un movimiento aplicado de una línea, para poder compensarlo.
type lineEffect struct {
	recordID string
	quantity decimal.Decimal
	movType  string
}

// oppositeOf devuelve el movimiento que anula a movementType a nivel de pedido.
func oppositeOf(movementType string) string {
	if movementType == entity.MovementTypeReturn {
		return entity.MovementTypeSale
	}
	return entity.MovementTypeReturn
}

// applyPerLine aplica movementType sobre cada línea del pedido, en orden. Si
// una línea falla, compensa las anteriores con el movimiento opuesto y devuelve
// el error original: ningún estado parcial queda observable fuera del motor.
func (sm *StateMachine) applyPerLine(ctx context.Context, order *entity.Order, movementType, actorID, notes string) ([]lineEffect, error) {
	applied := make([]lineEffect, 0, len(order.Items))
	for _, item := range order.Items {
		record, err := sm.recordRepo.Get(ctx, item.ItemID, order.BranchID)
		if err == nil && record == nil {
			err = domain.ErrNotFound
		}
		if err == nil {
			_, err = sm.engine.ApplyMovement(ctx, inventory.MovementInput{
				RecordID:         record.ID,
				Type:             movementType,
				Quantity:         item.Quantity,
				ActorID:          actorID,
				Notes:            notes,
				ReferenceOrderID: order.ID,
			})
		}
		if err != nil {
			sm.compensate(ctx, order, applied, actorID)
			return nil, err
		}
		applied = append(applied, lineEffect{recordID: record.ID, quantity: item.Quantity, movType: movementType})
	}
	return applied, nil
}

// compensate emite el movimiento opuesto por cada efecto aplicado. Un fallo de
// compensación se registra pero no reemplaza el error original de la operación.
func (sm *StateMachine) compensate(ctx context.Context, order *entity.Order, applied []lineEffect, actorID string) {
	for _, eff := range applied {
		_, err := sm.engine.ApplyMovement(ctx, inventory.MovementInput{
			RecordID:         eff.recordID,
			Type:             oppositeOf(eff.movType),
			Quantity:         eff.quantity,
			ActorID:          actorID,
			Notes:            fmt.Sprintf("compensación de transición rechazada del pedido %s", order.ID),
			ReferenceOrderID: order.ID,
		})
		if err != nil {
			sm.log.Error().
				Err(err).
				Str("order_id", order.ID).
				Str("record_id", eff.recordID).
				Msg("compensación de línea falló")
		}
	}
	if len(applied) > 0 {
		sm.log.Warn().
			Str("order_id", order.ID).
			Int("lines", len(applied)).
			Msg("movimientos del pedido compensados por transición rechazada")
	}
}

package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/piccolaroma/cadena-api/internal/domain"
	"github.com/piccolaroma/cadena-api/internal/domain/entity"
	invpolicy "github.com/piccolaroma/cadena-api/internal/domain/inventory"
	"github.com/piccolaroma/cadena-api/internal/domain/repository"
	"github.com/piccolaroma/cadena-api/pkg/logger"
)

// EngineConfig acota el bucle de reintento optimista del motor.
type EngineConfig struct {
	MaxAttempts  int           // intentos antes de devolver ErrConflict
	RetryBackoff time.Duration // espera base entre intentos (crece linealmente)
}

// StockMovementEngine es el único camino permitido para cambiar la cantidad de
// un InventoryRecord. Aplica la política por tipo de movimiento y garantiza que
// la actualización del registro y la entrada del ledger se comporten como una
// unidad: o existen ambas o ninguna.
//
// Mecanismo: lectura → cálculo → escritura condicional (ApplyDelta con guardia
// de cantidad previa) → append al ledger. Un conflicto en la escritura reinicia
// desde la lectura, con reintentos acotados. Si el append al ledger falla tras
// un ApplyDelta exitoso, se revierte el registro con un delta compensatorio.
type StockMovementEngine struct {
	recordRepo   repository.InventoryRecordRepository
	movementRepo repository.StockMovementRepository
	cfg          EngineConfig
	log          *logger.Logger
}

// NewStockMovementEngine construye el motor.
func NewStockMovementEngine(
	recordRepo repository.InventoryRecordRepository,
	movementRepo repository.StockMovementRepository,
	cfg EngineConfig,
	log *logger.Logger,
) *StockMovementEngine {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 4
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 15 * time.Millisecond
	}
	return &StockMovementEngine{
		recordRepo:   recordRepo,
		movementRepo: movementRepo,
		cfg:          cfg,
		log:          log,
	}
}

// MovementInput entrada para ApplyMovement.
// Quantity es magnitud positiva para purchase/sale/transfer/waste/return;
// para adjustment es la cantidad objetivo absoluta (puede ser 0).
type MovementInput struct {
	RecordID         string
	Type             string
	Quantity         decimal.Decimal
	ActorID          string
	Notes            string
	ReferenceOrderID string
}

// ApplyMovement valida y aplica un movimiento de stock, devolviendo la entrada
// del ledger creada. Errores: ErrNotFound (registro inexistente),
// ErrInvalidMovementType, ErrInvalidInput, ErrInsufficientStock (la cantidad
// quedaría negativa) y ErrConflict (reintentos agotados por carreras).
func (e *StockMovementEngine) ApplyMovement(ctx context.Context, in MovementInput) (*entity.StockMovement, error) {
	if in.RecordID == "" || in.ActorID == "" {
		return nil, domain.ErrInvalidInput
	}

	for attempt := 1; attempt <= e.cfg.MaxAttempts; attempt++ {
		record, err := e.recordRepo.GetByID(ctx, in.RecordID)
		if err != nil {
			return nil, err
		}
		if record == nil {
			return nil, domain.ErrNotFound
		}

		_, delta, err := invpolicy.Apply(in.Type, record.Quantity, in.Quantity)
		if err != nil {
			return nil, err
		}

		now := time.Now()
		updated, err := e.recordRepo.ApplyDelta(ctx, record.ID, delta, record.Quantity)
		if errors.Is(err, domain.ErrConflict) {
			// Otra operación ganó la carrera: releer y reintentar con backoff.
			e.log.Debug().
				Str("record_id", record.ID).
				Int("attempt", attempt).
				Msg("conflicto optimista en movimiento de stock")
			time.Sleep(e.cfg.RetryBackoff * time.Duration(attempt))
			continue
		}
		if err != nil {
			return nil, err
		}

		movement := &entity.StockMovement{
			ID:                uuid.New().String(),
			InventoryRecordID: record.ID,
			BranchID:          record.BranchID,
			Type:              in.Type,
			QuantityDelta:     delta,
			PreviousQuantity:  record.Quantity,
			NewQuantity:       updated.Quantity,
			PerformedBy:       in.ActorID,
			ReferenceOrderID:  in.ReferenceOrderID,
			Notes:             in.Notes,
			UnitCost:          record.CostPerUnit,
			CreatedAt:         now,
		}
		if err := e.movementRepo.Create(ctx, movement); err != nil {
			// El registro no debe quedar actualizado sin su entrada en el
			// ledger: revertir con el delta opuesto antes de devolver el error.
			e.revert(ctx, movement)
			return nil, err
		}
		if invpolicy.IsRestock(in.Type) {
			// Metadato: se toca después de confirmar registro + ledger para que
			// una reversión nunca deje rastro. Si falla, el movimiento ya es válido.
			if err := e.recordRepo.TouchRestocked(ctx, record.ID, now); err != nil {
				e.log.Warn().Err(err).Str("record_id", record.ID).Msg("no se pudo actualizar last_restocked")
			}
		}
		return movement, nil
	}

	return nil, domain.ErrConflict
}

// revert deshace la actualización del registro cuando el append al ledger falló.
// Si la reversión también falla solo queda registrarlo: el invariante
// ledger/registro se reconstruye con una conciliación manual (adjustment).
func (e *StockMovementEngine) revert(ctx context.Context, m *entity.StockMovement) {
	_, err := e.recordRepo.ApplyDelta(ctx, m.InventoryRecordID, m.QuantityDelta.Neg(), m.NewQuantity)
	if err != nil {
		e.log.Error().
			Err(err).
			Str("record_id", m.InventoryRecordID).
			Str("type", m.Type).
			Str("delta", m.QuantityDelta.String()).
			Msg("reversión compensatoria del registro falló")
		return
	}
	e.log.Warn().
		Str("record_id", m.InventoryRecordID).
		Str("type", m.Type).
		Msg("movimiento revertido: el ledger rechazó la entrada")
}

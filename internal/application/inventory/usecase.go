package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/piccolaroma/cadena-api/internal/application/dto"
	"github.com/piccolaroma/cadena-api/internal/domain"
	"github.com/piccolaroma/cadena-api/internal/domain/entity"
	"github.com/piccolaroma/cadena-api/internal/domain/repository"
)

// RecordUseCase administra el ciclo de vida de los registros de inventario.
// La cantidad nunca se muta aquí: eso es exclusivo del motor de movimientos.
type RecordUseCase struct {
	recordRepo   repository.InventoryRecordRepository
	movementRepo repository.StockMovementRepository
	branchRepo   repository.BranchRepository
	menuRepo     repository.MenuItemRepository
}

// NewRecordUseCase construye el caso de uso.
func NewRecordUseCase(
	recordRepo repository.InventoryRecordRepository,
	movementRepo repository.StockMovementRepository,
	branchRepo repository.BranchRepository,
	menuRepo repository.MenuItemRepository,
) *RecordUseCase {
	return &RecordUseCase{
		recordRepo:   recordRepo,
		movementRepo: movementRepo,
		branchRepo:   branchRepo,
		menuRepo:     menuRepo,
	}
}

// GetOrCreate devuelve el registro del par (item, sucursal) o lo crea con
// cantidad 0 y los umbrales indicados. Una carrera de creación concurrente se
// resuelve releyendo el registro que ganó; solo si tampoco aparece se propaga
// ErrDuplicateRecord.
func (uc *RecordUseCase) GetOrCreate(ctx context.Context, in dto.CreateRecordRequest) (*dto.InventoryRecordResponse, error) {
	if in.ItemID == "" || in.BranchID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.MinStockLevel.IsNegative() || in.MaxStockLevel.IsNegative() || in.CostPerUnit.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	// Validar existencia referencial de ítem y sucursal
	item, err := uc.menuRepo.GetByID(in.ItemID)
	if err != nil || item == nil {
		return nil, domain.ErrNotFound
	}
	branch, err := uc.branchRepo.GetByID(in.BranchID)
	if err != nil || branch == nil {
		return nil, domain.ErrNotFound
	}

	if existing, err := uc.recordRepo.Get(ctx, in.ItemID, in.BranchID); err != nil {
		return nil, err
	} else if existing != nil {
		return toRecordResponse(existing), nil
	}

	now := time.Now()
	record := &entity.InventoryRecord{
		ID:            uuid.New().String(),
		ItemID:        in.ItemID,
		BranchID:      in.BranchID,
		MinStockLevel: in.MinStockLevel,
		MaxStockLevel: in.MaxStockLevel,
		Unit:          in.Unit,
		CostPerUnit:   in.CostPerUnit,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.recordRepo.Create(ctx, record); err != nil {
		if errors.Is(err, domain.ErrDuplicateRecord) {
			// Perdimos la carrera de creación: el registro del ganador sirve igual.
			if winner, getErr := uc.recordRepo.Get(ctx, in.ItemID, in.BranchID); getErr == nil && winner != nil {
				return toRecordResponse(winner), nil
			}
		}
		return nil, err
	}
	return toRecordResponse(record), nil
}

// Get devuelve el registro por par (item, sucursal).
func (uc *RecordUseCase) Get(ctx context.Context, itemID, branchID string) (*dto.InventoryRecordResponse, error) {
	record, err := uc.recordRepo.Get(ctx, itemID, branchID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, domain.ErrNotFound
	}
	return toRecordResponse(record), nil
}

// ListByBranch lista los registros de una sucursal con paginación.
func (uc *RecordUseCase) ListByBranch(ctx context.Context, branchID string, limit, offset int) ([]dto.InventoryRecordResponse, error) {
	list, err := uc.recordRepo.ListByBranch(ctx, branchID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InventoryRecordResponse, 0, len(list))
	for _, r := range list {
		out = append(out, *toRecordResponse(r))
	}
	return out, nil
}

// ListMovementsByRecord devuelve la porción del ledger de un registro.
func (uc *RecordUseCase) ListMovementsByRecord(ctx context.Context, recordID string, limit, offset int) ([]dto.StockMovementResponse, error) {
	list, err := uc.movementRepo.ListByRecord(ctx, recordID, limit, offset)
	if err != nil {
		return nil, err
	}
	return toMovementResponses(list), nil
}

// ListMovementsByBranch devuelve la porción del ledger de una sucursal,
// con filtro opcional por tipo y rango de fechas.
func (uc *RecordUseCase) ListMovementsByBranch(ctx context.Context, branchID, movementType string, from, to *time.Time, limit, offset int) ([]dto.StockMovementResponse, error) {
	list, err := uc.movementRepo.ListByBranch(ctx, branchID, movementType, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	return toMovementResponses(list), nil
}

// ListMovementsByOrder devuelve los movimientos originados por un pedido.
func (uc *RecordUseCase) ListMovementsByOrder(ctx context.Context, orderID string) ([]dto.StockMovementResponse, error) {
	list, err := uc.movementRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return toMovementResponses(list), nil
}

func toRecordResponse(r *entity.InventoryRecord) *dto.InventoryRecordResponse {
	if r == nil {
		return nil
	}
	return &dto.InventoryRecordResponse{
		ID:            r.ID,
		ItemID:        r.ItemID,
		BranchID:      r.BranchID,
		Quantity:      r.Quantity,
		MinStockLevel: r.MinStockLevel,
		MaxStockLevel: r.MaxStockLevel,
		Unit:          r.Unit,
		CostPerUnit:   r.CostPerUnit,
		LastRestocked: r.LastRestocked,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func toMovementResponses(list []*entity.StockMovement) []dto.StockMovementResponse {
	out := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.StockMovementResponse{
			ID:                m.ID,
			InventoryRecordID: m.InventoryRecordID,
			BranchID:          m.BranchID,
			Type:              m.Type,
			QuantityDelta:     m.QuantityDelta,
			PreviousQuantity:  m.PreviousQuantity,
			NewQuantity:       m.NewQuantity,
			PerformedBy:       m.PerformedBy,
			ReferenceOrderID:  m.ReferenceOrderID,
			Notes:             m.Notes,
			UnitCost:          m.UnitCost,
			CreatedAt:         m.CreatedAt,
		})
	}
	return out
}

package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/piccolaroma/cadena-api/internal/application/dto"
	"github.com/piccolaroma/cadena-api/internal/domain"
	"github.com/piccolaroma/cadena-api/internal/domain/entity"
	"github.com/piccolaroma/cadena-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando un
// OrderRepository atado a esa tx. Garantiza que pedido y líneas se inserten
// como una unidad.
type TxRunner interface {
	Run(ctx context.Context, fn func(orderRepo repository.OrderRepository) error) error
}

// OrderUseCase administra la creación y consulta de pedidos. Las transiciones
// de estado (y sus efectos de stock) pasan siempre por la StateMachine.
type OrderUseCase struct {
	txRunner   TxRunner
	orderRepo  repository.OrderRepository
	branchRepo repository.BranchRepository
	menuRepo   repository.MenuItemRepository
	riderRepo  repository.RiderRepository
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(
	txRunner TxRunner,
	orderRepo repository.OrderRepository,
	branchRepo repository.BranchRepository,
	menuRepo repository.MenuItemRepository,
	riderRepo repository.RiderRepository,
) *OrderUseCase {
	return &OrderUseCase{
		txRunner:   txRunner,
		orderRepo:  orderRepo,
		branchRepo: branchRepo,
		menuRepo:   menuRepo,
		riderRepo:  riderRepo,
	}
}

// Create registra un pedido en estado placed. Valida sucursal e ítems del menú
// (existentes y disponibles) y calcula el total canónico Σ cantidad × precio.
func (uc *OrderUseCase) Create(ctx context.Context, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if in.BranchID == "" || in.CustomerName == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	branch, err := uc.branchRepo.GetByID(in.BranchID)
	if err != nil || branch == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	orderID := uuid.New().String()
	total := decimal.Zero
	items := make([]entity.OrderItem, 0, len(in.Items))
	for _, line := range in.Items {
		if !line.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		menuItem, err := uc.menuRepo.GetByID(line.ItemID)
		if err != nil || menuItem == nil {
			return nil, domain.ErrNotFound
		}
		if !menuItem.Available {
			return nil, domain.ErrInvalidInput
		}
		items = append(items, entity.OrderItem{
			ID:        uuid.New().String(),
			OrderID:   orderID,
			ItemID:    menuItem.ID,
			Name:      menuItem.Name,
			Quantity:  line.Quantity,
			UnitPrice: menuItem.Price,
		})
		total = total.Add(line.Quantity.Mul(menuItem.Price))
	}

	order := &entity.Order{
		ID:              orderID,
		BranchID:        in.BranchID,
		CustomerName:    in.CustomerName,
		CustomerPhone:   in.CustomerPhone,
		DeliveryAddress: in.DeliveryAddress,
		Status:          entity.OrderStatusPlaced,
		Total:           total,
		Items:           items,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	// Pedido y líneas en la misma transacción
	err = uc.txRunner.Run(ctx, func(orderRepo repository.OrderRepository) error {
		return orderRepo.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// GetByID devuelve un pedido con sus líneas.
func (uc *OrderUseCase) GetByID(ctx context.Context, id string) (*dto.OrderResponse, error) {
	order, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return toOrderResponse(order), nil
}

// ListByBranch lista pedidos de una sucursal; status vacío = todos.
func (uc *OrderUseCase) ListByBranch(ctx context.Context, branchID, status string, limit, offset int) (*dto.OrderListResponse, error) {
	list, err := uc.orderRepo.ListByBranch(ctx, branchID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *toOrderResponse(o))
	}
	return &dto.OrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// AssignRider asigna un repartidor de la misma sucursal a un pedido no terminal.
func (uc *OrderUseCase) AssignRider(ctx context.Context, orderID, riderID string) (*dto.OrderResponse, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if entity.IsTerminalStatus(order.Status) {
		return nil, domain.ErrInvalidTransition
	}
	rider, err := uc.riderRepo.GetByID(riderID)
	if err != nil || rider == nil {
		return nil, domain.ErrNotFound
	}
	if rider.BranchID != order.BranchID {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.orderRepo.AssignRider(ctx, orderID, riderID); err != nil {
		return nil, err
	}
	order.AssignedRiderID = riderID
	return toOrderResponse(order), nil
}

func toOrderResponse(o *entity.Order) *dto.OrderResponse {
	if o == nil {
		return nil
	}
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.OrderItemResponse{
			ItemID:    it.ItemID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	return &dto.OrderResponse{
		ID:              o.ID,
		BranchID:        o.BranchID,
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		DeliveryAddress: o.DeliveryAddress,
		Status:          o.Status,
		Total:           o.Total,
		AssignedRiderID: o.AssignedRiderID,
		Items:           items,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

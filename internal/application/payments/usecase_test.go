package payments_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piccolaroma/cadena-api/internal/application/dto"
	appinventory "github.com/piccolaroma/cadena-api/internal/application/inventory"
	"github.com/piccolaroma/cadena-api/internal/application/orders"
	"github.com/piccolaroma/cadena-api/internal/application/payments"
	"github.com/piccolaroma/cadena-api/internal/domain"
	"github.com/piccolaroma/cadena-api/internal/domain/entity"
	"github.com/piccolaroma/cadena-api/pkg/logger"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakePaymentRepo struct {
	payments []*entity.Payment
}

func (f *fakePaymentRepo) Create(_ context.Context, payment *entity.Payment) error {
	copia := *payment
	f.payments = append(f.payments, &copia)
	return nil
}

func (f *fakePaymentRepo) ListByOrder(_ context.Context, orderID string) ([]*entity.Payment, error) {
	var out []*entity.Payment
	for _, p := range f.payments {
		if p.OrderID == orderID {
			copia := *p
			out = append(out, &copia)
		}
	}
	return out, nil
}

type fakeOrderRepo struct {
	orders map[string]*entity.Order
}

func (f *fakeOrderRepo) Create(_ context.Context, order *entity.Order) error {
	copia := *order
	f.orders[order.ID] = &copia
	return nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, nil
	}
	copia := *o
	return &copia, nil
}

func (f *fakeOrderRepo) ListByBranch(_ context.Context, branchID, status string, limit, offset int) ([]*entity.Order, error) {
	return nil, nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, id, fromStatus, toStatus string) error {
	o, ok := f.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	if o.Status != fromStatus {
		return domain.ErrConflict
	}
	o.Status = toStatus
	return nil
}

func (f *fakeOrderRepo) MarkStockConsumed(_ context.Context, id string, at time.Time) error {
	if o, ok := f.orders[id]; ok {
		o.StockConsumedAt = &at
	}
	return nil
}

func (f *fakeOrderRepo) ClearStockConsumed(_ context.Context, id string) error {
	if o, ok := f.orders[id]; ok {
		o.StockConsumedAt = nil
	}
	return nil
}

func (f *fakeOrderRepo) AssignRider(_ context.Context, id, riderID string) error { return nil }

type fakeRecordRepo struct{}

func (f *fakeRecordRepo) Create(_ context.Context, record *entity.InventoryRecord) error { return nil }
func (f *fakeRecordRepo) Get(_ context.Context, itemID, branchID string) (*entity.InventoryRecord, error) {
	return nil, nil
}
func (f *fakeRecordRepo) GetByID(_ context.Context, id string) (*entity.InventoryRecord, error) {
	return nil, nil
}
func (f *fakeRecordRepo) ApplyDelta(_ context.Context, recordID string, delta, expectedPrevious decimal.Decimal) (*entity.InventoryRecord, error) {
	return nil, domain.ErrNotFound
}
func (f *fakeRecordRepo) TouchRestocked(_ context.Context, recordID string, at time.Time) error {
	return nil
}
func (f *fakeRecordRepo) ListByBranch(_ context.Context, branchID string, limit, offset int) ([]*entity.InventoryRecord, error) {
	return nil, nil
}

type fakeMovementRepo struct{}

func (f *fakeMovementRepo) Create(_ context.Context, movement *entity.StockMovement) error {
	return nil
}
func (f *fakeMovementRepo) ListByRecord(_ context.Context, recordID string, limit, offset int) ([]*entity.StockMovement, error) {
	return nil, nil
}
func (f *fakeMovementRepo) ListByBranch(_ context.Context, branchID, movementType string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return nil, nil
}
func (f *fakeMovementRepo) ListByOrder(_ context.Context, orderID string) ([]*entity.StockMovement, error) {
	return nil, nil
}

// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	payments  *fakePaymentRepo
	orderRepo *fakeOrderRepo
	uc        *payments.PaymentUseCase
}

// newFixture arma el caso de uso con la política de consumo por defecto
// (delivered): confirmar o cancelar un pedido placed no toca el stock.
func newFixture(order *entity.Order) *fixture {
	orderRepo := &fakeOrderRepo{orders: map[string]*entity.Order{}}
	if order != nil {
		orderRepo.orders[order.ID] = order
	}
	paymentRepo := &fakePaymentRepo{}
	engine := appinventory.NewStockMovementEngine(&fakeRecordRepo{}, &fakeMovementRepo{}, appinventory.EngineConfig{}, logger.Nop())
	sm := orders.NewStateMachine(orderRepo, &fakeRecordRepo{}, engine, "", logger.Nop())
	uc := payments.NewPaymentUseCase(paymentRepo, orderRepo, sm, logger.Nop())
	return &fixture{payments: paymentRepo, orderRepo: orderRepo, uc: uc}
}

func pedidoPlaced(total string) *entity.Order {
	return &entity.Order{
		ID:           "order-1",
		BranchID:     "branch-1",
		CustomerName: "Cliente",
		Status:       entity.OrderStatusPlaced,
		Total:        d(total),
	}
}

func TestHandleCallback_PagoExitosoConfirmaPedido(t *testing.T) {
	fx := newFixture(pedidoPlaced("45.50"))

	out, err := fx.uc.HandleCallback(context.Background(), dto.PaymentCallbackRequest{
		OrderID:   "order-1",
		Amount:    d("45.50"),
		Status:    entity.PaymentStatusSucceeded,
		Provider:  "wompi",
		Reference: "trx-123",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.PaymentStatusSucceeded, out.Status)
	assert.Equal(t, "order-1", out.OrderID)
	require.Len(t, fx.payments.payments, 1, "el evento de pago queda registrado")
	assert.Equal(t, entity.OrderStatusConfirmed, fx.orderRepo.orders["order-1"].Status,
		"el cobro exitoso confirma el pedido")
}

func TestHandleCallback_PagoFallidoCancelaPedido(t *testing.T) {
	fx := newFixture(pedidoPlaced("45.50"))

	_, err := fx.uc.HandleCallback(context.Background(), dto.PaymentCallbackRequest{
		OrderID: "order-1",
		Amount:  d("45.50"),
		Status:  entity.PaymentStatusFailed,
	})
	require.NoError(t, err)

	require.Len(t, fx.payments.payments, 1)
	assert.Equal(t, entity.OrderStatusCancelled, fx.orderRepo.orders["order-1"].Status,
		"el cobro fallido cancela el pedido")
}

func TestHandleCallback_MontoNoCoincideRechazaSinPersistir(t *testing.T) {
	fx := newFixture(pedidoPlaced("45.50"))

	_, err := fx.uc.HandleCallback(context.Background(), dto.PaymentCallbackRequest{
		OrderID: "order-1",
		Amount:  d("40.00"),
		Status:  entity.PaymentStatusSucceeded,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, fx.payments.payments, "un monto inconsistente no deja evento registrado")
	assert.Equal(t, entity.OrderStatusPlaced, fx.orderRepo.orders["order-1"].Status)
}

func TestHandleCallback_PedidoYaAvanzadoRegistraSinTransicionar(t *testing.T) {
	order := pedidoPlaced("45.50")
	order.Status = entity.OrderStatusPreparing
	fx := newFixture(order)

	_, err := fx.uc.HandleCallback(context.Background(), dto.PaymentCallbackRequest{
		OrderID: "order-1",
		Amount:  d("45.50"),
		Status:  entity.PaymentStatusSucceeded,
	})
	require.NoError(t, err)
	require.Len(t, fx.payments.payments, 1, "el evento se guarda aunque el pedido ya avanzó")
	assert.Equal(t, entity.OrderStatusPreparing, fx.orderRepo.orders["order-1"].Status,
		"la transición redundante se omite")
}

func TestHandleCallback_EntradasInvalidas(t *testing.T) {
	fx := newFixture(pedidoPlaced("45.50"))
	ctx := context.Background()

	_, err := fx.uc.HandleCallback(ctx, dto.PaymentCallbackRequest{
		Amount: d("45.50"), Status: entity.PaymentStatusSucceeded,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin order_id")

	_, err = fx.uc.HandleCallback(ctx, dto.PaymentCallbackRequest{
		OrderID: "order-1", Amount: d("45.50"), Status: "pending",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "status desconocido")

	_, err = fx.uc.HandleCallback(ctx, dto.PaymentCallbackRequest{
		OrderID: "no-existe", Amount: d("45.50"), Status: entity.PaymentStatusSucceeded,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Empty(t, fx.payments.payments)
}

func TestListByOrder_DevuelveEventos(t *testing.T) {
	fx := newFixture(pedidoPlaced("45.50"))
	_, err := fx.uc.HandleCallback(context.Background(), dto.PaymentCallbackRequest{
		OrderID: "order-1", Amount: d("45.50"), Status: entity.PaymentStatusSucceeded, Provider: "stripe",
	})
	require.NoError(t, err)

	list, err := fx.uc.ListByOrder(context.Background(), "order-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "stripe", list[0].Provider)
}

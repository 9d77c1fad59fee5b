package orders_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piccolaroma/cadena-api/internal/application/dto"
	"github.com/piccolaroma/cadena-api/internal/application/orders"
	"github.com/piccolaroma/cadena-api/internal/domain"
	"github.com/piccolaroma/cadena-api/internal/domain/entity"
	"github.com/piccolaroma/cadena-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes de catálogo
// ──────────────────────────────────────────────────────────────────────────────

type fakeBranchRepo struct {
	branches map[string]*entity.Branch
}

func (f *fakeBranchRepo) Create(branch *entity.Branch) error { return nil }
func (f *fakeBranchRepo) GetByID(id string) (*entity.Branch, error) {
	return f.branches[id], nil
}
func (f *fakeBranchRepo) List(limit, offset int) ([]*entity.Branch, error) { return nil, nil }
func (f *fakeBranchRepo) Update(branch *entity.Branch) error               { return nil }

type fakeMenuRepo struct {
	items map[string]*entity.MenuItem
}

func (f *fakeMenuRepo) Create(item *entity.MenuItem) error { return nil }
func (f *fakeMenuRepo) GetByID(id string) (*entity.MenuItem, error) {
	return f.items[id], nil
}
func (f *fakeMenuRepo) List(category string, limit, offset int) ([]*entity.MenuItem, error) {
	return nil, nil
}
func (f *fakeMenuRepo) Update(item *entity.MenuItem) error { return nil }
func (f *fakeMenuRepo) Delete(id string) error             { return nil }

type fakeRiderRepo struct {
	riders map[string]*entity.Rider
}

func (f *fakeRiderRepo) Create(rider *entity.Rider) error { return nil }
func (f *fakeRiderRepo) GetByID(id string) (*entity.Rider, error) {
	return f.riders[id], nil
}
func (f *fakeRiderRepo) ListByBranch(branchID string, limit, offset int) ([]*entity.Rider, error) {
	return nil, nil
}
func (f *fakeRiderRepo) Update(rider *entity.Rider) error { return nil }

// fakeTxRunner ejecuta la función directamente contra el repo en memoria.
type fakeTxRunner struct {
	orderRepo repository.OrderRepository
	runs      int
}

func (f *fakeTxRunner) Run(ctx context.Context, fn func(orderRepo repository.OrderRepository) error) error {
	f.runs++
	return fn(f.orderRepo)
}

// ──────────────────────────────────────────────────────────────────────────────

type ucFixture struct {
	orders   *fakeOrderRepo
	txRunner *fakeTxRunner
	uc       *orders.OrderUseCase
}

func newUCFixture(existing ...*entity.Order) *ucFixture {
	orderRepo := newFakeOrderRepo(existing...)
	txRunner := &fakeTxRunner{orderRepo: orderRepo}
	branchRepo := &fakeBranchRepo{branches: map[string]*entity.Branch{
		"branch-1": {ID: "branch-1", Name: "Centro", Active: true},
	}}
	menuRepo := &fakeMenuRepo{items: map[string]*entity.MenuItem{
		"item-1": {ID: "item-1", Name: "Margarita", Category: "pizza", Price: d("12.50"), Available: true},
		"item-2": {ID: "item-2", Name: "Calzone", Category: "pizza", Price: d("9.90"), Available: true},
		"item-3": {ID: "item-3", Name: "Tiramisú", Category: "postre", Price: d("5"), Available: false},
	}}
	riderRepo := &fakeRiderRepo{riders: map[string]*entity.Rider{
		"rider-1": {ID: "rider-1", BranchID: "branch-1", Name: "Marco", Status: entity.RiderStatusAvailable},
		"rider-2": {ID: "rider-2", BranchID: "branch-2", Name: "Lucía", Status: entity.RiderStatusAvailable},
	}}
	uc := orders.NewOrderUseCase(txRunner, orderRepo, branchRepo, menuRepo, riderRepo)
	return &ucFixture{orders: orderRepo, txRunner: txRunner, uc: uc}
}

func TestCreateOrder_CalculaTotalCanonico(t *testing.T) {
	fx := newUCFixture()

	out, err := fx.uc.Create(context.Background(), dto.CreateOrderRequest{
		BranchID:     "branch-1",
		CustomerName: "Cliente",
		Items: []dto.CreateOrderItemRequest{
			{ItemID: "item-1", Quantity: d("2")},
			{ItemID: "item-2", Quantity: d("1")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusPlaced, out.Status, "todo pedido nace en placed")
	assert.True(t, out.Total.Equal(d("34.90")), "total = 2×12.50 + 1×9.90, obtenido %s", out.Total)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "Margarita", out.Items[0].Name, "la línea congela el nombre del ítem")
	assert.True(t, out.Items[0].UnitPrice.Equal(d("12.50")), "la línea congela el precio vigente")
	assert.Equal(t, 1, fx.txRunner.runs, "pedido y líneas se insertan en una transacción")

	stored, err := fx.orders.GetByID(context.Background(), out.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Len(t, stored.Items, 2)
}

func TestCreateOrder_Validaciones(t *testing.T) {
	fx := newUCFixture()
	ctx := context.Background()

	cases := []struct {
		name    string
		in      dto.CreateOrderRequest
		wantErr error
	}{
		{"sin sucursal", dto.CreateOrderRequest{CustomerName: "x",
			Items: []dto.CreateOrderItemRequest{{ItemID: "item-1", Quantity: d("1")}}}, domain.ErrInvalidInput},
		{"sin cliente", dto.CreateOrderRequest{BranchID: "branch-1",
			Items: []dto.CreateOrderItemRequest{{ItemID: "item-1", Quantity: d("1")}}}, domain.ErrInvalidInput},
		{"sin líneas", dto.CreateOrderRequest{BranchID: "branch-1", CustomerName: "x"}, domain.ErrInvalidInput},
		{"sucursal inexistente", dto.CreateOrderRequest{BranchID: "no-existe", CustomerName: "x",
			Items: []dto.CreateOrderItemRequest{{ItemID: "item-1", Quantity: d("1")}}}, domain.ErrNotFound},
		{"ítem inexistente", dto.CreateOrderRequest{BranchID: "branch-1", CustomerName: "x",
			Items: []dto.CreateOrderItemRequest{{ItemID: "no-existe", Quantity: d("1")}}}, domain.ErrNotFound},
		{"ítem no disponible", dto.CreateOrderRequest{BranchID: "branch-1", CustomerName: "x",
			Items: []dto.CreateOrderItemRequest{{ItemID: "item-3", Quantity: d("1")}}}, domain.ErrInvalidInput},
		{"cantidad cero", dto.CreateOrderRequest{BranchID: "branch-1", CustomerName: "x",
			Items: []dto.CreateOrderItemRequest{{ItemID: "item-1", Quantity: d("0")}}}, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fx.uc.Create(ctx, tc.in)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
	assert.Equal(t, 0, fx.txRunner.runs, "un pedido inválido nunca llega a la transacción")
}

func TestAssignRider_MismaSucursal(t *testing.T) {
	fx := newUCFixture(pedido(entity.OrderStatusConfirmed, nil))

	out, err := fx.uc.AssignRider(context.Background(), "order-1", "rider-1")
	require.NoError(t, err)
	assert.Equal(t, "rider-1", out.AssignedRiderID)

	stored, _ := fx.orders.GetByID(context.Background(), "order-1")
	assert.Equal(t, "rider-1", stored.AssignedRiderID)
}

func TestAssignRider_RechazaOtraSucursalYTerminales(t *testing.T) {
	fx := newUCFixture(pedido(entity.OrderStatusConfirmed, nil))

	_, err := fx.uc.AssignRider(context.Background(), "order-1", "rider-2")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "repartidor de otra sucursal no se asigna")

	_, err = fx.uc.AssignRider(context.Background(), "order-1", "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	fx = newUCFixture(pedido(entity.OrderStatusDelivered, nil))
	_, err = fx.uc.AssignRider(context.Background(), "order-1", "rider-1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "pedido terminal no admite asignación")
}

func TestGetByID_PedidoInexistente(t *testing.T) {
	fx := newUCFixture()
	_, err := fx.uc.GetByID(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

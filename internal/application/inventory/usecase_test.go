package inventory_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piccolaroma/cadena-api/internal/application/dto"
	appinventory "github.com/piccolaroma/cadena-api/internal/application/inventory"
	"github.com/piccolaroma/cadena-api/internal/domain"
	"github.com/piccolaroma/cadena-api/internal/domain/entity"
	"github.com/piccolaroma/cadena-api/internal/domain/repository"
)

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

// raceRecordRepo simula perder la carrera de creación: el Create del llamador
// inserta primero el registro del ganador y devuelve ErrDuplicateRecord.
type raceRecordRepo struct {
	*fakeRecordRepo
}

func (r *raceRecordRepo) Create(ctx context.Context, record *entity.InventoryRecord) error {
	winner := *record
	winner.ID = uuid.New().String()
	if err := r.fakeRecordRepo.Create(ctx, &winner); err != nil {
		return err
	}
	return domain.ErrDuplicateRecord
}

func newRecordUC(records repository.InventoryRecordRepository) *appinventory.RecordUseCase {
	branchRepo := &fakeBranchRepo{branches: map[string]*entity.Branch{
		"branch-1": {ID: "branch-1", Name: "Centro", Active: true},
	}}
	menuRepo := &fakeMenuRepo{items: map[string]*entity.MenuItem{
		"item-1": {ID: "item-1", Name: "Margarita", Available: true},
	}}
	return appinventory.NewRecordUseCase(records, &fakeMovementRepo{}, branchRepo, menuRepo)
}

func TestGetOrCreate_CreaConCantidadCero(t *testing.T) {
	records := newFakeRecordRepo()
	uc := newRecordUC(records)

	out, err := uc.GetOrCreate(context.Background(), dto.CreateRecordRequest{
		ItemID: "item-1", BranchID: "branch-1",
		MinStockLevel: d("5"), MaxStockLevel: d("100"),
		Unit: "unidad", CostPerUnit: d("3.50"),
	})
	require.NoError(t, err)
	assert.True(t, out.Quantity.IsZero(), "todo registro nace con cantidad 0")
	assert.True(t, out.MinStockLevel.Equal(d("5")))
}

func TestGetOrCreate_DevuelveElExistente(t *testing.T) {
	records := newFakeRecordRepo(testRecord("10"))
	uc := newRecordUC(records)

	out, err := uc.GetOrCreate(context.Background(), dto.CreateRecordRequest{
		ItemID: "item-1", BranchID: "branch-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "rec-1", out.ID, "el par (item, sucursal) ya tenía registro")
	assert.True(t, out.Quantity.Equal(d("10")))
}

func TestGetOrCreate_CarreraPerdidaDevuelveAlGanador(t *testing.T) {
	// Entre el Get inicial (vacío) y el Create, otro llamador crea el registro:
	// el perdedor relee y devuelve el registro del ganador en lugar de fallar.
	records := &raceRecordRepo{fakeRecordRepo: newFakeRecordRepo()}
	uc := newRecordUC(records)

	out, err := uc.GetOrCreate(context.Background(), dto.CreateRecordRequest{
		ItemID: "item-1", BranchID: "branch-1", Unit: "unidad",
	})
	require.NoError(t, err, "perder la carrera de creación no es un error para el llamador")
	require.NotNil(t, out)
	assert.Equal(t, "item-1", out.ItemID)
	assert.True(t, out.Quantity.IsZero())
}

func TestGetOrCreate_Validaciones(t *testing.T) {
	uc := newRecordUC(newFakeRecordRepo())
	ctx := context.Background()

	_, err := uc.GetOrCreate(ctx, dto.CreateRecordRequest{BranchID: "branch-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "item_id es requerido")

	_, err = uc.GetOrCreate(ctx, dto.CreateRecordRequest{ItemID: "item-1", BranchID: "no-existe"})
	assert.ErrorIs(t, err, domain.ErrNotFound, "la sucursal debe existir")

	_, err = uc.GetOrCreate(ctx, dto.CreateRecordRequest{
		ItemID: "item-1", BranchID: "branch-1", MinStockLevel: d("-1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "umbral negativo rechazado")
}

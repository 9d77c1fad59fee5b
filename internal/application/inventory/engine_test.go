package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinventory "github.com/piccolaroma/cadena-api/internal/application/inventory"
	"github.com/piccolaroma/cadena-api/internal/domain"
	"github.com/piccolaroma/cadena-api/internal/domain/entity"
	"github.com/piccolaroma/cadena-api/pkg/logger"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria con la misma semántica CAS del repo real
// ──────────────────────────────────────────────────────────────────────────────

type fakeRecordRepo struct {
	mu              sync.Mutex
	records         map[string]*entity.InventoryRecord
	forcedConflicts int // próximos ApplyDelta que fallan con ErrConflict
}

func newFakeRecordRepo(records ...*entity.InventoryRecord) *fakeRecordRepo {
	m := make(map[string]*entity.InventoryRecord, len(records))
	for _, r := range records {
		copia := *r
		m[r.ID] = &copia
	}
	return &fakeRecordRepo{records: m}
}

func (f *fakeRecordRepo) Create(_ context.Context, record *entity.InventoryRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.ItemID == record.ItemID && r.BranchID == record.BranchID {
			return domain.ErrDuplicateRecord
		}
	}
	copia := *record
	f.records[record.ID] = &copia
	return nil
}

func (f *fakeRecordRepo) Get(_ context.Context, itemID, branchID string) (*entity.InventoryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.ItemID == itemID && r.BranchID == branchID {
			copia := *r
			return &copia, nil
		}
	}
	return nil, nil
}

func (f *fakeRecordRepo) GetByID(_ context.Context, id string) (*entity.InventoryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.records[id]
	if !ok {
		return nil, nil
	}
	copia := *r
	return &copia, nil
}

func (f *fakeRecordRepo) ApplyDelta(_ context.Context, recordID string, delta, expectedPrevious decimal.Decimal) (*entity.InventoryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.forcedConflicts > 0 {
		f.forcedConflicts--
		return nil, domain.ErrConflict
	}
	r, ok := f.records[recordID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if !r.Quantity.Equal(expectedPrevious) {
		return nil, domain.ErrConflict
	}
	r.Quantity = r.Quantity.Add(delta)
	r.UpdatedAt = time.Now()
	copia := *r
	return &copia, nil
}

func (f *fakeRecordRepo) TouchRestocked(_ context.Context, recordID string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.records[recordID]
	if !ok {
		return domain.ErrNotFound
	}
	r.LastRestocked = &at
	return nil
}

func (f *fakeRecordRepo) ListByBranch(_ context.Context, branchID string, limit, offset int) ([]*entity.InventoryRecord, error) {
	return nil, nil
}

func (f *fakeRecordRepo) quantity(recordID string) decimal.Decimal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.records[recordID].Quantity
}

func (f *fakeRecordRepo) lastRestocked(recordID string) *time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.records[recordID].LastRestocked
}

type fakeMovementRepo struct {
	mu        sync.Mutex
	movements []*entity.StockMovement
	failNext  error
}

func (f *fakeMovementRepo) Create(_ context.Context, movement *entity.StockMovement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return err
	}
	copia := *movement
	f.movements = append(f.movements, &copia)
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

func (f *fakeMovementRepo) all() []*entity.StockMovement {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entity.StockMovement, len(f.movements))
	copy(out, f.movements)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────

func testRecord(quantity string) *entity.InventoryRecord {
	now := time.Now()
	return &entity.InventoryRecord{
		ID:            "rec-1",
		ItemID:        "item-1",
		BranchID:      "branch-1",
		Quantity:      d(quantity),
		MinStockLevel: d("5"),
		MaxStockLevel: d("100"),
		Unit:          "unidad",
		CostPerUnit:   d("3.50"),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func newEngine(records *fakeRecordRepo, movements *fakeMovementRepo, maxAttempts int) *appinventory.StockMovementEngine {
	return appinventory.NewStockMovementEngine(records, movements, appinventory.EngineConfig{
		MaxAttempts:  maxAttempts,
		RetryBackoff: time.Millisecond,
	}, logger.Nop())
}

func TestApplyMovement_VentaActualizaRegistroYLedger(t *testing.T) {
	records := newFakeRecordRepo(testRecord("10"))
	movements := &fakeMovementRepo{}
	engine := newEngine(records, movements, 4)

	movement, err := engine.ApplyMovement(context.Background(), appinventory.MovementInput{
		RecordID: "rec-1",
		Type:     entity.MovementTypeSale,
		Quantity: d("7"),
		ActorID:  "user-1",
	})
	require.NoError(t, err)

	assert.True(t, records.quantity("rec-1").Equal(d("3")), "10 - 7 = 3")
	assert.True(t, movement.PreviousQuantity.Equal(d("10")))
	assert.True(t, movement.NewQuantity.Equal(d("3")))
	assert.True(t, movement.QuantityDelta.Equal(d("-7")))
	assert.True(t, movement.UnitCost.Equal(d("3.50")), "unit_cost se copia del registro")
	require.Len(t, movements.all(), 1, "una entrada en el ledger por movimiento")
}

func TestApplyMovement_StockInsuficienteNoEscribeNada(t *testing.T) {
	records := newFakeRecordRepo(testRecord("3"))
	movements := &fakeMovementRepo{}
	engine := newEngine(records, movements, 4)

	_, err := engine.ApplyMovement(context.Background(), appinventory.MovementInput{
		RecordID: "rec-1",
		Type:     entity.MovementTypeSale,
		Quantity: d("5"),
		ActorID:  "user-1",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, records.quantity("rec-1").Equal(d("3")), "la cantidad no debe cambiar")
	assert.Empty(t, movements.all(), "el ledger no debe recibir entradas")
}

func TestApplyMovement_ReintentaTrasConflictoYTermina(t *testing.T) {
	records := newFakeRecordRepo(testRecord("10"))
	records.forcedConflicts = 2
	movements := &fakeMovementRepo{}
	engine := newEngine(records, movements, 4)

	movement, err := engine.ApplyMovement(context.Background(), appinventory.MovementInput{
		RecordID: "rec-1",
		Type:     entity.MovementTypePurchase,
		Quantity: d("20"),
		ActorID:  "user-1",
	})
	require.NoError(t, err, "dos conflictos con cuatro intentos deben terminar bien")
	assert.True(t, records.quantity("rec-1").Equal(d("30")))
	assert.True(t, movement.NewQuantity.Equal(d("30")))
}

func TestApplyMovement_ConflictosAgotadosDevuelveErrConflict(t *testing.T) {
	records := newFakeRecordRepo(testRecord("10"))
	records.forcedConflicts = 10
	movements := &fakeMovementRepo{}
	engine := newEngine(records, movements, 3)

	_, err := engine.ApplyMovement(context.Background(), appinventory.MovementInput{
		RecordID: "rec-1",
		Type:     entity.MovementTypeSale,
		Quantity: d("1"),
		ActorID:  "user-1",
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Empty(t, movements.all())
	assert.True(t, records.quantity("rec-1").Equal(d("10")))
}

func TestApplyMovement_FalloDelLedgerRevierteElRegistro(t *testing.T) {
	records := newFakeRecordRepo(testRecord("10"))
	movements := &fakeMovementRepo{failNext: errors.New("ledger caído")}
	engine := newEngine(records, movements, 4)

	_, err := engine.ApplyMovement(context.Background(), appinventory.MovementInput{
		RecordID: "rec-1",
		Type:     entity.MovementTypeSale,
		Quantity: d("4"),
		ActorID:  "user-1",
	})
	require.Error(t, err)
	assert.True(t, records.quantity("rec-1").Equal(d("10")),
		"registro y ledger son todo-o-nada: sin entrada, sin actualización")
	assert.Empty(t, movements.all())
}

func TestApplyMovement_SoloCompraTocaLastRestocked(t *testing.T) {
	records := newFakeRecordRepo(testRecord("10"))
	movements := &fakeMovementRepo{}
	engine := newEngine(records, movements, 4)

	_, err := engine.ApplyMovement(context.Background(), appinventory.MovementInput{
		RecordID: "rec-1", Type: entity.MovementTypeSale, Quantity: d("1"), ActorID: "user-1",
	})
	require.NoError(t, err)
	assert.Nil(t, records.lastRestocked("rec-1"), "una venta no repone")

	_, err = engine.ApplyMovement(context.Background(), appinventory.MovementInput{
		RecordID: "rec-1", Type: entity.MovementTypePurchase, Quantity: d("5"), ActorID: "user-1",
	})
	require.NoError(t, err)
	assert.NotNil(t, records.lastRestocked("rec-1"), "una compra sí repone")
}

func TestApplyMovement_AjusteFijaCantidadObjetivo(t *testing.T) {
	records := newFakeRecordRepo(testRecord("23"))
	movements := &fakeMovementRepo{}
	engine := newEngine(records, movements, 4)

	movement, err := engine.ApplyMovement(context.Background(), appinventory.MovementInput{
		RecordID: "rec-1",
		Type:     entity.MovementTypeAdjustment,
		Quantity: d("8"),
		ActorID:  "user-1",
		Notes:    "conteo físico",
	})
	require.NoError(t, err)
	assert.True(t, records.quantity("rec-1").Equal(d("8")))
	assert.True(t, movement.QuantityDelta.Equal(d("-15")), "el ledger guarda el delta derivado")
}

// Secuencia completa sobre un registro: venta, venta rechazada, compra y
// ajuste. Verifica que la cantidad final coincide con la inicial más la suma
// de los deltas del ledger.
func TestApplyMovement_SecuenciaMantieneInvarianteDelLedger(t *testing.T) {
	records := newFakeRecordRepo(testRecord("10"))
	movements := &fakeMovementRepo{}
	engine := newEngine(records, movements, 4)
	ctx := context.Background()

	mov, err := engine.ApplyMovement(ctx, appinventory.MovementInput{
		RecordID: "rec-1", Type: entity.MovementTypeSale, Quantity: d("7"), ActorID: "user-1",
	})
	require.NoError(t, err)
	assert.True(t, mov.NewQuantity.Equal(d("3")), "10 - 7 = 3")

	_, err = engine.ApplyMovement(ctx, appinventory.MovementInput{
		RecordID: "rec-1", Type: entity.MovementTypeSale, Quantity: d("5"), ActorID: "user-1",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, records.quantity("rec-1").Equal(d("3")), "la venta rechazada no cambia nada")

	_, err = engine.ApplyMovement(ctx, appinventory.MovementInput{
		RecordID: "rec-1", Type: entity.MovementTypePurchase, Quantity: d("20"), ActorID: "user-1",
	})
	require.NoError(t, err)
	assert.True(t, records.quantity("rec-1").Equal(d("23")))
	assert.NotNil(t, records.lastRestocked("rec-1"), "la compra actualiza last_restocked")

	mov, err = engine.ApplyMovement(ctx, appinventory.MovementInput{
		RecordID: "rec-1", Type: entity.MovementTypeAdjustment, Quantity: d("8"), ActorID: "user-1",
	})
	require.NoError(t, err)
	assert.True(t, mov.QuantityDelta.Equal(d("-15")))
	assert.True(t, mov.NewQuantity.Equal(d("8")), "el movimiento reporta la cantidad resultante")

	// Invariante: cantidad actual = inicial + Σ deltas del ledger, en orden.
	ledger := movements.all()
	require.Len(t, ledger, 3, "la venta rechazada no deja entrada")
	sum := d("10")
	for _, m := range ledger {
		assert.True(t, m.NewQuantity.Equal(m.PreviousQuantity.Add(m.QuantityDelta)))
		sum = sum.Add(m.QuantityDelta)
	}
	assert.True(t, records.quantity("rec-1").Equal(sum),
		"cantidad final %s vs suma del ledger %s", records.quantity("rec-1"), sum)
}

func TestApplyMovement_EntradaInvalida(t *testing.T) {
	records := newFakeRecordRepo(testRecord("10"))
	movements := &fakeMovementRepo{}
	engine := newEngine(records, movements, 4)

	_, err := engine.ApplyMovement(context.Background(), appinventory.MovementInput{
		RecordID: "", Type: entity.MovementTypeSale, Quantity: d("1"), ActorID: "user-1",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = engine.ApplyMovement(context.Background(), appinventory.MovementInput{
		RecordID: "rec-1", Type: entity.MovementTypeSale, Quantity: d("1"), ActorID: "",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = engine.ApplyMovement(context.Background(), appinventory.MovementInput{
		RecordID: "no-existe", Type: entity.MovementTypeSale, Quantity: d("1"), ActorID: "user-1",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApplyMovement_ConcurrenciaSobreElMismoRegistro(t *testing.T) {
	const workers = 20
	records := newFakeRecordRepo(testRecord("0"))
	movements := &fakeMovementRepo{}
	engine := newEngine(records, movements, 100)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := engine.ApplyMovement(context.Background(), appinventory.MovementInput{
				RecordID: "rec-1",
				Type:     entity.MovementTypePurchase,
				Quantity: d("1"),
				ActorID:  "user-1",
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.True(t, records.quantity("rec-1").Equal(decimal.NewFromInt(workers)),
		"cada compra concurrente debe aplicarse exactamente una vez")

	ledger := movements.all()
	require.Len(t, ledger, workers)
	seen := make(map[string]bool, workers)
	for _, m := range ledger {
		key := m.PreviousQuantity.String()
		assert.False(t, seen[key], "dos entradas no pueden partir de la misma cantidad previa %s", key)
		seen[key] = true
		assert.True(t, m.NewQuantity.Equal(m.PreviousQuantity.Add(m.QuantityDelta)))
	}
}

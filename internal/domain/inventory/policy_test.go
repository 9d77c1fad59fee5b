package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piccolaroma/cadena-api/internal/domain"
	"github.com/piccolaroma/cadena-api/internal/domain/entity"
	"github.com/piccolaroma/cadena-api/internal/domain/inventory"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestApply_PoliticaPorTipo(t *testing.T) {
	cases := []struct {
		name     string
		movType  string
		previous string
		quantity string
		wantNew  string
		wantDlt  string
		wantErr  error
	}{
		{"venta descuenta", entity.MovementTypeSale, "10", "7", "3", "-7", nil},
		{"venta sin stock suficiente", entity.MovementTypeSale, "3", "5", "", "", domain.ErrInsufficientStock},
		{"compra repone", entity.MovementTypePurchase, "3", "20", "23", "20", nil},
		{"devolución suma", entity.MovementTypeReturn, "5", "2", "7", "2", nil},
		{"merma descuenta", entity.MovementTypeWaste, "4", "1.5", "2.5", "-1.5", nil},
		{"traslado descuenta", entity.MovementTypeTransfer, "10", "10", "0", "-10", nil},
		{"traslado sin stock", entity.MovementTypeTransfer, "9", "10", "", "", domain.ErrInsufficientStock},
		{"ajuste fija objetivo hacia abajo", entity.MovementTypeAdjustment, "23", "8", "8", "-15", nil},
		{"ajuste fija objetivo hacia arriba", entity.MovementTypeAdjustment, "8", "12", "12", "4", nil},
		{"ajuste a cero permitido", entity.MovementTypeAdjustment, "5", "0", "0", "-5", nil},
		{"ajuste negativo rechazado", entity.MovementTypeAdjustment, "5", "-1", "", "", domain.ErrInvalidInput},
		{"venta con cantidad cero rechazada", entity.MovementTypeSale, "10", "0", "", "", domain.ErrInvalidInput},
		{"compra con cantidad negativa rechazada", entity.MovementTypePurchase, "10", "-3", "", "", domain.ErrInvalidInput},
		{"tipo desconocido", "donation", "10", "1", "", "", domain.ErrInvalidMovementType},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			newQty, delta, err := inventory.Apply(tc.movType, d(tc.previous), d(tc.quantity))
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, newQty.Equal(d(tc.wantNew)),
				"cantidad resultante: esperada %s, obtenida %s", tc.wantNew, newQty)
			assert.True(t, delta.Equal(d(tc.wantDlt)),
				"delta: esperado %s, obtenido %s", tc.wantDlt, delta)
			// newQuantity = previous + delta siempre
			assert.True(t, d(tc.previous).Add(delta).Equal(newQty))
		})
	}
}

func TestApply_NuncaDevuelveNegativo(t *testing.T) {
	for _, movType := range []string{
		entity.MovementTypeSale, entity.MovementTypeWaste, entity.MovementTypeTransfer,
	} {
		_, _, err := inventory.Apply(movType, d("0"), d("0.01"))
		assert.ErrorIs(t, err, domain.ErrInsufficientStock, "tipo %s debe rechazar saldo negativo", movType)
	}
}

func TestIsRestock_SoloCompra(t *testing.T) {
	assert.True(t, inventory.IsRestock(entity.MovementTypePurchase))
	for _, movType := range []string{
		entity.MovementTypeSale, entity.MovementTypeTransfer, entity.MovementTypeAdjustment,
		entity.MovementTypeWaste, entity.MovementTypeReturn,
	} {
		assert.False(t, inventory.IsRestock(movType), "tipo %s no debe tocar last_restocked", movType)
	}
}

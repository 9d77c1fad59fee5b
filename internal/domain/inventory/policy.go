package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/piccolaroma/cadena-api/internal/domain"
	"github.com/piccolaroma/cadena-api/internal/domain/entity"
)

// Apply aplica la política de un tipo de movimiento sobre la cantidad previa
// y devuelve la cantidad resultante y el delta con signo (servicio de dominio).
//
//	purchase, return   → previa + |quantity|
//	sale, waste, transfer → previa − |quantity|
//	adjustment         → quantity es el objetivo absoluto; delta = objetivo − previa
//
// quantity debe ser magnitud > 0, salvo adjustment donde es el objetivo >= 0.
// Devuelve ErrInsufficientStock si el resultado sería negativo.
func Apply(movementType string, previous, quantity decimal.Decimal) (newQuantity, delta decimal.Decimal, err error) {
	switch movementType {
	case entity.MovementTypePurchase, entity.MovementTypeReturn:
		if !quantity.GreaterThan(decimal.Zero) {
			return decimal.Zero, decimal.Zero, domain.ErrInvalidInput
		}
		delta = quantity
	case entity.MovementTypeSale, entity.MovementTypeWaste, entity.MovementTypeTransfer:
		if !quantity.GreaterThan(decimal.Zero) {
			return decimal.Zero, decimal.Zero, domain.ErrInvalidInput
		}
		delta = quantity.Neg()
	case entity.MovementTypeAdjustment:
		if quantity.LessThan(decimal.Zero) {
			return decimal.Zero, decimal.Zero, domain.ErrInvalidInput
		}
		delta = quantity.Sub(previous)
	default:
		return decimal.Zero, decimal.Zero, domain.ErrInvalidMovementType
	}

	newQuantity = previous.Add(delta)
	if newQuantity.LessThan(decimal.Zero) {
		return decimal.Zero, decimal.Zero, domain.ErrInsufficientStock
	}
	return newQuantity, delta, nil
}

// IsRestock indica si el tipo de movimiento actualiza LastRestocked.
func IsRestock(movementType string) bool {
	return movementType == entity.MovementTypePurchase
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MenuItem representa un ítem del menú (producto vendible en todas las sucursales).
type MenuItem struct {
	ID          string
	Name        string
	Description string
	Category    string // pizza, bebida, postre, entrada...
	Price       decimal.Decimal
	Available   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

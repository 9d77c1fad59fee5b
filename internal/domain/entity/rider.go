package entity

import "time"

// Estados de un repartidor.
const (
	RiderStatusAvailable  = "available"
	RiderStatusOnDelivery = "on_delivery"
	RiderStatusInactive   = "inactive"
)

// Rider representa un repartidor adscrito a una sucursal.
type Rider struct {
	ID        string
	BranchID  string
	Name      string
	Phone     string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

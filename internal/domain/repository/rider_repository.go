package repository

import "github.com/piccolaroma/cadena-api/internal/domain/entity"

// RiderRepository define el puerto de persistencia para repartidores.
type RiderRepository interface {
	Create(rider *entity.Rider) error
	GetByID(id string) (*entity.Rider, error)
	ListByBranch(branchID string, limit, offset int) ([]*entity.Rider, error)
	Update(rider *entity.Rider) error
}

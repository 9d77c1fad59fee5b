package repository

import "github.com/piccolaroma/cadena-api/internal/domain/entity"

// MenuItemRepository define el puerto de persistencia para ítems del menú.
type MenuItemRepository interface {
	Create(item *entity.MenuItem) error
	GetByID(id string) (*entity.MenuItem, error)
	List(category string, limit, offset int) ([]*entity.MenuItem, error)
	Update(item *entity.MenuItem) error
	Delete(id string) error
}

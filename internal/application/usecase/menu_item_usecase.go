package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/piccolaroma/cadena-api/internal/application/dto"
	"github.com/piccolaroma/cadena-api/internal/domain"
	"github.com/piccolaroma/cadena-api/internal/domain/entity"
	"github.com/piccolaroma/cadena-api/internal/domain/repository"
)

// MenuItemUseCase casos de uso CRUD para el menú de la cadena.
type MenuItemUseCase struct {
	repo repository.MenuItemRepository
}

// NewMenuItemUseCase construye el caso de uso.
func NewMenuItemUseCase(repo repository.MenuItemRepository) *MenuItemUseCase {
	return &MenuItemUseCase{repo: repo}
}

// Create crea un ítem del menú, disponible por defecto.
func (uc *MenuItemUseCase) Create(in dto.CreateMenuItemRequest) (*dto.MenuItemResponse, error) {
	if in.Name == "" || in.Category == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Price.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	item := &entity.MenuItem{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Price:       in.Price,
		Available:   true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(item); err != nil {
		return nil, err
	}
	return toMenuItemResponse(item), nil
}

// GetByID obtiene un ítem del menú por ID.
func (uc *MenuItemUseCase) GetByID(id string) (*dto.MenuItemResponse, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	return toMenuItemResponse(item), nil
}

// Update actualiza un ítem del menú. Marcarlo no disponible lo saca de los
// pedidos nuevos sin afectar los existentes.
func (uc *MenuItemUseCase) Update(id string, in dto.UpdateMenuItemRequest) (*dto.MenuItemResponse, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	if in.Name != nil {
		item.Name = *in.Name
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.Category != nil {
		item.Category = *in.Category
	}
	if in.Price != nil {
		if in.Price.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		item.Price = *in.Price
	}
	if in.Available != nil {
		item.Available = *in.Available
	}
	item.UpdatedAt = time.Now()
	if err := uc.repo.Update(item); err != nil {
		return nil, err
	}
	return toMenuItemResponse(item), nil
}

// List lista ítems del menú con filtro opcional por categoría.
func (uc *MenuItemUseCase) List(category string, limit, offset int) (*dto.MenuItemListResponse, error) {
	list, err := uc.repo.List(category, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MenuItemResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMenuItemResponse(m))
	}
	return &dto.MenuItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina un ítem del menú por ID.
func (uc *MenuItemUseCase) Delete(id string) error {
	return uc.repo.Delete(id)
}

func toMenuItemResponse(m *entity.MenuItem) *dto.MenuItemResponse {
	if m == nil {
		return nil
	}
	return &dto.MenuItemResponse{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Category:    m.Category,
		Price:       m.Price,
		Available:   m.Available,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

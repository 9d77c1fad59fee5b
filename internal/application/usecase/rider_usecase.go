package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/piccolaroma/cadena-api/internal/application/dto"
	"github.com/piccolaroma/cadena-api/internal/domain"
	"github.com/piccolaroma/cadena-api/internal/domain/entity"
	"github.com/piccolaroma/cadena-api/internal/domain/repository"
)

// RiderUseCase casos de uso CRUD para repartidores.
type RiderUseCase struct {
	repo       repository.RiderRepository
	branchRepo repository.BranchRepository
}

// NewRiderUseCase construye el caso de uso.
func NewRiderUseCase(repo repository.RiderRepository, branchRepo repository.BranchRepository) *RiderUseCase {
	return &RiderUseCase{repo: repo, branchRepo: branchRepo}
}

// Create registra un repartidor adscrito a una sucursal existente.
func (uc *RiderUseCase) Create(in dto.CreateRiderRequest) (*dto.RiderResponse, error) {
	if in.BranchID == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	branch, err := uc.branchRepo.GetByID(in.BranchID)
	if err != nil || branch == nil {
		return nil, domain.ErrNotFound
	}
	now := time.Now()
	rider := &entity.Rider{
		ID:        uuid.New().String(),
		BranchID:  in.BranchID,
		Name:      in.Name,
		Phone:     in.Phone,
		Status:    entity.RiderStatusAvailable,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(rider); err != nil {
		return nil, err
	}
	return toRiderResponse(rider), nil
}

// GetByID obtiene un repartidor por ID.
func (uc *RiderUseCase) GetByID(id string) (*dto.RiderResponse, error) {
	rider, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if rider == nil {
		return nil, nil
	}
	return toRiderResponse(rider), nil
}

// Update actualiza datos y estado de un repartidor.
func (uc *RiderUseCase) Update(id string, in dto.UpdateRiderRequest) (*dto.RiderResponse, error) {
	rider, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if rider == nil {
		return nil, nil
	}
	if in.Name != nil {
		rider.Name = *in.Name
	}
	if in.Phone != nil {
		rider.Phone = *in.Phone
	}
	if in.Status != nil {
		switch *in.Status {
		case entity.RiderStatusAvailable, entity.RiderStatusOnDelivery, entity.RiderStatusInactive:
			rider.Status = *in.Status
		default:
			return nil, domain.ErrInvalidInput
		}
	}
	rider.UpdatedAt = time.Now()
	if err := uc.repo.Update(rider); err != nil {
		return nil, err
	}
	return toRiderResponse(rider), nil
}

// ListByBranch lista repartidores de una sucursal con paginación.
func (uc *RiderUseCase) ListByBranch(branchID string, limit, offset int) (*dto.RiderListResponse, error) {
	list, err := uc.repo.ListByBranch(branchID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.RiderResponse, 0, len(list))
	for _, r := range list {
		items = append(items, *toRiderResponse(r))
	}
	return &dto.RiderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toRiderResponse(r *entity.Rider) *dto.RiderResponse {
	if r == nil {
		return nil
	}
	return &dto.RiderResponse{
		ID:        r.ID,
		BranchID:  r.BranchID,
		Name:      r.Name,
		Phone:     r.Phone,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/piccolaroma/cadena-api/internal/domain/entity"
	"github.com/piccolaroma/cadena-api/internal/domain/repository"
)

var _ repository.RiderRepository = (*RiderRepo)(nil)

// RiderRepo implementación del puerto RiderRepository sobre PostgreSQL.
type RiderRepo struct {
	pool *pgxpool.Pool
}

// NewRiderRepository construye el adaptador de persistencia para repartidores.
func NewRiderRepository(pool *pgxpool.Pool) *RiderRepo {
	return &RiderRepo{pool: pool}
}

// Create persiste un repartidor.
func (r *RiderRepo) Create(rider *entity.Rider) error {
	query := `
		INSERT INTO riders (id, branch_id, name, phone, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.pool.Exec(context.Background(), query,
		rider.ID, rider.BranchID, rider.Name, rider.Phone, rider.Status,
		rider.CreatedAt, rider.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert rider: %w", err)
	}
	return nil
}

// GetByID obtiene un repartidor por ID.
func (r *RiderRepo) GetByID(id string) (*entity.Rider, error) {
	query := `
		SELECT id, branch_id, name, phone, status, created_at, updated_at
		FROM riders WHERE id = $1`
	var rd entity.Rider
	err := r.pool.QueryRow(context.Background(), query, id).Scan(
		&rd.ID, &rd.BranchID, &rd.Name, &rd.Phone, &rd.Status, &rd.CreatedAt, &rd.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get rider: %w", err)
	}
	return &rd, nil
}

// ListByBranch lista repartidores de una sucursal con paginación.
func (r *RiderRepo) ListByBranch(branchID string, limit, offset int) ([]*entity.Rider, error) {
	query := `
		SELECT id, branch_id, name, phone, status, created_at, updated_at
		FROM riders WHERE branch_id = $1 ORDER BY name ASC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(context.Background(), query, branchID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list riders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Rider
	for rows.Next() {
		var rd entity.Rider
		if err := rows.Scan(&rd.ID, &rd.BranchID, &rd.Name, &rd.Phone, &rd.Status, &rd.CreatedAt, &rd.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan rider: %w", err)
		}
		list = append(list, &rd)
	}
	return list, rows.Err()
}

// Update actualiza un repartidor existente.
func (r *RiderRepo) Update(rider *entity.Rider) error {
	query := `
		UPDATE riders SET name = $2, phone = $3, status = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.pool.Exec(context.Background(), query,
		rider.ID, rider.Name, rider.Phone, rider.Status, rider.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update rider: %w", err)
	}
	return nil
}

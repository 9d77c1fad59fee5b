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

var _ repository.MenuItemRepository = (*MenuItemRepo)(nil)

// MenuItemRepo implementación del puerto MenuItemRepository sobre PostgreSQL.
type MenuItemRepo struct {
	pool *pgxpool.Pool
}

// NewMenuItemRepository construye el adaptador de persistencia para el menú.
func NewMenuItemRepository(pool *pgxpool.Pool) *MenuItemRepo {
	return &MenuItemRepo{pool: pool}
}

// Create persiste un ítem del menú.
func (r *MenuItemRepo) Create(item *entity.MenuItem) error {
	query := `
		INSERT INTO menu_items (id, name, description, category, price, available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.pool.Exec(context.Background(), query,
		item.ID, item.Name, item.Description, item.Category, item.Price,
		item.Available, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert menu item: %w", err)
	}
	return nil
}

// GetByID obtiene un ítem del menú por ID.
func (r *MenuItemRepo) GetByID(id string) (*entity.MenuItem, error) {
	query := `
		SELECT id, name, description, category, price, available, created_at, updated_at
		FROM menu_items WHERE id = $1`
	var m entity.MenuItem
	err := r.pool.QueryRow(context.Background(), query, id).Scan(
		&m.ID, &m.Name, &m.Description, &m.Category, &m.Price, &m.Available,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get menu item: %w", err)
	}
	return &m, nil
}

// List lista ítems del menú, con filtro opcional por categoría.
func (r *MenuItemRepo) List(category string, limit, offset int) ([]*entity.MenuItem, error) {
	query := `
		SELECT id, name, description, category, price, available, created_at, updated_at
		FROM menu_items`
	args := []any{}
	pos := 1
	if category != "" {
		query += fmt.Sprintf(" WHERE category = $%d", pos)
		args = append(args, category)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY name ASC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	defer rows.Close()
	var list []*entity.MenuItem
	for rows.Next() {
		var m entity.MenuItem
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.Category, &m.Price,
			&m.Available, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// Update actualiza un ítem del menú.
func (r *MenuItemRepo) Update(item *entity.MenuItem) error {
	query := `
		UPDATE menu_items SET name = $2, description = $3, category = $4, price = $5, available = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.pool.Exec(context.Background(), query,
		item.ID, item.Name, item.Description, item.Category, item.Price,
		item.Available, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update menu item: %w", err)
	}
	return nil
}

// Delete elimina un ítem del menú por ID.
func (r *MenuItemRepo) Delete(id string) error {
	_, err := r.pool.Exec(context.Background(), `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete menu item: %w", err)
	}
	return nil
}

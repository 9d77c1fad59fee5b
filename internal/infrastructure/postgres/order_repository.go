package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/piccolaroma/cadena-api/internal/domain"
	"github.com/piccolaroma/cadena-api/internal/domain/entity"
	"github.com/piccolaroma/cadena-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `id, branch_id, customer_name, customer_phone, delivery_address, status, total, assigned_rider_id, stock_consumed_at, created_at, updated_at`

// OrderRepo implementación de OrderRepository sobre PostgreSQL (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create inserta el pedido y sus líneas. Llamar dentro de una transacción para
// que queden como una unidad.
func (r *OrderRepo) Create(ctx context.Context, order *entity.Order) error {
	query := `
		INSERT INTO orders (id, branch_id, customer_name, customer_phone, delivery_address, status, total, assigned_rider_id, stock_consumed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	riderID := (*string)(nil)
	if order.AssignedRiderID != "" {
		riderID = &order.AssignedRiderID
	}
	_, err := r.q.Exec(ctx, query,
		order.ID, order.BranchID, order.CustomerName, order.CustomerPhone,
		order.DeliveryAddress, order.Status, order.Total, riderID,
		order.StockConsumedAt, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	for _, item := range order.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO order_items (id, order_id, item_id, name, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			item.ID, item.OrderID, item.ItemID, item.Name, item.Quantity, item.UnitPrice,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

// GetByID devuelve el pedido con sus líneas, o nil si no existe.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders WHERE id = $1`
	var o entity.Order
	if err := scanOrder(r.q.QueryRow(ctx, query, id), &o); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	items, err := r.listItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

// ListByBranch lista pedidos de una sucursal, más reciente primero;
// status vacío = todos. Incluye las líneas de cada pedido.
func (r *OrderRepo) ListByBranch(ctx context.Context, branchID, status string, limit, offset int) ([]*entity.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders WHERE branch_id = $1`
	args := []any{branchID}
	pos := 2
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		var o entity.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, o := range list {
		items, err := r.listItems(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		o.Items = items
	}
	return list, nil
}

// UpdateStatus cambia el estado solo si el almacenado sigue siendo fromStatus.
// Cero filas afectadas: relectura para distinguir ErrNotFound de ErrConflict.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id, fromStatus, toStatus string) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE orders SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2`,
		id, fromStatus, toStatus,
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		var exists bool
		if err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("check order: %w", err)
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrConflict
	}
	return nil
}

// MarkStockConsumed fija la marca de consumo de stock del pedido.
func (r *OrderRepo) MarkStockConsumed(ctx context.Context, id string, at time.Time) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE orders SET stock_consumed_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("mark stock consumed: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ClearStockConsumed limpia la marca de consumo (cancelación ya compensada).
func (r *OrderRepo) ClearStockConsumed(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE orders SET stock_consumed_at = NULL WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("clear stock consumed: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AssignRider asigna un repartidor al pedido.
func (r *OrderRepo) AssignRider(ctx context.Context, id, riderID string) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE orders SET assigned_rider_id = $2, updated_at = now() WHERE id = $1`,
		id, riderID)
	if err != nil {
		return fmt.Errorf("assign rider: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OrderRepo) listItems(ctx context.Context, orderID string) ([]entity.OrderItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, item_id, name, quantity, unit_price
		FROM order_items WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	var items []entity.OrderItem
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ItemID, &it.Name, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func scanOrder(row pgx.Row, o *entity.Order) error {
	var riderID *string
	if err := row.Scan(
		&o.ID, &o.BranchID, &o.CustomerName, &o.CustomerPhone, &o.DeliveryAddress,
		&o.Status, &o.Total, &riderID, &o.StockConsumedAt, &o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return err
	}
	if riderID != nil {
		o.AssignedRiderID = *riderID
	}
	return nil
}

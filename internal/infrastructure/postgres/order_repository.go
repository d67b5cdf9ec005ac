package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación del puerto OrderRepository sobre PostgreSQL.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `id, company_id, type, order_no, counterparty_id, warehouse_id,
	reserved, created_by, created_at, updated_at`

const orderLineColumns = `id, order_id, product_id, quantity, unit_price, discount_rate,
	amount, fulfilled_quantity, reserved_quantity, status`

// Create persiste el pedido con todas sus líneas.
func (r *OrderRepo) Create(order *entity.Order, lines []*entity.OrderLine) error {
	ctx := context.Background()
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		order.ID, order.CompanyID, order.Type, order.OrderNo, order.CounterpartyID,
		order.WarehouseID, order.Reserved, order.CreatedBy, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert order: %w", err)
	}
	lineQuery := `
		INSERT INTO order_lines (` + orderLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	for _, l := range lines {
		if _, err := r.q.Exec(ctx, lineQuery,
			l.ID, l.OrderID, l.ProductID, l.Quantity, l.UnitPrice, l.DiscountRate,
			l.Amount, l.FulfilledQuantity, l.ReservedQuantity, l.Status,
		); err != nil {
			return fmt.Errorf("insert order line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene un pedido por ID. Devuelve nil si no existe.
func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	var o entity.Order
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&o.ID, &o.CompanyID, &o.Type, &o.OrderNo, &o.CounterpartyID,
		&o.WarehouseID, &o.Reserved, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &o, nil
}

// GetLines devuelve las líneas del pedido en orden de inserción.
func (r *OrderRepo) GetLines(orderID string) ([]*entity.OrderLine, error) {
	query := `
		SELECT ` + orderLineColumns + `
		FROM order_lines WHERE order_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order lines: %w", err)
	}
	defer rows.Close()

	var out []*entity.OrderLine
	for rows.Next() {
		var l entity.OrderLine
		if err := rows.Scan(
			&l.ID, &l.OrderID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.DiscountRate,
			&l.Amount, &l.FulfilledQuantity, &l.ReservedQuantity, &l.Status,
		); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}

// GetLine obtiene una línea de pedido. Devuelve nil si no existe.
func (r *OrderRepo) GetLine(lineID string) (*entity.OrderLine, error) {
	query := `SELECT ` + orderLineColumns + ` FROM order_lines WHERE id = $1`
	var l entity.OrderLine
	err := r.q.QueryRow(context.Background(), query, lineID).Scan(
		&l.ID, &l.OrderID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.DiscountRate,
		&l.Amount, &l.FulfilledQuantity, &l.ReservedQuantity, &l.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order line: %w", err)
	}
	return &l, nil
}

// UpdateLine actualiza cumplimiento, reserva y estado de la línea.
func (r *OrderRepo) UpdateLine(line *entity.OrderLine) error {
	query := `
		UPDATE order_lines
		SET fulfilled_quantity = $2, reserved_quantity = $3, status = $4
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		line.ID, line.FulfilledQuantity, line.ReservedQuantity, line.Status,
	)
	if err != nil {
		return fmt.Errorf("update order line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByCompany devuelve pedidos de la empresa, más recientes primero.
func (r *OrderRepo) ListByCompany(companyID, orderType string, limit, offset int) ([]*entity.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders WHERE company_id = $1 AND ($2 = '' OR type = $2)
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, companyID, orderType, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var out []*entity.Order
	for rows.Next() {
		var o entity.Order
		if err := rows.Scan(
			&o.ID, &o.CompanyID, &o.Type, &o.OrderNo, &o.CounterpartyID,
			&o.WarehouseID, &o.Reserved, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, &o)
	}
	return out, rows.Err()
}

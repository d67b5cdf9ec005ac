package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.BalanceRepository = (*BalanceRepo)(nil)

// BalanceRepo implementación del puerto BalanceRepository sobre PostgreSQL
// (usable con pool o tx). Las escrituras siempre llegan vía TxRunner.
type BalanceRepo struct {
	q Querier
}

// NewBalanceRepository construye el adaptador de saldos. Pasar pool o tx (Querier).
func NewBalanceRepository(q Querier) *BalanceRepo {
	return &BalanceRepo{q: q}
}

const balanceColumns = `company_id, product_id, warehouse_id, current_stock, reserved_stock,
	available_stock, avg_cost, min_stock, max_stock, last_in_at, last_out_at, updated_at`

// Get obtiene el saldo de un producto en una bodega. Devuelve nil si no existe.
func (r *BalanceRepo) Get(productID, warehouseID string) (*entity.StockBalance, error) {
	query := `
		SELECT ` + balanceColumns + `
		FROM stock_balances WHERE product_id = $1 AND warehouse_id = $2`
	return r.scanOne(query, productID, warehouseID)
}

// GetForUpdate obtiene el saldo y bloquea la fila (SELECT FOR UPDATE).
// Devuelve nil si aún no existe: el motor lo crea perezosamente y el índice
// único product_id+warehouse_id resuelve la carrera de creación concurrente.
func (r *BalanceRepo) GetForUpdate(productID, warehouseID string) (*entity.StockBalance, error) {
	query := `
		SELECT ` + balanceColumns + `
		FROM stock_balances WHERE product_id = $1 AND warehouse_id = $2
		FOR UPDATE`
	return r.scanOne(query, productID, warehouseID)
}

// Upsert inserta o actualiza el saldo por producto+bodega.
func (r *BalanceRepo) Upsert(balance *entity.StockBalance) error {
	query := `
		INSERT INTO stock_balances (` + balanceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (product_id, warehouse_id) DO UPDATE SET
			current_stock = EXCLUDED.current_stock,
			reserved_stock = EXCLUDED.reserved_stock,
			available_stock = EXCLUDED.available_stock,
			avg_cost = EXCLUDED.avg_cost,
			min_stock = EXCLUDED.min_stock,
			max_stock = EXCLUDED.max_stock,
			last_in_at = EXCLUDED.last_in_at,
			last_out_at = EXCLUDED.last_out_at,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(context.Background(), query,
		balance.CompanyID, balance.ProductID, balance.WarehouseID,
		balance.CurrentStock, balance.ReservedStock, balance.AvailableStock,
		balance.AvgCost, balance.MinStock, balance.MaxStock,
		balance.LastInAt, balance.LastOutAt, balance.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert balance: %w", err)
	}
	return nil
}

// ListByCompany devuelve todos los saldos de la empresa.
func (r *BalanceRepo) ListByCompany(companyID string) ([]*entity.StockBalance, error) {
	query := `
		SELECT ` + balanceColumns + `
		FROM stock_balances WHERE company_id = $1
		ORDER BY product_id, warehouse_id`
	rows, err := r.q.Query(context.Background(), query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockBalance
	for rows.Next() {
		var b entity.StockBalance
		if err := rows.Scan(
			&b.CompanyID, &b.ProductID, &b.WarehouseID,
			&b.CurrentStock, &b.ReservedStock, &b.AvailableStock,
			&b.AvgCost, &b.MinStock, &b.MaxStock,
			&b.LastInAt, &b.LastOutAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		out = append(out, &b)
	}
	return out, rows.Err()
}

func (r *BalanceRepo) scanOne(query string, args ...any) (*entity.StockBalance, error) {
	var b entity.StockBalance
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&b.CompanyID, &b.ProductID, &b.WarehouseID,
		&b.CurrentStock, &b.ReservedStock, &b.AvailableStock,
		&b.AvgCost, &b.MinStock, &b.MaxStock,
		&b.LastInAt, &b.LastOutAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get balance: %w", err)
	}
	return &b, nil
}

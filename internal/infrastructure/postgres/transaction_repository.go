package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo implementación del libro de kardex sobre PostgreSQL.
// La tabla es append-only: solo INSERT y SELECT.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

const transactionColumns = `id, company_id, transaction_no, product_id, warehouse_id, type,
	quantity, unit_price, total_amount, reference_type, reference_id, operator, created_at`

// Append inserta una transacción inmutable en el libro.
func (r *TransactionRepo) Append(tx *entity.StockTransaction) error {
	query := `
		INSERT INTO stock_transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		tx.ID, tx.CompanyID, tx.TransactionNo, tx.ProductID, tx.WarehouseID, tx.Type,
		tx.Quantity, tx.UnitPrice, tx.TotalAmount, tx.ReferenceType, tx.ReferenceID,
		tx.Operator, tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append transaction: %w", err)
	}
	return nil
}

// GetByID obtiene una transacción por ID. Devuelve nil si no existe.
func (r *TransactionRepo) GetByID(id string) (*entity.StockTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM stock_transactions WHERE id = $1`
	var tx entity.StockTransaction
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&tx.ID, &tx.CompanyID, &tx.TransactionNo, &tx.ProductID, &tx.WarehouseID, &tx.Type,
		&tx.Quantity, &tx.UnitPrice, &tx.TotalAmount, &tx.ReferenceType, &tx.ReferenceID,
		&tx.Operator, &tx.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return &tx, nil
}

// List devuelve transacciones filtradas, más recientes primero.
func (r *TransactionRepo) List(filter repository.TransactionFilter) ([]*entity.StockTransaction, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + transactionColumns + ` FROM stock_transactions WHERE company_id = $1`)
	args := []any{filter.CompanyID}

	addArg := func(clause string, value any) {
		args = append(args, value)
		sb.WriteString(" AND " + clause + " $" + strconv.Itoa(len(args)))
	}
	if filter.ProductID != "" {
		addArg("product_id =", filter.ProductID)
	}
	if filter.WarehouseID != "" {
		addArg("warehouse_id =", filter.WarehouseID)
	}
	if filter.Type != "" {
		addArg("type =", filter.Type)
	}
	if filter.From != nil {
		addArg("created_at >=", *filter.From)
	}
	if filter.To != nil {
		addArg("created_at <=", *filter.To)
	}
	sb.WriteString(" ORDER BY created_at DESC, transaction_no DESC")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		sb.WriteString(" LIMIT $" + strconv.Itoa(len(args)))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		sb.WriteString(" OFFSET $" + strconv.Itoa(len(args)))
	}

	rows, err := r.q.Query(context.Background(), sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockTransaction
	for rows.Next() {
		var tx entity.StockTransaction
		if err := rows.Scan(
			&tx.ID, &tx.CompanyID, &tx.TransactionNo, &tx.ProductID, &tx.WarehouseID, &tx.Type,
			&tx.Quantity, &tx.UnitPrice, &tx.TotalAmount, &tx.ReferenceType, &tx.ReferenceID,
			&tx.Operator, &tx.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, &tx)
	}
	return out, rows.Err()
}

// SumQuantity suma Quantity del producto+bodega: debe reproducir CurrentStock.
func (r *TransactionRepo) SumQuantity(productID, warehouseID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM stock_transactions WHERE product_id = $1 AND warehouse_id = $2`
	var total decimal.Decimal
	err := r.q.QueryRow(context.Background(), query, productID, warehouseID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum transactions: %w", err)
	}
	return total, nil
}

package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// TransactionFilter filtros opcionales para listar transacciones de kardex.
type TransactionFilter struct {
	CompanyID   string
	ProductID   string // vacío = todos
	WarehouseID string // vacío = todas
	Type        string // IN | OUT | ADJUST | vacío
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

// TransactionRepository define el puerto del libro de kardex (append-only).
// No existe Update ni Delete: las transacciones son inmutables.
type TransactionRepository interface {
	Append(tx *entity.StockTransaction) error
	GetByID(id string) (*entity.StockTransaction, error)
	List(filter TransactionFilter) ([]*entity.StockTransaction, error)
	// SumQuantity suma Quantity de todas las transacciones de un producto+bodega.
	// Debe reproducir CurrentStock del saldo (verificación de consistencia).
	SumQuantity(productID, warehouseID string) (decimal.Decimal, error)
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockInRequest body para POST /api/kardex/in.
type StockInRequest struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Reference   string          `json:"reference,omitempty"`
}

// StockOutRequest body para POST /api/kardex/out.
type StockOutRequest struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Reference   string          `json:"reference,omitempty"`
}

// StockAdjustRequest body para POST /api/kardex/adjust.
// NewQuantity es la cantidad ABSOLUTA a la que debe quedar el saldo.
type StockAdjustRequest struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	NewQuantity decimal.Decimal `json:"new_quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// ReserveRequest body para POST /api/kardex/reserve y /api/kardex/release.
type ReserveRequest struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// BalanceResponse saldo de kardex de un producto en una bodega.
type BalanceResponse struct {
	ProductID      string          `json:"product_id"`
	WarehouseID    string          `json:"warehouse_id"`
	CurrentStock   decimal.Decimal `json:"current_stock"`
	ReservedStock  decimal.Decimal `json:"reserved_stock"`
	AvailableStock decimal.Decimal `json:"available_stock"`
	AvgCost        decimal.Decimal `json:"avg_cost"`
	MinStock       decimal.Decimal `json:"min_stock"`
	MaxStock       decimal.Decimal `json:"max_stock"`
	LastInAt       *time.Time      `json:"last_in_at,omitempty"`
	LastOutAt      *time.Time      `json:"last_out_at,omitempty"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// TransactionResponse una línea del libro de kardex.
type TransactionResponse struct {
	ID            string          `json:"id"`
	TransactionNo string          `json:"transaction_no"`
	ProductID     string          `json:"product_id"`
	WarehouseID   string          `json:"warehouse_id"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	ReferenceType string          `json:"reference_type,omitempty"`
	ReferenceID   string          `json:"reference_id,omitempty"`
	Operator      string          `json:"operator,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// MovementResponse saldo actualizado + transacción registrada.
type MovementResponse struct {
	Balance     BalanceResponse     `json:"balance"`
	Transaction TransactionResponse `json:"transaction"`
}

// LowStockItemDTO un saldo por debajo de su punto de reorden.
type LowStockItemDTO struct {
	ProductID    string          `json:"product_id"`
	SKU          string          `json:"sku"`
	ProductName  string          `json:"product_name"`
	WarehouseID  string          `json:"warehouse_id"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	MinStock     decimal.Decimal `json:"min_stock"`
}

// TopProductDTO producto rankeado por valor de inventario (stock * costo promedio).
type TopProductDTO struct {
	ProductID   string          `json:"product_id"`
	SKU         string          `json:"sku"`
	ProductName string          `json:"product_name"`
	TotalStock  decimal.Decimal `json:"total_stock"`
	TotalValue  decimal.Decimal `json:"total_value"`
}

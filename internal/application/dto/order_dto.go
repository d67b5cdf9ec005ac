package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLineRequest línea de un pedido nuevo.
type OrderLineRequest struct {
	ProductID    string          `json:"product_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	DiscountRate decimal.Decimal `json:"discount_rate,omitempty"` // 0 a 1
}

// CreateOrderRequest body para POST /api/orders/purchase y /api/orders/sales.
// Reserve solo aplica a pedidos de venta: aparta stock en kardex al crear.
type CreateOrderRequest struct {
	CounterpartyID string             `json:"counterparty_id"`
	WarehouseID    string             `json:"warehouse_id"`
	Reserve        bool               `json:"reserve,omitempty"`
	Lines          []OrderLineRequest `json:"lines"`
}

// OrderLineResponse línea de pedido con su avance de cumplimiento.
type OrderLineResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	Quantity          decimal.Decimal `json:"quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	DiscountRate      decimal.Decimal `json:"discount_rate"`
	Amount            decimal.Decimal `json:"amount"`
	FulfilledQuantity decimal.Decimal `json:"fulfilled_quantity"`
	ReservedQuantity  decimal.Decimal `json:"reserved_quantity"`
	Status            string          `json:"status"`
}

// OrderResponse pedido con sus líneas.
type OrderResponse struct {
	ID             string              `json:"id"`
	CompanyID      string              `json:"company_id"`
	Type           string              `json:"type"`
	OrderNo        string              `json:"order_no"`
	CounterpartyID string              `json:"counterparty_id"`
	WarehouseID    string              `json:"warehouse_id"`
	Reserved       bool                `json:"reserved"`
	Lines          []OrderLineResponse `json:"lines"`
	CreatedAt      time.Time           `json:"created_at"`
}

// OrderListResponse listado paginado de pedidos (sin líneas).
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

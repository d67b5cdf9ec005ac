package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateDocumentRequest body para crear una recepción o un despacho (DRAFT).
type CreateDocumentRequest struct {
	OrderID        string `json:"order_id,omitempty"`
	CounterpartyID string `json:"counterparty_id"`
	WarehouseID    string `json:"warehouse_id"`
	DocumentDate   string `json:"document_date,omitempty"` // YYYY-MM-DD; vacío = hoy
}

// DocumentLineRequest body para agregar/editar una línea de documento.
type DocumentLineRequest struct {
	OrderLineID string          `json:"order_line_id,omitempty"`
	ProductID   string          `json:"product_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// DocumentLineResponse línea de documento.
type DocumentLineResponse struct {
	ID          string          `json:"id"`
	OrderLineID string          `json:"order_line_id,omitempty"`
	ProductID   string          `json:"product_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// DocumentResponse documento de cumplimiento con totales derivados.
type DocumentResponse struct {
	ID             string                 `json:"id"`
	DocumentNo     string                 `json:"document_no"`
	Kind           string                 `json:"kind"`
	OrderID        string                 `json:"order_id,omitempty"`
	CounterpartyID string                 `json:"counterparty_id"`
	WarehouseID    string                 `json:"warehouse_id"`
	DocumentDate   string                 `json:"document_date"`
	Status         string                 `json:"status"`
	Operator       string                 `json:"operator,omitempty"`
	TotalQuantity  decimal.Decimal        `json:"total_quantity"`
	TotalAmount    decimal.Decimal        `json:"total_amount"`
	Lines          []DocumentLineResponse `json:"lines,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// DocumentListResponse listado paginado de documentos (sin líneas).
type DocumentListResponse struct {
	Items []DocumentResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

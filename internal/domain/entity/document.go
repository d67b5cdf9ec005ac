package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Clases de documento de cumplimiento.
const (
	DocumentKindReceipt  = "receipt"  // recepción contra orden de compra → entradas de kardex
	DocumentKindDelivery = "delivery" // despacho contra pedido de venta → salidas de kardex
)

// Estados de un documento de cumplimiento. Las transiciones son de una sola
// vía: DRAFT → CONFIRMED (recepción); DRAFT → SHIPPED → COMPLETED (despacho).
// No existe camino de regreso a DRAFT.
const (
	DocumentStatusDraft     = "DRAFT"
	DocumentStatusConfirmed = "CONFIRMED"
	DocumentStatusShipped   = "SHIPPED"
	DocumentStatusCompleted = "COMPLETED"
)

// FulfillmentDocument es una recepción de compra o un despacho de venta.
// Mientras está en DRAFT se editan sus líneas; al confirmar/despachar se
// aplican sus efectos al kardex y a las líneas del pedido una sola vez.
type FulfillmentDocument struct {
	ID             string
	CompanyID      string
	DocumentNo     string // único: REC-000001 / DES-000001
	Kind           string // receipt | delivery
	OrderID        string
	CounterpartyID string // proveedor o cliente
	WarehouseID    string
	DocumentDate   time.Time
	Status         string
	Operator       string          // quien recibe o despacha
	TotalQuantity  decimal.Decimal // suma de cantidades de las líneas
	TotalAmount    decimal.Decimal // suma de importes de las líneas
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DocumentLine es una línea de un documento de cumplimiento, opcionalmente
// ligada a una línea de pedido concreta.
type DocumentLine struct {
	ID          string
	DocumentID  string
	OrderLineID string // vacío = línea suelta sin pedido
	ProductID   string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Amount      decimal.Decimal // Quantity * UnitPrice
}

// RecomputeTotals recalcula TotalQuantity y TotalAmount desde todas las líneas.
// Debe invocarse después de cada alta, edición o eliminación de línea.
func (d *FulfillmentDocument) RecomputeTotals(lines []*DocumentLine) {
	totalQty := decimal.Zero
	totalAmount := decimal.Zero
	for _, l := range lines {
		totalQty = totalQty.Add(l.Quantity)
		totalAmount = totalAmount.Add(l.Amount)
	}
	d.TotalQuantity = totalQty
	d.TotalAmount = totalAmount
}

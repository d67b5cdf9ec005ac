package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de pedido.
const (
	OrderTypePurchase = "purchase" // orden de compra (se recibe mercancía)
	OrderTypeSales    = "sales"    // pedido de venta (se despacha mercancía)
)

// Estados derivados de una línea de pedido según su cantidad cumplida.
const (
	LineStatusPending   = "PENDING"
	LineStatusPartial   = "PARTIAL"
	LineStatusCompleted = "COMPLETED"
)

// Order es una orden de compra o pedido de venta. Sus líneas se cumplen
// parcialmente mediante documentos de recepción o despacho.
type Order struct {
	ID             string
	CompanyID      string
	Type           string // purchase | sales
	OrderNo        string
	CounterpartyID string // proveedor (compra) o cliente (venta)
	WarehouseID    string
	Reserved       bool // venta: se apartó stock al crear el pedido
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OrderLine es una línea de pedido. FulfilledQuantity es monótona: solo crece
// por recepciones/despachos confirmados, nunca se decrementa.
type OrderLine struct {
	ID                string
	OrderID           string
	ProductID         string
	Quantity          decimal.Decimal // cantidad pedida
	UnitPrice         decimal.Decimal
	DiscountRate      decimal.Decimal // 0 a 1
	Amount            decimal.Decimal // Quantity * UnitPrice * (1 - DiscountRate)
	FulfilledQuantity decimal.Decimal
	ReservedQuantity  decimal.Decimal // venta: lo aún apartado en kardex para esta línea
	Status            string          // PENDING | PARTIAL | COMPLETED
}

// LineAmount calcula el importe de una línea con descuento.
func LineAmount(quantity, unitPrice, discountRate decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice).Mul(decimal.NewFromInt(1).Sub(discountRate))
}

// Outstanding devuelve lo pendiente por cumplir de la línea (puede ser
// negativo si se permitió sobre-cumplimiento).
func (l *OrderLine) Outstanding() decimal.Decimal {
	return l.Quantity.Sub(l.FulfilledQuantity)
}

// RecomputeStatus deriva el estado a partir de la cantidad cumplida.
func (l *OrderLine) RecomputeStatus() {
	switch {
	case l.FulfilledQuantity.GreaterThanOrEqual(l.Quantity):
		l.Status = LineStatusCompleted
	case l.FulfilledQuantity.GreaterThan(decimal.Zero):
		l.Status = LineStatusPartial
	default:
		l.Status = LineStatusPending
	}
}

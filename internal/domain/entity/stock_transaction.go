package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción de kardex.
const (
	TransactionTypeIN     = "IN"     // entrada
	TransactionTypeOUT    = "OUT"    // salida
	TransactionTypeADJUST = "ADJUST" // ajuste a cantidad absoluta
)

// Tipos de documento de referencia para transacciones.
const (
	ReferenceTypeReceipt    = "receipt"    // recepción de compra
	ReferenceTypeDelivery   = "delivery"   // despacho de venta
	ReferenceTypeAdjustment = "adjustment" // ajuste manual
)

// StockTransaction es una línea inmutable del libro de kardex (append-only).
// Quantity va con signo: positiva en IN y ajustes hacia arriba, negativa en
// OUT y ajustes hacia abajo. La suma de Quantity por producto+bodega debe
// reproducir CurrentStock del saldo (propiedad de replay).
type StockTransaction struct {
	ID            string
	CompanyID     string
	TransactionNo string // consecutivo legible por tipo: IN-000001, OUT-000001, ADJ-000001
	ProductID     string
	WarehouseID   string
	Type          string // IN | OUT | ADJUST
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	TotalAmount   decimal.Decimal // Quantity * UnitPrice (conserva el signo)
	ReferenceType string          // receipt | delivery | adjustment | vacío
	ReferenceID   string          // ID del documento origen, si aplica
	Operator      string
	CreatedAt     time.Time
}

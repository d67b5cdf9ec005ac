package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del inventario (multi-bodega).
// MinStock/MaxStock son los umbrales de reorden que el kardex copia al crear
// un saldo nuevo; el saldo puede sobreescribirlos por bodega.
type Product struct {
	ID          string
	CompanyID   string
	SKU         string // código único por empresa
	Name        string
	Description string
	Price       decimal.Decimal // precio de venta
	UnitMeasure string
	MinStock    decimal.Decimal // punto de reorden por defecto
	MaxStock    decimal.Decimal // tope sugerido de stock
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

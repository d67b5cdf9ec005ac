package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockBalance es el saldo de kardex de un producto en una bodega (fila única
// por producto+bodega). Se crea perezosamente en cero con el primer movimiento
// y nunca se elimina; solo el motor de kardex lo muta.
//
// Invariante: AvailableStock + ReservedStock == CurrentStock en todo momento.
type StockBalance struct {
	CompanyID      string
	ProductID      string
	WarehouseID    string
	CurrentStock   decimal.Decimal // cantidad total en la bodega (con signo)
	ReservedStock  decimal.Decimal // apartado para pedidos en curso, >= 0
	AvailableStock decimal.Decimal // CurrentStock - ReservedStock
	AvgCost        decimal.Decimal // costo promedio ponderado; solo cambia en entradas
	MinStock       decimal.Decimal // umbral de reorden (copiado del producto, sobreescribible)
	MaxStock       decimal.Decimal
	LastInAt       *time.Time
	LastOutAt      *time.Time
	UpdatedAt      time.Time
}

// NewStockBalance construye un saldo en cero copiando los umbrales del producto.
func NewStockBalance(companyID, productID, warehouseID string, minStock, maxStock decimal.Decimal, now time.Time) *StockBalance {
	return &StockBalance{
		CompanyID:      companyID,
		ProductID:      productID,
		WarehouseID:    warehouseID,
		CurrentStock:   decimal.Zero,
		ReservedStock:  decimal.Zero,
		AvailableStock: decimal.Zero,
		AvgCost:        decimal.Zero,
		MinStock:       minStock,
		MaxStock:       maxStock,
		UpdatedAt:      now,
	}
}

// EffectiveMinStock devuelve el umbral de reorden aplicable: el del saldo si
// fue sobreescrito (> 0), si no el del producto.
func (b *StockBalance) EffectiveMinStock(productMin decimal.Decimal) decimal.Decimal {
	if b.MinStock.GreaterThan(decimal.Zero) {
		return b.MinStock
	}
	return productMin
}

// Valuation devuelve CurrentStock * AvgCost.
func (b *StockBalance) Valuation() decimal.Decimal {
	return b.CurrentStock.Mul(b.AvgCost)
}

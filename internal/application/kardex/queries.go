package kardex

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// Consultas de solo lectura del kardex. Seguras para lectores concurrentes:
// no tocan TxRunner ni mutan estado.

// FindBalance devuelve el saldo de un producto en una bodega. Si el par nunca
// tuvo movimientos devuelve un saldo en cero (no persistido).
func (uc *UseCase) FindBalance(ctx context.Context, companyID, productID, warehouseID string) (*entity.StockBalance, error) {
	product, err := uc.lookupProduct(companyID, productID)
	if err != nil {
		return nil, err
	}
	if err := uc.checkWarehouse(companyID, warehouseID); err != nil {
		return nil, err
	}
	bal, err := uc.balanceRepo.Get(productID, warehouseID)
	if err != nil {
		return nil, err
	}
	if bal == nil {
		bal = entity.NewStockBalance(companyID, productID, warehouseID, product.MinStock, product.MaxStock, time.Now())
	}
	return bal, nil
}

// ListBalances devuelve todos los saldos de la empresa.
func (uc *UseCase) ListBalances(ctx context.Context, companyID string) ([]*entity.StockBalance, error) {
	return uc.balanceRepo.ListByCompany(companyID)
}

// ListTransactions lista el libro de kardex con filtros opcionales
// (producto, bodega, tipo, rango de fechas) y paginación.
func (uc *UseCase) ListTransactions(ctx context.Context, filter repository.TransactionFilter) ([]*entity.StockTransaction, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return uc.txRepo.List(filter)
}

// ListLowStock devuelve los saldos con CurrentStock <= punto de reorden
// aplicable (el del saldo si fue sobreescrito, si no el del producto).
func (uc *UseCase) ListLowStock(ctx context.Context, companyID string) ([]dto.LowStockItemDTO, error) {
	balances, products, err := uc.balancesWithProducts(companyID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LowStockItemDTO, 0)
	for _, b := range balances {
		p, ok := products[b.ProductID]
		if !ok {
			continue
		}
		min := b.EffectiveMinStock(p.MinStock)
		if b.CurrentStock.LessThanOrEqual(min) {
			items = append(items, dto.LowStockItemDTO{
				ProductID:    b.ProductID,
				SKU:          p.SKU,
				ProductName:  p.Name,
				WarehouseID:  b.WarehouseID,
				CurrentStock: b.CurrentStock,
				MinStock:     min,
			})
		}
	}
	return items, nil
}

// ListOutOfStock devuelve los saldos con CurrentStock <= 0.
func (uc *UseCase) ListOutOfStock(ctx context.Context, companyID string) ([]dto.LowStockItemDTO, error) {
	balances, products, err := uc.balancesWithProducts(companyID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LowStockItemDTO, 0)
	for _, b := range balances {
		if !b.CurrentStock.LessThanOrEqual(decimal.Zero) {
			continue
		}
		p, ok := products[b.ProductID]
		if !ok {
			continue
		}
		items = append(items, dto.LowStockItemDTO{
			ProductID:    b.ProductID,
			SKU:          p.SKU,
			ProductName:  p.Name,
			WarehouseID:  b.WarehouseID,
			CurrentStock: b.CurrentStock,
			MinStock:     b.EffectiveMinStock(p.MinStock),
		})
	}
	return items, nil
}

// TopProductsByValue rankea productos por valor de inventario
// (suma de CurrentStock * AvgCost sobre todas las bodegas), descendente.
// Empates se resuelven por ProductID ascendente para un orden determinista.
func (uc *UseCase) TopProductsByValue(ctx context.Context, companyID string, n int) ([]dto.TopProductDTO, error) {
	if n <= 0 {
		n = 10
	}
	balances, products, err := uc.balancesWithProducts(companyID)
	if err != nil {
		return nil, err
	}
	type agg struct {
		stock decimal.Decimal
		value decimal.Decimal
	}
	byProduct := make(map[string]*agg)
	for _, b := range balances {
		a, ok := byProduct[b.ProductID]
		if !ok {
			a = &agg{stock: decimal.Zero, value: decimal.Zero}
			byProduct[b.ProductID] = a
		}
		a.stock = a.stock.Add(b.CurrentStock)
		a.value = a.value.Add(b.Valuation())
	}

	ranked := make([]dto.TopProductDTO, 0, len(byProduct))
	for productID, a := range byProduct {
		p, ok := products[productID]
		if !ok {
			continue
		}
		ranked = append(ranked, dto.TopProductDTO{
			ProductID:   productID,
			SKU:         p.SKU,
			ProductName: p.Name,
			TotalStock:  a.stock,
			TotalValue:  a.value,
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if !ranked[i].TotalValue.Equal(ranked[j].TotalValue) {
			return ranked[i].TotalValue.GreaterThan(ranked[j].TotalValue)
		}
		return ranked[i].ProductID < ranked[j].ProductID
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked, nil
}

// CheckConsistency verifica la propiedad de replay: la suma de cantidades del
// libro debe reproducir CurrentStock y debe cumplirse Available + Reserved ==
// Current. Una discrepancia indica un bug del motor, no un error del caller.
func (uc *UseCase) CheckConsistency(ctx context.Context, productID, warehouseID string) error {
	bal, err := uc.balanceRepo.Get(productID, warehouseID)
	if err != nil {
		return err
	}
	if bal == nil {
		return nil
	}
	if !bal.AvailableStock.Add(bal.ReservedStock).Equal(bal.CurrentStock) {
		return fmt.Errorf("kardex inconsistente %s/%s: disponible %s + reservado %s != actual %s",
			productID, warehouseID, bal.AvailableStock, bal.ReservedStock, bal.CurrentStock)
	}
	sum, err := uc.txRepo.SumQuantity(productID, warehouseID)
	if err != nil {
		return err
	}
	if !sum.Equal(bal.CurrentStock) {
		return fmt.Errorf("kardex inconsistente %s/%s: suma del libro %s != saldo %s",
			productID, warehouseID, sum, bal.CurrentStock)
	}
	return nil
}

func (uc *UseCase) balancesWithProducts(companyID string) ([]*entity.StockBalance, map[string]*entity.Product, error) {
	balances, err := uc.balanceRepo.ListByCompany(companyID)
	if err != nil {
		return nil, nil, err
	}
	products, err := uc.productRepo.ListByCompany(companyID, 10000, 0)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[string]*entity.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return balances, byID, nil
}

package kardex_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appkardex "github.com/jhoicas/Kardex-api/internal/application/kardex"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/memory"
)

// addProduct siembra un producto adicional con ID explícito (para asserts de
// orden determinista).
func (f *kardexFixture) addProduct(t *testing.T, id, sku, minStock string) {
	t.Helper()
	now := time.Now()
	require.NoError(t, memory.NewProductRepository(f.store).Create(&entity.Product{
		ID:        id,
		CompanyID: f.companyID,
		SKU:       sku,
		Name:      sku,
		MinStock:  dec(minStock),
		CreatedAt: now,
		UpdatedAt: now,
	}))
}

func (f *kardexFixture) stockInProduct(t *testing.T, productID, qty, price string) {
	t.Helper()
	_, err := f.uc.StockIn(context.Background(), f.companyID, appkardex.MovementInput{
		ProductID:   productID,
		WarehouseID: f.warehouseID,
		Quantity:    dec(qty),
		UnitPrice:   dec(price),
	})
	require.NoError(t, err)
}

func TestFindBalance_SinMovimientosDevuelveCero(t *testing.T) {
	f := newKardexFixture(t)

	bal, err := f.uc.FindBalance(context.Background(), f.companyID, f.productID, f.warehouseID)
	require.NoError(t, err)

	assertBalance(t, bal, "0", "0", "0")
	assert.True(t, bal.MinStock.Equal(dec("5")), "el saldo efímero copia el umbral del producto")
}

func TestListLowStock_UmbralDelSaldoSobreescribeAlProducto(t *testing.T) {
	f := newKardexFixture(t)
	f.stockIn(t, "4", "5") // producto con MinStock 5 → 4 <= 5 es stock bajo

	items, err := f.uc.ListLowStock(context.Background(), f.companyID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, f.productID, items[0].ProductID)
	assert.Equal(t, "SKU-001", items[0].SKU)
	assert.True(t, items[0].MinStock.Equal(dec("5")))

	// Sobreescribir el umbral en el saldo a 2: con 4 unidades ya no es bajo.
	bal, err := f.balanceRepo.Get(f.productID, f.warehouseID)
	require.NoError(t, err)
	bal.MinStock = dec("2")
	require.NoError(t, f.balanceRepo.Upsert(bal))

	items, err = f.uc.ListLowStock(context.Background(), f.companyID)
	require.NoError(t, err)
	assert.Empty(t, items, "el umbral del saldo manda sobre el del producto")
}

func TestListOutOfStock(t *testing.T) {
	f := newKardexFixture(t)
	ctx := context.Background()
	f.stockIn(t, "6", "5")
	_, err := f.uc.StockOut(ctx, f.companyID, appkardex.MovementInput{
		ProductID: f.productID, WarehouseID: f.warehouseID, Quantity: dec("6"),
	})
	require.NoError(t, err)

	items, err := f.uc.ListOutOfStock(ctx, f.companyID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].CurrentStock.IsZero())
}

func TestTopProductsByValue_OrdenYDesempate(t *testing.T) {
	f := newKardexFixture(t)
	f.addProduct(t, "prod-a", "SKU-A", "0")
	f.addProduct(t, "prod-b", "SKU-B", "0")

	f.stockInProduct(t, "prod-a", "10", "3") // valor 30
	f.stockInProduct(t, "prod-b", "5", "6")  // valor 30 (empate con A)
	f.stockIn(t, "10", "10")                 // fixture: valor 100

	ranked, err := f.uc.TopProductsByValue(context.Background(), f.companyID, 10)
	require.NoError(t, err)
	require.Len(t, ranked, 3)

	assert.Equal(t, f.productID, ranked[0].ProductID, "el de mayor valor va primero")
	assert.True(t, ranked[0].TotalValue.Equal(dec("100")))
	// Empate en 30: desempata ProductID ascendente.
	assert.Equal(t, "prod-a", ranked[1].ProductID)
	assert.Equal(t, "prod-b", ranked[2].ProductID)
}

func TestTopProductsByValue_AgregaSobreBodegas(t *testing.T) {
	f := newKardexFixture(t)
	now := time.Now()
	second := &entity.Warehouse{ID: "wh-2", CompanyID: f.companyID, Name: "Bodega Norte", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, memory.NewWarehouseRepository(f.store).Create(second))

	f.stockIn(t, "10", "4")
	_, err := f.uc.StockIn(context.Background(), f.companyID, appkardex.MovementInput{
		ProductID: f.productID, WarehouseID: second.ID, Quantity: dec("5"), UnitPrice: dec("4"),
	})
	require.NoError(t, err)

	ranked, err := f.uc.TopProductsByValue(context.Background(), f.companyID, 1)
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.True(t, ranked[0].TotalStock.Equal(dec("15")), "suma el stock de todas las bodegas")
	assert.True(t, ranked[0].TotalValue.Equal(dec("60")))
}

func TestListTransactions_FiltroPorTipo(t *testing.T) {
	f := newKardexFixture(t)
	ctx := context.Background()
	f.stockIn(t, "10", "5")
	f.stockIn(t, "5", "5")
	_, err := f.uc.StockOut(ctx, f.companyID, appkardex.MovementInput{
		ProductID: f.productID, WarehouseID: f.warehouseID, Quantity: dec("3"),
	})
	require.NoError(t, err)

	all, err := f.uc.ListTransactions(ctx, repository.TransactionFilter{CompanyID: f.companyID})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "OUT-000001", all[0].TransactionNo, "las más recientes van primero")

	outs, err := f.uc.ListTransactions(ctx, repository.TransactionFilter{
		CompanyID: f.companyID,
		Type:      entity.TransactionTypeOUT,
	})
	require.NoError(t, err)
	require.Len(t, outs, 1)
	assert.True(t, outs[0].Quantity.Equal(dec("-3")))
}

func TestListTransactions_Paginacion(t *testing.T) {
	f := newKardexFixture(t)
	f.stockIn(t, "1", "1")
	f.stockIn(t, "2", "1")
	f.stockIn(t, "3", "1")

	page, err := f.uc.ListTransactions(context.Background(), repository.TransactionFilter{
		CompanyID: f.companyID,
		Limit:     2,
		Offset:    1,
	})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "IN-000002", page[0].TransactionNo)
	assert.Equal(t, "IN-000001", page[1].TransactionNo)
}

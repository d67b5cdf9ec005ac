package orders_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	appkardex "github.com/jhoicas/Kardex-api/internal/application/kardex"
	"github.com/jhoicas/Kardex-api/internal/application/orders"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/memory"
)

func dec(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

type ordersFixture struct {
	uc          *orders.UseCase
	kardexUC    *appkardex.UseCase
	store       *memory.Store
	orderRepo   *memory.OrderRepository
	balanceRepo *memory.BalanceRepository
	companyID   string
	warehouseID string
	productA    string
	productB    string
	userID      string
}

func newOrdersFixture(t *testing.T) *ordersFixture {
	t.Helper()
	store := memory.NewStore()
	now := time.Now()

	company := &entity.Company{ID: uuid.New().String(), Name: "ACME SAS", NIT: "900123456-7", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, memory.NewCompanyRepository(store).Create(company))

	warehouse := &entity.Warehouse{ID: uuid.New().String(), CompanyID: company.ID, Name: "Bodega Principal", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, memory.NewWarehouseRepository(store).Create(warehouse))

	productRepo := memory.NewProductRepository(store)
	f := &ordersFixture{
		store:       store,
		orderRepo:   memory.NewOrderRepository(store),
		balanceRepo: memory.NewBalanceRepository(store),
		companyID:   company.ID,
		warehouseID: warehouse.ID,
		productA:    uuid.New().String(),
		productB:    uuid.New().String(),
		userID:      uuid.New().String(),
	}
	for id, sku := range map[string]string{f.productA: "SKU-A", f.productB: "SKU-B"} {
		require.NoError(t, productRepo.Create(&entity.Product{
			ID: id, CompanyID: company.ID, SKU: sku, Name: sku, CreatedAt: now, UpdatedAt: now,
		}))
	}

	warehouseRepo := memory.NewWarehouseRepository(store)
	f.kardexUC = appkardex.NewUseCase(
		memory.NewTxRunner(store),
		productRepo,
		warehouseRepo,
		f.balanceRepo,
		memory.NewTransactionRepository(store),
	)
	f.uc = orders.NewUseCase(memory.NewTxRunner(store), f.kardexUC, productRepo, warehouseRepo, f.orderRepo)
	return f
}

func (f *ordersFixture) stockIn(t *testing.T, productID, qty, price string) {
	t.Helper()
	_, err := f.kardexUC.StockIn(context.Background(), f.companyID, appkardex.MovementInput{
		ProductID:   productID,
		WarehouseID: f.warehouseID,
		Quantity:    dec(qty),
		UnitPrice:   dec(price),
	})
	require.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación de pedidos
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_OrdenDeCompra(t *testing.T) {
	f := newOrdersFixture(t)

	resp, err := f.uc.Create(context.Background(), f.companyID, f.userID, entity.OrderTypePurchase, dto.CreateOrderRequest{
		CounterpartyID: "prov-1",
		WarehouseID:    f.warehouseID,
		Lines: []dto.OrderLineRequest{
			{ProductID: f.productA, Quantity: dec("10"), UnitPrice: dec("4")},
			{ProductID: f.productB, Quantity: dec("5"), UnitPrice: dec("8"), DiscountRate: dec("0.1")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "OC-000001", resp.OrderNo)
	assert.Equal(t, entity.OrderTypePurchase, resp.Type)
	assert.False(t, resp.Reserved)
	require.Len(t, resp.Lines, 2)
	assert.Equal(t, entity.LineStatusPending, resp.Lines[0].Status, "las líneas nacen PENDING")
	assert.True(t, resp.Lines[0].FulfilledQuantity.IsZero())
	assert.True(t, resp.Lines[0].Amount.Equal(dec("40")))
	// 5 * 8 * (1 - 0.1) = 36
	assert.True(t, resp.Lines[1].Amount.Equal(dec("36")), "el importe aplica el descuento")
}

func TestCreate_ConsecutivoPorTipoDePedido(t *testing.T) {
	f := newOrdersFixture(t)
	ctx := context.Background()
	line := []dto.OrderLineRequest{{ProductID: f.productA, Quantity: dec("1"), UnitPrice: dec("1")}}

	purchase, err := f.uc.Create(ctx, f.companyID, f.userID, entity.OrderTypePurchase, dto.CreateOrderRequest{
		CounterpartyID: "prov-1", WarehouseID: f.warehouseID, Lines: line,
	})
	require.NoError(t, err)
	sales, err := f.uc.Create(ctx, f.companyID, f.userID, entity.OrderTypeSales, dto.CreateOrderRequest{
		CounterpartyID: "cli-1", WarehouseID: f.warehouseID, Lines: line,
	})
	require.NoError(t, err)

	assert.Equal(t, "OC-000001", purchase.OrderNo)
	assert.Equal(t, "PV-000001", sales.OrderNo, "compras y ventas llevan consecutivos separados")
}

func TestCreate_VentaConReservaApartaStock(t *testing.T) {
	f := newOrdersFixture(t)
	f.stockIn(t, f.productA, "10", "5")

	resp, err := f.uc.Create(context.Background(), f.companyID, f.userID, entity.OrderTypeSales, dto.CreateOrderRequest{
		CounterpartyID: "cli-1",
		WarehouseID:    f.warehouseID,
		Reserve:        true,
		Lines:          []dto.OrderLineRequest{{ProductID: f.productA, Quantity: dec("4"), UnitPrice: dec("9")}},
	})
	require.NoError(t, err)

	assert.True(t, resp.Reserved)
	require.Len(t, resp.Lines, 1)
	assert.True(t, resp.Lines[0].ReservedQuantity.Equal(dec("4")))

	bal, err := f.balanceRepo.Get(f.productA, f.warehouseID)
	require.NoError(t, err)
	assert.True(t, bal.ReservedStock.Equal(dec("4")))
	assert.True(t, bal.AvailableStock.Equal(dec("6")))
	assert.True(t, bal.CurrentStock.Equal(dec("10")), "la reserva no saca mercancía de la bodega")
}

// La reserva de la segunda línea falla por falta de disponible: el pedido
// completo se rechaza y la reserva de la primera línea se revierte.
func TestCreate_VentaConReservaSinDisponible_TodoSeRevierte(t *testing.T) {
	f := newOrdersFixture(t)
	f.stockIn(t, f.productA, "10", "5")
	f.stockIn(t, f.productB, "2", "5")

	_, err := f.uc.Create(context.Background(), f.companyID, f.userID, entity.OrderTypeSales, dto.CreateOrderRequest{
		CounterpartyID: "cli-1",
		WarehouseID:    f.warehouseID,
		Reserve:        true,
		Lines: []dto.OrderLineRequest{
			{ProductID: f.productA, Quantity: dec("4"), UnitPrice: dec("9")},
			{ProductID: f.productB, Quantity: dec("5"), UnitPrice: dec("9")}, // solo hay 2
		},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientAvailableStock)

	balA, err := f.balanceRepo.Get(f.productA, f.warehouseID)
	require.NoError(t, err)
	assert.True(t, balA.ReservedStock.IsZero(), "la reserva de la primera línea se revirtió")
	assert.True(t, balA.AvailableStock.Equal(dec("10")))

	list, err := f.orderRepo.ListByCompany(f.companyID, "", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, list, "el pedido no quedó persistido")
}

func TestCreate_Validaciones(t *testing.T) {
	f := newOrdersFixture(t)
	ctx := context.Background()
	line := []dto.OrderLineRequest{{ProductID: f.productA, Quantity: dec("1"), UnitPrice: dec("1")}}

	_, err := f.uc.Create(ctx, f.companyID, f.userID, "traspaso", dto.CreateOrderRequest{
		CounterpartyID: "x", WarehouseID: f.warehouseID, Lines: line,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "tipo de pedido desconocido")

	_, err = f.uc.Create(ctx, f.companyID, f.userID, entity.OrderTypeSales, dto.CreateOrderRequest{
		CounterpartyID: "cli-1", WarehouseID: f.warehouseID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "pedido sin líneas")

	_, err = f.uc.Create(ctx, f.companyID, f.userID, entity.OrderTypePurchase, dto.CreateOrderRequest{
		CounterpartyID: "prov-1", WarehouseID: f.warehouseID, Reserve: true, Lines: line,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "la reserva solo aplica a ventas")

	_, err = f.uc.Create(ctx, f.companyID, f.userID, entity.OrderTypeSales, dto.CreateOrderRequest{
		CounterpartyID: "cli-1", WarehouseID: f.warehouseID,
		Lines: []dto.OrderLineRequest{{ProductID: f.productA, Quantity: dec("0"), UnitPrice: dec("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = f.uc.Create(ctx, f.companyID, f.userID, entity.OrderTypeSales, dto.CreateOrderRequest{
		CounterpartyID: "cli-1", WarehouseID: f.warehouseID,
		Lines: []dto.OrderLineRequest{{ProductID: f.productA, Quantity: dec("1"), UnitPrice: dec("1"), DiscountRate: dec("1.5")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "descuento fuera de 0..1")

	_, err = f.uc.Create(ctx, f.companyID, f.userID, entity.OrderTypeSales, dto.CreateOrderRequest{
		CounterpartyID: "cli-1", WarehouseID: f.warehouseID,
		Lines: []dto.OrderLineRequest{{ProductID: uuid.New().String(), Quantity: dec("1"), UnitPrice: dec("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrUnknownProduct)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestGetByID_AlcanceDeEmpresa(t *testing.T) {
	f := newOrdersFixture(t)
	resp, err := f.uc.Create(context.Background(), f.companyID, f.userID, entity.OrderTypePurchase, dto.CreateOrderRequest{
		CounterpartyID: "prov-1", WarehouseID: f.warehouseID,
		Lines: []dto.OrderLineRequest{{ProductID: f.productA, Quantity: dec("1"), UnitPrice: dec("1")}},
	})
	require.NoError(t, err)

	got, err := f.uc.GetByID(context.Background(), f.companyID, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.OrderNo, got.OrderNo)
	require.Len(t, got.Lines, 1)

	_, err = f.uc.GetByID(context.Background(), uuid.New().String(), resp.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden, "un pedido no es visible desde otra empresa")

	_, err = f.uc.GetByID(context.Background(), f.companyID, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList_FiltraPorTipo(t *testing.T) {
	f := newOrdersFixture(t)
	ctx := context.Background()
	line := []dto.OrderLineRequest{{ProductID: f.productA, Quantity: dec("1"), UnitPrice: dec("1")}}
	_, err := f.uc.Create(ctx, f.companyID, f.userID, entity.OrderTypePurchase, dto.CreateOrderRequest{CounterpartyID: "prov-1", WarehouseID: f.warehouseID, Lines: line})
	require.NoError(t, err)
	_, err = f.uc.Create(ctx, f.companyID, f.userID, entity.OrderTypeSales, dto.CreateOrderRequest{CounterpartyID: "cli-1", WarehouseID: f.warehouseID, Lines: line})
	require.NoError(t, err)

	sales, err := f.uc.List(ctx, f.companyID, entity.OrderTypeSales, 10, 0)
	require.NoError(t, err)
	require.Len(t, sales.Items, 1)
	assert.Equal(t, "PV-000001", sales.Items[0].OrderNo)
}

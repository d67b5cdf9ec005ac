package reporting_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appkardex "github.com/jhoicas/Kardex-api/internal/application/kardex"
	"github.com/jhoicas/Kardex-api/internal/application/reporting"
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

type reportingFixture struct {
	kardexUC    *appkardex.UseCase
	store       *memory.Store
	companyID   string
	warehouseID string
	productA    string
	productB    string
}

func newReportingFixture(t *testing.T) *reportingFixture {
	t.Helper()
	store := memory.NewStore()
	now := time.Now()

	company := &entity.Company{ID: uuid.New().String(), Name: "ACME SAS", NIT: "900123456-7", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, memory.NewCompanyRepository(store).Create(company))
	warehouse := &entity.Warehouse{ID: uuid.New().String(), CompanyID: company.ID, Name: "Bodega Principal", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, memory.NewWarehouseRepository(store).Create(warehouse))

	productRepo := memory.NewProductRepository(store)
	f := &reportingFixture{
		store:       store,
		companyID:   company.ID,
		warehouseID: warehouse.ID,
		productA:    "prod-a",
		productB:    "prod-b",
	}
	for id, sku := range map[string]string{f.productA: "SKU-A", f.productB: "SKU-B"} {
		require.NoError(t, productRepo.Create(&entity.Product{
			ID: id, CompanyID: company.ID, SKU: sku, Name: sku, MinStock: dec("5"),
			CreatedAt: now, UpdatedAt: now,
		}))
	}

	f.kardexUC = appkardex.NewUseCase(
		memory.NewTxRunner(store),
		productRepo,
		memory.NewWarehouseRepository(store),
		memory.NewBalanceRepository(store),
		memory.NewTransactionRepository(store),
	)
	return f
}

func (f *reportingFixture) stockIn(t *testing.T, productID, qty, price string) {
	t.Helper()
	_, err := f.kardexUC.StockIn(context.Background(), f.companyID, appkardex.MovementInput{
		ProductID:   productID,
		WarehouseID: f.warehouseID,
		Quantity:    dec(qty),
		UnitPrice:   dec(price),
	})
	require.NoError(t, err)
}

func TestStockDashboard_ResumenYListas(t *testing.T) {
	f := newReportingFixture(t)
	f.stockIn(t, f.productA, "10", "4") // valor 40, sobre el umbral
	f.stockIn(t, f.productB, "3", "6")  // valor 18, 3 <= 5 → stock bajo

	uc := reporting.NewDashboardUseCase(f.kardexUC)
	dash, err := uc.StockDashboard(context.Background(), f.companyID)
	require.NoError(t, err)

	assert.Equal(t, 2, dash.Summary.TotalSKUs)
	assert.True(t, dash.Summary.TotalValuation.Equal(dec("58")))
	assert.Equal(t, 1, dash.Summary.LowStockCount)
	assert.Equal(t, 0, dash.Summary.OutOfStockCount)

	require.Len(t, dash.LowStock, 1)
	assert.Equal(t, "SKU-B", dash.LowStock[0].SKU)

	require.Len(t, dash.TopProducts, 2)
	assert.Equal(t, f.productA, dash.TopProducts[0].ProductID, "mayor valor primero")

	require.Len(t, dash.RecentTransactions, 2)
	assert.Equal(t, "IN-000002", dash.RecentTransactions[0].TransactionNo, "las recientes primero")
}

// ──────────────────────────────────────────────────────────────────────────────
// Reporte de valorización
// ──────────────────────────────────────────────────────────────────────────────

// capturingGenerator captura lo que recibe el puerto en lugar de renderizar PDF.
type capturingGenerator struct {
	company *entity.Company
	rows    []reporting.ValuationRow
	total   decimal.Decimal
}

func (g *capturingGenerator) GenerateValuationPDF(_ context.Context, company *entity.Company, rows []reporting.ValuationRow, total decimal.Decimal, _ time.Time) ([]byte, error) {
	g.company = company
	g.rows = rows
	g.total = total
	return []byte("%PDF-stub"), nil
}

func TestGeneratePDF_FilasOrdenadasYTotal(t *testing.T) {
	f := newReportingFixture(t)
	f.stockIn(t, f.productB, "3", "6") // se inserta primero pero SKU-B va después
	f.stockIn(t, f.productA, "10", "4")

	gen := &capturingGenerator{}
	uc := reporting.NewValuationReportUseCase(
		f.kardexUC,
		memory.NewCompanyRepository(f.store),
		memory.NewProductRepository(f.store),
		memory.NewWarehouseRepository(f.store),
		gen,
	)

	out, err := uc.GeneratePDF(context.Background(), f.companyID)
	require.NoError(t, err)
	assert.NotEmpty(t, out)

	require.NotNil(t, gen.company)
	assert.Equal(t, "ACME SAS", gen.company.Name)
	require.Len(t, gen.rows, 2)
	assert.Equal(t, "SKU-A", gen.rows[0].SKU, "las filas van ordenadas por SKU")
	assert.Equal(t, "Bodega Principal", gen.rows[0].WarehouseName)
	assert.True(t, gen.rows[0].Valuation.Equal(dec("40")))
	assert.True(t, gen.total.Equal(dec("58")))
}

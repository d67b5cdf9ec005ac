package reporting

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	appkardex "github.com/jhoicas/Kardex-api/internal/application/kardex"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// ValuationRow una fila del reporte de valorización de inventario.
type ValuationRow struct {
	SKU           string
	ProductName   string
	WarehouseName string
	CurrentStock  decimal.Decimal
	ReservedStock decimal.Decimal
	AvgCost       decimal.Decimal
	Valuation     decimal.Decimal
}

// ValuationPDFGenerator puerto para la representación PDF del reporte.
type ValuationPDFGenerator interface {
	GenerateValuationPDF(ctx context.Context, company *entity.Company, rows []ValuationRow, total decimal.Decimal, generatedAt time.Time) ([]byte, error)
}

// ValuationReportUseCase genera el reporte de valorización de inventario en PDF
// (saldos por producto y bodega al costo promedio).
type ValuationReportUseCase struct {
	kardexUC      *appkardex.UseCase
	companyRepo   repository.CompanyRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	generator     ValuationPDFGenerator
}

// NewValuationReportUseCase construye el caso de uso del reporte.
func NewValuationReportUseCase(
	kardexUC *appkardex.UseCase,
	companyRepo repository.CompanyRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	generator ValuationPDFGenerator,
) *ValuationReportUseCase {
	return &ValuationReportUseCase{
		kardexUC:      kardexUC,
		companyRepo:   companyRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		generator:     generator,
	}
}

// GeneratePDF arma las filas (ordenadas por SKU y bodega) y delega al generador.
func (uc *ValuationReportUseCase) GeneratePDF(ctx context.Context, companyID string) ([]byte, error) {
	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil || company == nil {
		return nil, domain.ErrNotFound
	}
	balances, err := uc.kardexUC.ListBalances(ctx, companyID)
	if err != nil {
		return nil, err
	}
	products, err := uc.productRepo.ListByCompany(companyID, 10000, 0)
	if err != nil {
		return nil, err
	}
	warehouses, err := uc.warehouseRepo.ListByCompany(companyID, 1000, 0)
	if err != nil {
		return nil, err
	}
	productByID := make(map[string]*entity.Product, len(products))
	for _, p := range products {
		productByID[p.ID] = p
	}
	warehouseByID := make(map[string]*entity.Warehouse, len(warehouses))
	for _, w := range warehouses {
		warehouseByID[w.ID] = w
	}

	rows := make([]ValuationRow, 0, len(balances))
	total := decimal.Zero
	for _, b := range balances {
		p, ok := productByID[b.ProductID]
		if !ok {
			continue
		}
		whName := b.WarehouseID
		if w, ok := warehouseByID[b.WarehouseID]; ok {
			whName = w.Name
		}
		val := b.Valuation()
		total = total.Add(val)
		rows = append(rows, ValuationRow{
			SKU:           p.SKU,
			ProductName:   p.Name,
			WarehouseName: whName,
			CurrentStock:  b.CurrentStock,
			ReservedStock: b.ReservedStock,
			AvgCost:       b.AvgCost,
			Valuation:     val,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].SKU != rows[j].SKU {
			return rows[i].SKU < rows[j].SKU
		}
		return rows[i].WarehouseName < rows[j].WarehouseName
	})

	return uc.generator.GenerateValuationPDF(ctx, company, rows, total, time.Now())
}

package reporting

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	appkardex "github.com/jhoicas/Kardex-api/internal/application/kardex"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// DashboardUseCase arma la vista de inventario para el dashboard. Solo
// consume las consultas del kardex; no tiene lógica de negocio propia.
type DashboardUseCase struct {
	kardexUC *appkardex.UseCase
}

// NewDashboardUseCase construye la fachada de reportes.
func NewDashboardUseCase(kardexUC *appkardex.UseCase) *DashboardUseCase {
	return &DashboardUseCase{kardexUC: kardexUC}
}

// StockDashboard devuelve resumen + bajos de stock + agotados + top por valor
// + transacciones recientes. Seguro para lectores concurrentes.
func (uc *DashboardUseCase) StockDashboard(ctx context.Context, companyID string) (*dto.DashboardResponse, error) {
	balances, err := uc.kardexUC.ListBalances(ctx, companyID)
	if err != nil {
		return nil, err
	}
	valuation := decimal.Zero
	skus := make(map[string]struct{})
	for _, b := range balances {
		valuation = valuation.Add(b.Valuation())
		skus[b.ProductID] = struct{}{}
	}

	lowStock, err := uc.kardexUC.ListLowStock(ctx, companyID)
	if err != nil {
		return nil, err
	}
	outOfStock, err := uc.kardexUC.ListOutOfStock(ctx, companyID)
	if err != nil {
		return nil, err
	}
	topProducts, err := uc.kardexUC.TopProductsByValue(ctx, companyID, 5)
	if err != nil {
		return nil, err
	}
	recent, err := uc.kardexUC.ListTransactions(ctx, repository.TransactionFilter{
		CompanyID: companyID,
		Limit:     10,
	})
	if err != nil {
		return nil, err
	}

	recentDTOs := make([]dto.TransactionResponse, 0, len(recent))
	for _, t := range recent {
		recentDTOs = append(recentDTOs, dto.TransactionResponse{
			ID:            t.ID,
			TransactionNo: t.TransactionNo,
			ProductID:     t.ProductID,
			WarehouseID:   t.WarehouseID,
			Type:          t.Type,
			Quantity:      t.Quantity,
			UnitPrice:     t.UnitPrice,
			TotalAmount:   t.TotalAmount,
			ReferenceType: t.ReferenceType,
			ReferenceID:   t.ReferenceID,
			Operator:      t.Operator,
			CreatedAt:     t.CreatedAt,
		})
	}

	return &dto.DashboardResponse{
		Summary: dto.StockSummaryDTO{
			TotalSKUs:       len(skus),
			TotalValuation:  valuation,
			LowStockCount:   len(lowStock),
			OutOfStockCount: len(outOfStock),
		},
		LowStock:           lowStock,
		OutOfStock:         outOfStock,
		TopProducts:        topProducts,
		RecentTransactions: recentDTOs,
	}, nil
}

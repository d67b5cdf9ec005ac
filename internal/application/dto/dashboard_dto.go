package dto

import "github.com/shopspring/decimal"

// StockSummaryDTO resumen de inventario para el dashboard.
type StockSummaryDTO struct {
	TotalSKUs       int             `json:"total_skus"`
	TotalValuation  decimal.Decimal `json:"total_valuation"` // suma de stock * costo promedio
	LowStockCount   int             `json:"low_stock_count"`
	OutOfStockCount int             `json:"out_of_stock_count"`
}

// DashboardResponse payload de GET /api/dashboard/stock.
type DashboardResponse struct {
	Summary            StockSummaryDTO       `json:"summary"`
	LowStock           []LowStockItemDTO     `json:"low_stock"`
	OutOfStock         []LowStockItemDTO     `json:"out_of_stock"`
	TopProducts        []TopProductDTO       `json:"top_products"`
	RecentTransactions []TransactionResponse `json:"recent_transactions"`
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Kardex-api/internal/application/auth"
	"github.com/jhoicas/Kardex-api/internal/application/fulfillment"
	"github.com/jhoicas/Kardex-api/internal/application/kardex"
	"github.com/jhoicas/Kardex-api/internal/application/orders"
	"github.com/jhoicas/Kardex-api/internal/application/reporting"
	"github.com/jhoicas/Kardex-api/internal/application/usecase"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC     *usecase.CompanyUseCase
	WarehouseUC   *usecase.WarehouseUseCase
	ProductUC     *usecase.ProductUseCase
	KardexUC      *kardex.UseCase
	FulfillmentUC *fulfillment.UseCase
	OrdersUC      *orders.UseCase
	DashboardUC   *reporting.DashboardUseCase
	ValuationUC   *reporting.ValuationReportUseCase
	AuthUC        *auth.AuthUseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies (público por ahora; se puede proteger con AuthMiddleware(deps.JWTSecret))
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Warehouses (protegido)
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", warehouseHandler.Update)
	warehouses.Delete("/:id", RequireRole(entity.RoleAdmin), warehouseHandler.Delete)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", RequireRole(entity.RoleAdmin), productHandler.Delete)

	// Kardex (protegido): movimientos, reservas, saldos y libro
	kardexGroup := protected.Group("/kardex")
	kardexHandler := NewKardexHandler(deps.KardexUC)
	kardexGroup.Post("/in", kardexHandler.StockIn)
	kardexGroup.Post("/out", kardexHandler.StockOut)
	kardexGroup.Post("/adjust", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), kardexHandler.StockAdjust)
	kardexGroup.Post("/reserve", kardexHandler.Reserve)
	kardexGroup.Post("/release", kardexHandler.Release)
	kardexGroup.Get("/balance", kardexHandler.GetBalance)
	kardexGroup.Get("/balances", kardexHandler.ListBalances)
	kardexGroup.Get("/transactions", kardexHandler.ListTransactions)
	kardexGroup.Get("/consistency", kardexHandler.CheckConsistency)

	// Orders (protegido): compras y ventas
	ordersGroup := protected.Group("/orders")
	purchaseHandler := NewPurchaseOrderHandler(deps.OrdersUC)
	salesHandler := NewSalesOrderHandler(deps.OrdersUC)
	ordersGroup.Post("/purchase", purchaseHandler.Create)
	ordersGroup.Get("/purchase", purchaseHandler.List)
	ordersGroup.Post("/sales", salesHandler.Create)
	ordersGroup.Get("/sales", salesHandler.List)
	ordersGroup.Get("/:id", purchaseHandler.GetByID)

	// Receipts: recepciones de compra (protegido)
	receipts := protected.Group("/receipts")
	receiptHandler := NewReceiptHandler(deps.FulfillmentUC)
	receipts.Post("/", receiptHandler.Create)
	receipts.Get("/", receiptHandler.List)
	receipts.Get("/:id", receiptHandler.GetByID)
	receipts.Post("/:id/lines", receiptHandler.AddLine)
	receipts.Put("/:id/lines/:lineId", receiptHandler.UpdateLine)
	receipts.Delete("/:id/lines/:lineId", receiptHandler.RemoveLine)
	receipts.Post("/:id/confirm", receiptHandler.Confirm)

	// Deliveries: despachos de venta (protegido)
	deliveries := protected.Group("/deliveries")
	deliveryHandler := NewDeliveryHandler(deps.FulfillmentUC)
	deliveries.Post("/", deliveryHandler.Create)
	deliveries.Get("/", deliveryHandler.List)
	deliveries.Get("/:id", deliveryHandler.GetByID)
	deliveries.Post("/:id/lines", deliveryHandler.AddLine)
	deliveries.Put("/:id/lines/:lineId", deliveryHandler.UpdateLine)
	deliveries.Delete("/:id/lines/:lineId", deliveryHandler.RemoveLine)
	deliveries.Post("/:id/confirm", deliveryHandler.Confirm)
	deliveries.Post("/:id/complete", deliveryHandler.Complete)

	// Dashboard y reportes (protegido)
	dashboard := protected.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.DashboardUC, deps.ValuationUC)
	dashboard.Get("/stock", dashboardHandler.StockDashboard)
	dashboard.Get("/valuation.pdf", dashboardHandler.ValuationPDF)
}

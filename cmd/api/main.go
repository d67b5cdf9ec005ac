package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Kardex-api/internal/application/auth"
	"github.com/jhoicas/Kardex-api/internal/application/fulfillment"
	"github.com/jhoicas/Kardex-api/internal/application/kardex"
	"github.com/jhoicas/Kardex-api/internal/application/orders"
	"github.com/jhoicas/Kardex-api/internal/application/reporting"
	"github.com/jhoicas/Kardex-api/internal/application/usecase"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Kardex-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Kardex-api/internal/interfaces/http"
	"github.com/jhoicas/Kardex-api/pkg/config"
	"github.com/jhoicas/Kardex-api/pkg/logger"
)

// repos agrupa los puertos de persistencia que arma el modo memoria o el modo
// PostgreSQL. txRunner implementa los tres puertos de transacción.
type repos struct {
	company   repository.CompanyRepository
	user      repository.UserRepository
	product   repository.ProductRepository
	warehouse repository.WarehouseRepository
	balance   repository.BalanceRepository
	tx        repository.TransactionRepository
	order     repository.OrderRepository
	document  repository.DocumentRepository
	txRunner  interface {
		kardex.TxRunner
		fulfillment.TxRunner
		orders.TxRunner
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var r repos
	if cfg.DB.InMemory() {
		log.Warn().Msg("sin DATABASE_URL ni DB_HOST: persistencia en memoria (los datos se pierden al apagar)")
		store := memory.NewStore()
		r = repos{
			company:   memory.NewCompanyRepository(store),
			user:      memory.NewUserRepository(store),
			product:   memory.NewProductRepository(store),
			warehouse: memory.NewWarehouseRepository(store),
			balance:   memory.NewBalanceRepository(store),
			tx:        memory.NewTransactionRepository(store),
			order:     memory.NewOrderRepository(store),
			document:  memory.NewDocumentRepository(store),
			txRunner:  memory.NewTxRunner(store),
		}
	} else {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		r = repos{
			company:   postgres.NewCompanyRepository(pool),
			user:      postgres.NewUserRepository(pool),
			product:   postgres.NewProductRepository(pool),
			warehouse: postgres.NewWarehouseRepository(pool),
			balance:   postgres.NewBalanceRepository(pool),
			tx:        postgres.NewTransactionRepository(pool),
			order:     postgres.NewOrderRepository(pool),
			document:  postgres.NewDocumentRepository(pool),
			txRunner:  postgres.NewTxRunner(pool),
		}
	}

	companyUC := usecase.NewCompanyUseCase(r.company)
	productUC := usecase.NewProductUseCase(r.product)
	warehouseUC := usecase.NewWarehouseUseCase(r.warehouse)

	kardexUC := kardex.NewUseCase(r.txRunner, r.product, r.warehouse, r.balance, r.tx)
	tracker := fulfillment.NewTracker(cfg.Fulfillment.AllowOverage)
	fulfillmentUC := fulfillment.NewUseCase(r.txRunner, kardexUC, tracker, r.product, r.warehouse, r.order, r.document)
	ordersUC := orders.NewUseCase(r.txRunner, kardexUC, r.product, r.warehouse, r.order)

	dashboardUC := reporting.NewDashboardUseCase(kardexUC)
	pdfGenerator := infrapdf.NewMarotoValuationGenerator()
	valuationUC := reporting.NewValuationReportUseCase(kardexUC, r.company, r.product, r.warehouse, pdfGenerator)

	authUC := auth.NewAuthUseCase(r.user, r.company, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Kardex API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CompanyUC:     companyUC,
		WarehouseUC:   warehouseUC,
		ProductUC:     productUC,
		KardexUC:      kardexUC,
		FulfillmentUC: fulfillmentUC,
		OrdersUC:      ordersUC,
		DashboardUC:   dashboardUC,
		ValuationUC:   valuationUC,
		AuthUC:        authUC,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

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
	_ "github.com/jhoicas/inventario-ledger/docs"
	"github.com/jhoicas/inventario-ledger/internal/application/auth"
	"github.com/jhoicas/inventario-ledger/internal/application/catalog"
	"github.com/jhoicas/inventario-ledger/internal/application/directory"
	"github.com/jhoicas/inventario-ledger/internal/application/invoice"
	"github.com/jhoicas/inventario-ledger/internal/application/ledger"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/cache"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/events"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/inventario-ledger/internal/infrastructure/pdf"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/xmldoc"
	httpRouter "github.com/jhoicas/inventario-ledger/internal/interfaces/http"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// storage repositorios y runner transaccional del driver elegido.
type storage struct {
	products     repository.ProductRepository
	customers    repository.CustomerRepository
	suppliers    repository.SupplierRepository
	transactions repository.TransactionRepository
	users        repository.UserRepository
	txRunner     ledger.TxRunner
	close        func()
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		store := memory.NewStore()
		return &storage{
			products:     memory.NewProductRepository(store),
			customers:    memory.NewCustomerRepository(store),
			suppliers:    memory.NewSupplierRepository(store),
			transactions: memory.NewTransactionRepository(store),
			users:        memory.NewUserRepository(store),
			txRunner:     memory.NewTxRunner(store),
			close:        func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.Migrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("migraciones aplicadas")
	}
	return &storage{
		products:     postgres.NewProductRepository(pool),
		customers:    postgres.NewCustomerRepository(pool),
		suppliers:    postgres.NewSupplierRepository(pool),
		transactions: postgres.NewTransactionRepository(pool),
		users:        postgres.NewUserRepository(pool),
		txRunner:     postgres.NewTxRunner(pool),
		close:        pool.Close,
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	// Eventos: siempre al log; a RabbitMQ si hay broker configurado.
	publishers := events.Multi{events.NewLogPublisher(log.Component("events"))}
	if cfg.AMQP.Enabled() {
		rabbit, err := events.Dial(ctx, cfg.AMQP.URL, cfg.AMQP.Exchange, log.Component("amqp"))
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a RabbitMQ")
		}
		defer rabbit.Close()
		publishers = append(publishers, rabbit)
	}

	invoiceDeps := invoice.Deps{
		Transactions: store.transactions,
		Products:     store.products,
		Customers:    store.customers,
		Suppliers:    store.suppliers,
		PDF:          infrapdf.NewMarotoRenderer(cfg.App.Name),
		XML:          xmldoc.NewRenderer(),
		PriceMode:    cfg.Invoice.PriceMode,
		Log:          log.Component("invoice"),
	}
	if cfg.Redis.Enabled() {
		client, err := cache.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		invoiceDeps.Cache = cache.NewInvoiceCache(client, time.Duration(cfg.Invoice.CacheTTLMinutes)*time.Minute)
	}

	catalogUC := catalog.NewUseCase(store.products, log.Component("catalog"))
	directoryUC := directory.NewUseCase(store.customers, store.suppliers, log.Component("directory"))
	ledgerUC := ledger.NewUseCase(store.txRunner, store.products, store.transactions, publishers, log.Component("ledger"))
	invoiceUC := invoice.NewUseCase(invoiceDeps)
	authUC := auth.NewAuthUseCase(store.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI: http://localhost:<port>/docs
	if cfg.HTTP.Swagger {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Inventario Ledger API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.Storage.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CatalogUC:   catalogUC,
		DirectoryUC: directoryUC,
		LedgerUC:    ledgerUC,
		InvoiceUC:   invoiceUC,
		AuthUC:      authUC,
		JWTSecret:   cfg.JWT.Secret,
		JWTIssuer:   cfg.JWT.Issuer,
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

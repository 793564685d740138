package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-ledger/internal/application/auth"
	"github.com/jhoicas/inventario-ledger/internal/application/catalog"
	"github.com/jhoicas/inventario-ledger/internal/application/directory"
	"github.com/jhoicas/inventario-ledger/internal/application/invoice"
	"github.com/jhoicas/inventario-ledger/internal/application/ledger"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CatalogUC   *catalog.UseCase
	DirectoryUC *directory.UseCase
	LedgerUC    *ledger.UseCase
	InvoiceUC   *invoice.UseCase
	AuthUC      *auth.AuthUseCase
	JWTSecret   string
	JWTIssuer   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/users", authHandler.Register)
	api.Post("/token", authHandler.Token)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))

	// Catálogo
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.CatalogUC, deps.LedgerUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
	products.Get("/:id/stock", productHandler.Stock)
	products.Get("/:id/history", productHandler.History)

	// Directorio: una instancia del handler por partición
	for prefix, partition := range map[string]entity.Partition{
		"/customers": entity.PartitionCustomer,
		"/suppliers": entity.PartitionSupplier,
	} {
		group := protected.Group(prefix)
		h := NewContactHandler(deps.DirectoryUC, partition)
		group.Post("/", h.Create)
		group.Get("/", h.List)
		group.Get("/:id", h.GetByID)
		group.Put("/:id", h.Update)
		group.Delete("/:id", h.Delete)
	}

	// Ledger + facturas
	transactions := protected.Group("/transactions")
	transactionHandler := NewTransactionHandler(deps.LedgerUC, deps.InvoiceUC)
	transactions.Post("/", transactionHandler.Create)
	transactions.Get("/", transactionHandler.List)
	transactions.Get("/:id", transactionHandler.GetByID)
	transactions.Get("/:id/invoice", transactionHandler.Invoice)
}

// seed carga productos, clientes y proveedores iniciales desde un XML.
//
// Uso: go run ./cmd/seed [ruta/seed.xml]
// Por defecto busca seed.xml en el directorio actual. Usa la misma configuración que la API
// (STORAGE_DRIVER, DB_*); los registros existentes (mismo SKU o nombre) se omiten.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/application/catalog"
	"github.com/jhoicas/inventario-ledger/internal/application/directory"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

func main() {
	xmlPath := "seed.xml"
	if len(os.Args) > 1 {
		xmlPath = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	if cfg.Storage.Driver != config.StorageDriverPostgres {
		fmt.Fprintln(os.Stderr, "El seed requiere STORAGE_DRIVER=postgres")
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	f, err := os.Open(xmlPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", xmlPath).Msg("abrir XML")
	}
	defer f.Close()

	data, err := parseSeed(f)
	if err != nil {
		log.Fatal().Err(err).Msg("leer seed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	products := postgres.NewProductRepository(pool)
	l := &loader{
		catalog:   catalog.NewUseCase(products, log.Component("catalog")),
		directory: directory.NewUseCase(postgres.NewCustomerRepository(pool), postgres.NewSupplierRepository(pool), log.Component("directory")),
		products:  products,
	}
	s, err := l.load(ctx, data)
	if err != nil {
		log.Fatal().Err(err).Msg("aplicar seed")
	}

	log.Info().
		Int("productos", s.Products).
		Int("clientes", s.Customers).
		Int("proveedores", s.Suppliers).
		Int("omitidos", s.Skipped).
		Msg("seed aplicado")
}

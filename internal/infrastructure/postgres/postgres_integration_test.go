package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/inventario-ledger/internal/application/ledger"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// testPool requiere DATABASE_URL apuntando a una base descartable: las tablas se vacían.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: url})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgres.Migrate(ctx, pool))
	_, err = pool.Exec(ctx, `TRUNCATE transactions, products, customers, suppliers, users RESTART IDENTITY`)
	require.NoError(t, err)
	return pool
}

type nopPublisher struct{}

func (nopPublisher) PublishMovementAccepted(context.Context, ledger.MovementAccepted) error { return nil }

func TestPostgres_LedgerConcurrente(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	products := postgres.NewProductRepository(pool)
	suppliers := postgres.NewSupplierRepository(pool)
	txs := postgres.NewTransactionRepository(pool)

	now := time.Now().UTC()
	p := &entity.Product{SKU: "PG-1", Name: "Producto", Price: decimal.NewFromInt(10), Stock: 5, InitialStock: 5, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, products.Create(ctx, p))
	s := &entity.Supplier{ContactDetails: entity.ContactDetails{Name: "Proveedor"}, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, suppliers.Create(ctx, s))

	uc := ledger.NewUseCase(postgres.NewTxRunner(pool), products, txs, nopPublisher{}, zerolog.Nop())

	var g errgroup.Group
	for i := 0; i < 50; i++ {
		g.Go(func() error {
			_, err := uc.AcceptMovement(ctx, ledger.MovementInput{
				Type: entity.MovementTypeIN, ProductID: p.ID, SupplierID: &s.ID, Quantity: 1,
			})
			return err
		})
	}
	require.NoError(t, g.Wait())

	got, err := products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 55, got.Stock)

	moves, err := txs.ListByProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, moves, 50)

	list, err := txs.List(ctx, repository.TransactionFilter{SupplierID: s.ID, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, list, 10)
	assert.Equal(t, s.ID, list[0].ContactID)
	assert.Equal(t, entity.MovementTypeIN, list[0].Type)
}

func TestPostgres_RestriccionesDeReferencia(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	products := postgres.NewProductRepository(pool)
	customers := postgres.NewCustomerRepository(pool)
	txs := postgres.NewTransactionRepository(pool)

	p := &entity.Product{SKU: "PG-2", Name: "Taza", Price: decimal.NewFromInt(3), Stock: 10, InitialStock: 10}
	require.NoError(t, products.Create(ctx, p))
	assert.ErrorIs(t, products.Create(ctx, &entity.Product{SKU: "PG-2", Name: "Otra"}), domain.ErrDuplicate)

	c := &entity.Customer{ContactDetails: entity.ContactDetails{Name: "Ana"}}
	require.NoError(t, customers.Create(ctx, c))
	require.NoError(t, txs.Create(ctx, &entity.Transaction{
		Type: entity.MovementTypeOUT, ProductID: p.ID, ContactID: c.ID, Quantity: 1, UnitPrice: p.Price, Date: time.Now(),
	}))

	assert.ErrorIs(t, products.Delete(ctx, p.ID), domain.ErrConflict)
	assert.ErrorIs(t, customers.Delete(ctx, c.ID), domain.ErrConflict)

	_, err := pool.Exec(ctx, `UPDATE transactions SET quantity = 2`)
	assert.Error(t, err)
}

func TestPostgres_BusquedaYPaginado(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	products := postgres.NewProductRepository(pool)
	for _, sku := range []string{"CAF-1", "CAF-2", "TE-1"} {
		require.NoError(t, products.Create(ctx, &entity.Product{SKU: sku, Name: "Item " + sku, Price: decimal.Zero}))
	}

	all, err := products.List(ctx, repository.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	caf, err := products.List(ctx, repository.ProductFilter{Search: "caf"})
	require.NoError(t, err)
	assert.Len(t, caf, 2)

	page, err := products.List(ctx, repository.ProductFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "CAF-2", page[0].SKU)
}

package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
)

// ── Helpers ───────────────────────────────────────────────────────────────────

type runFn = func(repository.TransactionRepository, repository.ProductRepository, repository.CustomerRepository, repository.SupplierRepository) error

func seed(t *testing.T, s *memory.Store) (*entity.Product, *entity.Supplier, *entity.Customer) {
	t.Helper()
	ctx := context.Background()
	p := &entity.Product{SKU: "LAP-001", Name: "Portátil", Price: decimal.NewFromInt(1500), Stock: 10, InitialStock: 10}
	require.NoError(t, memory.NewProductRepository(s).Create(ctx, p))
	sup := &entity.Supplier{ContactDetails: entity.ContactDetails{Name: "Acme", Email: "ventas@acme.example.com"}}
	require.NoError(t, memory.NewSupplierRepository(s).Create(ctx, sup))
	cus := &entity.Customer{ContactDetails: entity.ContactDetails{Name: "Ana Gómez"}}
	require.NoError(t, memory.NewCustomerRepository(s).Create(ctx, cus))
	return p, sup, cus
}

// movement registra un movimiento por el TxRunner igual que el ledger.
func movement(ctx context.Context, productID, contactID int64, typ entity.MovementType, qty int64, date time.Time) runFn {
	return func(txs repository.TransactionRepository, products repository.ProductRepository, _ repository.CustomerRepository, _ repository.SupplierRepository) error {
		p, err := products.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		tx := &entity.Transaction{Type: typ, ProductID: productID, ContactID: contactID, Quantity: qty, UnitPrice: p.Price, Date: date}
		if err := txs.Create(ctx, tx); err != nil {
			return err
		}
		return products.UpdateStock(ctx, productID, p.Stock+tx.SignedQuantity())
	}
}

// ── Catálogo ──────────────────────────────────────────────────────────────────

func TestProductRepo_SKUDuplicado(t *testing.T) {
	s := memory.NewStore()
	seed(t, s)
	repo := memory.NewProductRepository(s)
	ctx := context.Background()

	err := repo.Create(ctx, &entity.Product{SKU: "LAP-001", Name: "Otro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	other := &entity.Product{SKU: "MOU-1", Name: "Mouse"}
	require.NoError(t, repo.Create(ctx, other))
	other.SKU = "LAP-001"
	assert.ErrorIs(t, repo.Update(ctx, other), domain.ErrDuplicate)
}

func TestProductRepo_UpdateConservaStock(t *testing.T) {
	s := memory.NewStore()
	p, _, _ := seed(t, s)
	repo := memory.NewProductRepository(s)
	ctx := context.Background()

	p.Name = "Portátil Pro"
	p.Stock = 999
	require.NoError(t, repo.Update(ctx, p))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Portátil Pro", got.Name)
	assert.Equal(t, int64(10), got.Stock)
}

func TestProductRepo_BusquedaSinMayusculas(t *testing.T) {
	s := memory.NewStore()
	p, _, _ := seed(t, s)
	repo := memory.NewProductRepository(s)
	ctx := context.Background()

	for _, q := range []string{"PORTÁTIL", "lap-0", "1"} {
		list, err := repo.List(ctx, repository.ProductFilter{Search: q})
		require.NoError(t, err)
		require.Len(t, list, 1, q)
		assert.Equal(t, p.ID, list[0].ID)
	}
	list, err := repo.List(ctx, repository.ProductFilter{Search: "teclado"})
	require.NoError(t, err)
	assert.Empty(t, list)
}

// ── TxRunner ──────────────────────────────────────────────────────────────────

func TestTxRunner_ConfirmaStockYMovimiento(t *testing.T) {
	s := memory.NewStore()
	p, sup, _ := seed(t, s)
	ctx := context.Background()

	require.NoError(t, memory.NewTxRunner(s).Run(ctx, movement(ctx, p.ID, sup.ID, entity.MovementTypeIN, 5, time.Now())))

	got, err := memory.NewProductRepository(s).GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(15), got.Stock)

	tx, err := memory.NewTransactionRepository(s).GetByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, tx)
	assert.Equal(t, int64(5), tx.Quantity)
}

func TestTxRunner_ErrorNoAplicaNada(t *testing.T) {
	s := memory.NewStore()
	p, sup, _ := seed(t, s)
	ctx := context.Background()
	boom := errors.New("boom")

	err := memory.NewTxRunner(s).Run(ctx, func(txs repository.TransactionRepository, products repository.ProductRepository, c repository.CustomerRepository, su repository.SupplierRepository) error {
		if err := movement(ctx, p.ID, sup.ID, entity.MovementTypeIN, 5, time.Now())(txs, products, c, su); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := memory.NewProductRepository(s).GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.Stock)
	list, err := memory.NewTransactionRepository(s).ListByProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTxRunner_LockPorProducto(t *testing.T) {
	s := memory.NewStore()
	p, sup, _ := seed(t, s)
	runner := memory.NewTxRunner(s)

	held := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- runner.Run(context.Background(), func(txs repository.TransactionRepository, products repository.ProductRepository, _ repository.CustomerRepository, _ repository.SupplierRepository) error {
			if _, err := products.GetForUpdate(context.Background(), p.ID); err != nil {
				return err
			}
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := runner.Run(ctx, movement(ctx, p.ID, sup.ID, entity.MovementTypeIN, 1, time.Now()))
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	require.NoError(t, <-done)
	bg := context.Background()
	require.NoError(t, runner.Run(bg, movement(bg, p.ID, sup.ID, entity.MovementTypeIN, 1, time.Now())))
}

func TestTxRunner_ContraparteBorradaAntesDelCommit(t *testing.T) {
	s := memory.NewStore()
	p, sup, _ := seed(t, s)
	ctx := context.Background()

	err := memory.NewTxRunner(s).Run(ctx, func(txs repository.TransactionRepository, products repository.ProductRepository, c repository.CustomerRepository, su repository.SupplierRepository) error {
		if err := movement(ctx, p.ID, sup.ID, entity.MovementTypeIN, 2, time.Now())(txs, products, c, su); err != nil {
			return err
		}
		return memory.NewSupplierRepository(s).Delete(ctx, sup.ID)
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := memory.NewProductRepository(s).GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.Stock)
}

// ── Ledger y referencias ──────────────────────────────────────────────────────

func TestTransactionRepo_Filtros(t *testing.T) {
	s := memory.NewStore()
	p, sup, cus := seed(t, s)
	ctx := context.Background()
	runner := memory.NewTxRunner(s)
	day := func(d int) time.Time { return time.Date(2024, 3, d, 12, 0, 0, 0, time.UTC) }

	require.NoError(t, runner.Run(ctx, movement(ctx, p.ID, sup.ID, entity.MovementTypeIN, 5, day(1))))
	require.NoError(t, runner.Run(ctx, movement(ctx, p.ID, cus.ID, entity.MovementTypeOUT, 2, day(2))))
	require.NoError(t, runner.Run(ctx, movement(ctx, p.ID, sup.ID, entity.MovementTypeIN, 1, day(3))))

	repo := memory.NewTransactionRepository(s)
	from, to := day(2), day(3)

	cases := []struct {
		name   string
		filter repository.TransactionFilter
		ids    []int64
	}{
		{"todos", repository.TransactionFilter{}, []int64{1, 2, 3}},
		{"tipo IN", repository.TransactionFilter{Type: entity.MovementTypeIN}, []int64{1, 3}},
		{"cliente", repository.TransactionFilter{CustomerID: cus.ID}, []int64{2}},
		{"proveedor", repository.TransactionFilter{SupplierID: sup.ID}, []int64{1, 3}},
		{"rango", repository.TransactionFilter{From: &from, To: &to}, []int64{2, 3}},
		{"id", repository.TransactionFilter{IDContains: "3"}, []int64{3}},
		{"página", repository.TransactionFilter{Limit: 1, Offset: 1}, []int64{2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			list, err := repo.List(ctx, tc.filter)
			require.NoError(t, err)
			ids := make([]int64, 0, len(list))
			for _, tx := range list {
				ids = append(ids, tx.ID)
			}
			assert.Equal(t, tc.ids, ids)
		})
	}
}

func TestDelete_ConMovimientos_Conflicto(t *testing.T) {
	s := memory.NewStore()
	p, sup, cus := seed(t, s)
	ctx := context.Background()
	require.NoError(t, memory.NewTxRunner(s).Run(ctx, movement(ctx, p.ID, sup.ID, entity.MovementTypeIN, 1, time.Now())))

	assert.ErrorIs(t, memory.NewProductRepository(s).Delete(ctx, p.ID), domain.ErrConflict)
	assert.ErrorIs(t, memory.NewSupplierRepository(s).Delete(ctx, sup.ID), domain.ErrConflict)

	// El cliente no tiene salidas: se puede borrar.
	require.NoError(t, memory.NewCustomerRepository(s).Delete(ctx, cus.ID))
	got, err := memory.NewCustomerRepository(s).GetByID(ctx, cus.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUserRepo_EmailSinMayusculas(t *testing.T) {
	s := memory.NewStore()
	repo := memory.NewUserRepository(s)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.User{ID: "u1", Email: "Ana@Example.com"}))
	assert.ErrorIs(t, repo.Create(ctx, &entity.User{ID: "u2", Email: "ana@example.com"}), domain.ErrEmailAlreadyExists)

	got, err := repo.FindByEmail(ctx, "ANA@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "u1", got.ID)
}

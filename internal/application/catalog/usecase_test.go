package catalog_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/application/catalog"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func newCatalog(t *testing.T) (*catalog.UseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return catalog.NewUseCase(memory.NewProductRepository(store), zerolog.Nop()), store
}

func createReq(sku string) dto.CreateProductRequest {
	return dto.CreateProductRequest{Name: "Tornillo " + sku, SKU: sku, Price: decimal.RequireFromString("12.50"), Stock: 4}
}

func ptr[T any](v T) *T { return &v }

func TestCreate_AsignaIDYStockInicial(t *testing.T) {
	uc, _ := newCatalog(t)

	p, err := uc.Create(context.Background(), createReq("T-1"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)
	assert.Equal(t, int64(4), p.Stock)
	assert.Equal(t, int64(4), p.InitialStock)

	got, err := uc.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tornillo T-1", got.Name)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("12.5")))
}

func TestCreate_Validaciones(t *testing.T) {
	uc, _ := newCatalog(t)
	cases := map[string]dto.CreateProductRequest{
		"nombre vacío":    {Name: "  ", SKU: "A", Price: decimal.Zero},
		"sku vacío":       {Name: "A", SKU: "", Price: decimal.Zero},
		"precio negativo": {Name: "A", SKU: "A", Price: decimal.NewFromInt(-1)},
		"stock negativo":  {Name: "A", SKU: "A", Price: decimal.Zero, Stock: -1},
		"tres decimales":  {Name: "A", SKU: "A", Price: decimal.RequireFromString("10.555")},
		"precio enorme":   {Name: "A", SKU: "A", Price: decimal.New(1, 16)},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestCreate_PrecioEnLaEscalaPersistida(t *testing.T) {
	uc, _ := newCatalog(t)
	ctx := context.Background()

	trailing := createReq("P-1")
	trailing.Price = decimal.RequireFromString("10.500")
	got, err := uc.Create(ctx, trailing)
	require.NoError(t, err)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("10.5")))

	top := createReq("P-2")
	top.Price = decimal.RequireFromString("9999999999999999.99")
	_, err = uc.Create(ctx, top)
	assert.NoError(t, err)
}

func TestCreate_SKUDuplicado(t *testing.T) {
	uc, _ := newCatalog(t)
	_, err := uc.Create(context.Background(), createReq("DUP"))
	require.NoError(t, err)

	_, err = uc.Create(context.Background(), createReq("DUP"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "SKU en uso")
}

func TestCreate_SKUDuplicadoConcurrente(t *testing.T) {
	uc, _ := newCatalog(t)
	var ok atomic.Int32
	var g errgroup.Group
	for i := 0; i < 20; i++ {
		g.Go(func() error {
			if _, err := uc.Create(context.Background(), createReq("RACE")); err == nil {
				ok.Add(1)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, int32(1), ok.Load())

	list, err := uc.List(context.Background(), dto.ProductFilterRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
}

func TestUpdate_CambiaAtributosYConservaStock(t *testing.T) {
	uc, _ := newCatalog(t)
	p, err := uc.Create(context.Background(), createReq("U-1"))
	require.NoError(t, err)

	updated, err := uc.Update(context.Background(), p.ID, dto.UpdateProductRequest{
		Name:  ptr("Tuerca"),
		Price: ptr(decimal.NewFromInt(3)),
		Stock: ptr(int64(4)),
	})
	require.NoError(t, err)
	assert.Equal(t, "Tuerca", updated.Name)
	assert.Equal(t, "U-1", updated.SKU)
	assert.Equal(t, int64(4), updated.Stock)
	assert.True(t, updated.Price.Equal(decimal.NewFromInt(3)))
}

func TestUpdate_RechazaCambioDeStock(t *testing.T) {
	uc, _ := newCatalog(t)
	p, err := uc.Create(context.Background(), createReq("U-2"))
	require.NoError(t, err)

	_, err = uc.Update(context.Background(), p.ID, dto.UpdateProductRequest{Stock: ptr(int64(100))})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, _ := uc.GetByID(context.Background(), p.ID)
	assert.Equal(t, int64(4), got.Stock)
}

func TestUpdate_PrecioFueraDeEscala(t *testing.T) {
	uc, _ := newCatalog(t)
	p, err := uc.Create(context.Background(), createReq("U-3"))
	require.NoError(t, err)

	for _, price := range []string{"10.555", "0.001", "10000000000000000"} {
		_, err = uc.Update(context.Background(), p.ID, dto.UpdateProductRequest{Price: ptr(decimal.RequireFromString(price))})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, price)
	}

	got, err := uc.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("12.50")))
}

func TestUpdate_SKUDeOtroProducto(t *testing.T) {
	uc, _ := newCatalog(t)
	a, err := uc.Create(context.Background(), createReq("A"))
	require.NoError(t, err)
	_, err = uc.Create(context.Background(), createReq("B"))
	require.NoError(t, err)

	_, err = uc.Update(context.Background(), a.ID, dto.UpdateProductRequest{SKU: ptr("B")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Reasignar su propio SKU es válido.
	_, err = uc.Update(context.Background(), a.ID, dto.UpdateProductRequest{SKU: ptr("A")})
	assert.NoError(t, err)
}

func TestUpdate_NoEncontrado(t *testing.T) {
	uc, _ := newCatalog(t)
	_, err := uc.Update(context.Background(), 99, dto.UpdateProductRequest{Name: ptr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_ConMovimientosEsConflicto(t *testing.T) {
	uc, store := newCatalog(t)
	ctx := context.Background()
	p, err := uc.Create(ctx, createReq("D-1"))
	require.NoError(t, err)

	supplier := &entity.Supplier{ContactDetails: entity.ContactDetails{Name: "S"}}
	require.NoError(t, memory.NewSupplierRepository(store).Create(ctx, supplier))
	require.NoError(t, memory.NewTransactionRepository(store).Create(ctx, &entity.Transaction{
		Type: entity.MovementTypeIN, ProductID: p.ID, ContactID: supplier.ID, Quantity: 1, Date: time.Now(),
	}))

	err = uc.Delete(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = uc.GetByID(ctx, p.ID)
	assert.NoError(t, err)
}

func TestDelete_SinMovimientosDesaparece(t *testing.T) {
	uc, _ := newCatalog(t)
	ctx := context.Background()
	p, err := uc.Create(ctx, createReq("D-2"))
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, p.ID))
	_, err = uc.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := uc.List(ctx, dto.ProductFilterRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)

	assert.ErrorIs(t, uc.Delete(ctx, p.ID), domain.ErrNotFound)

	// El SKU queda libre y el ID no se reutiliza.
	again, err := uc.Create(ctx, createReq("D-2"))
	require.NoError(t, err)
	assert.Greater(t, again.ID, p.ID)
}

func TestList_BusquedaYPaginacion(t *testing.T) {
	uc, _ := newCatalog(t)
	ctx := context.Background()
	for _, sku := range []string{"ABC-1", "abc-2", "XYZ-3"} {
		_, err := uc.Create(ctx, createReq(sku))
		require.NoError(t, err)
	}

	found, err := uc.List(ctx, dto.ProductFilterRequest{Search: "ABC"})
	require.NoError(t, err)
	assert.Len(t, found.Items, 2)

	byID, err := uc.List(ctx, dto.ProductFilterRequest{Search: "3"})
	require.NoError(t, err)
	require.Len(t, byID.Items, 1)
	assert.Equal(t, "XYZ-3", byID.Items[0].SKU)

	page, err := uc.List(ctx, dto.ProductFilterRequest{PageRequest: dto.PageRequest{Limit: 2, Offset: 1}})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(2), page.Items[0].ID)
}

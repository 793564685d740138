package inventory_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

func TestNextStock_EntradaSuma(t *testing.T) {
	got, err := inventory.NextStock(10, entity.MovementTypeIN, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(15), got)
}

func TestNextStock_SalidaResta(t *testing.T) {
	got, err := inventory.NextStock(10, entity.MovementTypeOUT, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got, "una salida puede dejar el stock exactamente en cero")
}

func TestNextStock_SalidaSinStockSuficiente(t *testing.T) {
	got, err := inventory.NextStock(3, entity.MovementTypeOUT, 5)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(3), got, "el stock no debe cambiar cuando se rechaza el movimiento")
}

func TestNextStock_CantidadNoPositiva(t *testing.T) {
	for _, qty := range []int64{0, -1} {
		_, err := inventory.NextStock(10, entity.MovementTypeIN, qty)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad %d", qty)
	}
}

func TestNextStock_EntradaDesbordada(t *testing.T) {
	cases := []struct {
		current, qty int64
		ok           bool
	}{
		{current: 10, qty: math.MaxInt64, ok: false},
		{current: 1, qty: math.MaxInt64, ok: false},
		{current: math.MaxInt64, qty: 1, ok: false},
		{current: 10, qty: math.MaxInt64 - 10, ok: true},
		{current: 0, qty: math.MaxInt64, ok: true},
	}
	for _, tc := range cases {
		got, err := inventory.NextStock(tc.current, entity.MovementTypeIN, tc.qty)
		if tc.ok {
			require.NoError(t, err, "actual %d cantidad %d", tc.current, tc.qty)
			assert.Equal(t, int64(math.MaxInt64), got)
			continue
		}
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "actual %d cantidad %d", tc.current, tc.qty)
		assert.Equal(t, tc.current, got, "el stock no cambia al rechazar")
	}
}

func TestNextStock_TipoDesconocido(t *testing.T) {
	_, err := inventory.NextStock(10, entity.MovementType("ADJUSTMENT"), 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReplayStock(t *testing.T) {
	history := []*entity.Transaction{
		{Type: entity.MovementTypeIN, Quantity: 5},
		{Type: entity.MovementTypeOUT, Quantity: 3},
		{Type: entity.MovementTypeIN, Quantity: 10},
		{Type: entity.MovementTypeOUT, Quantity: 12},
	}
	assert.Equal(t, int64(10+5-3+10-12), inventory.ReplayStock(10, history))
	assert.Equal(t, int64(7), inventory.ReplayStock(7, nil), "sin historial el stock es el inicial")
}

package inventory

import (
	"fmt"
	"math"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// NextStock calcula el stock resultante de aplicar un movimiento (servicio de dominio).
// IN: StockActual + Cantidad. OUT: StockActual - Cantidad, y ErrInsufficientStock si el
// resultado sería negativo (el movimiento se rechaza completo). Una entrada que desborde int64
// es ErrInvalidInput.
func NextStock(current int64, movementType entity.MovementType, quantity int64) (int64, error) {
	if quantity <= 0 {
		return current, domain.ErrInvalidInput
	}
	switch movementType {
	case entity.MovementTypeIN:
		if quantity > math.MaxInt64-current {
			return current, fmt.Errorf("%w: la entrada excede el stock máximo (actual %d, cantidad %d)", domain.ErrInvalidInput, current, quantity)
		}
		return current + quantity, nil
	case entity.MovementTypeOUT:
		next := current - quantity
		if next < 0 {
			return current, domain.ErrInsufficientStock
		}
		return next, nil
	default:
		return current, domain.ErrInvalidInput
	}
}

// ReplayStock reconstruye el stock de un producto a partir de su stock inicial y su historial:
// StockInicial + Σ(IN) - Σ(OUT). Debe coincidir siempre con Product.Stock.
func ReplayStock(initial int64, history []*entity.Transaction) int64 {
	stock := initial
	for _, tx := range history {
		stock += tx.SignedQuantity()
	}
	return stock
}

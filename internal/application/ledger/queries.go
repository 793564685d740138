package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// StockReport resultado de contrastar el stock vigente con el reconstruido desde el historial.
type StockReport struct {
	Product       *entity.Product
	ReplayedStock int64
	Movements     int
}

// Consistent informa si Stock == StockInicial + Σ(IN) - Σ(OUT).
func (r StockReport) Consistent() bool {
	return r.Product.Stock == r.ReplayedStock
}

// Get obtiene un movimiento confirmado por ID.
func (uc *UseCase) Get(ctx context.Context, id int64) (*entity.Transaction, error) {
	tx, err := uc.txRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, fmt.Errorf("%w: movimiento %d", domain.ErrNotFound, id)
	}
	return tx, nil
}

// List devuelve los movimientos confirmados que cumplen el filtro, en orden de ledger.
func (uc *UseCase) List(ctx context.Context, filter repository.TransactionFilter) ([]*entity.Transaction, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, fmt.Errorf("%w: tipo %q", domain.ErrInvalidInput, filter.Type)
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, fmt.Errorf("%w: el rango de fechas está invertido", domain.ErrInvalidInput)
	}
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, fmt.Errorf("%w: limit/offset negativos", domain.ErrInvalidInput)
	}
	return uc.txRepo.List(ctx, filter)
}

// History devuelve los movimientos de un producto en orden de confirmación.
func (uc *UseCase) History(ctx context.Context, productID int64) ([]*entity.Transaction, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %d", domain.ErrNotFound, productID)
	}
	return uc.txRepo.ListByProduct(ctx, productID)
}

// StockReport reconstruye el stock del producto desde su historial. Bloquea el producto durante la
// lectura para que stock e historial correspondan al mismo punto del ledger.
func (uc *UseCase) StockReport(ctx context.Context, productID int64) (*StockReport, error) {
	var report *StockReport
	err := uc.txRunner.Run(ctx, func(
		txRepo repository.TransactionRepository,
		productRepo repository.ProductRepository,
		_ repository.CustomerRepository,
		_ repository.SupplierRepository,
	) error {
		product, err := productRepo.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%w: producto %d", domain.ErrNotFound, productID)
		}
		history, err := txRepo.ListByProduct(ctx, productID)
		if err != nil {
			return err
		}
		report = &StockReport{
			Product:       product,
			ReplayedStock: inventory.ReplayStock(product.InitialStock, history),
			Movements:     len(history),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !report.Consistent() {
		uc.log.Error().
			Int64("product_id", productID).
			Int64("stock", report.Product.Stock).
			Int64("replayed_stock", report.ReplayedStock).
			Msg("stock inconsistente con el historial")
	}
	return report, nil
}

// ParseDateBound interpreta una fecha de filtro (RFC3339 o YYYY-MM-DD). Con endOfDay, una fecha
// sin hora cubre el día completo.
func ParseDateBound(raw string, endOfDay bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: fecha %q (use RFC3339 o YYYY-MM-DD)", domain.ErrInvalidInput, raw)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

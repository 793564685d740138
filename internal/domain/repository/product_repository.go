package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ProductFilter criterios de listado del catálogo. Limit 0 = sin límite.
type ProductFilter struct {
	Search string // subcadena (sin distinguir mayúsculas) de nombre, SKU o ID
	Limit  int
	Offset int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// Los métodos de lectura devuelven (nil, nil) si el producto no existe.
type ProductRepository interface {
	// Create persiste el producto y asigna ID. Devuelve domain.ErrDuplicate si el SKU ya existe.
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	// GetForUpdate obtiene el producto y lo bloquea hasta el fin de la transacción (SELECT FOR UPDATE).
	// Solo tiene sentido sobre repositorios atados a una transacción (TxRunner).
	GetForUpdate(ctx context.Context, id int64) (*entity.Product, error)
	// Update actualiza atributos de catálogo. No modifica Stock ni InitialStock.
	Update(ctx context.Context, product *entity.Product) error
	// UpdateStock escribe el stock (usado solo por el ledger).
	UpdateStock(ctx context.Context, id int64, stock int64) error
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	// Delete elimina el producto. Devuelve domain.ErrConflict si algún movimiento lo referencia.
	Delete(ctx context.Context, id int64) error
}

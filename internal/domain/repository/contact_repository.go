package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ContactFilter criterios de listado del directorio. Limit 0 = sin límite.
type ContactFilter struct {
	Search string // subcadena (sin distinguir mayúsculas) de nombre o email
	Limit  int
	Offset int
}

// CustomerRepository define el puerto de persistencia para clientes.
// Los métodos de lectura devuelven (nil, nil) si el cliente no existe.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id int64) (*entity.Customer, error)
	List(ctx context.Context, filter ContactFilter) ([]*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	// Delete devuelve domain.ErrConflict si alguna salida (OUT) referencia al cliente.
	Delete(ctx context.Context, id int64) error
}

// SupplierRepository define el puerto de persistencia para proveedores.
// Los métodos de lectura devuelven (nil, nil) si el proveedor no existe.
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, id int64) (*entity.Supplier, error)
	List(ctx context.Context, filter ContactFilter) ([]*entity.Supplier, error)
	Update(ctx context.Context, supplier *entity.Supplier) error
	// Delete devuelve domain.ErrConflict si alguna entrada (IN) referencia al proveedor.
	Delete(ctx context.Context, id int64) error
}

package ledger

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error nada de lo escrito por los repos queda visible.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		txRepo repository.TransactionRepository,
		productRepo repository.ProductRepository,
		customerRepo repository.CustomerRepository,
		supplierRepo repository.SupplierRepository,
	) error) error
}

// MovementAccepted evento emitido después de confirmar un movimiento.
type MovementAccepted struct {
	Transaction entity.Transaction
	ProductSKU  string
	Stock       int64 // stock del producto tras el movimiento
	OccurredAt  time.Time
}

// MovementPublisher publica eventos del ledger hacia otros sistemas.
type MovementPublisher interface {
	PublishMovementAccepted(ctx context.Context, event MovementAccepted) error
}

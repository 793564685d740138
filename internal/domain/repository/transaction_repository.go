package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// TransactionFilter criterios de consulta del ledger. Los campos en cero no filtran.
type TransactionFilter struct {
	IDContains string // subcadena del ID decimal
	From       *time.Time
	To         *time.Time
	Type       entity.MovementType
	ProductID  int64
	CustomerID int64
	SupplierID int64
	Limit      int // 0 = sin límite
	Offset     int
}

// TransactionRepository puerto del ledger. Es append-only: no hay Update ni Delete.
// Los listados se devuelven en orden de ledger (ID ascendente).
type TransactionRepository interface {
	// Create agrega el movimiento y asigna su ID.
	Create(ctx context.Context, tx *entity.Transaction) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id int64) (*entity.Transaction, error)
	List(ctx context.Context, filter TransactionFilter) ([]*entity.Transaction, error)
	ListByProduct(ctx context.Context, productID int64) ([]*entity.Transaction, error)
}

package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/rs/zerolog"
)

const publishTimeout = 5 * time.Second

// UseCase registra movimientos de inventario de forma transaccional: bloquea el producto
// (SELECT FOR UPDATE o mutex por producto), valida la contraparte y escribe movimiento y stock
// en una sola unidad atómica.
type UseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	txRepo      repository.TransactionRepository
	publisher   MovementPublisher
	log         zerolog.Logger
	now         func() time.Time
}

// NewUseCase construye el caso de uso. publisher puede ser nil (sin eventos).
func NewUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	txRepo repository.TransactionRepository,
	publisher MovementPublisher,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		txRepo:      txRepo,
		publisher:   publisher,
		log:         log,
		now:         time.Now,
	}
}

// MovementInput entrada para aceptar un movimiento. Exactamente uno de CustomerID/SupplierID:
// SupplierID para IN, CustomerID para OUT.
type MovementInput struct {
	Type       entity.MovementType
	ProductID  int64
	CustomerID *int64
	SupplierID *int64
	Quantity   int64
	UserID     string
}

// AcceptMovement valida y registra un movimiento. Devuelve el movimiento con ID y fecha asignados.
// Ante cualquier error no queda nada escrito: ni movimiento ni cambio de stock.
func (uc *UseCase) AcceptMovement(ctx context.Context, in MovementInput) (*entity.Transaction, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	var (
		accepted *entity.Transaction
		sku      string
		newStock int64
	)
	err := uc.txRunner.Run(ctx, func(
		txRepo repository.TransactionRepository,
		productRepo repository.ProductRepository,
		customerRepo repository.CustomerRepository,
		supplierRepo repository.SupplierRepository,
	) error {
		product, err := productRepo.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%w: producto %d", domain.ErrNotFound, in.ProductID)
		}

		contactID, err := counterpartyID(in)
		if err != nil {
			return err
		}
		if err := ensureContact(ctx, in.Type.CounterpartyPartition(), contactID, customerRepo, supplierRepo); err != nil {
			return err
		}

		next, err := inventory.NextStock(product.Stock, in.Type, in.Quantity)
		if err != nil {
			if errors.Is(err, domain.ErrInsufficientStock) {
				return fmt.Errorf("%w: disponible %d, solicitado %d", domain.ErrInsufficientStock, product.Stock, in.Quantity)
			}
			return err
		}

		tx := &entity.Transaction{
			Type:      in.Type,
			ProductID: product.ID,
			ContactID: contactID,
			Quantity:  in.Quantity,
			UnitPrice: product.Price,
			Date:      uc.now().UTC(),
			CreatedBy: in.UserID,
		}
		if err := txRepo.Create(ctx, tx); err != nil {
			return err
		}
		if err := productRepo.UpdateStock(ctx, product.ID, next); err != nil {
			return err
		}
		accepted, sku, newStock = tx, product.SKU, next
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Int64("transaction_id", accepted.ID).
		Str("type", string(accepted.Type)).
		Int64("product_id", accepted.ProductID).
		Int64("quantity", accepted.Quantity).
		Int64("stock", newStock).
		Msg("movimiento aceptado")

	uc.publish(ctx, MovementAccepted{
		Transaction: *accepted,
		ProductSKU:  sku,
		Stock:       newStock,
		OccurredAt:  accepted.Date,
	})
	return accepted, nil
}

// publish emite el evento sin afectar el resultado: el movimiento ya está confirmado.
func (uc *UseCase) publish(ctx context.Context, event MovementAccepted) {
	if uc.publisher == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := uc.publisher.PublishMovementAccepted(pubCtx, event); err != nil {
		uc.log.Warn().Err(err).Int64("transaction_id", event.Transaction.ID).Msg("publicar evento de movimiento")
	}
}

func validateInput(in MovementInput) error {
	if !in.Type.Valid() {
		return fmt.Errorf("%w: tipo de movimiento %q (use IN u OUT)", domain.ErrInvalidInput, in.Type)
	}
	if in.Quantity <= 0 {
		return fmt.Errorf("%w: la cantidad debe ser positiva", domain.ErrInvalidInput)
	}
	if in.ProductID <= 0 {
		return fmt.Errorf("%w: product_id es obligatorio", domain.ErrInvalidInput)
	}
	switch {
	case in.CustomerID == nil && in.SupplierID == nil:
		return fmt.Errorf("%w: se requiere customer_id (OUT) o supplier_id (IN)", domain.ErrInvalidInput)
	case in.CustomerID != nil && in.SupplierID != nil:
		return fmt.Errorf("%w: indique solo customer_id o supplier_id", domain.ErrInvalidInput)
	}
	return nil
}

// counterpartyID devuelve el ID de contacto si viene en el campo que corresponde al tipo.
func counterpartyID(in MovementInput) (int64, error) {
	switch in.Type {
	case entity.MovementTypeIN:
		if in.SupplierID == nil {
			return 0, fmt.Errorf("%w: una entrada (IN) requiere supplier_id, no customer_id", domain.ErrInvalidInput)
		}
		return *in.SupplierID, nil
	default:
		if in.CustomerID == nil {
			return 0, fmt.Errorf("%w: una salida (OUT) requiere customer_id, no supplier_id", domain.ErrInvalidInput)
		}
		return *in.CustomerID, nil
	}
}

func ensureContact(
	ctx context.Context,
	partition entity.Partition,
	id int64,
	customerRepo repository.CustomerRepository,
	supplierRepo repository.SupplierRepository,
) error {
	var contact entity.Contact
	switch partition {
	case entity.PartitionSupplier:
		s, err := supplierRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if s != nil {
			contact = s
		}
	default:
		c, err := customerRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if c != nil {
			contact = c
		}
	}
	if contact == nil {
		return fmt.Errorf("%w: %s %d", domain.ErrNotFound, partition, id)
	}
	return nil
}

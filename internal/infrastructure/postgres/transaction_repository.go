package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

const transactionColumns = `id, type, product_id, supplier_id, customer_id, quantity, unit_price, date, created_by`

// TransactionRepo ledger sobre PostgreSQL (usable con pool o tx). Solo INSERT y SELECT; la tabla
// además rechaza UPDATE/DELETE con un trigger.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// Create agrega el movimiento; la contraparte va a supplier_id o customer_id según el tipo.
func (r *TransactionRepo) Create(ctx context.Context, tx *entity.Transaction) error {
	var supplierID, customerID *int64
	contactID := tx.ContactID
	if tx.Counterparty() == entity.PartitionSupplier {
		supplierID = &contactID
	} else {
		customerID = &contactID
	}
	var createdBy *string
	if tx.CreatedBy != "" {
		createdBy = &tx.CreatedBy
	}
	query := `
		INSERT INTO transactions (type, product_id, supplier_id, customer_id, quantity, unit_price, date, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		string(tx.Type), tx.ProductID, supplierID, customerID, tx.Quantity, tx.UnitPrice, tx.Date, createdBy,
	).Scan(&tx.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: producto o contraparte inexistente", domain.ErrNotFound)
		}
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepo) GetByID(ctx context.Context, id int64) (*entity.Transaction, error) {
	tx, err := scanTransaction(r.q.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return tx, nil
}

func (r *TransactionRepo) List(ctx context.Context, filter repository.TransactionFilter) ([]*entity.Transaction, error) {
	var w where
	if needle := strings.TrimSpace(filter.IDContains); needle != "" {
		w.add(`id::text LIKE ?`, likePattern(needle))
	}
	if filter.From != nil {
		w.add(`date >= ?`, *filter.From)
	}
	if filter.To != nil {
		w.add(`date <= ?`, *filter.To)
	}
	if filter.Type != "" {
		w.add(`type = ?`, string(filter.Type))
	}
	if filter.ProductID != 0 {
		w.add(`product_id = ?`, filter.ProductID)
	}
	if filter.CustomerID != 0 {
		w.add(`customer_id = ?`, filter.CustomerID)
	}
	if filter.SupplierID != 0 {
		w.add(`supplier_id = ?`, filter.SupplierID)
	}
	query := `SELECT ` + transactionColumns + ` FROM transactions` + w.sql() + ` ORDER BY id`
	query += w.page(filter.Limit, filter.Offset)
	return r.query(ctx, "list transactions", query, w.args...)
}

func (r *TransactionRepo) ListByProduct(ctx context.Context, productID int64) ([]*entity.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE product_id = $1 ORDER BY id`
	return r.query(ctx, "list by product", query, productID)
}

func (r *TransactionRepo) query(ctx context.Context, op, query string, args ...any) ([]*entity.Transaction, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	list := make([]*entity.Transaction, 0)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		list = append(list, tx)
	}
	return list, rows.Err()
}

func scanTransaction(row pgx.Row) (*entity.Transaction, error) {
	var (
		t                      entity.Transaction
		typ                    string
		supplierID, customerID *int64
		createdBy              *string
	)
	if err := row.Scan(&t.ID, &typ, &t.ProductID, &supplierID, &customerID,
		&t.Quantity, &t.UnitPrice, &t.Date, &createdBy); err != nil {
		return nil, err
	}
	t.Type = entity.MovementType(typ)
	switch {
	case supplierID != nil:
		t.ContactID = *supplierID
	case customerID != nil:
		t.ContactID = *customerID
	}
	if createdBy != nil {
		t.CreatedBy = *createdBy
	}
	t.Date = t.Date.UTC()
	return &t, nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var (
	_ repository.CustomerRepository = (*CustomerRepo)(nil)
	_ repository.SupplierRepository = (*SupplierRepo)(nil)
)

// contactTable acceso común a customers y suppliers; las dos tablas tienen las mismas columnas
// pero secuencias de ID independientes.
type contactTable struct {
	q     Querier
	table string
	label string
}

type contactRow struct {
	id        int64
	details   entity.ContactDetails
	createdAt time.Time
	updatedAt time.Time
}

func (t contactTable) create(ctx context.Context, d entity.ContactDetails, createdAt, updatedAt time.Time) (int64, error) {
	query := `INSERT INTO ` + t.table + ` (name, email, phone, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	var id int64
	if err := t.q.QueryRow(ctx, query, d.Name, d.Email, d.Phone, d.Address, createdAt, updatedAt).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert %s: %w", t.label, err)
	}
	return id, nil
}

func (t contactTable) get(ctx context.Context, id int64) (*contactRow, error) {
	query := `SELECT id, name, email, phone, address, created_at, updated_at FROM ` + t.table + ` WHERE id = $1`
	c, err := scanContact(t.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", t.label, err)
	}
	return c, nil
}

func (t contactTable) list(ctx context.Context, filter repository.ContactFilter) ([]*contactRow, error) {
	var w where
	if filter.Search != "" {
		w.add(`(name ILIKE ? OR email ILIKE ?)`, likePattern(filter.Search))
	}
	query := `SELECT id, name, email, phone, address, created_at, updated_at FROM ` + t.table + w.sql() + ` ORDER BY id`
	query += w.page(filter.Limit, filter.Offset)

	rows, err := t.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.label, err)
	}
	defer rows.Close()
	var list []*contactRow
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.label, err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (t contactTable) update(ctx context.Context, id int64, d entity.ContactDetails, updatedAt time.Time) error {
	query := `UPDATE ` + t.table + ` SET name = $2, email = $3, phone = $4, address = $5, updated_at = $6 WHERE id = $1`
	if _, err := t.q.Exec(ctx, query, id, d.Name, d.Email, d.Phone, d.Address, updatedAt); err != nil {
		return fmt.Errorf("update %s: %w", t.label, err)
	}
	return nil
}

func (t contactTable) delete(ctx context.Context, id int64) error {
	_, err := t.q.Exec(ctx, `DELETE FROM `+t.table+` WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: el %s tiene movimientos registrados", domain.ErrConflict, t.label)
		}
		return fmt.Errorf("delete %s: %w", t.label, err)
	}
	return nil
}

func scanContact(row pgx.Row) (*contactRow, error) {
	var c contactRow
	if err := row.Scan(&c.id, &c.details.Name, &c.details.Email, &c.details.Phone, &c.details.Address,
		&c.createdAt, &c.updatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// ── Clientes ──────────────────────────────────────────────────────────────────

// CustomerRepo implementación del puerto CustomerRepository sobre PostgreSQL.
type CustomerRepo struct {
	t contactTable
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{t: contactTable{q: q, table: "customers", label: "cliente"}}
}

func (r *CustomerRepo) Create(ctx context.Context, customer *entity.Customer) error {
	id, err := r.t.create(ctx, customer.ContactDetails, customer.CreatedAt, customer.UpdatedAt)
	if err != nil {
		return err
	}
	customer.ID = id
	return nil
}

func (r *CustomerRepo) GetByID(ctx context.Context, id int64) (*entity.Customer, error) {
	c, err := r.t.get(ctx, id)
	if err != nil || c == nil {
		return nil, err
	}
	return toCustomer(c), nil
}

func (r *CustomerRepo) List(ctx context.Context, filter repository.ContactFilter) ([]*entity.Customer, error) {
	rows, err := r.t.list(ctx, filter)
	if err != nil {
		return nil, err
	}
	list := make([]*entity.Customer, 0, len(rows))
	for _, c := range rows {
		list = append(list, toCustomer(c))
	}
	return list, nil
}

func (r *CustomerRepo) Update(ctx context.Context, customer *entity.Customer) error {
	return r.t.update(ctx, customer.ID, customer.ContactDetails, customer.UpdatedAt)
}

func (r *CustomerRepo) Delete(ctx context.Context, id int64) error {
	return r.t.delete(ctx, id)
}

func toCustomer(c *contactRow) *entity.Customer {
	return &entity.Customer{ID: c.id, ContactDetails: c.details, CreatedAt: c.createdAt, UpdatedAt: c.updatedAt}
}

// ── Proveedores ───────────────────────────────────────────────────────────────

// SupplierRepo implementación del puerto SupplierRepository sobre PostgreSQL.
type SupplierRepo struct {
	t contactTable
}

// NewSupplierRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{t: contactTable{q: q, table: "suppliers", label: "proveedor"}}
}

func (r *SupplierRepo) Create(ctx context.Context, supplier *entity.Supplier) error {
	id, err := r.t.create(ctx, supplier.ContactDetails, supplier.CreatedAt, supplier.UpdatedAt)
	if err != nil {
		return err
	}
	supplier.ID = id
	return nil
}

func (r *SupplierRepo) GetByID(ctx context.Context, id int64) (*entity.Supplier, error) {
	c, err := r.t.get(ctx, id)
	if err != nil || c == nil {
		return nil, err
	}
	return toSupplier(c), nil
}

func (r *SupplierRepo) List(ctx context.Context, filter repository.ContactFilter) ([]*entity.Supplier, error) {
	rows, err := r.t.list(ctx, filter)
	if err != nil {
		return nil, err
	}
	list := make([]*entity.Supplier, 0, len(rows))
	for _, c := range rows {
		list = append(list, toSupplier(c))
	}
	return list, nil
}

func (r *SupplierRepo) Update(ctx context.Context, supplier *entity.Supplier) error {
	return r.t.update(ctx, supplier.ID, supplier.ContactDetails, supplier.UpdatedAt)
}

func (r *SupplierRepo) Delete(ctx context.Context, id int64) error {
	return r.t.delete(ctx, id)
}

func toSupplier(c *contactRow) *entity.Supplier {
	return &entity.Supplier{ID: c.id, ContactDetails: c.details, CreatedAt: c.createdAt, UpdatedAt: c.updatedAt}
}

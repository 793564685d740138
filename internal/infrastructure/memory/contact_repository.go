package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var (
	_ repository.CustomerRepository = (*CustomerRepo)(nil)
	_ repository.SupplierRepository = (*SupplierRepo)(nil)
)

func matchContact(d entity.ContactDetails, folded string) bool {
	return folded == "" || containsFolded(d.Name, folded) || containsFolded(d.Email, folded)
}

// referencedBy informa si algún movimiento confirmado apunta al contacto. Requiere s.mu tomado.
func (s *Store) referencedBy(partition entity.Partition, id int64) bool {
	for _, tx := range s.transactions {
		if tx.ContactID == id && tx.Counterparty() == partition {
			return true
		}
	}
	return false
}

// CustomerRepo clientes en memoria.
type CustomerRepo struct {
	s *Store
}

// NewCustomerRepository construye el repositorio sobre el store.
func NewCustomerRepository(s *Store) *CustomerRepo {
	return &CustomerRepo{s: s}
}

func (r *CustomerRepo) Create(_ context.Context, customer *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.customerSeq++
	customer.ID = r.s.customerSeq
	r.s.customers[customer.ID] = cloneCustomer(customer)
	return nil
}

func (r *CustomerRepo) GetByID(_ context.Context, id int64) (*entity.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.customers[id]
	if !ok {
		return nil, nil
	}
	return cloneCustomer(c), nil
}

func (r *CustomerRepo) List(_ context.Context, filter repository.ContactFilter) ([]*entity.Customer, error) {
	folded := fold(strings.TrimSpace(filter.Search))
	r.s.mu.RLock()
	list := make([]*entity.Customer, 0, len(r.s.customers))
	for _, c := range r.s.customers {
		if matchContact(c.ContactDetails, folded) {
			list = append(list, cloneCustomer(c))
		}
	}
	r.s.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return paginate(list, filter.Limit, filter.Offset), nil
}

func (r *CustomerRepo) Update(_ context.Context, customer *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.customers[customer.ID]
	if !ok {
		return nil
	}
	current.ContactDetails = customer.ContactDetails
	current.UpdatedAt = customer.UpdatedAt
	return nil
}

func (r *CustomerRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.referencedBy(entity.PartitionCustomer, id) {
		return fmt.Errorf("%w: el cliente tiene salidas registradas", domain.ErrConflict)
	}
	delete(r.s.customers, id)
	return nil
}

// SupplierRepo proveedores en memoria.
type SupplierRepo struct {
	s *Store
}

// NewSupplierRepository construye el repositorio sobre el store.
func NewSupplierRepository(s *Store) *SupplierRepo {
	return &SupplierRepo{s: s}
}

func (r *SupplierRepo) Create(_ context.Context, supplier *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.supplierSeq++
	supplier.ID = r.s.supplierSeq
	r.s.suppliers[supplier.ID] = cloneSupplier(supplier)
	return nil
}

func (r *SupplierRepo) GetByID(_ context.Context, id int64) (*entity.Supplier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	s, ok := r.s.suppliers[id]
	if !ok {
		return nil, nil
	}
	return cloneSupplier(s), nil
}

func (r *SupplierRepo) List(_ context.Context, filter repository.ContactFilter) ([]*entity.Supplier, error) {
	folded := fold(strings.TrimSpace(filter.Search))
	r.s.mu.RLock()
	list := make([]*entity.Supplier, 0, len(r.s.suppliers))
	for _, s := range r.s.suppliers {
		if matchContact(s.ContactDetails, folded) {
			list = append(list, cloneSupplier(s))
		}
	}
	r.s.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return paginate(list, filter.Limit, filter.Offset), nil
}

func (r *SupplierRepo) Update(_ context.Context, supplier *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.suppliers[supplier.ID]
	if !ok {
		return nil
	}
	current.ContactDetails = supplier.ContactDetails
	current.UpdatedAt = supplier.UpdatedAt
	return nil
}

func (r *SupplierRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.referencedBy(entity.PartitionSupplier, id) {
		return fmt.Errorf("%w: el proveedor tiene entradas registradas", domain.ErrConflict)
	}
	delete(r.s.suppliers, id)
	return nil
}

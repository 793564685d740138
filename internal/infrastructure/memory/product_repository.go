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

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo catálogo en memoria. Con tx != nil el stock se difiere hasta el commit.
type ProductRepo struct {
	s  *Store
	tx *txState
}

// NewProductRepository construye el repositorio sobre el store.
func NewProductRepository(s *Store) *ProductRepo {
	return &ProductRepo{s: s}
}

// Create verifica e inserta el SKU bajo el mismo lock: dos altas concurrentes no pueden ganar ambas.
func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, taken := r.s.skuIndex[product.SKU]; taken {
		return domain.ErrDuplicate
	}
	r.s.productSeq++
	product.ID = r.s.productSeq
	r.s.products[product.ID] = cloneProduct(product)
	r.s.skuIndex[product.SKU] = product.ID
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return r.withStaged(cloneProduct(p)), nil
}

func (r *ProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.skuIndex[sku]
	if !ok {
		return nil, nil
	}
	return r.withStaged(cloneProduct(r.s.products[id])), nil
}

// GetForUpdate bloquea el producto hasta que termine la transacción en curso.
// Fuera de una transacción equivale a GetByID.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	if r.tx != nil {
		if err := r.tx.lockProduct(ctx, r.s.productLocks, id); err != nil {
			return nil, fmt.Errorf("lock product: %w", err)
		}
	}
	return r.GetByID(ctx, id)
}

// Update reemplaza los atributos de catálogo; Stock e InitialStock se conservan.
func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.products[product.ID]
	if !ok {
		return nil
	}
	if owner, taken := r.s.skuIndex[product.SKU]; taken && owner != product.ID {
		return domain.ErrDuplicate
	}
	delete(r.s.skuIndex, current.SKU)
	r.s.skuIndex[product.SKU] = product.ID

	current.SKU = product.SKU
	current.Name = product.Name
	current.Description = product.Description
	current.Price = product.Price
	current.UpdatedAt = product.UpdatedAt
	return nil
}

func (r *ProductRepo) UpdateStock(_ context.Context, id int64, stock int64) error {
	if r.tx != nil {
		r.tx.stageStock(id, stock)
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.products[id]; ok {
		p.Stock = stock
	}
	return nil
}

func (r *ProductRepo) List(_ context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	needle := strings.TrimSpace(filter.Search)
	folded := fold(needle)

	r.s.mu.RLock()
	list := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		if needle != "" && !containsFolded(p.Name, folded) && !containsFolded(p.SKU, folded) && !idContains(p.ID, needle) {
			continue
		}
		list = append(list, r.withStaged(cloneProduct(p)))
	}
	r.s.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return paginate(list, filter.Limit, filter.Offset), nil
}

// Delete toma el lock del producto para no competir con un movimiento en curso.
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	if err := r.s.productLocks.lock(ctx, id); err != nil {
		return fmt.Errorf("lock product: %w", err)
	}
	defer r.s.productLocks.unlock(id)

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil
	}
	for _, tx := range r.s.transactions {
		if tx.ProductID == id {
			return fmt.Errorf("%w: el producto tiene movimientos registrados", domain.ErrConflict)
		}
	}
	delete(r.s.skuIndex, p.SKU)
	delete(r.s.products, id)
	return nil
}

func (r *ProductRepo) withStaged(p *entity.Product) *entity.Product {
	if r.tx != nil {
		if stock, ok := r.tx.stock[p.ID]; ok {
			p.Stock = stock
		}
	}
	return p
}

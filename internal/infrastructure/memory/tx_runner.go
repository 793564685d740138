package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-ledger/internal/application/ledger"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ ledger.TxRunner = (*TxRunner)(nil)

// txState cambios pendientes y locks de una transacción en curso.
type txState struct {
	locked  []int64
	held    map[int64]bool
	stock   map[int64]int64
	inserts []*entity.Transaction
}

func newTxState() *txState {
	return &txState{held: make(map[int64]bool), stock: make(map[int64]int64)}
}

func (t *txState) lockProduct(ctx context.Context, locks *keyedLocks, id int64) error {
	if t.held[id] {
		return nil
	}
	if err := locks.lock(ctx, id); err != nil {
		return err
	}
	t.held[id] = true
	t.locked = append(t.locked, id)
	return nil
}

func (t *txState) release(locks *keyedLocks) {
	for _, id := range t.locked {
		locks.unlock(id)
	}
	t.locked = nil
}

func (t *txState) stageStock(id, stock int64) { t.stock[id] = stock }

func (t *txState) stageTransaction(tx *entity.Transaction) { t.inserts = append(t.inserts, tx) }

// TxRunner ejecuta callbacks con repositorios atados a una transacción en memoria.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run ejecuta fn y, si no hay error, aplica stock y movimientos pendientes en un solo paso.
// Los locks de producto tomados con GetForUpdate se liberan al salir.
func (r *TxRunner) Run(ctx context.Context, fn func(
	txRepo repository.TransactionRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	supplierRepo repository.SupplierRepository,
) error) error {
	state := newTxState()
	defer state.release(r.s.productLocks)

	txRepo := &TransactionRepo{s: r.s, tx: state}
	productRepo := &ProductRepo{s: r.s, tx: state}
	if err := fn(txRepo, productRepo, NewCustomerRepository(r.s), NewSupplierRepository(r.s)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.s.commit(state)
}

// commit aplica la transacción bajo el lock de escritura. Revalida que producto y contraparte
// sigan existiendo: un contacto pudo borrarse entre la validación y el commit.
func (s *Store) commit(state *txState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tx := range state.inserts {
		if _, ok := s.products[tx.ProductID]; !ok {
			return fmt.Errorf("%w: producto %d", domain.ErrNotFound, tx.ProductID)
		}
		if !s.contactExists(tx.Counterparty(), tx.ContactID) {
			return fmt.Errorf("%w: %s %d", domain.ErrNotFound, tx.Counterparty(), tx.ContactID)
		}
	}
	for id, stock := range state.stock {
		if p, ok := s.products[id]; ok {
			p.Stock = stock
		}
	}
	for _, tx := range state.inserts {
		s.appendTransaction(tx)
	}
	return nil
}

func (s *Store) contactExists(partition entity.Partition, id int64) bool {
	if partition == entity.PartitionSupplier {
		_, ok := s.suppliers[id]
		return ok
	}
	_, ok := s.customers[id]
	return ok
}

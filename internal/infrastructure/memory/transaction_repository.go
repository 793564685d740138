package memory

import (
	"context"
	"strings"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo ledger en memoria. Las lecturas solo ven movimientos confirmados.
type TransactionRepo struct {
	s  *Store
	tx *txState
}

// NewTransactionRepository construye el repositorio sobre el store.
func NewTransactionRepository(s *Store) *TransactionRepo {
	return &TransactionRepo{s: s}
}

// Create fuera de una transacción confirma de inmediato; dentro, el ID se asigna en el commit.
func (r *TransactionRepo) Create(_ context.Context, tx *entity.Transaction) error {
	if r.tx != nil {
		r.tx.stageTransaction(tx)
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.appendTransaction(tx)
	return nil
}

func (r *TransactionRepo) GetByID(_ context.Context, id int64) (*entity.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	// IDs consecutivos desde 1 en orden de ledger.
	if id <= 0 || id > int64(len(r.s.transactions)) {
		return nil, nil
	}
	return cloneTransaction(r.s.transactions[id-1]), nil
}

func (r *TransactionRepo) List(_ context.Context, filter repository.TransactionFilter) ([]*entity.Transaction, error) {
	needle := strings.TrimSpace(filter.IDContains)
	r.s.mu.RLock()
	list := make([]*entity.Transaction, 0)
	for _, tx := range r.s.transactions {
		if matchTransaction(tx, filter, needle) {
			list = append(list, cloneTransaction(tx))
		}
	}
	r.s.mu.RUnlock()
	return paginate(list, filter.Limit, filter.Offset), nil
}

func (r *TransactionRepo) ListByProduct(_ context.Context, productID int64) ([]*entity.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.Transaction, 0)
	for _, tx := range r.s.transactions {
		if tx.ProductID == productID {
			list = append(list, cloneTransaction(tx))
		}
	}
	return list, nil
}

func matchTransaction(tx *entity.Transaction, f repository.TransactionFilter, needle string) bool {
	switch {
	case needle != "" && !idContains(tx.ID, needle):
		return false
	case f.From != nil && tx.Date.Before(*f.From):
		return false
	case f.To != nil && tx.Date.After(*f.To):
		return false
	case f.Type != "" && tx.Type != f.Type:
		return false
	case f.ProductID != 0 && tx.ProductID != f.ProductID:
		return false
	case f.CustomerID != 0 && (tx.Counterparty() != entity.PartitionCustomer || tx.ContactID != f.CustomerID):
		return false
	case f.SupplierID != 0 && (tx.Counterparty() != entity.PartitionSupplier || tx.ContactID != f.SupplierID):
		return false
	}
	return true
}

// appendTransaction asigna el siguiente ID y agrega al ledger. Requiere s.mu tomado en escritura.
func (s *Store) appendTransaction(tx *entity.Transaction) {
	s.transactionSeq++
	tx.ID = s.transactionSeq
	s.transactions = append(s.transactions, cloneTransaction(tx))
}

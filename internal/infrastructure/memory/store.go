// Package memory implementa los puertos de persistencia en memoria (desarrollo y tests).
//
// Un único Store guarda catálogo, directorio, ledger y usuarios bajo un RWMutex. Los
// movimientos se serializan por producto con un lock por clave que se toma en GetForUpdate y
// se libera al terminar TxRunner.Run, igual que un SELECT FOR UPDATE.
package memory

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"golang.org/x/text/cases"
)

// Store estado compartido por todos los repositorios en memoria.
type Store struct {
	mu sync.RWMutex

	products     map[int64]*entity.Product
	skuIndex     map[string]int64
	customers    map[int64]*entity.Customer
	suppliers    map[int64]*entity.Supplier
	transactions []*entity.Transaction // orden de ledger
	users        map[string]*entity.User
	emailIndex   map[string]string

	productSeq     int64
	customerSeq    int64
	supplierSeq    int64
	transactionSeq int64

	productLocks *keyedLocks
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		products:     make(map[int64]*entity.Product),
		skuIndex:     make(map[string]int64),
		customers:    make(map[int64]*entity.Customer),
		suppliers:    make(map[int64]*entity.Supplier),
		users:        make(map[string]*entity.User),
		emailIndex:   make(map[string]string),
		productLocks: newKeyedLocks(),
	}
}

// keyedLocks mutex por clave que respeta la cancelación del contexto. Cada slot cuenta
// a su dueño y a quienes esperan; se borra del mapa cuando nadie lo referencia.
type keyedLocks struct {
	mu    sync.Mutex
	slots map[int64]*keyedSlot
}

type keyedSlot struct {
	ch   chan struct{}
	refs int
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{slots: make(map[int64]*keyedSlot)}
}

func (k *keyedLocks) acquire(key int64) *keyedSlot {
	k.mu.Lock()
	defer k.mu.Unlock()
	s, ok := k.slots[key]
	if !ok {
		s = &keyedSlot{ch: make(chan struct{}, 1)}
		k.slots[key] = s
	}
	s.refs++
	return s
}

func (k *keyedLocks) release(key int64, s *keyedSlot) {
	k.mu.Lock()
	defer k.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(k.slots, key)
	}
}

func (k *keyedLocks) lock(ctx context.Context, key int64) error {
	s := k.acquire(key)
	select {
	case s.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		k.release(key, s)
		return ctx.Err()
	}
}

func (k *keyedLocks) unlock(key int64) {
	k.mu.Lock()
	s := k.slots[key]
	k.mu.Unlock()
	<-s.ch
	k.release(key, s)
}

// fold normaliza para comparar sin distinguir mayúsculas (un Caser no se comparte entre goroutines).
func fold(s string) string {
	return cases.Fold().String(s)
}

func containsFolded(haystack, foldedNeedle string) bool {
	return strings.Contains(fold(haystack), foldedNeedle)
}

func idContains(id int64, needle string) bool {
	return strings.Contains(strconv.FormatInt(id, 10), needle)
}

// paginate aplica offset/limit a un listado ya ordenado. Limit 0 = sin límite.
func paginate[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return []T{}
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func cloneProduct(p *entity.Product) *entity.Product {
	c := *p
	return &c
}

func cloneCustomer(c *entity.Customer) *entity.Customer {
	out := *c
	return &out
}

func cloneSupplier(s *entity.Supplier) *entity.Supplier {
	out := *s
	return &out
}

func cloneTransaction(t *entity.Transaction) *entity.Transaction {
	out := *t
	return &out
}

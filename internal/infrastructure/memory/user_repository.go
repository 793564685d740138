package memory

import (
	"context"
	"strings"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo usuarios en memoria; el email es único sin distinguir mayúsculas.
type UserRepo struct {
	s *Store
}

// NewUserRepository construye el repositorio sobre el store.
func NewUserRepository(s *Store) *UserRepo {
	return &UserRepo{s: s}
}

func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	key := strings.ToLower(user.Email)
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, taken := r.s.emailIndex[key]; taken {
		return domain.ErrEmailAlreadyExists
	}
	u := *user
	r.s.users[user.ID] = &u
	r.s.emailIndex[key] = user.ID
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	out := *u
	return &out, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	id, ok := r.s.emailIndex[strings.ToLower(email)]
	r.s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return r.GetByID(ctx, id)
}

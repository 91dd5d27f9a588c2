package memory

import (
	"context"
	"strings"

	"github.com/jhoicas/funko-api/internal/domain"
	"github.com/jhoicas/funko-api/internal/domain/entity"
	"github.com/jhoicas/funko-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo usuarios en memoria.
type UserRepo struct {
	s *Store
}

// Create asigna el ID. Username o email repetidos son domain.ErrDuplicate.
func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Username == user.Username || strings.EqualFold(u.Email, user.Email) {
			return domain.ErrDuplicate
		}
	}
	r.s.nextUser++
	user.ID = r.s.nextUser
	r.s.users[user.ID] = *user
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.ID == id }), nil
}

// GetByUsername obtiene un usuario por nombre de usuario.
func (r *UserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.Username == username }), nil
}

// GetByEmail obtiene un usuario por email.
func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return strings.EqualFold(u.Email, email) }), nil
}

func (r *UserRepo) find(match func(entity.User) bool) *entity.User {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if match(u) {
			return &u
		}
	}
	return nil
}

// Package memory is an in-process UserRepository used by tests and by
// DB_TARGET=memory for running the API without MongoDB.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/business-card-api/internal/domain/entity"
	"github.com/oksasatya/business-card-api/internal/domain/repository"
)

type UserRepository struct {
	mu      sync.RWMutex
	byID    map[string]entity.User
	byEmail map[string]string
	now     func() time.Time
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[string]entity.User),
		byEmail: make(map[string]string),
		now:     time.Now,
	}
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[u.Email]; taken {
		return repository.ErrEmailTaken
	}
	now := r.now().UTC()
	u.ID = primitive.NewObjectID().Hex()
	u.CreatedAt, u.UpdatedAt = now, now
	r.byID[u.ID] = *u
	r.byEmail[u.Email] = u.ID
	return nil
}

func (r *UserRepository) List(_ context.Context) ([]entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, withoutPassword(u))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	u = withoutPassword(u)
	return &u, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	u := r.byID[id]
	return &u, nil
}

func (r *UserRepository) Update(_ context.Context, id string, patch entity.UserPatch) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	if patch.Email != nil && *patch.Email != u.Email {
		if _, taken := r.byEmail[*patch.Email]; taken {
			return nil, repository.ErrEmailTaken
		}
		delete(r.byEmail, u.Email)
		r.byEmail[*patch.Email] = id
	}
	u = patch.Apply(u)
	return r.save(u), nil
}

func (r *UserRepository) ToggleBusiness(_ context.Context, id string) (*entity.User, error) {
	return r.mutate(id, func(u *entity.User) { u.IsBusiness = !u.IsBusiness })
}

func (r *UserRepository) SetAdmin(_ context.Context, id string, isAdmin bool) (*entity.User, error) {
	return r.mutate(id, func(u *entity.User) { u.IsAdmin = isAdmin })
}

func (r *UserRepository) Delete(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	delete(r.byID, id)
	delete(r.byEmail, u.Email)
	u = withoutPassword(u)
	return &u, nil
}

func (r *UserRepository) mutate(id string, fn func(u *entity.User)) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	fn(&u)
	return r.save(u), nil
}

// save stores u and returns a password-free copy. Callers hold the write lock.
func (r *UserRepository) save(u entity.User) *entity.User {
	u.UpdatedAt = r.now().UTC()
	r.byID[u.ID] = u
	out := withoutPassword(u)
	return &out
}

// StoredPassword exposes the stored hash for tests asserting it is never plaintext.
func (r *UserRepository) StoredPassword(id string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	return u.Password, ok
}

// Len reports how many users are stored.
func (r *UserRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

func withoutPassword(u entity.User) entity.User {
	u.Password = ""
	return u
}

var _ repository.UserRepository = (*UserRepository)(nil)

package memory

import (
	"context"
	"sync"

	"github.com/rafidmahmud/safepoint/internal/domain/user"
)

// UsersRepo keeps user records in process memory. It backs the server
// when no database is configured and the store-level tests.
type UsersRepo struct {
	mu    sync.RWMutex
	items map[string]user.User // keyed by email
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		items: make(map[string]user.User),
	}
}

func (r *UsersRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[u.Email]; exists {
		return user.User{}, user.ErrDuplicateEmail
	}

	r.items[u.Email] = u
	return u, nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	r.mu.RLock()
	u, ok := r.items[email]
	r.mu.RUnlock()

	if !ok {
		return user.User{}, user.ErrNotFound
	}

	return u, nil
}

func (r *UsersRepo) UpdatePassword(ctx context.Context, email, passwordHash string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.items[email]

	if !ok {
		return user.User{}, user.ErrNotFound
	}

	u.PasswordHash = passwordHash
	r.items[email] = u

	return u, nil
}

func (r *UsersRepo) UpdateImage(ctx context.Context, email string, path *string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.items[email]

	if !ok {
		return user.User{}, user.ErrNotFound
	}

	u.Image = path
	r.items[email] = u

	return u, nil
}

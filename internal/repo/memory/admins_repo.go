package memory

import (
	"context"
	"sync"

	"github.com/rafidmahmud/safepoint/internal/domain/admin"
)

type AdminsRepo struct {
	mu    sync.RWMutex
	items map[admin.Key]admin.Admin
}

func NewAdminsRepo() *AdminsRepo {
	return &AdminsRepo{
		items: make(map[admin.Key]admin.Admin),
	}
}

func (r *AdminsRepo) Create(ctx context.Context, a admin.Admin) (admin.Admin, error) {
	key := admin.Key{Email: a.Email, AdminType: a.AdminType}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[key]; exists {
		return admin.Admin{}, admin.ErrDuplicate
	}

	r.items[key] = a
	return a, nil
}

func (r *AdminsRepo) GetByKey(ctx context.Context, key admin.Key) (admin.Admin, error) {
	r.mu.RLock()
	a, ok := r.items[key]
	r.mu.RUnlock()

	if !ok {
		return admin.Admin{}, admin.ErrNotFound
	}

	return a, nil
}

func (r *AdminsRepo) UpdatePassword(ctx context.Context, key admin.Key, passwordHash string) (admin.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.items[key]

	if !ok {
		return admin.Admin{}, admin.ErrNotFound
	}

	a.PasswordHash = passwordHash
	r.items[key] = a

	return a, nil
}

func (r *AdminsRepo) UpdateImage(ctx context.Context, key admin.Key, path *string) (admin.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.items[key]

	if !ok {
		return admin.Admin{}, admin.ErrNotFound
	}

	a.Image = path
	r.items[key] = a

	return a, nil
}

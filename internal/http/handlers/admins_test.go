package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/rafidmahmud/safepoint/internal/domain/admin"
	"github.com/rafidmahmud/safepoint/internal/http/handlers"
	"github.com/rafidmahmud/safepoint/internal/security"
)

type fakeAdminStore struct {
	createFn         func(ctx context.Context, a admin.Admin) (admin.Admin, error)
	getFn            func(ctx context.Context, key admin.Key) (admin.Admin, error)
	updatePasswordFn func(ctx context.Context, key admin.Key, hash string) (admin.Admin, error)
	updateImageFn    func(ctx context.Context, key admin.Key, path *string) (admin.Admin, error)
}

func (f *fakeAdminStore) Create(ctx context.Context, a admin.Admin) (admin.Admin, error) {
	if f.createFn != nil {
		return f.createFn(ctx, a)
	}
	return a, nil
}

func (f *fakeAdminStore) GetByKey(ctx context.Context, key admin.Key) (admin.Admin, error) {
	if f.getFn != nil {
		return f.getFn(ctx, key)
	}
	return admin.Admin{}, admin.ErrNotFound
}

func (f *fakeAdminStore) UpdatePassword(ctx context.Context, key admin.Key, hash string) (admin.Admin, error) {
	if f.updatePasswordFn != nil {
		return f.updatePasswordFn(ctx, key, hash)
	}
	return admin.Admin{}, admin.ErrNotFound
}

func (f *fakeAdminStore) UpdateImage(ctx context.Context, key admin.Key, path *string) (admin.Admin, error) {
	if f.updateImageFn != nil {
		return f.updateImageFn(ctx, key, path)
	}
	return admin.Admin{}, admin.ErrNotFound
}

const adminRegisterBody = `{
	"email": "ops@x.com",
	"username": "station-12",
	"admin_type": "police",
	"country": "BD",
	"thana": "Dhanmondi",
	"password": "secret1"
}`

func TestRegisterAdminHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		storeSetUp     func(*fakeAdminStore)
		wantStatusCode int
	}{
		{
			name:           "success",
			body:           adminRegisterBody,
			wantStatusCode: http.StatusOK,
		},
		{
			// admin_type is required, unlike the user request shape
			name:           "missing_admin_type",
			body:           `{"email": "ops@x.com", "username": "s", "country": "BD", "thana": "D", "password": "secret1"}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "duplicate_pair",
			body: adminRegisterBody,
			storeSetUp: func(f *fakeAdminStore) {
				f.createFn = func(ctx context.Context, a admin.Admin) (admin.Admin, error) {
					return admin.Admin{}, admin.ErrDuplicate
				}
			},
			wantStatusCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			store := &fakeAdminStore{}

			if tt.storeSetUp != nil {
				tt.storeSetUp(store)
			}

			h := handlers.NewAdminsHandler(store, nil, nil, 4)
			r := setupRouter(http.MethodPost, "/register-admin", h.Register)

			w := postJSON(t, r, "/register-admin", tt.body)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestLoginAdminUsesCompositeKey(t *testing.T) {
	hash, _ := security.HashPassword("secret1", 4)

	store := &fakeAdminStore{
		getFn: func(ctx context.Context, key admin.Key) (admin.Admin, error) {
			// only the police record exists for this email
			if key.Email == "ops@x.com" && key.AdminType == "police" {
				return admin.Admin{Email: key.Email, AdminType: key.AdminType, PasswordHash: hash}, nil
			}
			return admin.Admin{}, admin.ErrNotFound
		},
	}

	h := handlers.NewAdminsHandler(store, nil, nil, 4)
	r := setupRouter(http.MethodPost, "/login-admin", h.Login)

	tests := []struct {
		name           string
		body           string
		wantStatusCode int
	}{
		{
			name:           "success",
			body:           `{"email": "ops@x.com", "password": "secret1", "admin_type": "police"}`,
			wantStatusCode: http.StatusOK,
		},
		{
			// right email and password under the wrong service type must fail
			name:           "wrong_admin_type",
			body:           `{"email": "ops@x.com", "password": "secret1", "admin_type": "hospital"}`,
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "wrong_password",
			body:           `{"email": "ops@x.com", "password": "wrong", "admin_type": "police"}`,
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "admin_type_required",
			body:           `{"email": "ops@x.com", "password": "secret1"}`,
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, r, "/login-admin", tt.body)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestAdminProfileRedactsCredential(t *testing.T) {
	store := &fakeAdminStore{
		getFn: func(ctx context.Context, key admin.Key) (admin.Admin, error) {
			return admin.Admin{
				Email:        key.Email,
				Username:     "station-12",
				AdminType:    key.AdminType,
				Country:      "BD",
				Thana:        "Dhanmondi",
				PasswordHash: "$2a$10$something",
			}, nil
		},
	}

	h := handlers.NewAdminsHandler(store, nil, nil, 4)
	r := setupRouter(http.MethodPost, "/admin-data", h.Profile)

	w := postJSON(t, r, "/admin-data", `{"email": "ops@x.com", "admin_type": "police"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	var payload map[string]any

	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("bad json: %v", err)
	}

	for key := range payload {
		if strings.Contains(strings.ToLower(key), "password") || strings.Contains(strings.ToLower(key), "hash") {
			t.Errorf("credential leaked under key %q", key)
		}
	}

	if payload["admin_type"] != "police" || payload["thana"] != "Dhanmondi" {
		t.Errorf("profile fields missing: %v", payload)
	}
}

func TestChangePasswordAdminHandler(t *testing.T) {
	var gotKey admin.Key

	store := &fakeAdminStore{
		updatePasswordFn: func(ctx context.Context, key admin.Key, hash string) (admin.Admin, error) {
			gotKey = key
			if key.AdminType != "police" {
				return admin.Admin{}, admin.ErrNotFound
			}
			return admin.Admin{Email: key.Email, AdminType: key.AdminType, PasswordHash: hash}, nil
		},
	}

	h := handlers.NewAdminsHandler(store, nil, nil, 4)
	r := setupRouter(http.MethodPost, "/change-password-admin", h.ChangePassword)

	w := postJSON(t, r, "/change-password-admin", `{"email": "ops@x.com", "newPassword": "secret2", "admin_type": "police"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	if gotKey != (admin.Key{Email: "ops@x.com", AdminType: "police"}) {
		t.Errorf("store received wrong key: %+v", gotKey)
	}

	w = postJSON(t, r, "/change-password-admin", `{"email": "ops@x.com", "newPassword": "secret2", "admin_type": "hospital"}`)

	if w.Code != http.StatusNotFound {
		t.Fatalf("wrong admin_type: got status %d, want 404", w.Code)
	}
}

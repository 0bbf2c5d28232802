package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rafidmahmud/safepoint/internal/cache"
	"github.com/rafidmahmud/safepoint/internal/config"
	"github.com/rafidmahmud/safepoint/internal/domain/admin"
	"github.com/rafidmahmud/safepoint/internal/security"
)

type AdminStore interface {
	Create(ctx context.Context, a admin.Admin) (admin.Admin, error)
	GetByKey(ctx context.Context, key admin.Key) (admin.Admin, error)
	UpdatePassword(ctx context.Context, key admin.Key, passwordHash string) (admin.Admin, error)
	UpdateImage(ctx context.Context, key admin.Key, path *string) (admin.Admin, error)
}

type AdminsHandler struct {
	store      AdminStore
	images     ImageSaver
	profiles   *cache.Cache
	bcryptCost int
}

func NewAdminsHandler(store AdminStore, images ImageSaver, profiles *cache.Cache, bcryptCost int) *AdminsHandler {
	return &AdminsHandler{
		store:      store,
		images:     images,
		profiles:   profiles,
		bcryptCost: bcryptCost,
	}
}

func adminCacheKey(key admin.Key) string {
	return "admin:" + key.Email + "|" + key.AdminType
}

func (h *AdminsHandler) Register(ctx *gin.Context) {
	var req admin.RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	hash, err := security.HashPassword(req.Password, h.bcryptCost)

	if err != nil {
		RespondInternal(ctx, "Could not register admin")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	_, err = h.store.Create(cctx, admin.NewFromRegisterRequest(req, hash))

	if err != nil {
		if errors.Is(err, admin.ErrDuplicate) {
			RespondConflict(ctx, "admin_exists", "An admin with this email and service type already exists.")
			return
		}

		RespondInternal(ctx, "Could not register admin")
		return
	}

	RespondMessage(ctx, "Admin Registered Successfully")
}

func (h *AdminsHandler) Login(ctx *gin.Context) {
	var req admin.LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	found, err := h.store.GetByKey(cctx, admin.Key{Email: req.Email, AdminType: req.AdminType})

	if err != nil {
		// unknown key and wrong password answer identically
		if errors.Is(err, admin.ErrNotFound) {
			RespondUnAuthorized(ctx, "invalid_credentials", "Invalid credentials")
			return
		}

		RespondInternal(ctx, "Error during login")
		return
	}

	err = security.CheckPassword(found.PasswordHash, req.Password)

	if err != nil {
		RespondUnAuthorized(ctx, "invalid_credentials", "Invalid credentials")
		return
	}

	RespondMessage(ctx, "Login Successful")
}

func (h *AdminsHandler) Profile(ctx *gin.Context) {
	var req admin.LookupRequest

	if !BindJSON(ctx, &req) {
		return
	}

	key := admin.Key{Email: req.Email, AdminType: req.AdminType}

	if h.profiles != nil {
		if v, ok := h.profiles.Get(adminCacheKey(key)); ok {
			if a, ok := v.(admin.Admin); ok {
				ctx.JSON(http.StatusOK, a)
				return
			}
		}
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	found, err := h.store.GetByKey(cctx, key)

	if err != nil {
		if errors.Is(err, admin.ErrNotFound) {
			RespondNotFound(ctx, "Admin not found")
			return
		}

		RespondInternal(ctx, "Error fetching admin data")
		return
	}

	if h.profiles != nil {
		h.profiles.Set(adminCacheKey(key), found)
	}

	ctx.JSON(http.StatusOK, found)
}

func (h *AdminsHandler) ChangePassword(ctx *gin.Context) {
	var req admin.ChangePasswordRequest

	if !BindJSON(ctx, &req) {
		return
	}

	hash, err := security.HashPassword(req.NewPassword, h.bcryptCost)

	if err != nil {
		RespondInternal(ctx, "Error changing password")
		return
	}

	key := admin.Key{Email: req.Email, AdminType: req.AdminType}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	_, err = h.store.UpdatePassword(cctx, key, hash)

	if err != nil {
		if errors.Is(err, admin.ErrNotFound) {
			RespondNotFound(ctx, "Admin not found")
			return
		}

		RespondInternal(ctx, "Error changing password")
		return
	}

	if h.profiles != nil {
		h.profiles.Delete(adminCacheKey(key))
	}

	RespondMessage(ctx, "Password changed successfully")
}

func (h *AdminsHandler) UploadImage(ctx *gin.Context) {
	email := ctx.PostForm("email")
	adminType := ctx.PostForm("admin_type")

	if email == "" || adminType == "" {
		missing := make([]FieldError, 0, 2)
		if email == "" {
			missing = append(missing, FieldError{Field: "email", Rule: "required", Message: "is required"})
		}
		if adminType == "" {
			missing = append(missing, FieldError{Field: "admin_type", Rule: "required", Message: "is required"})
		}
		RespondBadRequest(ctx, "Invalid request body", gin.H{"fields": missing})
		return
	}

	var path *string

	file, err := ctx.FormFile("image")

	if err == nil && file != nil {
		src, err := file.Open()

		if err != nil {
			RespondInternal(ctx, "Error uploading image")
			return
		}
		defer src.Close()

		saved, err := h.images.Save(file.Filename, src)

		if err != nil {
			RespondInternal(ctx, "Error uploading image")
			return
		}

		path = &saved
	}

	key := admin.Key{Email: email, AdminType: adminType}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	_, err = h.store.UpdateImage(cctx, key, path)

	if err != nil {
		if errors.Is(err, admin.ErrNotFound) {
			RespondNotFound(ctx, "Admin not found")
			return
		}

		RespondInternal(ctx, "Error uploading image")
		return
	}

	if h.profiles != nil {
		h.profiles.Delete(adminCacheKey(key))
	}

	RespondMessage(ctx, "Image uploaded successfully")
}

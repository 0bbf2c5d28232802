package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rafidmahmud/safepoint/internal/cache"
	"github.com/rafidmahmud/safepoint/internal/config"
	"github.com/rafidmahmud/safepoint/internal/domain/user"
	"github.com/rafidmahmud/safepoint/internal/security"
)

type UserStore interface {
	Create(ctx context.Context, u user.User) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) (user.User, error)
	UpdateImage(ctx context.Context, email string, path *string) (user.User, error)
}

type ImageSaver interface {
	Save(originalName string, body io.Reader) (string, error)
}

type UsersHandler struct {
	store      UserStore
	images     ImageSaver
	profiles   *cache.Cache
	bcryptCost int
}

func NewUsersHandler(store UserStore, images ImageSaver, profiles *cache.Cache, bcryptCost int) *UsersHandler {
	return &UsersHandler{
		store:      store,
		images:     images,
		profiles:   profiles,
		bcryptCost: bcryptCost,
	}
}

func userCacheKey(email string) string {
	return "user:" + email
}

func (h *UsersHandler) Register(ctx *gin.Context) {
	var req user.RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	hash, err := security.HashPassword(req.Password, h.bcryptCost)

	if err != nil {
		RespondInternal(ctx, "Could not register user")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	_, err = h.store.Create(cctx, user.NewFromRegisterRequest(req, hash))

	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			RespondConflict(ctx, "email_taken", "Email is already registered.")
			return
		}

		RespondInternal(ctx, "Could not register user")
		return
	}

	RespondMessage(ctx, "User Registered Successfully")
}

func (h *UsersHandler) Login(ctx *gin.Context) {
	var req user.LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	found, err := h.store.GetByEmail(cctx, req.Email)

	if err != nil {
		// unknown email and wrong password answer identically
		if errors.Is(err, user.ErrNotFound) {
			RespondUnAuthorized(ctx, "invalid_credentials", "Invalid email or password")
			return
		}

		RespondInternal(ctx, "Error during login")
		return
	}

	err = security.CheckPassword(found.PasswordHash, req.Password)

	if err != nil {
		RespondUnAuthorized(ctx, "invalid_credentials", "Invalid email or password")
		return
	}

	RespondMessage(ctx, "Login Successful")
}

func (h *UsersHandler) Profile(ctx *gin.Context) {
	var req user.LookupRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if h.profiles != nil {
		if v, ok := h.profiles.Get(userCacheKey(req.Email)); ok {
			if u, ok := v.(user.User); ok {
				ctx.JSON(http.StatusOK, u)
				return
			}
		}
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	found, err := h.store.GetByEmail(cctx, req.Email)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}

		RespondInternal(ctx, "Error fetching user data")
		return
	}

	if h.profiles != nil {
		h.profiles.Set(userCacheKey(req.Email), found)
	}

	// PasswordHash is json:"-", the credential never leaves the process
	ctx.JSON(http.StatusOK, found)
}

func (h *UsersHandler) ChangePassword(ctx *gin.Context) {
	var req user.ChangePasswordRequest

	if !BindJSON(ctx, &req) {
		return
	}

	hash, err := security.HashPassword(req.NewPassword, h.bcryptCost)

	if err != nil {
		RespondInternal(ctx, "Error changing password")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	_, err = h.store.UpdatePassword(cctx, req.Email, hash)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}

		RespondInternal(ctx, "Error changing password")
		return
	}

	if h.profiles != nil {
		h.profiles.Delete(userCacheKey(req.Email))
	}

	RespondMessage(ctx, "Password changed successfully")
}

func (h *UsersHandler) UploadImage(ctx *gin.Context) {
	email := ctx.PostForm("email")

	if email == "" {
		RespondBadRequest(ctx, "Invalid request body", gin.H{
			"fields": []FieldError{{Field: "email", Rule: "required", Message: "is required"}},
		})
		return
	}

	// no image part clears the stored path, matching the mobile client contract
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

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	_, err = h.store.UpdateImage(cctx, email, path)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}

		RespondInternal(ctx, "Error uploading image")
		return
	}

	if h.profiles != nil {
		h.profiles.Delete(userCacheKey(email))
	}

	RespondMessage(ctx, "Image uploaded successfully")
}

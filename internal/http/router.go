package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/rafidmahmud/safepoint/internal/cache"
	"github.com/rafidmahmud/safepoint/internal/config"
	"github.com/rafidmahmud/safepoint/internal/http/handlers"
	"github.com/rafidmahmud/safepoint/internal/http/middlewares"
	"github.com/rafidmahmud/safepoint/internal/observability"
	"github.com/rafidmahmud/safepoint/internal/storage"
)

type RouterDeps struct {
	Users    handlers.UserStore
	Admins   handlers.AdminStore
	Uploads  *storage.Uploads
	Prom     *observability.Prom
	Registry *prometheus.Registry
	Ping     func() error
	Tracing  bool
}

func NewRouter(log *slog.Logger, cfg config.Config, deps RouterDeps) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSAllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(cfg.MaxUploadBytes))

	if deps.Prom != nil {
		r.Use(deps.Prom.GinHandleMiddleware())
	}

	if deps.Tracing {
		r.Use(otelgin.Middleware("safepoint"))
	}

	// health + metrics

	h := handlers.NewHealthHandler(deps.Ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if deps.Registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	}

	// profile operations

	profiles := cache.New(cfg.CacheTTL)

	usersHandler := handlers.NewUsersHandler(deps.Users, deps.Uploads, profiles, cfg.BcryptCost)
	adminsHandler := handlers.NewAdminsHandler(deps.Admins, deps.Uploads, profiles, cfg.BcryptCost)

	// the upload routes take multipart form data, everything else is JSON
	jsonOnly := r.Group("/", middlewares.RequireJSON())

	jsonOnly.POST("/register-user", usersHandler.Register)
	jsonOnly.POST("/login-user", usersHandler.Login)
	jsonOnly.POST("/user-data", usersHandler.Profile)
	jsonOnly.POST("/change-password-user", usersHandler.ChangePassword)

	jsonOnly.POST("/register-admin", adminsHandler.Register)
	jsonOnly.POST("/login-admin", adminsHandler.Login)
	jsonOnly.POST("/admin-data", adminsHandler.Profile)
	jsonOnly.POST("/change-password-admin", adminsHandler.ChangePassword)

	r.POST("/upload-image-user", usersHandler.UploadImage)
	r.POST("/upload-image-admin", adminsHandler.UploadImage)

	if deps.Uploads != nil {
		r.Static(storage.PublicPrefix, deps.Uploads.Dir())
	}

	return r
}

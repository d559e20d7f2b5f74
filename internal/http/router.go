package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/resolvedesk/backend/internal/ai"
	"github.com/resolvedesk/backend/internal/auth"
	"github.com/resolvedesk/backend/internal/config"
	"github.com/resolvedesk/backend/internal/db"
	"github.com/resolvedesk/backend/internal/http/handlers"
	"github.com/resolvedesk/backend/internal/http/middleware"
	"github.com/resolvedesk/backend/internal/models"
	"github.com/resolvedesk/backend/internal/notify"

	_ "github.com/resolvedesk/backend/docs"
)

func Router(cfg config.Config, store *db.Store, adapter ai.Adapter, notifier notify.Notifier, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{cfg.CORSAllowed}
	}
	r.Use(cors.New(corsCfg))

	issuer := auth.TokenIssuer{Secret: []byte(cfg.JWTSecret), TTL: cfg.TokenTTL}
	h := &handlers.Handler{
		Store:          store,
		AI:             adapter,
		Tokens:         issuer,
		Notifier:       notifier,
		Validator:      validator.New(),
		Logger:         logger,
		MaxUploadBytes: cfg.MaxUploadSizeMB << 20,
	}

	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")
	{
		api.POST("/users/register", h.Register)
		api.POST("/users/login", h.Login)
	}

	authed := api.Group("")
	authed.Use(middleware.Authenticate(issuer))
	{
		authed.POST("/complaints", h.CreateComplaint)
		authed.GET("/complaints", h.ListComplaints)
		authed.GET("/complaints/:id", h.GetComplaint)
		authed.POST("/complaints/:id/actions", h.ApplyAction)
		authed.POST("/complaints/:id/feedback", h.SubmitFeedback)
	}

	admin := authed.Group("")
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	{
		admin.GET("/complaints/stats", h.ComplaintStats)
		admin.GET("/complaints/:id/eligible-engineers", h.EligibleEngineers)
		admin.DELETE("/complaints/:id", h.DeleteComplaint)
		admin.GET("/users", h.ListUsers)
		admin.DELETE("/users/:id", h.DeleteUser)
		admin.POST("/triage/suggest", h.TriageSuggest)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

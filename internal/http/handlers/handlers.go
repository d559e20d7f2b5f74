package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/resolvedesk/backend/internal/ai"
	"github.com/resolvedesk/backend/internal/auth"
	"github.com/resolvedesk/backend/internal/db"
	"github.com/resolvedesk/backend/internal/lifecycle"
	"github.com/resolvedesk/backend/internal/models"
	"github.com/resolvedesk/backend/internal/notify"
)

type Handler struct {
	Store     *db.Store
	AI        ai.Adapter
	Tokens    auth.TokenIssuer
	Notifier  notify.Notifier
	Validator *validator.Validate
	Logger    zerolog.Logger

	// MaxUploadBytes bounds each attachment payload on intake.
	MaxUploadBytes int64
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// writeLifecycleError maps an engine rejection onto the HTTP surface.
func writeLifecycleError(c *gin.Context, lerr *lifecycle.Error) {
	writeError(c, lifecycleStatus(lerr.Kind), string(lerr.Kind), lerr.Message, nil)
}

func lifecycleStatus(kind lifecycle.ErrorKind) int {
	switch kind {
	case lifecycle.PermissionDenied:
		return http.StatusForbidden
	case lifecycle.EntityNotFound:
		return http.StatusNotFound
	case lifecycle.InvalidTransition, lifecycle.EscalationBlocked:
		return http.StatusConflict
	case lifecycle.ValidationError:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeStoreError(c *gin.Context, err error, entity string) {
	if errors.Is(err, db.ErrNotFound) {
		writeError(c, http.StatusNotFound, "ENTITY_NOT_FOUND", entity+" not found", nil)
		return
	}
	writeError(c, http.StatusInternalServerError, "DB_ERROR", "Database error", err.Error())
}

// directory adapts the user table to the engine's lookup interface.
func (h *Handler) directory(ctx context.Context) lifecycle.Directory {
	return lifecycle.DirectoryFunc(func(id string) (models.User, bool) {
		u, err := h.Store.GetUser(ctx, id)
		if err != nil {
			return models.User{}, false
		}
		return u, true
	})
}

func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := h.Store.Ping(ctx); err != nil {
		writeError(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

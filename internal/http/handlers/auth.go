package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/resolvedesk/backend/internal/auth"
	"github.com/resolvedesk/backend/internal/db"
	"github.com/resolvedesk/backend/internal/models"
)

type RegisterRequest struct {
	Name          string `json:"name" validate:"required,min=2,max=100"`
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=8,max=72"`
	Role          string `json:"role" validate:"omitempty,oneof=customer engineer"`
	EngineerLevel string `json:"engineer_level" validate:"omitempty,oneof=Junior Senior Executive"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SessionResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// @Summary Register a new account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "registration"
// @Success 201 {object} SessionResponse
// @Failure 409 {object} map[string]any
// @Router /api/users/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Malformed JSON body", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid registration fields", err.Error())
		return
	}

	role := models.UserRole(req.Role)
	if req.Role == "" {
		role = models.RoleCustomer
	}
	// Admin accounts are provisioned by seeding, never self-registered.
	if role == models.RoleEngineer && req.EngineerLevel == "" {
		writeError(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Engineer accounts require engineer_level", nil)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "INTERNAL", "Could not hash password", nil)
		return
	}

	now := time.Now().UTC()
	u := models.User{
		ID:           "u_" + uuid.NewString(),
		Name:         req.Name,
		Email:        strings.ToLower(req.Email),
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.EngineerLevel != "" {
		l := models.EngineerLevel(req.EngineerLevel)
		u.EngineerLevel = &l
	}

	ctx := c.Request.Context()
	if _, err := h.Store.GetUserByEmail(ctx, u.Email); err == nil {
		writeError(c, http.StatusConflict, "EMAIL_TAKEN", "An account with this email already exists", nil)
		return
	}
	if err := h.Store.CreateUser(ctx, u); err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Could not create user", err.Error())
		return
	}

	token, err := h.Tokens.Issue(u, now)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "INTERNAL", "Could not issue token", nil)
		return
	}
	c.JSON(http.StatusCreated, SessionResponse{Token: token, User: u})
}

// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "credentials"
// @Success 200 {object} SessionResponse
// @Failure 401 {object} map[string]any
// @Router /api/users/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Malformed JSON body", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid credentials payload", err.Error())
		return
	}

	u, err := h.Store.GetUserByEmail(c.Request.Context(), strings.ToLower(req.Email))
	if err != nil {
		if err == db.ErrNotFound {
			writeError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid email or password", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Database error", err.Error())
		return
	}
	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		writeError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid email or password", nil)
		return
	}

	token, err := h.Tokens.Issue(u, time.Now().UTC())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "INTERNAL", "Could not issue token", nil)
		return
	}
	c.JSON(http.StatusOK, SessionResponse{Token: token, User: u})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/resolvedesk/backend/internal/http/middleware"
	"github.com/resolvedesk/backend/internal/models"
)

// @Summary List users
// @Tags users
// @Produce json
// @Param role query string false "filter by role"
// @Success 200 {array} models.User
// @Router /api/users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.Store.ListUsers(c.Request.Context(), c.Query("role"))
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Database error", err.Error())
		return
	}
	if users == nil {
		users = []models.User{}
	}
	c.JSON(http.StatusOK, users)
}

// @Summary Delete a user account
// @Tags users
// @Produce json
// @Param id path string true "user id"
// @Success 204
// @Failure 404 {object} map[string]any
// @Router /api/users/{id} [delete]
func (h *Handler) DeleteUser(c *gin.Context) {
	id := c.Param("id")
	if id == middleware.MustActor(c).ID {
		writeError(c, http.StatusConflict, "INVALID_REQUEST", "Cannot delete the account you are signed in with", nil)
		return
	}
	if err := h.Store.DeleteUser(c.Request.Context(), id); err != nil {
		writeStoreError(c, err, "User")
		return
	}
	c.Status(http.StatusNoContent)
}

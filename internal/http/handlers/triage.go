package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/resolvedesk/backend/internal/ai"
)

type TriageRequest struct {
	Description string `json:"description" validate:"required,min=10,max=5000"`
}

type TriageResponse struct {
	Suggestion ai.Suggestion `json:"suggestion"`
	LatencyMS  int64         `json:"latency_ms"`
}

// @Summary Suggest category and priority for a complaint description
// @Tags triage
// @Accept json
// @Produce json
// @Param request body TriageRequest true "description"
// @Success 200 {object} TriageResponse
// @Failure 502 {object} map[string]any
// @Router /api/triage/suggest [post]
func (h *Handler) TriageSuggest(c *gin.Context) {
	var req TriageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Malformed JSON body", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid triage request", err.Error())
		return
	}

	suggestion, latency, err := h.AI.SuggestTriage(c.Request.Context(), req.Description)
	if err != nil {
		h.Logger.Error().Err(err).Msg("triage suggestion failed")
		writeError(c, http.StatusBadGateway, "AI_UNAVAILABLE", "Triage service failed", nil)
		return
	}
	c.JSON(http.StatusOK, TriageResponse{Suggestion: suggestion, LatencyMS: latency})
}

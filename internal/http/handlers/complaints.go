package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/resolvedesk/backend/internal/db"
	"github.com/resolvedesk/backend/internal/http/middleware"
	"github.com/resolvedesk/backend/internal/lifecycle"
	"github.com/resolvedesk/backend/internal/models"
)

type CreateComplaintRequest struct {
	Category    string              `json:"category" validate:"required,oneof=Product Service General"`
	Description string              `json:"description" validate:"required,min=10,max=5000"`
	Attachments []models.Attachment `json:"attachments" validate:"omitempty,max=10"`
}

type FeedbackRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"omitempty,max=2000"`
}

var allowedAttachmentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"application/pdf": true,
	"text/plain":      true,
}

// validateAttachments enforces the intake rules on uploaded attachments:
// required fields, an allowlisted content type, and a payload bound. The URL
// carries the data URI, so its length is the size that matters.
func validateAttachments(atts []models.Attachment, maxBytes int64) error {
	for _, a := range atts {
		if a.FileName == "" || a.URL == "" {
			return fmt.Errorf("attachment %q requires file_name and url", a.FileName)
		}
		if !allowedAttachmentTypes[a.FileType] {
			return fmt.Errorf("attachment type %q is not allowed", a.FileType)
		}
		if int64(len(a.URL)) > maxBytes {
			return fmt.Errorf("attachment %q exceeds the %d byte limit", a.FileName, maxBytes)
		}
	}
	return nil
}

// buildComplaint constructs the record for a newly filed complaint. Intake
// always lands in Submitted with no priority; triage assigns both later.
func buildComplaint(actor lifecycle.Actor, req CreateComplaintRequest, now time.Time) models.Complaint {
	attachments := req.Attachments
	for i := range attachments {
		if attachments[i].ID == "" {
			attachments[i].ID = "att_" + uuid.NewString()
		}
	}
	return models.Complaint{
		ID:           "c_" + uuid.NewString(),
		CustomerID:   actor.ID,
		CustomerName: actor.Name,
		Category:     models.ComplaintCategory(req.Category),
		Description:  req.Description,
		Attachments:  attachments,
		SubmittedAt:  now,
		UpdatedAt:    now,
		Status:       models.StatusSubmitted,
	}
}

// @Summary File a complaint
// @Tags complaints
// @Accept json
// @Produce json
// @Param request body CreateComplaintRequest true "complaint"
// @Success 201 {object} models.Complaint
// @Failure 422 {object} map[string]any
// @Router /api/complaints [post]
func (h *Handler) CreateComplaint(c *gin.Context) {
	actor := middleware.MustActor(c)
	if actor.Role != models.RoleCustomer {
		writeError(c, http.StatusForbidden, "PERMISSION_DENIED", "Only customers file complaints", nil)
		return
	}

	var req CreateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Malformed JSON body", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid complaint fields", err.Error())
		return
	}

	if err := validateAttachments(req.Attachments, h.MaxUploadBytes); err != nil {
		writeError(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid attachment", err.Error())
		return
	}

	complaint := buildComplaint(actor, req, time.Now().UTC())
	if err := h.Store.CreateComplaint(c.Request.Context(), complaint); err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Could not store complaint", err.Error())
		return
	}
	c.JSON(http.StatusCreated, complaint)
}

// @Summary List complaints visible to the caller
// @Tags complaints
// @Produce json
// @Param status query string false "filter by status"
// @Param category query string false "filter by category"
// @Param q query string false "search in id and description"
// @Param limit query int false "page size"
// @Param offset query int false "page offset"
// @Success 200 {array} models.Complaint
// @Router /api/complaints [get]
func (h *Handler) ListComplaints(c *gin.Context) {
	actor := middleware.MustActor(c)

	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	filter := db.ComplaintFilter{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Q:        c.Query("q"),
		Limit:    limit,
		Offset:   offset,
	}

	// Customers see their own complaints, engineers their queue, admins all.
	switch actor.Role {
	case models.RoleCustomer:
		filter.CustomerID = actor.ID
	case models.RoleEngineer:
		filter.AssignedTo = actor.ID
	}

	out, err := h.Store.ListComplaints(c.Request.Context(), filter)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Database error", err.Error())
		return
	}
	if out == nil {
		out = []models.Complaint{}
	}
	c.JSON(http.StatusOK, out)
}

// @Summary Get a complaint
// @Tags complaints
// @Produce json
// @Param id path string true "complaint id"
// @Success 200 {object} models.Complaint
// @Failure 404 {object} map[string]any
// @Router /api/complaints/{id} [get]
func (h *Handler) GetComplaint(c *gin.Context) {
	actor := middleware.MustActor(c)
	complaint, err := h.Store.GetComplaint(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeStoreError(c, err, "Complaint")
		return
	}
	if !canView(actor, complaint) {
		writeError(c, http.StatusForbidden, "PERMISSION_DENIED", "Not allowed to view this complaint", nil)
		return
	}
	c.JSON(http.StatusOK, redactFor(actor, complaint))
}

func canView(actor lifecycle.Actor, c models.Complaint) bool {
	switch actor.Role {
	case models.RoleAdmin:
		return true
	case models.RoleCustomer:
		return c.CustomerID == actor.ID
	case models.RoleEngineer:
		return c.AssignedTo != nil && *c.AssignedTo == actor.ID
	}
	return false
}

// redactFor strips internal notes from customer responses.
func redactFor(actor lifecycle.Actor, c models.Complaint) models.Complaint {
	if actor.Role != models.RoleCustomer {
		return c
	}
	var visible []models.Note
	for _, n := range c.InternalNotes {
		if !n.IsInternal {
			visible = append(visible, n)
		}
	}
	c.InternalNotes = visible
	return c
}

// @Summary Apply a lifecycle action to a complaint
// @Tags complaints
// @Accept json
// @Produce json
// @Param id path string true "complaint id"
// @Param request body lifecycle.Action true "action"
// @Success 200 {object} models.Complaint
// @Failure 403 {object} map[string]any
// @Failure 409 {object} map[string]any
// @Failure 422 {object} map[string]any
// @Router /api/complaints/{id}/actions [post]
func (h *Handler) ApplyAction(c *gin.Context) {
	actor := middleware.MustActor(c)

	var action lifecycle.Action
	if err := c.ShouldBindJSON(&action); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Malformed JSON body", err.Error())
		return
	}
	if err := h.Validator.Struct(action); err != nil {
		writeError(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid action payload", err.Error())
		return
	}

	ctx := c.Request.Context()

	// The engine runs inside the row lock so concurrent actions against the
	// same complaint serialize instead of clobbering each other.
	var events []lifecycle.Event
	next, err := h.Store.UpdateComplaint(ctx, c.Param("id"), func(current models.Complaint) (models.Complaint, error) {
		applied, evs, lerr := lifecycle.Apply(current, action, actor, h.directory(ctx), time.Now().UTC())
		if lerr != nil {
			return models.Complaint{}, lerr
		}
		events = evs
		return applied, nil
	})
	if err != nil {
		var lerr *lifecycle.Error
		if errors.As(err, &lerr) {
			writeLifecycleError(c, lerr)
			return
		}
		writeStoreError(c, err, "Complaint")
		return
	}

	h.Notifier.Notify(ctx, events)
	c.JSON(http.StatusOK, redactFor(actor, next))
}

// @Summary List engineers eligible for assignment
// @Tags complaints
// @Produce json
// @Param id path string true "complaint id"
// @Success 200 {array} models.User
// @Router /api/complaints/{id}/eligible-engineers [get]
func (h *Handler) EligibleEngineers(c *gin.Context) {
	ctx := c.Request.Context()
	complaint, err := h.Store.GetComplaint(ctx, c.Param("id"))
	if err != nil {
		writeStoreError(c, err, "Complaint")
		return
	}

	users, err := h.Store.ListUsers(ctx, string(models.RoleEngineer))
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Database error", err.Error())
		return
	}

	eligible := lifecycle.EligibleEngineers(complaint, users)
	if eligible == nil {
		eligible = []models.User{}
	}
	c.JSON(http.StatusOK, eligible)
}

// @Summary Leave feedback on a resolved complaint
// @Tags complaints
// @Accept json
// @Produce json
// @Param id path string true "complaint id"
// @Param request body FeedbackRequest true "feedback"
// @Success 200 {object} models.Complaint
// @Failure 409 {object} map[string]any
// @Router /api/complaints/{id}/feedback [post]
func (h *Handler) SubmitFeedback(c *gin.Context) {
	actor := middleware.MustActor(c)

	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Malformed JSON body", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid feedback", err.Error())
		return
	}

	errOwner := errors.New("not owner")
	errState := errors.New("wrong state")
	errDup := errors.New("duplicate feedback")

	complaint, err := h.Store.UpdateComplaint(c.Request.Context(), c.Param("id"), func(current models.Complaint) (models.Complaint, error) {
		if current.CustomerID != actor.ID {
			return models.Complaint{}, errOwner
		}
		if current.Status != models.StatusResolved && current.Status != models.StatusClosed {
			return models.Complaint{}, errState
		}
		if current.Feedback != nil {
			return models.Complaint{}, errDup
		}
		current.Feedback = &models.CustomerFeedback{Rating: req.Rating, Comment: req.Comment}
		current.UpdatedAt = time.Now().UTC()
		return current, nil
	})
	switch {
	case errors.Is(err, errOwner):
		writeError(c, http.StatusForbidden, "PERMISSION_DENIED", "Only the complaint owner may leave feedback", nil)
		return
	case errors.Is(err, errState):
		writeError(c, http.StatusConflict, "INVALID_TRANSITION", "Feedback requires a resolved or closed complaint", nil)
		return
	case errors.Is(err, errDup):
		writeError(c, http.StatusConflict, "INVALID_TRANSITION", "Feedback already submitted", nil)
		return
	case err != nil:
		writeStoreError(c, err, "Complaint")
		return
	}
	c.JSON(http.StatusOK, redactFor(actor, complaint))
}

// @Summary Delete a complaint
// @Tags complaints
// @Produce json
// @Param id path string true "complaint id"
// @Success 204
// @Failure 404 {object} map[string]any
// @Router /api/complaints/{id} [delete]
func (h *Handler) DeleteComplaint(c *gin.Context) {
	if err := h.Store.DeleteComplaint(c.Request.Context(), c.Param("id")); err != nil {
		writeStoreError(c, err, "Complaint")
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Complaint counts by status
// @Tags complaints
// @Produce json
// @Success 200 {object} map[string]int
// @Router /api/complaints/stats [get]
func (h *Handler) ComplaintStats(c *gin.Context) {
	counts, err := h.Store.CountsByStatus(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Database error", err.Error())
		return
	}
	c.JSON(http.StatusOK, counts)
}

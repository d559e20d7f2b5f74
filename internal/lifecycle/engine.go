// Package lifecycle implements the complaint state machine: given a complaint
// snapshot, a requested action, and the acting user, it computes the next
// valid state or rejects the action. It performs no I/O; persistence and
// notification belong to the caller.
package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/resolvedesk/backend/internal/models"
)

// Apply runs one action against one complaint snapshot and returns the fully
// updated record plus the notification events it produced. The input complaint
// is never mutated. All business-rule rejections come back as *Error.
func Apply(c models.Complaint, action Action, actor Actor, dir Directory, now time.Time) (models.Complaint, []Event, *Error) {
	if err := authorize(c, action, actor); err != nil {
		return models.Complaint{}, nil, err
	}

	next := clone(c)
	var events []Event
	var err *Error

	switch action.Kind {
	case ActionAssign:
		events, err = applyAssign(&next, action, actor, dir, now)
	case ActionUnassign:
		events, err = applyUnassign(&next, actor, now)
	case ActionSetPriority:
		events, err = applySetPriority(&next, action, actor, now)
	case ActionUpdateStatus:
		events, err = applyUpdateStatus(&next, action, actor, now)
	case ActionEscalate:
		events, err = applyEscalate(&next, actor, now)
	case ActionReopen:
		events, err = applyReopen(&next, action, actor, now)
	case ActionClose:
		events, err = applyClose(&next, actor, now)
	default:
		return models.Complaint{}, nil, validation("unknown action %q", action.Kind)
	}
	if err != nil {
		return models.Complaint{}, nil, err
	}

	if note := strings.TrimSpace(action.Note); note != "" {
		// A customer's own note must stay visible to them; staff notes are
		// internal.
		appendNote(&next, actor, note, actor.Role != models.RoleCustomer, now)
	}
	next.UpdatedAt = now
	return next, events, nil
}

func applyAssign(c *models.Complaint, action Action, actor Actor, dir Directory, now time.Time) ([]Event, *Error) {
	id := strings.TrimSpace(action.EngineerID)
	if id == "" {
		return nil, validation("engineer_id is required for assign")
	}
	eng, ok := dir.UserByID(id)
	if !ok {
		return nil, notFound("engineer %s not found in directory", id)
	}
	if eng.Role != models.RoleEngineer {
		return nil, notFound("user %s is not an engineer", id)
	}

	// Snapshot the tier at assignment time; later directory changes must not
	// retroactively alter the complaint.
	level := eng.Level()
	c.AssignedTo = &eng.ID
	c.AssignedToName = &eng.Name
	c.CurrentHandlerLevel = &level
	c.EscalationTargetLevel = nil

	switch c.Status {
	case models.StatusSubmitted, models.StatusPendingAssignment,
		models.StatusUnresolved, models.StatusReopened, models.StatusEscalated:
		c.Status = models.StatusAssigned
	}

	appendNote(c, actor, fmt.Sprintf("Assigned to %s (%s)", eng.Name, level), true, now)
	return []Event{{
		Kind:        EventAssigned,
		ComplaintID: c.ID,
		ActorID:     actor.ID,
		ActorName:   actor.Name,
		Message:     fmt.Sprintf("Complaint assigned to %s", eng.Name),
		TargetLevel: level,
		NewStatus:   c.Status,
	}}, nil
}

func applyUnassign(c *models.Complaint, actor Actor, now time.Time) ([]Event, *Error) {
	if !c.Assigned() {
		return nil, invalid("complaint has no assigned engineer")
	}
	prevName := ""
	if c.AssignedToName != nil {
		prevName = *c.AssignedToName
	}
	c.AssignedTo = nil
	c.AssignedToName = nil
	c.CurrentHandlerLevel = nil
	if c.Status == models.StatusAssigned {
		c.Status = models.StatusPendingAssignment
	}

	appendNote(c, actor, fmt.Sprintf("Unassigned from %s", prevName), true, now)
	return []Event{{
		Kind:        EventUnassigned,
		ComplaintID: c.ID,
		ActorID:     actor.ID,
		ActorName:   actor.Name,
		Message:     "Complaint returned to the assignment queue",
		NewStatus:   c.Status,
	}}, nil
}

func applySetPriority(c *models.Complaint, action Action, actor Actor, now time.Time) ([]Event, *Error) {
	if !action.Priority.Valid() {
		return nil, validation("invalid priority %q", action.Priority)
	}
	c.Priority = action.Priority

	appendNote(c, actor, fmt.Sprintf("Priority set to %s", action.Priority), true, now)
	return []Event{{
		Kind:        EventPrioritySet,
		ComplaintID: c.ID,
		ActorID:     actor.ID,
		ActorName:   actor.Name,
		Message:     fmt.Sprintf("Priority set to %s", action.Priority),
		NewStatus:   c.Status,
	}}, nil
}

// engineerStatuses is the only set of statuses an engineer may move a
// complaint into.
var engineerStatuses = map[models.ComplaintStatus]bool{
	models.StatusInProgress: true,
	models.StatusResolved:   true,
	models.StatusUnresolved: true,
}

func applyUpdateStatus(c *models.Complaint, action Action, actor Actor, now time.Time) ([]Event, *Error) {
	if !engineerStatuses[action.Status] {
		return nil, invalid("status %q is not reachable via update_status", action.Status)
	}
	details := strings.TrimSpace(action.Details)

	switch action.Status {
	case models.StatusResolved:
		if c.Status != models.StatusResolved {
			resolvedAt := now
			c.ResolvedAt = &resolvedAt
		}
		if details != "" {
			c.ResolutionDetails = &details
		}
	case models.StatusUnresolved:
		c.ResolvedAt = nil
		if details == "" {
			return nil, validation("details are required when marking a complaint unresolved")
		}
		c.ResolutionDetails = &details
	}
	c.Status = action.Status

	if details != "" {
		appendNote(c, actor, details, true, now)
	}
	return []Event{{
		Kind:        EventStatusUpdated,
		ComplaintID: c.ID,
		ActorID:     actor.ID,
		ActorName:   actor.Name,
		Message:     fmt.Sprintf("Status updated to %s", action.Status),
		NewStatus:   c.Status,
	}}, nil
}

func applyEscalate(c *models.Complaint, actor Actor, now time.Time) ([]Event, *Error) {
	if c.Status == models.StatusResolved {
		return nil, invalid("a resolved complaint cannot be escalated")
	}

	// The target is the tier strictly above the current handler's. Without a
	// handler, an earlier escalation's recorded target is the baseline to
	// raise from; only a never-escalated, unassigned complaint starts at the
	// bottom tier.
	target := models.LevelJunior
	switch {
	case c.CurrentHandlerLevel != nil:
		next, ok := c.CurrentHandlerLevel.Next()
		if !ok {
			return nil, blocked("complaint is already handled at %s level; no higher tier exists", *c.CurrentHandlerLevel)
		}
		target = next
	case c.EscalationTargetLevel != nil:
		next, ok := c.EscalationTargetLevel.Next()
		if !ok {
			return nil, blocked("complaint already awaits an %s level handler; no higher tier exists", *c.EscalationTargetLevel)
		}
		target = next
	}

	c.Status = models.StatusEscalated
	c.Priority = models.PriorityEscalated
	c.AssignedTo = nil
	c.AssignedToName = nil
	c.CurrentHandlerLevel = nil
	c.EscalationTargetLevel = &target

	appendNote(c, actor, fmt.Sprintf("Escalated; awaiting reassignment at %s level or above", target), true, now)
	return []Event{{
		Kind:        EventEscalated,
		ComplaintID: c.ID,
		ActorID:     actor.ID,
		ActorName:   actor.Name,
		Message:     fmt.Sprintf("Complaint escalated to %s level", target),
		TargetLevel: target,
		NewStatus:   c.Status,
	}}, nil
}

func applyReopen(c *models.Complaint, action Action, actor Actor, now time.Time) ([]Event, *Error) {
	if c.Status != models.StatusResolved && c.Status != models.StatusClosed {
		return nil, invalid("only resolved or closed complaints can be reopened")
	}
	reason := strings.TrimSpace(action.Reason)
	if reason == "" {
		return nil, validation("a reopen reason is required")
	}

	c.Status = models.StatusReopened
	if c.Priority != models.PriorityEscalated {
		c.Priority = models.PriorityHigh
	}
	c.ResolvedAt = nil
	c.ResolutionDetails = nil

	// Customer-initiated reopens are visible to the customer; admin reopens
	// stay internal.
	appendNote(c, actor, "Reopened: "+reason, actor.Role == models.RoleAdmin, now)
	return []Event{{
		Kind:        EventReopened,
		ComplaintID: c.ID,
		ActorID:     actor.ID,
		ActorName:   actor.Name,
		Message:     "Complaint reopened: " + reason,
		NewStatus:   c.Status,
	}}, nil
}

func applyClose(c *models.Complaint, actor Actor, now time.Time) ([]Event, *Error) {
	// resolvedAt is deliberately not backfilled when closing from an
	// unresolved state.
	c.Status = models.StatusClosed

	appendNote(c, actor, "Complaint closed", true, now)
	return []Event{{
		Kind:        EventClosed,
		ComplaintID: c.ID,
		ActorID:     actor.ID,
		ActorName:   actor.Name,
		Message:     "Complaint closed",
		NewStatus:   c.Status,
	}}, nil
}

func appendNote(c *models.Complaint, actor Actor, text string, internal bool, now time.Time) {
	c.InternalNotes = append(c.InternalNotes, models.Note{
		ID:         uuid.NewString(),
		UserID:     actor.ID,
		UserName:   actor.Name,
		Timestamp:  now,
		Text:       text,
		IsInternal: internal,
	})
}

func clone(c models.Complaint) models.Complaint {
	out := c
	out.Attachments = append([]models.Attachment(nil), c.Attachments...)
	out.InternalNotes = append([]models.Note(nil), c.InternalNotes...)
	if c.Feedback != nil {
		fb := *c.Feedback
		out.Feedback = &fb
	}
	copyStr := func(p *string) *string {
		if p == nil {
			return nil
		}
		v := *p
		return &v
	}
	out.AssignedTo = copyStr(c.AssignedTo)
	out.AssignedToName = copyStr(c.AssignedToName)
	out.ResolutionDetails = copyStr(c.ResolutionDetails)
	if c.CurrentHandlerLevel != nil {
		lvl := *c.CurrentHandlerLevel
		out.CurrentHandlerLevel = &lvl
	}
	if c.EscalationTargetLevel != nil {
		lvl := *c.EscalationTargetLevel
		out.EscalationTargetLevel = &lvl
	}
	if c.ResolvedAt != nil {
		t := *c.ResolvedAt
		out.ResolvedAt = &t
	}
	if c.ResolutionTimeline != nil {
		t := *c.ResolutionTimeline
		out.ResolutionTimeline = &t
	}
	return out
}

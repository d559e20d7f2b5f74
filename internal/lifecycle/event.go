package lifecycle

import "github.com/resolvedesk/backend/internal/models"

type EventKind string

const (
	EventAssigned       EventKind = "assigned"
	EventUnassigned     EventKind = "unassigned"
	EventPrioritySet    EventKind = "priority_set"
	EventStatusUpdated  EventKind = "status_updated"
	EventEscalated      EventKind = "escalated"
	EventReopened       EventKind = "reopened"
	EventClosed         EventKind = "closed"
)

// Event is a user-visible transition notification produced by a successful
// action. The HTTP layer hands events to the notifier; the engine only
// describes what happened.
type Event struct {
	Kind        EventKind              `json:"kind"`
	ComplaintID string                 `json:"complaint_id"`
	ActorID     string                 `json:"actor_id"`
	ActorName   string                 `json:"actor_name"`
	Message     string                 `json:"message"`
	TargetLevel models.EngineerLevel   `json:"target_level,omitempty"`
	NewStatus   models.ComplaintStatus `json:"new_status,omitempty"`
}

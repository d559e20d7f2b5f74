package lifecycle

import "github.com/resolvedesk/backend/internal/models"

type ActionKind string

const (
	ActionAssign       ActionKind = "assign"
	ActionUnassign     ActionKind = "unassign"
	ActionSetPriority  ActionKind = "set_priority"
	ActionUpdateStatus ActionKind = "update_status"
	ActionEscalate     ActionKind = "escalate"
	ActionReopen       ActionKind = "reopen"
	ActionClose        ActionKind = "close"
)

// Action is the tagged request variant applied to a complaint. Kind selects
// the operation; the remaining fields carry its payload.
type Action struct {
	Kind ActionKind `json:"kind" validate:"required"`

	// Assign
	EngineerID string `json:"engineer_id,omitempty"`

	// SetPriority
	Priority models.ComplaintPriority `json:"priority,omitempty"`

	// UpdateStatus
	Status  models.ComplaintStatus `json:"status,omitempty"`
	Details string                 `json:"details,omitempty"`

	// Reopen
	Reason string `json:"reason,omitempty"`

	// Optional audit note appended alongside any action.
	Note string `json:"note,omitempty"`
}

// Actor is the authenticated user applying an action.
type Actor struct {
	ID            string
	Name          string
	Role          models.UserRole
	EngineerLevel models.EngineerLevel
}

// Directory resolves user ids to directory entries at call time. Assignment
// snapshots the engineer tier from the entry returned here.
type Directory interface {
	UserByID(id string) (models.User, bool)
}

// DirectoryFunc adapts a lookup function to the Directory interface.
type DirectoryFunc func(id string) (models.User, bool)

func (f DirectoryFunc) UserByID(id string) (models.User, bool) {
	return f(id)
}

package lifecycle

import "github.com/resolvedesk/backend/internal/models"

// actionRoles is the single authorization table consulted for every action:
// which roles may request which action at all. Status-dependent locks are
// applied in authorize below so both checks live in one place.
var actionRoles = map[ActionKind]map[models.UserRole]bool{
	ActionAssign:       {models.RoleAdmin: true},
	ActionUnassign:     {models.RoleAdmin: true},
	ActionSetPriority:  {models.RoleAdmin: true},
	ActionUpdateStatus: {models.RoleEngineer: true},
	ActionEscalate:     {models.RoleAdmin: true},
	ActionReopen:       {models.RoleAdmin: true, models.RoleCustomer: true},
	ActionClose:        {models.RoleAdmin: true},
}

func authorize(c models.Complaint, action Action, actor Actor) *Error {
	roles, ok := actionRoles[action.Kind]
	if !ok {
		return validation("unknown action %q", action.Kind)
	}
	if !roles[actor.Role] {
		return denied("role %s cannot perform %s", actor.Role, action.Kind)
	}

	switch actor.Role {
	case models.RoleEngineer:
		// Engineers lose write access once the complaint is closed or pulled
		// out of their hands by escalation.
		if c.Status == models.StatusClosed || c.Status == models.StatusEscalated {
			return denied("engineer cannot modify a %s complaint", c.Status)
		}
		if c.AssignedTo == nil || *c.AssignedTo != actor.ID {
			return denied("complaint is not assigned to engineer %s", actor.ID)
		}
	case models.RoleCustomer:
		if c.CustomerID != actor.ID {
			return denied("customer %s does not own this complaint", actor.ID)
		}
	case models.RoleAdmin:
		// A closed complaint is terminal for admins too; it must be reopened
		// before any further edit.
		if c.Status == models.StatusClosed && action.Kind != ActionReopen {
			return denied("complaint is closed; reopen it first")
		}
	}
	return nil
}

package lifecycle

import (
	"sort"

	"github.com/resolvedesk/backend/internal/models"
)

// EligibleEngineers returns the engineers an admin may pick for the next
// assignment of c. For unresolved or escalated complaints with a known handler
// tier the set is restricted to strictly higher tiers; at the top tier it
// falls back to Executive peers. Fresh or unassigned complaints accept any
// engineer.
func EligibleEngineers(c models.Complaint, users []models.User) []models.User {
	engineers := make([]models.User, 0, len(users))
	for _, u := range users {
		if u.Role == models.RoleEngineer {
			engineers = append(engineers, u)
		}
	}

	var out []models.User
	switch {
	case c.Status == models.StatusEscalated && c.EscalationTargetLevel != nil:
		// Escalation cleared the assignment; the recorded target tier is the
		// floor for the next handler.
		rank := c.EscalationTargetLevel.Rank()
		for _, e := range engineers {
			if e.Level().Rank() >= rank {
				out = append(out, e)
			}
		}
	case c.Status == models.StatusUnresolved && c.CurrentHandlerLevel != nil:
		if *c.CurrentHandlerLevel == models.LevelExecutive {
			out = executivePeers(c, engineers)
			break
		}
		rank := c.CurrentHandlerLevel.Rank()
		for _, e := range engineers {
			if e.Level().Rank() > rank {
				out = append(out, e)
			}
		}
	default:
		out = engineers
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Level().Rank() == out[j].Level().Rank() {
			return out[i].ID < out[j].ID
		}
		return out[i].Level().Rank() > out[j].Level().Rank()
	})
	return out
}

// executivePeers prefers Executive engineers other than the current handler,
// falling back to every Executive when the handler is the only one.
func executivePeers(c models.Complaint, engineers []models.User) []models.User {
	var all, others []models.User
	for _, e := range engineers {
		if e.Level() != models.LevelExecutive {
			continue
		}
		all = append(all, e)
		if c.AssignedTo == nil || e.ID != *c.AssignedTo {
			others = append(others, e)
		}
	}
	if len(others) > 0 {
		return others
	}
	return all
}

package ai

import (
	"context"

	"github.com/resolvedesk/backend/internal/models"
)

// Suggestion is a triage recommendation for a newly filed complaint. Admins
// may apply or ignore it; the lifecycle engine never consumes it directly.
type Suggestion struct {
	Category     models.ComplaintCategory `json:"category"`
	Priority     models.ComplaintPriority `json:"priority"`
	Reasoning    string                   `json:"reasoning"`
	ModelVersion string                   `json:"model_version"`
}

type Adapter interface {
	SuggestTriage(ctx context.Context, description string) (Suggestion, int64, error)
}

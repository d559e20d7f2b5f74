package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/resolvedesk/backend/internal/models"
	"github.com/resolvedesk/backend/internal/utils"
)

type MockAdapter struct {
	ModelVersion string
}

func (m MockAdapter) SuggestTriage(ctx context.Context, description string) (Suggestion, int64, error) {
	start := time.Now()
	text := strings.ToLower(description)

	category := models.CategoryGeneral
	switch {
	case strings.Contains(text, "product") || strings.Contains(text, "widget") || strings.Contains(text, "device"):
		category = models.CategoryProduct
	case strings.Contains(text, "service") || strings.Contains(text, "support") || strings.Contains(text, "staff"):
		category = models.CategoryService
	}

	priority := models.PriorityMedium
	switch {
	case strings.Contains(text, "urgent") || strings.Contains(text, "critical") || strings.Contains(text, "unacceptable"):
		priority = models.PriorityHigh
	case strings.Contains(text, "minor") || strings.Contains(text, "whenever"):
		priority = models.PriorityLow
	default:
		// Deterministic spread only when nothing in the text gave a signal;
		// a recognized category keeps the Medium default.
		if category == models.CategoryGeneral && utils.HashStringToUint64(description)%3 == 0 {
			priority = models.PriorityLow
		}
	}

	suggestion := Suggestion{
		Category:     category,
		Priority:     priority,
		Reasoning:    fmt.Sprintf("The complaint appears to be %s related with %s urgency.", strings.ToLower(string(category)), strings.ToLower(string(priority))),
		ModelVersion: m.ModelVersion,
	}
	return suggestion, time.Since(start).Milliseconds(), nil
}

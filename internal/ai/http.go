package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/resolvedesk/backend/internal/models"
)

type HTTPAdapter struct {
	BaseURL string
	Client  *http.Client
}

type requestBody struct {
	Description string `json:"description"`
}

type responseBody struct {
	Category     string `json:"category"`
	Priority     string `json:"priority"`
	Reasoning    string `json:"reasoning"`
	ModelVersion string `json:"model_version"`
}

func (h HTTPAdapter) SuggestTriage(ctx context.Context, description string) (Suggestion, int64, error) {
	if h.Client == nil {
		h.Client = &http.Client{Timeout: 15 * time.Second}
	}

	b, _ := json.Marshal(requestBody{Description: description})
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.BaseURL+"/suggest", bytes.NewBuffer(b))
	if err != nil {
		return Suggestion{}, 0, err
	}

	req.Header.Set("Content-Type", "application/json")
	resp, err := h.Client.Do(req)
	if err != nil {
		return Suggestion{}, time.Since(start).Milliseconds(), err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Suggestion{}, time.Since(start).Milliseconds(), errors.New("triage service error")
	}

	var r responseBody
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return Suggestion{}, time.Since(start).Milliseconds(), err
	}

	suggestion := Suggestion{
		Category:     models.ComplaintCategory(r.Category),
		Priority:     models.ComplaintPriority(r.Priority),
		Reasoning:    r.Reasoning,
		ModelVersion: r.ModelVersion,
	}
	if !suggestion.Category.Valid() {
		suggestion.Category = models.CategoryGeneral
	}
	if !suggestion.Priority.Valid() {
		suggestion.Priority = models.PriorityMedium
	}
	return suggestion, time.Since(start).Milliseconds(), nil
}

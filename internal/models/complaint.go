package models

import "time"

type ComplaintStatus string

const (
	StatusSubmitted         ComplaintStatus = "Submitted"
	StatusPendingAssignment ComplaintStatus = "Pending Assignment"
	StatusAssigned          ComplaintStatus = "Assigned"
	StatusInProgress        ComplaintStatus = "In Progress"
	StatusResolved          ComplaintStatus = "Resolved"
	StatusUnresolved        ComplaintStatus = "Unresolved"
	StatusEscalated         ComplaintStatus = "Escalated"
	StatusClosed            ComplaintStatus = "Closed"
	StatusReopened          ComplaintStatus = "Reopened"
)

func (s ComplaintStatus) Valid() bool {
	switch s {
	case StatusSubmitted, StatusPendingAssignment, StatusAssigned, StatusInProgress,
		StatusResolved, StatusUnresolved, StatusEscalated, StatusClosed, StatusReopened:
		return true
	}
	return false
}

type ComplaintPriority string

const (
	PriorityLow       ComplaintPriority = "Low"
	PriorityMedium    ComplaintPriority = "Medium"
	PriorityHigh      ComplaintPriority = "High"
	PriorityEscalated ComplaintPriority = "Escalated"
)

func (p ComplaintPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityEscalated:
		return true
	}
	return false
}

type ComplaintCategory string

const (
	CategoryProduct ComplaintCategory = "Product"
	CategoryService ComplaintCategory = "Service"
	CategoryGeneral ComplaintCategory = "General"
)

func (c ComplaintCategory) Valid() bool {
	switch c {
	case CategoryProduct, CategoryService, CategoryGeneral:
		return true
	}
	return false
}

type Attachment struct {
	ID       string `json:"id"`
	FileName string `json:"file_name"`
	FileType string `json:"file_type"`
	URL      string `json:"url"`
}

type Note struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	UserName   string    `json:"user_name"`
	Timestamp  time.Time `json:"timestamp"`
	Text       string    `json:"text"`
	IsInternal bool      `json:"is_internal"`
}

type CustomerFeedback struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

type Complaint struct {
	ID           string            `json:"id"`
	CustomerID   string            `json:"customer_id"`
	CustomerName string            `json:"customer_name"`
	Category     ComplaintCategory `json:"category"`
	Description  string            `json:"description"`
	Attachments  []Attachment      `json:"attachments,omitempty"`
	SubmittedAt  time.Time         `json:"submitted_at"`
	UpdatedAt    time.Time         `json:"updated_at"`

	Status   ComplaintStatus   `json:"status"`
	Priority ComplaintPriority `json:"priority,omitempty"`

	AssignedTo          *string        `json:"assigned_to,omitempty"`
	AssignedToName      *string        `json:"assigned_to_name,omitempty"`
	CurrentHandlerLevel *EngineerLevel `json:"current_handler_level,omitempty"`

	// EscalationTargetLevel is the minimum tier the next assignment should go
	// to after an escalation; cleared once the complaint is reassigned.
	EscalationTargetLevel *EngineerLevel `json:"escalation_target_level,omitempty"`

	ResolutionTimeline *time.Time `json:"resolution_timeline,omitempty"`
	ResolvedAt         *time.Time `json:"resolved_at,omitempty"`
	ResolutionDetails  *string    `json:"resolution_details,omitempty"`

	InternalNotes []Note            `json:"internal_notes,omitempty"`
	Feedback      *CustomerFeedback `json:"customer_feedback,omitempty"`
}

// Assigned reports whether the complaint currently has a handler.
func (c Complaint) Assigned() bool {
	return c.AssignedTo != nil && *c.AssignedTo != ""
}

package models

// Report statuses. Pending is the only non-terminal state; transitions to
// resolved/dismissed are one-way.
const (
	ReportStatusPending   = "pending"
	ReportStatusResolved  = "resolved"
	ReportStatusDismissed = "dismissed"
)

// Report target type tags.
const (
	ReportTypePost    = "post"
	ReportTypeComment = "comment"
	ReportTypeUser    = "user"
	ReportTypeVideo   = "video"
)

// Report is a user complaint about a piece of content or an account.
type Report struct {
	ID         string `json:"id"`
	ReporterID string `json:"reporterId"`
	TargetID   string `json:"targetId"`
	Type       string `json:"type"`
	Reason     string `json:"reason"`
	Details    string `json:"details"`
	Status     string `json:"status"`
	CreatedAt  Time   `json:"createdAt"`
	ResolvedBy string `json:"resolvedBy,omitempty"`
	ResolvedAt *Time  `json:"resolvedAt,omitempty"`
}

// Resolved reports whether the report reached a terminal state.
func (r *Report) Resolved() bool {
	return r.Status == ReportStatusResolved || r.Status == ReportStatusDismissed
}

// Notification is an in-app message delivered to one user.
type Notification struct {
	ID        string         `json:"id"`
	UserID    string         `json:"userId"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	CreatedAt Time           `json:"createdAt"`
	Read      bool           `json:"read"`
	Data      map[string]any `json:"data,omitempty"`
}

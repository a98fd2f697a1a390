package domain

import "time"

// StatusSeverity classifies a status message for display
type StatusSeverity string

const (
	SeverityInfo    StatusSeverity = "info"
	SeverityWarning StatusSeverity = "warning"
	SeverityError   StatusSeverity = "error"
)

// StatusPriority orders competing temporary statuses.
// A new temporary status only displaces one of lower or equal priority.
type StatusPriority int

const (
	PriorityLow StatusPriority = iota
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

func (p StatusPriority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	case PriorityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// StatusMessage is one user-facing status line
type StatusMessage struct {
	Text      string         `json:"text"`
	Severity  StatusSeverity `json:"severity"`
	Priority  StatusPriority `json:"priority"`
	ExpiresAt *time.Time     `json:"expires_at,omitempty"`
}

// Expired reports whether the message has passed its expiry
func (s StatusMessage) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && now.After(*s.ExpiresAt)
}

package domain

import "time"

// PublishOutcome is the per-target result of one dispatch
type PublishOutcome struct {
	Platform Platform `json:"platform"`
	Success  bool     `json:"success"`
	PostID   string   `json:"post_id,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// PublishResult is the full fan-out result for one draft.
// Outcomes covers the automated bucket; Manual lists targets handed to
// the user's native share mechanism instead of being published via API.
type PublishResult struct {
	DraftID  string                      `json:"draft_id"`
	Outcomes map[Platform]PublishOutcome `json:"outcomes"`
	Manual   []Platform                  `json:"manual,omitempty"`
}

// AllSucceeded reports whether every targeted publish call succeeded
func (r PublishResult) AllSucceeded() bool {
	if len(r.Outcomes) == 0 {
		return false
	}
	for _, o := range r.Outcomes {
		if !o.Success {
			return false
		}
	}
	return true
}

// PostIDs collects the per-platform post IDs of successful publishes
func (r PublishResult) PostIDs() map[Platform]string {
	ids := make(map[Platform]string)
	for p, o := range r.Outcomes {
		if o.Success && o.PostID != "" {
			ids[p] = o.PostID
		}
	}
	return ids
}

// ProgressPhase is one step in a streaming publish
type ProgressPhase string

const (
	ProgressQueued   ProgressPhase = "queued"
	ProgressInFlight ProgressPhase = "in_flight"
	ProgressSuccess  ProgressPhase = "success"
	ProgressError    ProgressPhase = "error"
)

// ProgressEvent is one incremental update during a streaming publish
type ProgressEvent struct {
	Platform Platform      `json:"platform"`
	Phase    ProgressPhase `json:"phase"`
	// Fraction is optional upload progress in [0,1]; negative means unknown
	Fraction float64 `json:"fraction,omitempty"`
	Error    string  `json:"error,omitempty"`
}

// ErrorLogEntry is one append-only publish failure record
type ErrorLogEntry struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	DraftID   string    `gorm:"index;size:36" json:"draft_id"`
	Platform  string    `gorm:"size:32" json:"platform"`
	Message   string    `gorm:"type:text" json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the table name for ErrorLogEntry
func (ErrorLogEntry) TableName() string {
	return "publish_errors"
}

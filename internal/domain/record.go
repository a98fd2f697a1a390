package domain

import (
	"encoding/json"
	"time"
)

// Draft publish states as persisted
const (
	DraftStateDraft  = "draft"
	DraftStatePosted = "posted"
	DraftStateFailed = "failed"
)

// DraftRecord is the persisted form of a Draft (drafts table).
// Nested content and per-target configs are stored as JSON blobs; the
// store is a history/draft archive, not a query surface.
type DraftRecord struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	State       string    `gorm:"size:16;index;default:draft" json:"state"`
	Platforms   string    `gorm:"size:255" json:"platforms"`
	ContentJSON string    `gorm:"type:text" json:"-"`
	ConfigJSON  string    `gorm:"type:text" json:"-"`
	Transcript  string    `gorm:"type:text" json:"transcript,omitempty"`
	AIGenerated bool      `json:"ai_generated"`
	PostIDsJSON string    `gorm:"type:text" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the table name for DraftRecord
func (DraftRecord) TableName() string {
	return "drafts"
}

// NewDraftRecord converts a Draft into its persisted form
func NewDraftRecord(d *Draft) (*DraftRecord, error) {
	content, err := json.Marshal(d.Content)
	if err != nil {
		return nil, err
	}
	configs, err := json.Marshal(d.TargetConfigs)
	if err != nil {
		return nil, err
	}
	platforms, err := json.Marshal(d.Platforms)
	if err != nil {
		return nil, err
	}
	return &DraftRecord{
		ID:          d.ID,
		State:       DraftStateDraft,
		Platforms:   string(platforms),
		ContentJSON: string(content),
		ConfigJSON:  string(configs),
		Transcript:  d.Transcript,
		AIGenerated: d.AIGenerated,
		CreatedAt:   d.CreatedAt,
	}, nil
}

// ToDraft rehydrates the persisted record into a working Draft
func (r *DraftRecord) ToDraft() (*Draft, error) {
	d := &Draft{
		ID:            r.ID,
		CreatedAt:     r.CreatedAt,
		Transcript:    r.Transcript,
		AIGenerated:   r.AIGenerated,
		TargetConfigs: make(map[Platform]TargetConfig),
		Scheduling:    Scheduling{Immediate: true},
	}
	if r.Platforms != "" {
		if err := json.Unmarshal([]byte(r.Platforms), &d.Platforms); err != nil {
			return nil, err
		}
	}
	if r.ContentJSON != "" {
		if err := json.Unmarshal([]byte(r.ContentJSON), &d.Content); err != nil {
			return nil, err
		}
	}
	if r.ConfigJSON != "" {
		if err := json.Unmarshal([]byte(r.ConfigJSON), &d.TargetConfigs); err != nil {
			return nil, err
		}
	}
	return d, nil
}

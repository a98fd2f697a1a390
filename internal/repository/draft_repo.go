package repository

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/speakpost/speakpost-backend/internal/common"
	"github.com/speakpost/speakpost-backend/internal/domain"
)

// DraftRepository handles draft history persistence. All writes are
// fire-and-continue from the coordinator's point of view: persistence
// failures are logged upstream and never block a publish result.
type DraftRepository interface {
	// Save upserts the current draft snapshot
	Save(draft *domain.Draft) error
	// FindByID loads a historical draft for editing
	FindByID(id string) (*domain.Draft, error)
	// List returns draft records, newest first
	List(page, limit int) ([]domain.DraftRecord, int64, error)
	// MarkPosted records a fully successful publish with per-platform post IDs
	MarkPosted(draftID string, postIDs map[domain.Platform]string) error
	// MarkFailed appends an error log entry and moves the draft to failed
	MarkFailed(draftID string, entry domain.ErrorLogEntry) error
	// ErrorLog returns the append-only publish error log for a draft
	ErrorLog(draftID string) ([]domain.ErrorLogEntry, error)
	// Delete removes a draft and its error log
	Delete(id string) error
}

type draftRepository struct {
	db *gorm.DB
}

// NewDraftRepository creates a new DraftRepository
func NewDraftRepository(db *gorm.DB) DraftRepository {
	return &draftRepository{db: db}
}

// AutoMigrate creates the draft history tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.DraftRecord{}, &domain.ErrorLogEntry{})
}

// Save upserts the draft snapshot keyed by draft ID
func (r *draftRepository) Save(draft *domain.Draft) error {
	record, err := domain.NewDraftRecord(draft)
	if err != nil {
		return err
	}
	record.UpdatedAt = time.Now()

	return r.db.Save(record).Error
}

// FindByID loads a historical draft for editing
func (r *draftRepository) FindByID(id string) (*domain.Draft, error) {
	var record domain.DraftRecord
	if err := r.db.First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrDraftNotFound
		}
		return nil, err
	}
	return record.ToDraft()
}

// List returns draft records, newest first
func (r *draftRepository) List(page, limit int) ([]domain.DraftRecord, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var total int64
	if err := r.db.Model(&domain.DraftRecord{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []domain.DraftRecord
	err := r.db.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&records).Error
	return records, total, err
}

// MarkPosted records a fully successful publish
func (r *draftRepository) MarkPosted(draftID string, postIDs map[domain.Platform]string) error {
	data, err := json.Marshal(postIDs)
	if err != nil {
		return err
	}
	result := r.db.Model(&domain.DraftRecord{}).
		Where("id = ?", draftID).
		Updates(map[string]interface{}{
			"state":         domain.DraftStatePosted,
			"post_ids_json": string(data),
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrDraftNotFound
	}
	return nil
}

// MarkFailed appends an error log entry and keeps the draft retryable
func (r *draftRepository) MarkFailed(draftID string, entry domain.ErrorLogEntry) error {
	entry.DraftID = draftID
	entry.CreatedAt = time.Now()

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		return tx.Model(&domain.DraftRecord{}).
			Where("id = ?", draftID).
			Updates(map[string]interface{}{
				"state":      domain.DraftStateFailed,
				"updated_at": time.Now(),
			}).Error
	})
}

// ErrorLog returns the append-only publish error log, oldest first
func (r *draftRepository) ErrorLog(draftID string) ([]domain.ErrorLogEntry, error) {
	var entries []domain.ErrorLogEntry
	err := r.db.Where("draft_id = ?", draftID).
		Order("id ASC").
		Find(&entries).Error
	return entries, err
}

// Delete removes a draft and its error log
func (r *draftRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("draft_id = ?", id).Delete(&domain.ErrorLogEntry{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.DraftRecord{}, "id = ?", id).Error
	})
}

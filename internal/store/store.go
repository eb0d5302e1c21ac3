package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"nova-sync-backend/internal/model"
)

// DefaultPageSize and MaxPageSize bound ListArchivedLogs.
const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// Store defines the interface for all archive operations.
type Store interface {
	ArchiveLog(ctx context.Context, log model.SystemLog) error
	MarkEvicted(ctx context.Context, log model.SystemLog, at time.Time) error
	RecordTransition(ctx context.Context, t model.CommandTransition) error
	ListArchivedLogs(ctx context.Context, before time.Time, limit int) ([]model.LogArchive, error)
	ListTransitions(ctx context.Context, commandID string) ([]model.CommandTransition, error)
	DB() *gorm.DB
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db, now: time.Now}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// ArchiveLog persists a synthesized log entry. Archiving the same entry twice is a no-op.
func (s *gormStore) ArchiveLog(ctx context.Context, log model.SystemLog) error {
	row := model.LogArchive{SystemLog: log.Clone(), ArchivedAt: s.now().UTC()}
	if err := s.db.WithContext(ctx).Where("id = ?", log.ID).FirstOrCreate(&row).Error; err != nil {
		return fmt.Errorf("failed to archive log %s: %w", log.ID, err)
	}
	return nil
}

// MarkEvicted stamps the archived row of log with the time it left the live
// window. Logs that were never archived, such as the seed window, are archived first.
func (s *gormStore) MarkEvicted(ctx context.Context, log model.SystemLog, at time.Time) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := model.LogArchive{SystemLog: log.Clone(), ArchivedAt: s.now().UTC()}
		if err := tx.Where("id = ?", log.ID).FirstOrCreate(&row).Error; err != nil {
			return err
		}
		return tx.Model(&model.LogArchive{}).Where("id = ?", log.ID).Update("evicted_at", at.UTC()).Error
	})
	if err != nil {
		return fmt.Errorf("failed to mark log %s evicted: %w", log.ID, err)
	}
	return nil
}

// RecordTransition appends a command status change.
func (s *gormStore) RecordTransition(ctx context.Context, t model.CommandTransition) error {
	if err := s.db.WithContext(ctx).Create(&t).Error; err != nil {
		return fmt.Errorf("failed to record transition for command %s: %w", t.CommandID, err)
	}
	return nil
}

// ListArchivedLogs returns archived logs newest first. A zero before means "now".
func (s *gormStore) ListArchivedLogs(ctx context.Context, before time.Time, limit int) ([]model.LogArchive, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	q := s.db.WithContext(ctx).Model(&model.LogArchive{})
	if !before.IsZero() {
		q = q.Where(clause.Lt{Column: clause.Column{Name: "timestamp"}, Value: before})
	}

	var rows []model.LogArchive
	if err := q.Order(clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}, Desc: true}).Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list archived logs: %w", err)
	}
	return rows, nil
}

// ListTransitions returns the recorded transitions of one command, oldest first.
func (s *gormStore) ListTransitions(ctx context.Context, commandID string) ([]model.CommandTransition, error) {
	var rows []model.CommandTransition
	if err := s.db.WithContext(ctx).
		Where("command_id = ?", commandID).
		Order("observed_at ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list transitions for command %s: %w", commandID, err)
	}
	return rows, nil
}

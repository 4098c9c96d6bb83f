package data

import (
	"fmt"

	"gorm.io/gorm"
)

// ActivityLogRepository persists drained activity buffer entries. Writes are
// batched by the drain scheduler; this repository only knows how to insert.
type ActivityLogRepository interface {
	InsertBatch(entries []ActivityLog) error
}

type postgresActivityLogRepository struct {
	db *gorm.DB
}

func NewActivityLogRepository(db *gorm.DB) ActivityLogRepository {
	return &postgresActivityLogRepository{db: db}
}

func (r *postgresActivityLogRepository) InsertBatch(entries []ActivityLog) error {
	if len(entries) == 0 {
		return nil
	}
	if err := r.db.CreateInBatches(entries, 200).Error; err != nil {
		return fmt.Errorf("insert activity log batch: %w", err)
	}
	return nil
}

// FlowViewRepository records and queries which flows a user has already
// been shown, used by the flows-only assembly path to avoid repeats.
type FlowViewRepository interface {
	ViewedFlowIDs(userID uint) (map[uint]bool, error)
	RecordViews(userID uint, flowIDs []uint) error
}

type postgresFlowViewRepository struct {
	db *gorm.DB
}

func NewFlowViewRepository(db *gorm.DB) FlowViewRepository {
	return &postgresFlowViewRepository{db: db}
}

func (r *postgresFlowViewRepository) ViewedFlowIDs(userID uint) (map[uint]bool, error) {
	var rows []FlowViewRow
	if err := r.db.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load viewed flow ids: %w", err)
	}
	seen := make(map[uint]bool, len(rows))
	for _, row := range rows {
		seen[row.FlowID] = true
	}
	return seen, nil
}

func (r *postgresFlowViewRepository) RecordViews(userID uint, flowIDs []uint) error {
	if len(flowIDs) == 0 {
		return nil
	}
	entries := make([]FlowViewRow, 0, len(flowIDs))
	for _, id := range flowIDs {
		entries = append(entries, FlowViewRow{UserID: userID, FlowID: id})
	}
	if err := r.db.CreateInBatches(entries, 200).Error; err != nil {
		return fmt.Errorf("record flow views: %w", err)
	}
	return nil
}

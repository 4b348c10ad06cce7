package repository

import (
	"context"
	"time"

	"guesthouse-backend/models"

	"gorm.io/gorm"
)

const (
	DefaultLogLimit = 50
	MaxLogLimit     = 100
)

type activityLogRepository struct {
	db *gorm.DB
}

func NewActivityLogRepository(db *gorm.DB) ActivityLogRepository {
	return &activityLogRepository{db: db}
}

func (r *activityLogRepository) Create(ctx context.Context, entry *models.ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *activityLogRepository) List(ctx context.Context, q LogQuery) ([]models.ActivityLog, int64, error) {
	q = q.Normalized()

	base := r.db.WithContext(ctx).Model(&models.ActivityLog{})
	if q.Action != "" {
		base = base.Where("action = ?", q.Action)
	}
	if q.EntityType != "" {
		base = base.Where("entity_type = ?", q.EntityType)
	}
	if q.EntityID != "" {
		base = base.Where("entity_id = ?", q.EntityID)
	}

	base = base.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.ActivityLog
	if err := base.
		Order("created_at DESC").
		Order("id DESC").
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

func (r *activityLogRepository) Stats(ctx context.Context, since time.Time) (LogStats, error) {
	stats := LogStats{ByAction: map[string]int64{}}

	var rows []struct {
		Action string
		Count  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.ActivityLog{}).
		Select("action, COUNT(*) AS count").
		Group("action").
		Scan(&rows).Error; err != nil {
		return stats, err
	}
	for _, row := range rows {
		stats.ByAction[row.Action] = row.Count
		stats.Total += row.Count
	}

	if err := r.db.WithContext(ctx).
		Model(&models.ActivityLog{}).
		Where("created_at >= ?", since).
		Count(&stats.Today).Error; err != nil {
		return stats, err
	}
	return stats, nil
}

func (q LogQuery) Normalized() LogQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = DefaultLogLimit
	}
	if q.Limit > MaxLogLimit {
		q.Limit = MaxLogLimit
	}
	return q
}

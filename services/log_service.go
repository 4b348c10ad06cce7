package services

import (
	"context"
	"fmt"
	"time"

	"guesthouse-backend/models"
	"guesthouse-backend/repository"
)

type LogPage struct {
	Logs       []models.ActivityLog `json:"logs"`
	Total      int64                `json:"total"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
	TotalPages int                  `json:"totalPages"`
}

type LogService struct {
	repo repository.ActivityLogRepository
	now  func() time.Time
}

func NewLogService(repo repository.ActivityLogRepository) *LogService {
	return &LogService{repo: repo, now: time.Now}
}

func (s *LogService) List(ctx context.Context, q repository.LogQuery) (LogPage, error) {
	q = q.Normalized()
	logs, total, err := s.repo.List(ctx, q)
	if err != nil {
		return LogPage{}, fmt.Errorf("failed to list activity logs: %w", err)
	}
	if logs == nil {
		logs = []models.ActivityLog{}
	}

	pages := int((total + int64(q.Limit) - 1) / int64(q.Limit))
	return LogPage{Logs: logs, Total: total, Page: q.Page, Limit: q.Limit, TotalPages: pages}, nil
}

// Stats counts "today" from local midnight.
func (s *LogService) Stats(ctx context.Context) (repository.LogStats, error) {
	now := s.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	stats, err := s.repo.Stats(ctx, midnight)
	if err != nil {
		return stats, fmt.Errorf("failed to compute log stats: %w", err)
	}
	return stats, nil
}

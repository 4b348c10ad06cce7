// Package repository holds persistence for rooms, reservations, users and the
// activity log. Every lookup that misses returns gorm.ErrRecordNotFound, for
// the gorm and the in-memory implementations alike.
package repository

import (
	"context"
	"time"

	"guesthouse-backend/models"
)

type RoomRepository interface {
	List(ctx context.Context, activeOnly bool) ([]models.Room, error)
	FindByID(ctx context.Context, id uint) (*models.Room, error)
	Create(ctx context.Context, room *models.Room) error
	Save(ctx context.Context, room *models.Room) error
	Delete(ctx context.Context, id uint) error
}

type ReservationFilter struct {
	Status *models.ReservationStatus
	// nil lists only non-archived reservations
	Archived *bool
	From     *time.Time
	To       *time.Time
	Search   string
}

type ReservationStats struct {
	Total    int64                              `json:"total"`
	Archived int64                              `json:"archived"`
	ByStatus map[models.ReservationStatus]int64 `json:"byStatus"`
}

type ReservationRepository interface {
	Create(ctx context.Context, r *models.Reservation) error
	FindByID(ctx context.Context, id uint) (*models.Reservation, error)
	List(ctx context.Context, filter ReservationFilter) ([]models.Reservation, error)
	// FindOverlapping returns reservations with checkIn < end and checkOut > start
	// whose status is one of statuses.
	FindOverlapping(ctx context.Context, start, end time.Time, statuses []models.ReservationStatus) ([]models.Reservation, error)
	Save(ctx context.Context, r *models.Reservation) error
	Delete(ctx context.Context, id uint) error
	Stats(ctx context.Context) (ReservationStats, error)
}

type LogQuery struct {
	Page       int
	Limit      int
	Action     string
	EntityType string
	EntityID   string
}

type LogStats struct {
	Total    int64            `json:"total"`
	Today    int64            `json:"today"`
	ByAction map[string]int64 `json:"byAction"`
}

type ActivityLogRepository interface {
	Create(ctx context.Context, entry *models.ActivityLog) error
	List(ctx context.Context, q LogQuery) ([]models.ActivityLog, int64, error)
	Stats(ctx context.Context, since time.Time) (LogStats, error)
}

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
	Count(ctx context.Context) (int64, error)
}

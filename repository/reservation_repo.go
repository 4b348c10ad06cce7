package repository

import (
	"context"
	"strings"
	"time"

	"guesthouse-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type reservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

// Create inserts the group leader first, then the reservation pointing at it.
func (r *reservationRepository) Create(ctx context.Context, res *models.Reservation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&res.Guest).Error; err != nil {
			return err
		}
		res.GuestID = res.Guest.ID
		return tx.Omit(clause.Associations).Create(res).Error
	})
}

func (r *reservationRepository) FindByID(ctx context.Context, id uint) (*models.Reservation, error) {
	var res models.Reservation
	if err := r.db.WithContext(ctx).Preload("Guest").First(&res, id).Error; err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *reservationRepository) List(ctx context.Context, filter ReservationFilter) ([]models.Reservation, error) {
	var list []models.Reservation

	archived := false
	if filter.Archived != nil {
		archived = *filter.Archived
	}

	q := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Preload("Guest").
		Where("reservations.is_archived = ?", archived)

	if filter.Status != nil {
		q = q.Where("reservations.status = ?", *filter.Status)
	}
	if filter.From != nil {
		q = q.Where("reservations.check_out_date > ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("reservations.check_in_date < ?", *filter.To)
	}
	if s := strings.ToLower(strings.TrimSpace(filter.Search)); s != "" {
		like := "%" + s + "%"
		q = q.Joins("LEFT JOIN guests ON guests.id = reservations.guest_id").
			Where("LOWER(guests.first_name) LIKE ? OR LOWER(guests.last_name) LIKE ? OR guests.phone LIKE ?", like, like, like)
	}

	if err := q.Order("reservations.check_in_date ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *reservationRepository) FindOverlapping(ctx context.Context, start, end time.Time, statuses []models.ReservationStatus) ([]models.Reservation, error) {
	var list []models.Reservation
	if len(statuses) == 0 {
		return list, nil
	}
	err := r.db.WithContext(ctx).
		Preload("Guest").
		Where("status IN ?", statuses).
		Where("check_in_date < ? AND check_out_date > ?", end, start).
		Order("check_in_date ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *reservationRepository) Save(ctx context.Context, res *models.Reservation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if res.Guest.ID != 0 {
			if err := tx.Save(&res.Guest).Error; err != nil {
				return err
			}
		}
		return tx.Omit(clause.Associations).Save(res).Error
	})
}

func (r *reservationRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Reservation{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *reservationRepository) Stats(ctx context.Context) (ReservationStats, error) {
	stats := ReservationStats{ByStatus: map[models.ReservationStatus]int64{}}

	var rows []struct {
		Status models.ReservationStatus
		Count  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Select("status, COUNT(*) AS count").
		Where("is_archived = ?", false).
		Group("status").
		Scan(&rows).Error; err != nil {
		return stats, err
	}
	for _, row := range rows {
		stats.ByStatus[row.Status] = row.Count
		stats.Total += row.Count
	}

	if err := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("is_archived = ?", true).
		Count(&stats.Archived).Error; err != nil {
		return stats, err
	}
	return stats, nil
}

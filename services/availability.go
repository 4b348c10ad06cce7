package services

import (
	"context"
	"fmt"
	"time"

	"guesthouse-backend/config"
	"guesthouse-backend/models"
	"guesthouse-backend/repository"
)

// holdingStatuses is every status except cancelled.
var holdingStatuses = []models.ReservationStatus{
	models.StatusPending,
	models.StatusConfirmed,
	models.StatusActive,
	models.StatusCompleted,
}

type AvailabilityResult struct {
	Available   int    `json:"available"`
	TotalGuests int    `json:"totalGuests"`
	MaxCapacity int    `json:"maxCapacity"`
	IsAvailable bool   `json:"isAvailable"`
	Message     string `json:"message"`
}

// CheckAvailability answers "is there bed space system-wide" for [checkIn, checkOut).
// It ignores rooms entirely; see CalculateOccupancy for the per-room view.
func CheckAvailability(reservations []models.Reservation, checkIn, checkOut time.Time, maxCapacity int) AvailabilityResult {
	total := 0
	for _, r := range reservations {
		if r.Status == models.StatusCancelled || !r.Overlaps(checkIn, checkOut) {
			continue
		}
		total += r.GuestCount
	}

	available := maxCapacity - total
	if available < 0 {
		available = 0
	}

	res := AvailabilityResult{
		Available:   available,
		TotalGuests: total,
		MaxCapacity: maxCapacity,
		IsAvailable: available > 0,
	}
	if res.IsAvailable {
		res.Message = fmt.Sprintf("Seçilen tarihlerde %d kişilik yer mevcut.", available)
	} else {
		res.Message = "Seçilen tarihlerde boş yer bulunmamaktadır."
	}
	return res
}

type AvailabilityService struct {
	reservations repository.ReservationRepository
	settings     config.SettingsStore
}

func NewAvailabilityService(reservations repository.ReservationRepository, settings config.SettingsStore) *AvailabilityService {
	return &AvailabilityService{reservations: reservations, settings: settings}
}

func (s *AvailabilityService) Check(ctx context.Context, checkIn, checkOut time.Time) (AvailabilityResult, error) {
	if !checkOut.After(checkIn) {
		return AvailabilityResult{}, fmt.Errorf("%w: checkOut must be after checkIn", ErrValidation)
	}

	settings, err := s.settings.Get()
	if err != nil {
		return AvailabilityResult{}, fmt.Errorf("failed to read settings: %w", err)
	}
	reservations, err := s.reservations.FindOverlapping(ctx, checkIn, checkOut, holdingStatuses)
	if err != nil {
		return AvailabilityResult{}, fmt.Errorf("failed to load reservations: %w", err)
	}
	return CheckAvailability(reservations, checkIn, checkOut, settings.MaxCapacity), nil
}

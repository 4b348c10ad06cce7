package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"guesthouse-backend/models"
	"guesthouse-backend/repository"
)

// OccupyingStatuses are the statuses that hold beds.
var OccupyingStatuses = []models.ReservationStatus{models.StatusConfirmed, models.StatusActive}

type AllocationKind string

const (
	AllocationNone     AllocationKind = "none"
	AllocationLegacy   AllocationKind = "legacy"
	AllocationDetailed AllocationKind = "detailed"
)

// Allocation is the effective number of beds a reservation holds per room.
type Allocation struct {
	Kind AllocationKind
	Beds map[string]int
}

func (a Allocation) BedsIn(room string) int {
	return a.Beds[room]
}

// AllocationOf converts either assignment format into per-room bed counts.
//
// roomAssignments wins when present. Legacy assignedRooms carry no per-room
// count, so guestCount is spread as ceil(guestCount/len(rooms)) over every
// room: 3 guests in ["A","B"] count 2 beds in each room.
func AllocationOf(r models.Reservation) Allocation {
	beds := map[string]int{}

	if len(r.RoomAssignments) > 0 {
		for _, a := range r.RoomAssignments {
			name := strings.TrimSpace(a.RoomName)
			if name == "" || a.GuestCount <= 0 {
				continue
			}
			beds[name] += a.GuestCount
		}
		return Allocation{Kind: AllocationDetailed, Beds: beds}
	}

	names := make([]string, 0, len(r.AssignedRooms))
	for _, name := range r.AssignedRooms {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return Allocation{Kind: AllocationNone, Beds: beds}
	}

	guests := r.GuestCount
	if guests < 0 {
		guests = 0
	}
	perRoom := (guests + len(names) - 1) / len(names)
	for _, name := range names {
		beds[name] = perRoom
	}
	return Allocation{Kind: AllocationLegacy, Beds: beds}
}

type RoomOccupant struct {
	ReservationID uint                     `json:"reservationId"`
	GuestName     string                   `json:"guestName"`
	GuestCount    int                      `json:"guestCount"`
	BedsInRoom    int                      `json:"bedsInRoom"`
	CheckInDate   time.Time                `json:"checkInDate"`
	CheckOutDate  time.Time                `json:"checkOutDate"`
	Status        models.ReservationStatus `json:"status"`
	Allocation    AllocationKind           `json:"allocation"`
}

type RoomOccupancy struct {
	RoomID           uint           `json:"roomId"`
	RoomName         string         `json:"roomName"`
	Description      string         `json:"description"`
	Capacity         int            `json:"capacity"`
	OccupiedBeds     int            `json:"occupiedBeds"`
	AvailableBeds    int            `json:"availableBeds"`
	OccupancyPercent int            `json:"occupancyPercent"`
	IsOccupied       bool           `json:"isOccupied"`
	IsFull           bool           `json:"isFull"`
	Reservations     []RoomOccupant `json:"reservations"`
}

type OccupancySummary struct {
	TotalRooms       int `json:"totalRooms"`
	TotalCapacity    int `json:"totalCapacity"`
	OccupiedBeds     int `json:"occupiedBeds"`
	AvailableBeds    int `json:"availableBeds"`
	OccupancyPercent int `json:"occupancyPercent"`
	OccupiedRooms    int `json:"occupiedRooms"`
	FullRooms        int `json:"fullRooms"`
	// guests of overlapping reservations with no room assigned yet
	UnassignedGuests int `json:"unassignedGuests"`
}

type OccupancyReport struct {
	StartDate time.Time        `json:"startDate"`
	EndDate   time.Time        `json:"endDate"`
	Rooms     []RoomOccupancy  `json:"rooms"`
	Summary   OccupancySummary `json:"summary"`
}

func percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}

func isOccupying(s models.ReservationStatus) bool {
	for _, st := range OccupyingStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// CalculateOccupancy computes per-room bed usage over [start, end). Inactive
// rooms are skipped; reservations outside the window or not confirmed/active
// are ignored, so callers may pass an unfiltered list.
func CalculateOccupancy(rooms []models.Room, reservations []models.Reservation, start, end time.Time) OccupancyReport {
	report := OccupancyReport{StartDate: start, EndDate: end, Rooms: []RoomOccupancy{}}

	relevant := make([]models.Reservation, 0, len(reservations))
	allocations := make([]Allocation, 0, len(reservations))
	for _, r := range reservations {
		if !isOccupying(r.Status) || !r.Overlaps(start, end) {
			continue
		}
		alloc := AllocationOf(r)
		if alloc.Kind == AllocationNone {
			report.Summary.UnassignedGuests += r.GuestCount
			continue
		}
		relevant = append(relevant, r)
		allocations = append(allocations, alloc)
	}

	for _, room := range rooms {
		if !room.IsActive {
			continue
		}

		ro := RoomOccupancy{
			RoomID:       room.ID,
			RoomName:     room.Name,
			Description:  room.Description,
			Capacity:     room.Capacity,
			Reservations: []RoomOccupant{},
		}
		for i, r := range relevant {
			beds := allocations[i].BedsIn(room.Name)
			if beds <= 0 {
				continue
			}
			ro.OccupiedBeds += beds
			ro.Reservations = append(ro.Reservations, RoomOccupant{
				ReservationID: r.ID,
				GuestName:     r.Guest.FullName(),
				GuestCount:    r.GuestCount,
				BedsInRoom:    beds,
				CheckInDate:   r.CheckInDate,
				CheckOutDate:  r.CheckOutDate,
				Status:        r.Status,
				Allocation:    allocations[i].Kind,
			})
		}
		if ro.OccupiedBeds < 0 {
			ro.OccupiedBeds = 0
		}
		ro.AvailableBeds = room.Capacity - ro.OccupiedBeds
		if ro.AvailableBeds < 0 {
			ro.AvailableBeds = 0
		}
		ro.OccupancyPercent = percent(ro.OccupiedBeds, room.Capacity)
		ro.IsOccupied = ro.OccupiedBeds > 0
		ro.IsFull = ro.OccupiedBeds >= room.Capacity

		report.Rooms = append(report.Rooms, ro)

		report.Summary.TotalRooms++
		report.Summary.TotalCapacity += room.Capacity
		report.Summary.OccupiedBeds += ro.OccupiedBeds
		report.Summary.AvailableBeds += ro.AvailableBeds
		if ro.IsOccupied {
			report.Summary.OccupiedRooms++
		}
		if ro.IsFull {
			report.Summary.FullRooms++
		}
	}
	report.Summary.OccupancyPercent = percent(report.Summary.OccupiedBeds, report.Summary.TotalCapacity)

	return report
}

type OccupancyService struct {
	rooms        repository.RoomRepository
	reservations repository.ReservationRepository
}

func NewOccupancyService(rooms repository.RoomRepository, reservations repository.ReservationRepository) *OccupancyService {
	return &OccupancyService{rooms: rooms, reservations: reservations}
}

func (s *OccupancyService) Occupancy(ctx context.Context, start, end time.Time) (OccupancyReport, error) {
	if !end.After(start) {
		return OccupancyReport{}, fmt.Errorf("%w: endDate must be after startDate", ErrValidation)
	}

	rooms, err := s.rooms.List(ctx, true)
	if err != nil {
		return OccupancyReport{}, fmt.Errorf("failed to load rooms: %w", err)
	}
	reservations, err := s.reservations.FindOverlapping(ctx, start, end, OccupyingStatuses)
	if err != nil {
		return OccupancyReport{}, fmt.Errorf("failed to load reservations: %w", err)
	}
	return CalculateOccupancy(rooms, reservations, start, end), nil
}

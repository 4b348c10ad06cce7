package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusActive    ReservationStatus = "active"
	StatusCompleted ReservationStatus = "completed"
	StatusCancelled ReservationStatus = "cancelled"
)

var AllStatuses = []ReservationStatus{
	StatusPending,
	StatusConfirmed,
	StatusActive,
	StatusCompleted,
	StatusCancelled,
}

func (s ReservationStatus) IsValid() bool {
	for _, st := range AllStatuses {
		if st == s {
			return true
		}
	}
	return false
}

func (s ReservationStatus) String() string {
	return string(s)
}

// RoomAssignment is the detailed assignment format: an exact bed count per room.
type RoomAssignment struct {
	RoomName   string `json:"roomName"`
	GuestCount int    `json:"guestCount"`
}

type AdditionalGuest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
	Nevi      string `json:"nevi,omitempty"`
}

// Registrar is whoever filled in the form; may differ from the group leader.
type Registrar struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Institution string `json:"institution,omitempty"`
}

func (r Registrar) FullName() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}

type Reservation struct {
	ID uint `gorm:"primaryKey" json:"id"`

	GuestID    uint  `gorm:"index;column:guest_id" json:"guestId"`
	Guest      Guest `gorm:"foreignKey:GuestID;references:ID" json:"guest"`
	GuestCount int   `gorm:"column:guest_count;default:1" json:"guestCount"`

	CheckInDate  time.Time         `gorm:"column:check_in_date;index" json:"checkInDate"`
	CheckOutDate time.Time         `gorm:"column:check_out_date;index" json:"checkOutDate"`
	Status       ReservationStatus `gorm:"column:status;size:20;index;default:pending" json:"status"`

	RoomAssignments  datatypes.JSONSlice[RoomAssignment]  `gorm:"column:room_assignments" json:"roomAssignments"`
	AssignedRooms    datatypes.JSONSlice[string]          `gorm:"column:assigned_rooms" json:"assignedRooms"`
	AdditionalGuests datatypes.JSONSlice[AdditionalGuest] `gorm:"column:additional_guests" json:"additionalGuests"`
	Registrar        datatypes.JSONType[Registrar]        `gorm:"column:registrar" json:"registrar"`

	Notes           string `gorm:"column:notes;type:text" json:"notes"`
	RejectionReason string `gorm:"column:rejection_reason;type:text" json:"rejectionReason"`

	IsArchived bool       `gorm:"column:is_archived;index;default:false" json:"isArchived"`
	ArchivedAt *time.Time `gorm:"column:archived_at" json:"archivedAt"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Overlaps reports a strict overlap with [start, end).
func (r Reservation) Overlaps(start, end time.Time) bool {
	return r.CheckInDate.Before(end) && r.CheckOutDate.After(start)
}

func (r Reservation) RegistrarInfo() Registrar {
	return r.Registrar.Data()
}

// Label is the human-readable name used in logs, e.g. "Ayşe Yılmaz (01.06.2024 - 03.06.2024)".
func (r Reservation) Label() string {
	name := r.Guest.FullName()
	if name == "" {
		name = "Rezervasyon"
	}
	return name + " (" + r.CheckInDate.Format("02.01.2006") + " - " + r.CheckOutDate.Format("02.01.2006") + ")"
}

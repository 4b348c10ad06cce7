package models

import (
	"strings"
	"time"
)

// Guest is the group leader of a reservation. One row is written per reservation.
type Guest struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	FirstName string `gorm:"size:100" json:"firstName"`
	LastName  string `gorm:"size:100" json:"lastName"`
	Phone     string `gorm:"size:50;index" json:"phone"`
	Email     string `gorm:"size:150" json:"email"`

	// legacy field, still accepted from old forms
	IdentityNumber string `gorm:"size:50" json:"identityNumber,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (g Guest) FullName() string {
	return strings.TrimSpace(g.FirstName + " " + g.LastName)
}

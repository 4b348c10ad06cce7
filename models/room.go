package models

import (
	"time"
)

// Room is a bookable room; capacity counts beds, not reservations.
type Room struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"column:name;uniqueIndex;type:varchar(100)" json:"name"`
	Capacity    int       `gorm:"column:capacity;default:1" json:"capacity"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	IsActive    bool      `gorm:"column:is_active;not null" json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

package models

import "time"

const DefaultMaxCapacity = 9

// Settings lives in a JSON file next to the binary, not in the database.
type Settings struct {
	MaxCapacity int       `json:"maxCapacity"`
	UpdatedAt   time.Time `json:"updatedAt"`
	UpdatedBy   string    `json:"updatedBy"`
}

// Preset is a registrar template used to pre-fill the public form.
type Preset struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`
	Institution string    `json:"institution"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

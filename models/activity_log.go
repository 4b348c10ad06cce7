package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	ActionReservationCreated   = "reservation_created"
	ActionReservationUpdated   = "reservation_updated"
	ActionReservationConfirmed = "reservation_confirmed"
	ActionReservationCancelled = "reservation_cancelled"
	ActionReservationActivated = "reservation_activated"
	ActionReservationCompleted = "reservation_completed"
	ActionReservationRejected  = "reservation_rejected"
	ActionReservationArchived  = "reservation_archived"
	ActionReservationRestored  = "reservation_restored"
	ActionReservationDeleted   = "reservation_deleted"
	ActionRoomAssigned         = "room_assigned"
	ActionRoomCreated          = "room_created"
	ActionRoomUpdated          = "room_updated"
	ActionRoomDeleted          = "room_deleted"
	ActionSettingsUpdated      = "settings_updated"
	ActionPresetCreated        = "preset_created"
	ActionPresetUpdated        = "preset_updated"
	ActionPresetDeleted        = "preset_deleted"
	ActionUserLogin            = "user_login"
	ActionUserRegistered       = "user_registered"
	ActionNotificationFailed   = "notification_failed"
)

const (
	EntityReservation = "Reservation"
	EntityRoom        = "Room"
	EntitySettings    = "Settings"
	EntityPreset      = "Preset"
	EntityUser        = "User"
)

// ActivityLog rows are append-only.
type ActivityLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID    *uint  `gorm:"index" json:"userId"`
	UserEmail string `gorm:"size:150" json:"userEmail"`
	UserName  string `gorm:"size:255" json:"userName"`

	Action      string `gorm:"size:64;index" json:"action"`
	Description string `gorm:"type:text" json:"description"`

	EntityType string `gorm:"size:64;index" json:"entityType"`
	EntityID   string `gorm:"size:64;index" json:"entityId"`
	EntityName string `gorm:"size:255" json:"entityName"`

	Details   datatypes.JSON `json:"details"`
	IPAddress string         `gorm:"size:64" json:"ipAddress"`
	CreatedAt time.Time      `gorm:"index" json:"createdAt"`
}

package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"guesthouse-backend/models"
	"guesthouse-backend/repository"

	"gorm.io/datatypes"
)

// Actor is who performed an action. Unauthenticated form submissions use SystemActor.
type Actor struct {
	ID    *uint  `json:"id,omitempty"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name"`
}

var SystemActor = Actor{Name: "System"}

func (a Actor) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	if a.Email != "" {
		return a.Email
	}
	return SystemActor.Name
}

// Entity identifies the record an activity log entry is about.
type Entity struct {
	Type string
	ID   string
	Name string
}

func reservationEntity(r *models.Reservation) Entity {
	return Entity{Type: models.EntityReservation, ID: repository.EntityKey(r.ID), Name: r.Label()}
}

func roomEntity(r *models.Room) Entity {
	return Entity{Type: models.EntityRoom, ID: repository.EntityKey(r.ID), Name: r.Name}
}

// ActivityLogger appends audit records. Failures are printed and swallowed so
// the audited operation never fails because of its log entry.
type ActivityLogger struct {
	repo repository.ActivityLogRepository
}

func NewActivityLogger(repo repository.ActivityLogRepository) *ActivityLogger {
	return &ActivityLogger{repo: repo}
}

func (l *ActivityLogger) Record(
	ctx context.Context,
	actor Actor,
	action string,
	description string,
	entity Entity,
	details any,
	ip string,
) *models.ActivityLog {
	if l == nil || l.repo == nil {
		return nil
	}

	entry := &models.ActivityLog{
		UserID:      actor.ID,
		UserEmail:   actor.Email,
		UserName:    actor.DisplayName(),
		Action:      action,
		Description: description,
		EntityType:  entity.Type,
		EntityID:    entity.ID,
		EntityName:  entity.Name,
		IPAddress:   ip,
		CreatedAt:   time.Now().UTC(),
	}

	if details != nil {
		raw, err := json.Marshal(details)
		if err != nil {
			log.Printf("⚠️  activity log: cannot encode details for %s: %v", action, err)
		} else {
			entry.Details = datatypes.JSON(raw)
		}
	}

	if err := l.repo.Create(ctx, entry); err != nil {
		log.Printf("❌ activity log write failed (%s %s/%s): %v", action, entity.Type, entity.ID, err)
		return nil
	}
	return entry
}

package services

import (
	"log"
	"strings"
	"time"

	"guesthouse-backend/models"
)

// EventPublisher is satisfied by rabbitmq.Publisher.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

type ReservationEvent struct {
	Action         string                   `json:"action"`
	ReservationID  uint                     `json:"reservationId"`
	Status         models.ReservationStatus `json:"status"`
	PreviousStatus models.ReservationStatus `json:"previousStatus,omitempty"`
	GuestCount     int                      `json:"guestCount"`
	CheckInDate    time.Time                `json:"checkInDate"`
	CheckOutDate   time.Time                `json:"checkOutDate"`
	Actor          string                   `json:"actor"`
	OccurredAt     time.Time                `json:"occurredAt"`
}

// eventRoutingKey maps "reservation_confirmed" to "reservation.confirmed".
func eventRoutingKey(action string) string {
	return "reservation." + strings.TrimPrefix(action, "reservation_")
}

func publishReservationEvent(p EventPublisher, action string, r *models.Reservation, prev models.ReservationStatus, actor Actor) {
	if p == nil {
		return
	}
	ev := ReservationEvent{
		Action:         action,
		ReservationID:  r.ID,
		Status:         r.Status,
		PreviousStatus: prev,
		GuestCount:     r.GuestCount,
		CheckInDate:    r.CheckInDate,
		CheckOutDate:   r.CheckOutDate,
		Actor:          actor.DisplayName(),
		OccurredAt:     time.Now().UTC(),
	}
	if err := p.Publish(eventRoutingKey(action), ev); err != nil {
		log.Printf("⚠️  event %s for reservation %d not published: %v", action, r.ID, err)
	}
}

package services

import (
	"fmt"

	"guesthouse-backend/models"
)

// Transition names a status change.
type Transition string

const (
	TransitionConfirm  Transition = "confirm"
	TransitionCancel   Transition = "cancel"
	TransitionReject   Transition = "reject"
	TransitionActivate Transition = "activate"
	TransitionComplete Transition = "complete"
)

var transitions = map[models.ReservationStatus]map[models.ReservationStatus]Transition{
	models.StatusPending: {
		models.StatusConfirmed: TransitionConfirm,
		models.StatusCancelled: TransitionCancel,
	},
	models.StatusConfirmed: {
		models.StatusActive:    TransitionActivate,
		models.StatusCancelled: TransitionCancel,
		// "reject": a confirmed reservation sent back to pending
		models.StatusPending: TransitionReject,
	},
	models.StatusActive: {
		models.StatusCompleted: TransitionComplete,
	},
	models.StatusCompleted: {},
	models.StatusCancelled: {},
}

// ResolveTransition returns the named transition from -> to, or
// ErrInvalidTransition. from == to is not a transition.
func ResolveTransition(from, to models.ReservationStatus) (Transition, error) {
	if !to.IsValid() {
		return "", fmt.Errorf("%w: unknown status %q", ErrValidation, to)
	}
	if t, ok := transitions[from][to]; ok {
		return t, nil
	}
	return "", fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

// AllowedTransitions lists the statuses reachable from s.
func AllowedTransitions(s models.ReservationStatus) []models.ReservationStatus {
	out := []models.ReservationStatus{}
	for _, to := range models.AllStatuses {
		if _, ok := transitions[s][to]; ok {
			out = append(out, to)
		}
	}
	return out
}

func IsTerminal(s models.ReservationStatus) bool {
	return len(transitions[s]) == 0
}

func (t Transition) Action() string {
	switch t {
	case TransitionConfirm:
		return models.ActionReservationConfirmed
	case TransitionCancel:
		return models.ActionReservationCancelled
	case TransitionReject:
		return models.ActionReservationRejected
	case TransitionActivate:
		return models.ActionReservationActivated
	case TransitionComplete:
		return models.ActionReservationCompleted
	}
	return models.ActionReservationUpdated
}

func (t Transition) describe(label string) string {
	switch t {
	case TransitionConfirm:
		return "Rezervasyon onaylandı: " + label
	case TransitionCancel:
		return "Rezervasyon iptal edildi: " + label
	case TransitionReject:
		return "Rezervasyon onayı geri alındı, beklemeye alındı: " + label
	case TransitionActivate:
		return "Misafir giriş yaptı, rezervasyon aktif: " + label
	case TransitionComplete:
		return "Misafir çıkış yaptı, rezervasyon tamamlandı: " + label
	}
	return "Rezervasyon güncellendi: " + label
}

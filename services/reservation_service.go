package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"guesthouse-backend/models"
	"guesthouse-backend/repository"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type GuestInput struct {
	FirstName      string
	LastName       string
	Phone          string
	Email          string
	IdentityNumber string
}

type CreateReservationInput struct {
	Guest            GuestInput
	GuestCount       int
	CheckInDate      time.Time
	CheckOutDate     time.Time
	RoomAssignments  []models.RoomAssignment
	AssignedRooms    []string
	AdditionalGuests []models.AdditionalGuest
	Registrar        *models.Registrar
	Notes            string
}

// UpdateReservationInput is a partial update; nil fields are left alone.
type UpdateReservationInput struct {
	Guest            *GuestInput
	GuestCount       *int
	CheckInDate      *time.Time
	CheckOutDate     *time.Time
	Status           *models.ReservationStatus
	RoomAssignments  *[]models.RoomAssignment
	AssignedRooms    *[]string
	AdditionalGuests *[]models.AdditionalGuest
	Registrar        *models.Registrar
	Notes            *string
	RejectionReason  *string
}

type FieldChange struct {
	From any `json:"from"`
	To   any `json:"to"`
}

type ReservationService struct {
	repo          repository.ReservationRepository
	logger        *ActivityLogger
	notifications *NotificationService
	events        EventPublisher
}

func NewReservationService(
	repo repository.ReservationRepository,
	logger *ActivityLogger,
	notifications *NotificationService,
	events EventPublisher,
) *ReservationService {
	return &ReservationService{
		repo:          repo,
		logger:        logger,
		notifications: notifications,
		events:        events,
	}
}

func (s *ReservationService) find(ctx context.Context, id uint) (*models.Reservation, error) {
	r, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load reservation: %w", err)
	}
	return r, nil
}

func validateStay(guestCount int, checkIn, checkOut time.Time, assignments []models.RoomAssignment) error {
	if guestCount < 1 {
		return fmt.Errorf("%w: guestCount must be at least 1", ErrValidation)
	}
	if checkIn.IsZero() || checkOut.IsZero() {
		return fmt.Errorf("%w: checkInDate and checkOutDate are required", ErrValidation)
	}
	if !checkOut.After(checkIn) {
		return fmt.Errorf("%w: checkOutDate must be after checkInDate", ErrValidation)
	}

	assigned := 0
	for _, a := range assignments {
		if strings.TrimSpace(a.RoomName) == "" {
			return fmt.Errorf("%w: roomAssignments entries need a roomName", ErrValidation)
		}
		if a.GuestCount < 0 {
			return fmt.Errorf("%w: roomAssignments guestCount cannot be negative", ErrValidation)
		}
		assigned += a.GuestCount
	}
	if assigned > guestCount {
		return fmt.Errorf("%w: %d guests assigned to rooms but reservation has %d", ErrValidation, assigned, guestCount)
	}
	return nil
}

func trimAssignments(in []models.RoomAssignment) []models.RoomAssignment {
	out := make([]models.RoomAssignment, 0, len(in))
	for _, a := range in {
		a.RoomName = strings.TrimSpace(a.RoomName)
		out = append(out, a)
	}
	return out
}

func applyGuest(g *models.Guest, in GuestInput) {
	g.FirstName = strings.TrimSpace(in.FirstName)
	g.LastName = strings.TrimSpace(in.LastName)
	g.Phone = strings.TrimSpace(in.Phone)
	g.Email = strings.TrimSpace(in.Email)
	g.IdentityNumber = strings.TrimSpace(in.IdentityNumber)
}

// Create stores a pending reservation from the public form.
func (s *ReservationService) Create(ctx context.Context, in CreateReservationInput, ip string) (*models.Reservation, error) {
	if strings.TrimSpace(in.Guest.FirstName) == "" || strings.TrimSpace(in.Guest.LastName) == "" {
		return nil, fmt.Errorf("%w: guest firstName and lastName are required", ErrValidation)
	}
	if strings.TrimSpace(in.Guest.Phone) == "" {
		return nil, fmt.Errorf("%w: guest phone is required", ErrValidation)
	}
	if in.GuestCount == 0 {
		in.GuestCount = 1
	}
	assignments := trimAssignments(in.RoomAssignments)
	if err := validateStay(in.GuestCount, in.CheckInDate, in.CheckOutDate, assignments); err != nil {
		return nil, err
	}

	r := &models.Reservation{
		GuestCount:       in.GuestCount,
		CheckInDate:      in.CheckInDate,
		CheckOutDate:     in.CheckOutDate,
		Status:           models.StatusPending,
		RoomAssignments:  datatypes.NewJSONSlice(assignments),
		AssignedRooms:    datatypes.NewJSONSlice(nonEmpty(in.AssignedRooms)),
		AdditionalGuests: datatypes.NewJSONSlice(in.AdditionalGuests),
		Notes:            strings.TrimSpace(in.Notes),
	}
	applyGuest(&r.Guest, in.Guest)
	if in.Registrar != nil {
		r.Registrar = datatypes.NewJSONType(*in.Registrar)
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}

	outcome := s.notifications.NotifyReceived(ctx, r)
	s.logger.Record(ctx, SystemActor, models.ActionReservationCreated,
		"Yeni rezervasyon talebi: "+r.Label()+outcome.Suffix(),
		reservationEntity(r),
		map[string]any{
			"guestCount":    r.GuestCount,
			"checkInDate":   r.CheckInDate,
			"checkOutDate":  r.CheckOutDate,
			"registrar":     r.RegistrarInfo(),
			"notifications": outcome,
		},
		ip,
	)
	publishReservationEvent(s.events, models.ActionReservationCreated, r, "", SystemActor)

	return r, nil
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (s *ReservationService) List(ctx context.Context, filter repository.ReservationFilter) ([]models.Reservation, error) {
	list, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return list, nil
}

func (s *ReservationService) Get(ctx context.Context, id uint) (*models.Reservation, error) {
	return s.find(ctx, id)
}

func (s *ReservationService) Stats(ctx context.Context) (repository.ReservationStats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to compute reservation stats: %w", err)
	}
	return stats, nil
}

// Update applies a partial change. A status change must be one of the named
// transitions; confirm and cancel notify the registrar and the group leader.
func (s *ReservationService) Update(ctx context.Context, id uint, in UpdateReservationInput, actor Actor, ip string) (*models.Reservation, error) {
	r, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	prevStatus := r.Status
	changes := map[string]FieldChange{}
	track := func(field string, from, to any) {
		if !reflect.DeepEqual(from, to) {
			changes[field] = FieldChange{From: from, To: to}
		}
	}

	var transition Transition
	if in.Status != nil && *in.Status != r.Status {
		t, err := ResolveTransition(r.Status, *in.Status)
		if err != nil {
			return nil, err
		}
		transition = t
		track("status", r.Status, *in.Status)
		r.Status = *in.Status
	}

	if in.Guest != nil {
		before := r.Guest
		applyGuest(&r.Guest, *in.Guest)
		if r.Guest.FirstName == "" || r.Guest.Phone == "" {
			return nil, fmt.Errorf("%w: guest firstName and phone are required", ErrValidation)
		}
		track("guest", before.FullName()+" "+before.Phone, r.Guest.FullName()+" "+r.Guest.Phone)
	}
	if in.GuestCount != nil {
		track("guestCount", r.GuestCount, *in.GuestCount)
		r.GuestCount = *in.GuestCount
	}
	if in.CheckInDate != nil {
		track("checkInDate", r.CheckInDate, *in.CheckInDate)
		r.CheckInDate = *in.CheckInDate
	}
	if in.CheckOutDate != nil {
		track("checkOutDate", r.CheckOutDate, *in.CheckOutDate)
		r.CheckOutDate = *in.CheckOutDate
	}
	if in.RoomAssignments != nil {
		next := trimAssignments(*in.RoomAssignments)
		track("roomAssignments", []models.RoomAssignment(r.RoomAssignments), next)
		r.RoomAssignments = datatypes.NewJSONSlice(next)
		// detailed assignments supersede the legacy list
		if len(r.AssignedRooms) > 0 {
			track("assignedRooms", []string(r.AssignedRooms), []string{})
		}
		r.AssignedRooms = datatypes.NewJSONSlice([]string{})
	} else if in.AssignedRooms != nil {
		next := nonEmpty(*in.AssignedRooms)
		track("assignedRooms", []string(r.AssignedRooms), next)
		r.AssignedRooms = datatypes.NewJSONSlice(next)
	}
	if in.AdditionalGuests != nil {
		track("additionalGuests", len(r.AdditionalGuests), len(*in.AdditionalGuests))
		r.AdditionalGuests = datatypes.NewJSONSlice(*in.AdditionalGuests)
	}
	if in.Registrar != nil {
		track("registrar", r.RegistrarInfo(), *in.Registrar)
		r.Registrar = datatypes.NewJSONType(*in.Registrar)
	}
	if in.Notes != nil {
		track("notes", r.Notes, strings.TrimSpace(*in.Notes))
		r.Notes = strings.TrimSpace(*in.Notes)
	}
	if in.RejectionReason != nil {
		track("rejectionReason", r.RejectionReason, strings.TrimSpace(*in.RejectionReason))
		r.RejectionReason = strings.TrimSpace(*in.RejectionReason)
	}

	if err := validateStay(r.GuestCount, r.CheckInDate, r.CheckOutDate, r.RoomAssignments); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to update reservation: %w", err)
	}

	action := transition.Action()
	description := transition.describe(r.Label())
	if in.RoomAssignments != nil {
		action = models.ActionRoomAssigned
		description = "Oda ataması yapıldı: " + r.Label() + assignmentSummary(r.RoomAssignments)
	}

	outcome := s.notifications.NotifyDecision(ctx, r, transition)
	description += outcome.Suffix()

	s.logger.Record(ctx, actor, action, description, reservationEntity(r),
		map[string]any{
			"previousStatus": prevStatus,
			"newStatus":      r.Status,
			"changes":        changes,
			"notifications":  outcome,
		},
		ip,
	)
	publishReservationEvent(s.events, action, r, prevStatus, actor)

	return r, nil
}

func assignmentSummary(assignments []models.RoomAssignment) string {
	if len(assignments) == 0 {
		return " (atama kaldırıldı)"
	}
	parts := make([]string, 0, len(assignments))
	for _, a := range assignments {
		parts = append(parts, fmt.Sprintf("%s: %d kişi", a.RoomName, a.GuestCount))
	}
	return " [" + strings.Join(parts, ", ") + "]"
}

func (s *ReservationService) Archive(ctx context.Context, id uint, actor Actor, ip string) (*models.Reservation, error) {
	r, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	r.IsArchived = true
	r.ArchivedAt = &now
	if err := s.repo.Save(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to archive reservation: %w", err)
	}

	s.logger.Record(ctx, actor, models.ActionReservationArchived,
		"Rezervasyon arşivlendi: "+r.Label(), reservationEntity(r),
		map[string]any{"archivedAt": now, "status": r.Status}, ip)
	publishReservationEvent(s.events, models.ActionReservationArchived, r, r.Status, actor)
	return r, nil
}

func (s *ReservationService) Restore(ctx context.Context, id uint, actor Actor, ip string) (*models.Reservation, error) {
	r, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	r.IsArchived = false
	r.ArchivedAt = nil
	if err := s.repo.Save(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to restore reservation: %w", err)
	}

	s.logger.Record(ctx, actor, models.ActionReservationRestored,
		"Rezervasyon arşivden çıkarıldı: "+r.Label(), reservationEntity(r),
		map[string]any{"status": r.Status}, ip)
	publishReservationEvent(s.events, models.ActionReservationRestored, r, r.Status, actor)
	return r, nil
}

// Delete removes the reservation for good and drops its pending messages.
func (s *ReservationService) Delete(ctx context.Context, id uint, actor Actor, ip string) error {
	r, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReservationNotFound
		}
		return fmt.Errorf("failed to delete reservation: %w", err)
	}
	s.notifications.CancelPending(id)

	s.logger.Record(ctx, actor, models.ActionReservationDeleted,
		"Rezervasyon silindi: "+r.Label(), reservationEntity(r),
		map[string]any{
			"status":     r.Status,
			"guestCount": r.GuestCount,
			"guest":      r.Guest.FullName(),
			"phone":      r.Guest.Phone,
		}, ip)
	publishReservationEvent(s.events, models.ActionReservationDeleted, r, r.Status, actor)
	return nil
}

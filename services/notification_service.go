package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"guesthouse-backend/models"
	"guesthouse-backend/repository"
	"guesthouse-backend/utils"
)

// DefaultNotifyDelay separates the registrar's message from the group leader's.
const DefaultNotifyDelay = 5 * time.Second

type WhatsAppSender interface {
	Send(ctx context.Context, phone, message string) bool
}

// EmailSender returns utils.ErrMailerNotConfigured when there are no credentials.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) (bool, error)
}

type Delivery string

const (
	DeliveryNone          Delivery = ""
	DeliverySent          Delivery = "sent"
	DeliveryFailed        Delivery = "failed"
	DeliveryScheduled     Delivery = "scheduled"
	DeliveryNotConfigured Delivery = "not_configured"
)

func (d Delivery) label() string {
	switch d {
	case DeliverySent:
		return "Gönderildi"
	case DeliveryFailed:
		return "Başarısız"
	case DeliveryScheduled:
		return "Planlandı"
	case DeliveryNotConfigured:
		return "Yapılandırılmamış"
	}
	return ""
}

func deliveryOf(ok bool) Delivery {
	if ok {
		return DeliverySent
	}
	return DeliveryFailed
}

type NotificationOutcome struct {
	WhatsApp    Delivery `json:"whatsapp,omitempty"`
	GroupLeader Delivery `json:"groupLeader,omitempty"`
	Email       Delivery `json:"email,omitempty"`
}

// Suffix renders the outcome for the activity log description,
// e.g. " (WhatsApp: Gönderildi, E-posta: Başarısız)". Empty when nothing was attempted.
func (o NotificationOutcome) Suffix() string {
	parts := []string{}
	if o.WhatsApp != DeliveryNone {
		parts = append(parts, "WhatsApp: "+o.WhatsApp.label())
	}
	if o.GroupLeader != DeliveryNone {
		parts = append(parts, "Grup lideri: "+o.GroupLeader.label())
	}
	if o.Email != DeliveryNone {
		parts = append(parts, "E-posta: "+o.Email.label())
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

// NotificationService sends reservation messages. Nothing here returns an
// error: every failure degrades to the outcome or a notification_failed log.
type NotificationService struct {
	whatsapp  WhatsAppSender
	email     EmailSender
	scheduler DeferredScheduler
	logger    *ActivityLogger
	delay     time.Duration
}

func NewNotificationService(wa WhatsAppSender, email EmailSender, scheduler DeferredScheduler, logger *ActivityLogger, delay time.Duration) *NotificationService {
	return &NotificationService{
		whatsapp:  wa,
		email:     email,
		scheduler: scheduler,
		logger:    logger,
		delay:     delay,
	}
}

func deferredKey(reservationID uint) string {
	return "reservation:" + repository.EntityKey(reservationID)
}

// NotifyReceived acknowledges a new request to the registrar, or to the guest
// when the registrar left no phone.
func (n *NotificationService) NotifyReceived(ctx context.Context, r *models.Reservation) NotificationOutcome {
	var out NotificationOutcome
	if n == nil {
		return out
	}

	reg := r.RegistrarInfo()
	phone, name := reg.Phone, reg.FullName()
	if strings.TrimSpace(phone) == "" {
		phone, name = r.Guest.Phone, r.Guest.FullName()
	}
	if strings.TrimSpace(phone) != "" {
		out.WhatsApp = deliveryOf(n.sendWhatsApp(ctx, phone, receivedMessage(r, name)))
	}

	out.Email = n.sendEmail(ctx, contactEmail(r), "Rezervasyon talebiniz alındı", receivedMessage(r, name))
	return out
}

// NotifyDecision announces a confirm or cancel. The registrar is messaged right
// away; a group leader with a different phone gets a separate message after
// the configured delay. Other transitions only drop pending messages.
func (n *NotificationService) NotifyDecision(ctx context.Context, r *models.Reservation, t Transition) NotificationOutcome {
	var out NotificationOutcome
	if n == nil || t == "" {
		return out
	}

	// any status change makes a message still waiting out of date
	n.CancelPending(r.ID)
	if t != TransitionConfirm && t != TransitionCancel {
		return out
	}

	reg := r.RegistrarInfo()
	leaderPhone := r.Guest.Phone

	switch {
	case strings.TrimSpace(reg.Phone) != "":
		out.WhatsApp = deliveryOf(n.sendWhatsApp(ctx, reg.Phone, registrarDecisionMessage(r, t)))
		if strings.TrimSpace(leaderPhone) != "" && !utils.SamePhone(reg.Phone, leaderPhone) {
			out.GroupLeader = n.scheduleLeader(r, t)
		}
	case strings.TrimSpace(leaderPhone) != "":
		out.WhatsApp = deliveryOf(n.sendWhatsApp(ctx, leaderPhone, leaderDecisionMessage(r, t)))
	}

	subject := "Rezervasyonunuz onaylandı"
	if t == TransitionCancel {
		subject = "Rezervasyon talebiniz hakkında"
	}
	out.Email = n.sendEmail(ctx, contactEmail(r), subject, registrarDecisionMessage(r, t))
	return out
}

// CancelPending drops any deferred message still waiting for the reservation.
func (n *NotificationService) CancelPending(reservationID uint) {
	if n == nil || n.scheduler == nil {
		return
	}
	n.scheduler.Cancel(deferredKey(reservationID))
}

func (n *NotificationService) scheduleLeader(r *models.Reservation, t Transition) Delivery {
	if n.scheduler == nil {
		return DeliveryNone
	}

	snapshot := *r
	phone := r.Guest.Phone
	message := leaderDecisionMessage(r, t)

	task := func() {
		// the request context is long gone by now
		ctx := context.Background()
		if n.sendWhatsApp(ctx, phone, message) {
			return
		}
		n.logger.Record(ctx, SystemActor, models.ActionNotificationFailed,
			"Grup liderine WhatsApp mesajı gönderilemedi: "+snapshot.Label(),
			reservationEntity(&snapshot),
			map[string]any{"channel": "whatsapp", "recipient": "group_leader", "transition": string(t)},
			"",
		)
	}

	if err := n.scheduler.ScheduleOnce(deferredKey(r.ID), n.delay, task); err != nil {
		log.Printf("❌ could not schedule group leader message for reservation %d: %v", r.ID, err)
		return DeliveryFailed
	}
	return DeliveryScheduled
}

func (n *NotificationService) sendWhatsApp(ctx context.Context, phone, message string) bool {
	if n.whatsapp == nil {
		return false
	}
	return n.whatsapp.Send(ctx, phone, message)
}

func (n *NotificationService) sendEmail(ctx context.Context, to, subject, body string) Delivery {
	if n.email == nil || strings.TrimSpace(to) == "" {
		return DeliveryNone
	}
	ok, err := n.email.Send(ctx, to, subject, body)
	if errors.Is(err, utils.ErrMailerNotConfigured) {
		log.Printf("⚠️  email to %s skipped: %v", to, err)
		return DeliveryNotConfigured
	}
	if err != nil {
		log.Printf("❌ email to %s failed: %v", to, err)
		return DeliveryFailed
	}
	return deliveryOf(ok)
}

func contactEmail(r *models.Reservation) string {
	if e := strings.TrimSpace(r.RegistrarInfo().Email); e != "" {
		return e
	}
	return strings.TrimSpace(r.Guest.Email)
}

// ---------------------------------------------------------------- messages

func stayLine(r *models.Reservation) string {
	return fmt.Sprintf("%s - %s tarihleri arasında %d kişilik",
		utils.FormatDate(r.CheckInDate), utils.FormatDate(r.CheckOutDate), r.GuestCount)
}

func roomsLine(r *models.Reservation) string {
	names := []string{}
	for _, a := range r.RoomAssignments {
		if a.RoomName != "" {
			names = append(names, fmt.Sprintf("%s (%d kişi)", a.RoomName, a.GuestCount))
		}
	}
	if len(names) == 0 {
		for _, name := range r.AssignedRooms {
			if name != "" {
				names = append(names, name)
			}
		}
	}
	if len(names) == 0 {
		return ""
	}
	return "\nOdalar: " + strings.Join(names, ", ")
}

func greeting(name string) string {
	if strings.TrimSpace(name) == "" {
		return "Merhaba,"
	}
	return "Sayın " + name + ","
}

func receivedMessage(r *models.Reservation, name string) string {
	return fmt.Sprintf("%s\n\n%s rezervasyon talebiniz alınmıştır. Talebiniz değerlendirildikten sonra size bilgi verilecektir.",
		greeting(name), stayLine(r))
}

func registrarDecisionMessage(r *models.Reservation, t Transition) string {
	reg := r.RegistrarInfo()
	name := reg.FullName()
	if name == "" {
		name = r.Guest.FullName()
	}

	if t == TransitionConfirm {
		return fmt.Sprintf("%s\n\n%s adına yapılan %s rezervasyon onaylanmıştır.%s",
			greeting(name), r.Guest.FullName(), stayLine(r), roomsLine(r))
	}
	return fmt.Sprintf("%s\n\n%s adına yapılan %s rezervasyon talebi maalesef onaylanamamıştır.%s",
		greeting(name), r.Guest.FullName(), stayLine(r), reasonLine(r))
}

func leaderDecisionMessage(r *models.Reservation, t Transition) string {
	if t == TransitionConfirm {
		return fmt.Sprintf("%s\n\n%s rezervasyonunuz onaylanmıştır. İyi konaklamalar dileriz.%s",
			greeting(r.Guest.FullName()), stayLine(r), roomsLine(r))
	}
	return fmt.Sprintf("%s\n\n%s rezervasyon talebiniz maalesef onaylanamamıştır.%s",
		greeting(r.Guest.FullName()), stayLine(r), reasonLine(r))
}

func reasonLine(r *models.Reservation) string {
	if strings.TrimSpace(r.RejectionReason) == "" {
		return ""
	}
	return "\nSebep: " + strings.TrimSpace(r.RejectionReason)
}

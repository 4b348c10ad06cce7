package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"guesthouse-backend/config"
	"guesthouse-backend/models"
	"guesthouse-backend/repository"
	"guesthouse-backend/utils"

	"github.com/stretchr/testify/require"
)

// --- Fake WhatsApp ---

type sentMessage struct {
	Phone   string
	Message string
}

type fakeWhatsApp struct {
	mu      sync.Mutex
	sent    []sentMessage
	failFor map[string]bool
}

func (f *fakeWhatsApp) Send(_ context.Context, phone, message string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{Phone: phone, Message: message})
	return !f.failFor[utils.NormalizePhone(phone)]
}

func (f *fakeWhatsApp) messages() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.sent...)
}

// --- Fake mailer ---

type fakeMailer struct {
	err error
	to  []string
}

func (f *fakeMailer) Send(_ context.Context, to, subject, body string) (bool, error) {
	f.to = append(f.to, to)
	if f.err != nil {
		return false, f.err
	}
	return true, nil
}

// --- Fake scheduler ---

type scheduledTask struct {
	key   string
	delay time.Duration
	task  func()
}

type fakeScheduler struct {
	tasks        []scheduledTask
	cancelled    []string
	ignoreCancel bool
}

func (f *fakeScheduler) ScheduleOnce(key string, delay time.Duration, task func()) error {
	f.tasks = append(f.tasks, scheduledTask{key: key, delay: delay, task: task})
	return nil
}

func (f *fakeScheduler) Cancel(key string) {
	f.cancelled = append(f.cancelled, key)
	if f.ignoreCancel {
		return
	}
	kept := f.tasks[:0]
	for _, t := range f.tasks {
		if t.key != key {
			kept = append(kept, t)
		}
	}
	f.tasks = kept
}

func (f *fakeScheduler) runAll() {
	tasks := f.tasks
	f.tasks = nil
	for _, t := range tasks {
		t.task()
	}
}

// --- Fake publisher ---

type fakePublisher struct {
	keys []string
	err  error
}

func (f *fakePublisher) Publish(routingKey string, payload any) error {
	f.keys = append(f.keys, routingKey)
	return f.err
}

// --- Harness ---

type harness struct {
	store    *repository.MemoryStore
	wa       *fakeWhatsApp
	mail     *fakeMailer
	sched    *fakeScheduler
	events   *fakePublisher
	logger   *ActivityLogger
	notifier *NotificationService
	svc      *ReservationService
	settings config.SettingsStore
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		store:    repository.NewMemoryStore(),
		wa:       &fakeWhatsApp{failFor: map[string]bool{}},
		mail:     &fakeMailer{},
		sched:    &fakeScheduler{},
		events:   &fakePublisher{},
		settings: config.NewFileSettingsStore(filepath.Join(t.TempDir(), "settings.json")),
	}
	h.logger = NewActivityLogger(h.store.Logs())
	h.notifier = NewNotificationService(h.wa, h.mail, h.sched, h.logger, DefaultNotifyDelay)
	h.svc = NewReservationService(h.store.Reservations(), h.logger, h.notifier, h.events)
	return h
}

func day(d int) time.Time {
	return time.Date(2024, time.June, d, 0, 0, 0, 0, time.UTC)
}

const (
	guestPhone     = "0532 111 22 33"
	registrarPhone = "0533 444 55 66"
)

func defaultInput() CreateReservationInput {
	return CreateReservationInput{
		Guest: GuestInput{
			FirstName: "Ayşe",
			LastName:  "Yılmaz",
			Phone:     guestPhone,
			Email:     "ayse@example.com",
		},
		GuestCount:   2,
		CheckInDate:  day(1),
		CheckOutDate: day(3),
		Registrar: &models.Registrar{
			FirstName: "Mehmet",
			LastName:  "Demir",
			Phone:     registrarPhone,
			Email:     "mehmet@example.com",
		},
	}
}

func (h *harness) create(t *testing.T, mutate func(in *CreateReservationInput)) *models.Reservation {
	t.Helper()
	in := defaultInput()
	if mutate != nil {
		mutate(&in)
	}
	r, err := h.svc.Create(context.Background(), in, "127.0.0.1")
	require.NoError(t, err)
	return r
}

func (h *harness) latestLog(t *testing.T) models.ActivityLog {
	t.Helper()
	logs, _, err := h.store.Logs().List(context.Background(), repository.LogQuery{Limit: 1})
	require.NoError(t, err)
	require.NotEmpty(t, logs)
	return logs[0]
}

func (h *harness) logsFor(t *testing.T, action string) []models.ActivityLog {
	t.Helper()
	logs, _, err := h.store.Logs().List(context.Background(), repository.LogQuery{Action: action, Limit: 100})
	require.NoError(t, err)
	return logs
}

var adminActor = func() Actor {
	id := uint(99)
	return Actor{ID: &id, Email: "admin@example.com", Name: "Admin"}
}()

func statusPtr(s models.ReservationStatus) *models.ReservationStatus { return &s }
func strPtr(s string) *string                                       { return &s }
func intPtr(n int) *int                                             { return &n }

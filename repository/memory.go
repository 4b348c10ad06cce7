package repository

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"guesthouse-backend/models"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// MemoryStore backs every repository with process memory. It is selected by
// DB_DRIVER=memory and is what the package tests run against.
type MemoryStore struct {
	mu sync.RWMutex

	rooms        map[uint]models.Room
	guests       map[uint]models.Guest
	reservations map[uint]models.Reservation
	logs         []models.ActivityLog
	users        map[uint]models.User

	nextID uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rooms:        map[uint]models.Room{},
		guests:       map[uint]models.Guest{},
		reservations: map[uint]models.Reservation{},
		users:        map[uint]models.User{},
	}
}

func (m *MemoryStore) id() uint {
	m.nextID++
	return m.nextID
}

func (m *MemoryStore) Rooms() RoomRepository               { return memoryRooms{m} }
func (m *MemoryStore) Reservations() ReservationRepository { return memoryReservations{m} }
func (m *MemoryStore) Logs() ActivityLogRepository         { return memoryLogs{m} }
func (m *MemoryStore) Users() UserRepository               { return memoryUsers{m} }

func duplicateEntry(key string) error {
	return &mysql.MySQLError{Number: 1062, Message: fmt.Sprintf("Duplicate entry '%s'", key)}
}

// ---------------------------------------------------------------- rooms

type memoryRooms struct{ m *MemoryStore }

func (r memoryRooms) List(ctx context.Context, activeOnly bool) ([]models.Room, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	out := make([]models.Room, 0, len(r.m.rooms))
	for _, room := range r.m.rooms {
		if activeOnly && !room.IsActive {
			continue
		}
		out = append(out, room)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memoryRooms) FindByID(ctx context.Context, id uint) (*models.Room, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	room, ok := r.m.rooms[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &room, nil
}

func (r memoryRooms) nameTaken(name string, except uint) bool {
	for _, room := range r.m.rooms {
		if room.ID != except && room.Name == name {
			return true
		}
	}
	return false
}

func (r memoryRooms) Create(ctx context.Context, room *models.Room) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if r.nameTaken(room.Name, 0) {
		return duplicateEntry(room.Name)
	}
	now := time.Now()
	room.ID = r.m.id()
	room.CreatedAt = now
	room.UpdatedAt = now
	r.m.rooms[room.ID] = *room
	return nil
}

func (r memoryRooms) Save(ctx context.Context, room *models.Room) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.rooms[room.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	if r.nameTaken(room.Name, room.ID) {
		return duplicateEntry(room.Name)
	}
	room.UpdatedAt = time.Now()
	r.m.rooms[room.ID] = *room
	return nil
}

func (r memoryRooms) Delete(ctx context.Context, id uint) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.rooms[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.m.rooms, id)
	return nil
}

// ---------------------------------------------------------------- reservations

type memoryReservations struct{ m *MemoryStore }

func cloneReservation(res models.Reservation) models.Reservation {
	res.RoomAssignments = append(res.RoomAssignments[:0:0], res.RoomAssignments...)
	res.AssignedRooms = append(res.AssignedRooms[:0:0], res.AssignedRooms...)
	res.AdditionalGuests = append(res.AdditionalGuests[:0:0], res.AdditionalGuests...)
	if res.ArchivedAt != nil {
		t := *res.ArchivedAt
		res.ArchivedAt = &t
	}
	return res
}

// load must be called with the lock held.
func (r memoryReservations) load(res models.Reservation) models.Reservation {
	out := cloneReservation(res)
	if g, ok := r.m.guests[res.GuestID]; ok {
		out.Guest = g
	}
	return out
}

func (r memoryReservations) Create(ctx context.Context, res *models.Reservation) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	now := time.Now()
	res.Guest.ID = r.m.id()
	res.Guest.CreatedAt = now
	res.Guest.UpdatedAt = now
	r.m.guests[res.Guest.ID] = res.Guest

	res.GuestID = res.Guest.ID
	res.ID = r.m.id()
	res.CreatedAt = now
	res.UpdatedAt = now
	r.m.reservations[res.ID] = cloneReservation(*res)
	return nil
}

func (r memoryReservations) FindByID(ctx context.Context, id uint) (*models.Reservation, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	res, ok := r.m.reservations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := r.load(res)
	return &out, nil
}

func (r memoryReservations) List(ctx context.Context, filter ReservationFilter) ([]models.Reservation, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	archived := false
	if filter.Archived != nil {
		archived = *filter.Archived
	}
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	out := []models.Reservation{}
	for _, stored := range r.m.reservations {
		res := r.load(stored)
		if res.IsArchived != archived {
			continue
		}
		if filter.Status != nil && res.Status != *filter.Status {
			continue
		}
		if filter.From != nil && !res.CheckOutDate.After(*filter.From) {
			continue
		}
		if filter.To != nil && !res.CheckInDate.Before(*filter.To) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(res.Guest.FirstName), search) &&
			!strings.Contains(strings.ToLower(res.Guest.LastName), search) &&
			!strings.Contains(res.Guest.Phone, search) {
			continue
		}
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CheckInDate.Equal(out[j].CheckInDate) {
			return out[i].ID < out[j].ID
		}
		return out[i].CheckInDate.Before(out[j].CheckInDate)
	})
	return out, nil
}

func (r memoryReservations) FindOverlapping(ctx context.Context, start, end time.Time, statuses []models.ReservationStatus) ([]models.Reservation, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	wanted := map[models.ReservationStatus]bool{}
	for _, s := range statuses {
		wanted[s] = true
	}

	out := []models.Reservation{}
	for _, stored := range r.m.reservations {
		if !wanted[stored.Status] || !stored.Overlaps(start, end) {
			continue
		}
		out = append(out, r.load(stored))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memoryReservations) Save(ctx context.Context, res *models.Reservation) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.reservations[res.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	now := time.Now()
	if res.Guest.ID != 0 {
		res.Guest.UpdatedAt = now
		r.m.guests[res.Guest.ID] = res.Guest
	}
	res.UpdatedAt = now
	r.m.reservations[res.ID] = cloneReservation(*res)
	return nil
}

func (r memoryReservations) Delete(ctx context.Context, id uint) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.reservations[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.m.reservations, id)
	return nil
}

func (r memoryReservations) Stats(ctx context.Context) (ReservationStats, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	stats := ReservationStats{ByStatus: map[models.ReservationStatus]int64{}}
	for _, res := range r.m.reservations {
		if res.IsArchived {
			stats.Archived++
			continue
		}
		stats.ByStatus[res.Status]++
		stats.Total++
	}
	return stats, nil
}

// ---------------------------------------------------------------- logs

type memoryLogs struct{ m *MemoryStore }

func (r memoryLogs) Create(ctx context.Context, entry *models.ActivityLog) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	entry.ID = r.m.id()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	r.m.logs = append(r.m.logs, *entry)
	return nil
}

func (r memoryLogs) List(ctx context.Context, q LogQuery) ([]models.ActivityLog, int64, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	q = q.Normalized()
	matched := []models.ActivityLog{}
	for i := len(r.m.logs) - 1; i >= 0; i-- {
		entry := r.m.logs[i]
		if q.Action != "" && entry.Action != q.Action {
			continue
		}
		if q.EntityType != "" && entry.EntityType != q.EntityType {
			continue
		}
		if q.EntityID != "" && entry.EntityID != q.EntityID {
			continue
		}
		matched = append(matched, entry)
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	from := (q.Page - 1) * q.Limit
	if from >= len(matched) {
		return []models.ActivityLog{}, total, nil
	}
	to := from + q.Limit
	if to > len(matched) {
		to = len(matched)
	}
	return matched[from:to], total, nil
}

func (r memoryLogs) Stats(ctx context.Context, since time.Time) (LogStats, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	stats := LogStats{ByAction: map[string]int64{}}
	for _, entry := range r.m.logs {
		stats.Total++
		stats.ByAction[entry.Action]++
		if !entry.CreatedAt.Before(since) {
			stats.Today++
		}
	}
	return stats, nil
}

// ---------------------------------------------------------------- users

type memoryUsers struct{ m *MemoryStore }

func (r memoryUsers) FindByID(ctx context.Context, id uint) (*models.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	u, ok := r.m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r memoryUsers) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	for _, u := range r.m.users {
		if u.Username == username {
			found := u
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r memoryUsers) Create(ctx context.Context, u *models.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	for _, existing := range r.m.users {
		if existing.Username == u.Username {
			return duplicateEntry(u.Username)
		}
	}
	now := time.Now()
	u.ID = r.m.id()
	u.CreatedAt = now
	u.UpdatedAt = now
	r.m.users[u.ID] = *u
	return nil
}

func (r memoryUsers) Count(ctx context.Context) (int64, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	return int64(len(r.m.users)), nil
}

// EntityKey formats ids the way activity log rows store them.
func EntityKey(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

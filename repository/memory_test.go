package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"guesthouse-backend/models"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func june(d int) time.Time {
	return time.Date(2024, time.June, d, 0, 0, 0, 0, time.UTC)
}

func seedReservation(t *testing.T, repo ReservationRepository, first string, status models.ReservationStatus, in, out int) *models.Reservation {
	t.Helper()
	r := &models.Reservation{
		Guest:        models.Guest{FirstName: first, LastName: "Kaya", Phone: "0532" + first},
		GuestCount:   2,
		CheckInDate:  june(in),
		CheckOutDate: june(out),
		Status:       status,
	}
	require.NoError(t, repo.Create(context.Background(), r))
	return r
}

func TestMemoryReservations_FilterAndOverlap(t *testing.T) {
	store := NewMemoryStore()
	repo := store.Reservations()
	ctx := context.Background()

	a := seedReservation(t, repo, "Ali", models.StatusConfirmed, 5, 7)
	seedReservation(t, repo, "Ayşe", models.StatusPending, 1, 3)
	seedReservation(t, repo, "Can", models.StatusCancelled, 2, 6)

	list, err := repo.List(ctx, ReservationFilter{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Ayşe", list[0].Guest.FirstName, "ordered by check-in")

	confirmed := models.StatusConfirmed
	list, err = repo.List(ctx, ReservationFilter{Status: &confirmed})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].ID)

	list, err = repo.List(ctx, ReservationFilter{Search: "ayş"})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	overlapping, err := repo.FindOverlapping(ctx, june(3), june(5),
		[]models.ReservationStatus{models.StatusPending, models.StatusConfirmed, models.StatusCancelled})
	require.NoError(t, err)
	require.Len(t, overlapping, 1, "touching ranges do not overlap")
	assert.Equal(t, "Can", overlapping[0].Guest.FirstName)
}

func TestMemoryReservations_ReadsAreCopies(t *testing.T) {
	store := NewMemoryStore()
	repo := store.Reservations()
	ctx := context.Background()

	r := seedReservation(t, repo, "Ali", models.StatusPending, 1, 2)
	r.RoomAssignments = datatypes.NewJSONSlice([]models.RoomAssignment{{RoomName: "A", GuestCount: 2}})
	require.NoError(t, repo.Save(ctx, r))

	got, err := repo.FindByID(ctx, r.ID)
	require.NoError(t, err)
	got.RoomAssignments[0].GuestCount = 99

	again, err := repo.FindByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, again.RoomAssignments[0].GuestCount)

	require.NoError(t, repo.Delete(ctx, r.ID))
	_, err = repo.FindByID(ctx, r.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, r.ID), gorm.ErrRecordNotFound)
}

func TestMemoryRooms_DuplicateName(t *testing.T) {
	store := NewMemoryStore()
	rooms := store.Rooms()
	ctx := context.Background()

	require.NoError(t, rooms.Create(ctx, &models.Room{Name: "A", Capacity: 2, IsActive: true}))
	err := rooms.Create(ctx, &models.Room{Name: "A", Capacity: 3})

	var myErr *mysql.MySQLError
	require.True(t, errors.As(err, &myErr))
	assert.EqualValues(t, 1062, myErr.Number)
}

func TestMemoryLogs_NewestFirst(t *testing.T) {
	store := NewMemoryStore()
	logs := store.Logs()
	ctx := context.Background()

	base := time.Now()
	for i, action := range []string{models.ActionRoomCreated, models.ActionRoomUpdated, models.ActionRoomDeleted} {
		require.NoError(t, logs.Create(ctx, &models.ActivityLog{Action: action, CreatedAt: base.Add(time.Duration(i) * time.Second)}))
	}

	list, total, err := logs.List(ctx, LogQuery{Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, list, 2)
	assert.Equal(t, models.ActionRoomDeleted, list[0].Action)

	stats, err := logs.Stats(ctx, base.Add(time.Second))
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.Today)
	assert.EqualValues(t, 1, stats.ByAction[models.ActionRoomCreated])
}

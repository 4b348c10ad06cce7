package services

import (
	"context"
	"testing"

	"guesthouse-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomService_CreateValidatesAndLogs(t *testing.T) {
	h := newHarness(t)
	svc := NewRoomService(h.store.Rooms(), h.logger)
	ctx := context.Background()

	room, err := svc.Create(ctx, RoomInput{Name: "  Mavi Oda ", Capacity: 3}, adminActor, "")
	require.NoError(t, err)
	assert.Equal(t, "Mavi Oda", room.Name)
	assert.True(t, room.IsActive)
	assert.Equal(t, models.ActionRoomCreated, h.latestLog(t).Action)

	_, err = svc.Create(ctx, RoomInput{Name: "Mavi Oda", Capacity: 2}, adminActor, "")
	assert.ErrorIs(t, err, ErrDuplicateRoom)

	_, err = svc.Create(ctx, RoomInput{Name: "", Capacity: 2}, adminActor, "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, RoomInput{Name: "Boş", Capacity: 0}, adminActor, "")
	assert.ErrorIs(t, err, ErrValidation)

	inactive := false
	room, err = svc.Create(ctx, RoomInput{Name: "Depo", Capacity: 1, IsActive: &inactive}, adminActor, "")
	require.NoError(t, err)
	assert.False(t, room.IsActive)

	active, err := svc.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestRoomService_Update(t *testing.T) {
	h := newHarness(t)
	svc := NewRoomService(h.store.Rooms(), h.logger)
	ctx := context.Background()

	a, err := svc.Create(ctx, RoomInput{Name: "A", Capacity: 2}, adminActor, "")
	require.NoError(t, err)
	_, err = svc.Create(ctx, RoomInput{Name: "B", Capacity: 2}, adminActor, "")
	require.NoError(t, err)

	capacity := 5
	updated, err := svc.Update(ctx, a.ID, RoomUpdateInput{Capacity: &capacity}, adminActor, "")
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Capacity)
	assert.Equal(t, models.ActionRoomUpdated, h.latestLog(t).Action)

	name := "B"
	_, err = svc.Update(ctx, a.ID, RoomUpdateInput{Name: &name}, adminActor, "")
	assert.ErrorIs(t, err, ErrDuplicateRoom)

	_, err = svc.Update(ctx, 404, RoomUpdateInput{Capacity: &capacity}, adminActor, "")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestRoomService_DeleteLeavesReservationsAlone(t *testing.T) {
	h := newHarness(t)
	svc := NewRoomService(h.store.Rooms(), h.logger)
	ctx := context.Background()

	room, err := svc.Create(ctx, RoomInput{Name: "Mavi Oda", Capacity: 3}, adminActor, "")
	require.NoError(t, err)
	r := h.create(t, func(in *CreateReservationInput) {
		in.RoomAssignments = []models.RoomAssignment{{RoomName: "Mavi Oda", GuestCount: 2}}
	})

	require.NoError(t, svc.Delete(ctx, room.ID, adminActor, ""))
	assert.Equal(t, models.ActionRoomDeleted, h.latestLog(t).Action)

	stored, err := h.svc.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mavi Oda", stored.RoomAssignments[0].RoomName)

	assert.ErrorIs(t, svc.Delete(ctx, room.ID, adminActor, ""), ErrRoomNotFound)
}

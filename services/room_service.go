package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"guesthouse-backend/models"
	"guesthouse-backend/repository"

	"gorm.io/gorm"
)

type RoomInput struct {
	Name        string
	Capacity    int
	Description string
	IsActive    *bool
}

type RoomUpdateInput struct {
	Name        *string
	Capacity    *int
	Description *string
	IsActive    *bool
}

type RoomService struct {
	repo   repository.RoomRepository
	logger *ActivityLogger
}

func NewRoomService(repo repository.RoomRepository, logger *ActivityLogger) *RoomService {
	return &RoomService{repo: repo, logger: logger}
}

func (s *RoomService) List(ctx context.Context, activeOnly bool) ([]models.Room, error) {
	rooms, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

func (s *RoomService) Get(ctx context.Context, id uint) (*models.Room, error) {
	room, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load room: %w", err)
	}
	return room, nil
}

func validateRoom(name string, capacity int) error {
	if name == "" {
		return fmt.Errorf("%w: room name is required", ErrValidation)
	}
	if capacity < 1 {
		return fmt.Errorf("%w: capacity must be at least 1", ErrValidation)
	}
	return nil
}

func (s *RoomService) Create(ctx context.Context, in RoomInput, actor Actor, ip string) (*models.Room, error) {
	room := &models.Room{
		Name:        strings.TrimSpace(in.Name),
		Capacity:    in.Capacity,
		Description: strings.TrimSpace(in.Description),
		IsActive:    true,
	}
	if in.IsActive != nil {
		room.IsActive = *in.IsActive
	}
	if err := validateRoom(room.Name, room.Capacity); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, room); err != nil {
		if isDuplicateKey(err) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRoom, room.Name)
		}
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	s.logger.Record(ctx, actor, models.ActionRoomCreated,
		fmt.Sprintf("Oda oluşturuldu: %s (%d yatak)", room.Name, room.Capacity),
		roomEntity(room), room, ip)
	return room, nil
}

func (s *RoomService) Update(ctx context.Context, id uint, in RoomUpdateInput, actor Actor, ip string) (*models.Room, error) {
	room, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *room

	if in.Name != nil {
		room.Name = strings.TrimSpace(*in.Name)
	}
	if in.Capacity != nil {
		room.Capacity = *in.Capacity
	}
	if in.Description != nil {
		room.Description = strings.TrimSpace(*in.Description)
	}
	if in.IsActive != nil {
		room.IsActive = *in.IsActive
	}
	if err := validateRoom(room.Name, room.Capacity); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, room); err != nil {
		if isDuplicateKey(err) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRoom, room.Name)
		}
		return nil, fmt.Errorf("failed to update room: %w", err)
	}

	s.logger.Record(ctx, actor, models.ActionRoomUpdated,
		"Oda güncellendi: "+room.Name, roomEntity(room),
		map[string]any{"before": before, "after": room}, ip)
	return room, nil
}

// Delete removes the room even when reservations still name it; their
// assignments then simply stop matching any active room.
func (s *RoomService) Delete(ctx context.Context, id uint, actor Actor, ip string) error {
	room, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoomNotFound
		}
		return fmt.Errorf("failed to delete room: %w", err)
	}

	s.logger.Record(ctx, actor, models.ActionRoomDeleted,
		"Oda silindi: "+room.Name, roomEntity(room), room, ip)
	return nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"guesthouse-backend/config"
	"guesthouse-backend/models"
)

type SettingsService struct {
	store  config.SettingsStore
	logger *ActivityLogger
}

func NewSettingsService(store config.SettingsStore, logger *ActivityLogger) *SettingsService {
	return &SettingsService{store: store, logger: logger}
}

func (s *SettingsService) Get() (models.Settings, error) {
	return s.store.Get()
}

func (s *SettingsService) Update(ctx context.Context, maxCapacity int, actor Actor, ip string) (models.Settings, error) {
	if maxCapacity < 1 {
		return models.Settings{}, fmt.Errorf("%w: maxCapacity must be at least 1", ErrValidation)
	}

	before, err := s.store.Get()
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to read settings: %w", err)
	}
	saved, err := s.store.Set(models.Settings{MaxCapacity: maxCapacity, UpdatedBy: actor.DisplayName()})
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to save settings: %w", err)
	}

	s.logger.Record(ctx, actor, models.ActionSettingsUpdated,
		fmt.Sprintf("Maksimum kapasite güncellendi: %d → %d", before.MaxCapacity, saved.MaxCapacity),
		Entity{Type: models.EntitySettings, ID: "settings", Name: "Ayarlar"},
		map[string]any{"previousMaxCapacity": before.MaxCapacity, "maxCapacity": saved.MaxCapacity},
		ip)
	return saved, nil
}

type PresetInput struct {
	Name        string
	FirstName   string
	LastName    string
	Phone       string
	Email       string
	Institution string
}

func (in PresetInput) model() (models.Preset, error) {
	p := models.Preset{
		Name:        strings.TrimSpace(in.Name),
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		Phone:       strings.TrimSpace(in.Phone),
		Email:       strings.TrimSpace(in.Email),
		Institution: strings.TrimSpace(in.Institution),
	}
	if p.Name == "" {
		return p, fmt.Errorf("%w: preset name is required", ErrValidation)
	}
	return p, nil
}

type PresetService struct {
	store  config.PresetStore
	logger *ActivityLogger
}

func NewPresetService(store config.PresetStore, logger *ActivityLogger) *PresetService {
	return &PresetService{store: store, logger: logger}
}

func presetEntity(p models.Preset) Entity {
	return Entity{Type: models.EntityPreset, ID: p.ID, Name: p.Name}
}

func mapPresetErr(err error) error {
	if errors.Is(err, config.ErrPresetNotFound) {
		return ErrPresetNotFound
	}
	return err
}

func (s *PresetService) List() ([]models.Preset, error) {
	return s.store.List()
}

func (s *PresetService) Create(ctx context.Context, in PresetInput, actor Actor, ip string) (models.Preset, error) {
	p, err := in.model()
	if err != nil {
		return models.Preset{}, err
	}
	created, err := s.store.Create(p)
	if err != nil {
		return models.Preset{}, fmt.Errorf("failed to save preset: %w", err)
	}
	s.logger.Record(ctx, actor, models.ActionPresetCreated,
		"Hazır kayıt oluşturuldu: "+created.Name, presetEntity(created), created, ip)
	return created, nil
}

func (s *PresetService) Update(ctx context.Context, id string, in PresetInput, actor Actor, ip string) (models.Preset, error) {
	p, err := in.model()
	if err != nil {
		return models.Preset{}, err
	}
	updated, err := s.store.Update(id, p)
	if err != nil {
		return models.Preset{}, mapPresetErr(err)
	}
	s.logger.Record(ctx, actor, models.ActionPresetUpdated,
		"Hazır kayıt güncellendi: "+updated.Name, presetEntity(updated), updated, ip)
	return updated, nil
}

func (s *PresetService) Delete(ctx context.Context, id string, actor Actor, ip string) error {
	existing, err := s.store.Get(id)
	if err != nil {
		return mapPresetErr(err)
	}
	if err := s.store.Delete(id); err != nil {
		return mapPresetErr(err)
	}
	s.logger.Record(ctx, actor, models.ActionPresetDeleted,
		"Hazır kayıt silindi: "+existing.Name, presetEntity(*existing), nil, ip)
	return nil
}

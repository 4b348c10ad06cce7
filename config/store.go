package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"guesthouse-backend/models"

	"github.com/google/uuid"
)

var ErrPresetNotFound = errors.New("preset not found")

type SettingsStore interface {
	Get() (models.Settings, error)
	Set(s models.Settings) (models.Settings, error)
}

type PresetStore interface {
	List() ([]models.Preset, error)
	Get(id string) (*models.Preset, error)
	Create(p models.Preset) (models.Preset, error)
	Update(id string, p models.Preset) (models.Preset, error)
	Delete(id string) error
}

// jsonFile reads and writes one whole JSON document.
type jsonFile struct {
	mu   sync.Mutex
	path string
}

func (f *jsonFile) read(v any) (bool, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", f.path, err)
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", f.path, err)
	}
	return true, nil
}

func (f *jsonFile) write(v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	return os.Rename(tmp, f.path)
}

// ---------------------------------------------------------------- settings

type fileSettingsStore struct {
	file jsonFile
}

func NewFileSettingsStore(path string) SettingsStore {
	return &fileSettingsStore{file: jsonFile{path: path}}
}

func (s *fileSettingsStore) Get() (models.Settings, error) {
	s.file.mu.Lock()
	defer s.file.mu.Unlock()
	return s.load()
}

func (s *fileSettingsStore) load() (models.Settings, error) {
	var settings models.Settings
	if _, err := s.file.read(&settings); err != nil {
		return models.Settings{MaxCapacity: models.DefaultMaxCapacity}, err
	}
	if settings.MaxCapacity <= 0 {
		settings.MaxCapacity = models.DefaultMaxCapacity
	}
	return settings, nil
}

func (s *fileSettingsStore) Set(next models.Settings) (models.Settings, error) {
	s.file.mu.Lock()
	defer s.file.mu.Unlock()

	if next.MaxCapacity < 1 {
		return models.Settings{}, fmt.Errorf("maxCapacity must be at least 1")
	}
	next.UpdatedAt = time.Now().UTC()
	if err := s.file.write(next); err != nil {
		return models.Settings{}, err
	}
	return next, nil
}

// ---------------------------------------------------------------- presets

type filePresetStore struct {
	file jsonFile
}

func NewFilePresetStore(path string) PresetStore {
	return &filePresetStore{file: jsonFile{path: path}}
}

func (s *filePresetStore) load() ([]models.Preset, error) {
	presets := []models.Preset{}
	if _, err := s.file.read(&presets); err != nil {
		return nil, err
	}
	return presets, nil
}

func (s *filePresetStore) List() ([]models.Preset, error) {
	s.file.mu.Lock()
	defer s.file.mu.Unlock()

	presets, err := s.load()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(presets, func(i, j int) bool { return presets[i].Name < presets[j].Name })
	return presets, nil
}

func (s *filePresetStore) Get(id string) (*models.Preset, error) {
	s.file.mu.Lock()
	defer s.file.mu.Unlock()

	presets, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, p := range presets {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, ErrPresetNotFound
}

func (s *filePresetStore) Create(p models.Preset) (models.Preset, error) {
	s.file.mu.Lock()
	defer s.file.mu.Unlock()

	presets, err := s.load()
	if err != nil {
		return models.Preset{}, err
	}
	now := time.Now().UTC()
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now
	presets = append(presets, p)
	if err := s.file.write(presets); err != nil {
		return models.Preset{}, err
	}
	return p, nil
}

func (s *filePresetStore) Update(id string, p models.Preset) (models.Preset, error) {
	s.file.mu.Lock()
	defer s.file.mu.Unlock()

	presets, err := s.load()
	if err != nil {
		return models.Preset{}, err
	}
	for i := range presets {
		if presets[i].ID != id {
			continue
		}
		p.ID = id
		p.CreatedAt = presets[i].CreatedAt
		p.UpdatedAt = time.Now().UTC()
		presets[i] = p
		if err := s.file.write(presets); err != nil {
			return models.Preset{}, err
		}
		return p, nil
	}
	return models.Preset{}, ErrPresetNotFound
}

func (s *filePresetStore) Delete(id string) error {
	s.file.mu.Lock()
	defer s.file.mu.Unlock()

	presets, err := s.load()
	if err != nil {
		return err
	}
	kept := presets[:0]
	found := false
	for _, p := range presets {
		if p.ID == id {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		return ErrPresetNotFound
	}
	return s.file.write(kept)
}

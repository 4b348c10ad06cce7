package config

import (
	"os"
	"path/filepath"
	"testing"

	"guesthouse-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsStore_DefaultsAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")

	store := NewFileSettingsStore(path)
	s, err := store.Get()
	require.NoError(t, err)
	assert.Equal(t, models.DefaultMaxCapacity, s.MaxCapacity)

	saved, err := store.Set(models.Settings{MaxCapacity: 14, UpdatedBy: "Admin"})
	require.NoError(t, err)
	assert.False(t, saved.UpdatedAt.IsZero())

	// a fresh store reads what the first one wrote
	s, err = NewFileSettingsStore(path).Get()
	require.NoError(t, err)
	assert.Equal(t, 14, s.MaxCapacity)
	assert.Equal(t, "Admin", s.UpdatedBy)

	_, err = store.Set(models.Settings{MaxCapacity: 0})
	assert.Error(t, err)
}

func TestSettingsStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s, err := NewFileSettingsStore(path).Get()
	assert.Error(t, err)
	assert.Equal(t, models.DefaultMaxCapacity, s.MaxCapacity)
}

func TestPresetStore_CRUD(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.json")
	store := NewFilePresetStore(path)

	list, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, list)

	b, err := store.Create(models.Preset{Name: "Valilik"})
	require.NoError(t, err)
	a, err := store.Create(models.Preset{Name: "Belediye", Phone: "05320000000"})
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)

	list, err = store.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Belediye", list[0].Name)

	got, err := store.Get(a.ID)
	require.NoError(t, err)
	assert.Equal(t, "05320000000", got.Phone)

	updated, err := store.Update(a.ID, models.Preset{Name: "Belediye", Phone: "05329999999"})
	require.NoError(t, err)
	assert.Equal(t, a.ID, updated.ID)
	assert.True(t, a.CreatedAt.Equal(updated.CreatedAt))

	require.NoError(t, store.Delete(b.ID))
	assert.ErrorIs(t, store.Delete(b.ID), ErrPresetNotFound)
	_, err = store.Get(b.ID)
	assert.ErrorIs(t, err, ErrPresetNotFound)
	_, err = store.Update("missing", models.Preset{Name: "x"})
	assert.ErrorIs(t, err, ErrPresetNotFound)

	list, err = NewFilePresetStore(path).List()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "05329999999", list[0].Phone)
}

func TestMySQLDSNFromURL(t *testing.T) {
	dsn, err := mysqlDSNFromURL("mysql://app:pw@db.local/guesthouse")
	require.NoError(t, err)
	assert.Contains(t, dsn, "app:pw@tcp(db.local:3306)/guesthouse?")
	assert.Contains(t, dsn, "parseTime=True")

	_, err = mysqlDSNFromURL("mysql://app:pw@db.local/")
	assert.Error(t, err)
}

func TestResolveMySQLDSN_FromParts(t *testing.T) {
	t.Setenv("MYSQL_URL", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_USER", "misafir")
	t.Setenv("DB_PASS", "")
	t.Setenv("DB_PORT", "")
	t.Setenv("DB_HOST", "10.0.0.5")
	t.Setenv("DB_NAME", "rezervasyon")

	dsn, err := resolveMySQLDSN()
	require.NoError(t, err)
	assert.Equal(t, "misafir:@tcp(10.0.0.5:3306)/rezervasyon?charset=utf8mb4&parseTime=True&loc=UTC", dsn)
}

package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riskradar/models"
)

func openTestDB(t *testing.T) *SettingsRepository {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "settings.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	return NewSettingsRepository(db)
}

func TestLoadEmpty(t *testing.T) {
	repo := openTestDB(t)

	_, ok, err := repo.Load()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSaveModelOverwrites(t *testing.T) {
	repo := openTestDB(t)

	require.NoError(t, repo.SaveModel(models.ModelGemini3Pro))
	s, ok, err := repo.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "gemini-3-pro-preview", s.Model)

	require.NoError(t, repo.SaveModel(models.ModelFlashLite))
	s, _, err = repo.Load()
	require.NoError(t, err)
	assert.Equal(t, "gemini-flash-lite-latest", s.Model)
}

func TestSettingsTableHasNoKeyColumn(t *testing.T) {
	repo := openTestDB(t)
	assert.False(t, repo.db.Migrator().HasColumn(&models.Settings{}, "api_key"))
}

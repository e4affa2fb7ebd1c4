package database

import (
	"path/filepath"
	"testing"

	"github.com/Alwanly/service-remote-update/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithForeignKeys(t *testing.T) {
	assert.Equal(t, ":memory:?_foreign_keys=on", withForeignKeys(":memory:"))
	assert.Equal(t, "file:x?mode=memory&_foreign_keys=on", withForeignKeys("file:x?mode=memory"))
	assert.Equal(t, "a.db?_foreign_keys=1", withForeignKeys("a.db?_foreign_keys=1"))
}

func TestNewSQLiteDBCreatesDirectoryAndMigrates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data.db")

	db, err := NewSQLiteDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, RunControllerMigrations(db))
	require.NoError(t, RunAgentMigrations(db))

	assert.True(t, db.Migrator().HasTable(&models.Site{}))
	assert.True(t, db.Migrator().HasTable(&models.UpdateLog{}))
	assert.True(t, db.Migrator().HasTable(&models.Token{}))
}

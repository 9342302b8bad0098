package services

import (
	"testing"

	"github.com/brewstack/coffeecli/internal/documents"
	"github.com/brewstack/coffeecli/internal/migrations"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an in-memory store, applies the full migration
// chain against a temp document directory, and returns both stores.
func setupTestDB(t *testing.T) (*gorm.DB, *documents.Store) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	docs, err := documents.NewStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, migrations.EnsureBaseSchema(db))
	engine, err := migrations.NewEngine(db, docs)
	require.NoError(t, err)
	require.NoError(t, engine.UpgradeTo(engine.Head()))

	return db, docs
}

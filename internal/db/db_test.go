package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nova-sync-backend/config"
	"nova-sync-backend/internal/model"
)

func TestInit_SQLiteMigratesArchiveTables(t *testing.T) {
	gormDB, err := Init(&config.DatabaseConfig{Driver: "sqlite", DSN: "file:db_init_test?mode=memory&cache=shared"}, zap.NewNop())
	require.NoError(t, err)
	sqlDB, _ := gormDB.DB()
	defer sqlDB.Close()

	for _, table := range []any{&model.LogArchive{}, &model.CommandTransition{}, &model.PushSubscription{}} {
		assert.True(t, gormDB.Migrator().HasTable(table), "%T", table)
	}
	assert.True(t, gormDB.Migrator().HasColumn(&model.CommandTransition{}, "from_status"))
	assert.True(t, gormDB.Migrator().HasColumn(&model.LogArchive{}, "event_data"))
	assert.True(t, gormDB.Migrator().HasColumn(&model.LogArchive{}, "evicted_at"))
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(&config.DatabaseConfig{Driver: "oracle", DSN: "x"})
	assert.ErrorContains(t, err, "unsupported database driver")
}

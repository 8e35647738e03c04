package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"educa_backend/internals/configs"
)

func TestConnectDB_SQLite(t *testing.T) {
	cfg := configs.Config{
		DBDriver: "sqlite",
		DBDSN:    filepath.Join(t.TempDir(), "nested", "educa.db"),
	}
	db, err := ConnectDB(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, Ping(context.Background(), db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestConnectDB_UnknownDriver(t *testing.T) {
	_, err := ConnectDB(configs.Config{DBDriver: "mysql"}, zap.NewNop())
	assert.Error(t, err)
}

package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferreteria/backoffice/internal/infrastructure/config"
)

func TestDatabase_PingStatsClose(t *testing.T) {
	db := &Database{DB: newTestDB(t)}
	ctx := context.Background()

	require.NoError(t, db.Ping(ctx))

	stats, err := db.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.MaxOpenConnections)
	assert.GreaterOrEqual(t, stats.OpenConnections, stats.InUse)

	require.NoError(t, db.Close())
	assert.Error(t, db.Ping(ctx))
}

func TestNewDatabase_UnreachableServer(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Host:     "127.0.0.1",
		Port:     1,
		User:     "postgres",
		Password: "postgres",
		DBName:   "backoffice",
		SSLMode:  "disable",
	}

	db, err := NewDatabase(cfg, nil)
	assert.Nil(t, db)
	require.Error(t, err)
}

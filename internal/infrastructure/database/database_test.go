package database

import (
	"testing"

	"github.com/sangkips/isp-billing-api/internal/config"
	"github.com/sangkips/isp-billing-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewRejectsUnknownDriver(t *testing.T) {
	_, err := New(&config.DatabaseConfig{Driver: "mysql"}, false, zap.NewNop())
	assert.Error(t, err)
}

func TestMigrateAndSeed(t *testing.T) {
	cfg := &config.DatabaseConfig{Driver: "sqlite", SQLitePath: "file:seed_test?mode=memory&cache=shared"}
	db, err := New(cfg, false, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, AutoMigrate(db, zap.NewNop()))
	require.NoError(t, SeedDemoData(db, zap.NewNop()))
	// second run is a no-op
	require.NoError(t, SeedDemoData(db, zap.NewNop()))

	var count int64
	require.NoError(t, db.Model(&entity.Customer{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)

	var john entity.Customer
	require.NoError(t, db.First(&john, "name = ?", "John Doe").Error)
	assert.Equal(t, int64(120000), john.TotalDue)
}

package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/salones-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("ALLOCATION_VENUES", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Allocation.PerVenueQty)
	assert.Equal(t, []string{"Diamond", "Kendall", "Doral"}, cfg.Allocation.Venues)
	assert.Equal(t, 100, cfg.RateLimit.General.Max)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.Auth.Window)
	assert.Equal(t, 5, cfg.RateLimit.Auth.Max)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Leads.Window)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Kafka.Enabled())
	assert.Equal(t, 3*time.Second, cfg.Kafka.WriteTimeout)
	assert.Equal(t, 3, cfg.Kafka.MaxAttempts)
}

func TestLoad_ListasDesdeEntorno(t *testing.T) {
	t.Setenv("ALLOCATION_VENUES", "Diamond, Doral ,")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("ALLOCATION_PER_VENUE_QTY", "25")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"Diamond", "Doral"}, cfg.Allocation.Venues)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Kafka.Enabled())
	assert.Equal(t, 25, cfg.Allocation.PerVenueQty)
}

func TestDBConfig_RequireDatabaseURL(t *testing.T) {
	assert.ErrorIs(t, config.DBConfig{}.RequireDatabaseURL(), config.ErrMissingDatabaseURL)
	assert.NoError(t, config.DBConfig{DatabaseURL: "postgres://u:p@localhost/db"}.RequireDatabaseURL())
}

func TestDBConfig_DSNCodificaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "salones", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/salones?sslmode=disable", c.DSN())
	assert.Equal(t, c.DSN(), c.ConnectionString())
}

package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearPoolEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "DB_CONN_MAX_LIFETIME", "DB_CONN_MAX_IDLE_TIME"} {
		t.Setenv(k, "")
	}
}

func TestConfigFromURL_EmptyDSNFails(t *testing.T) {
	clearPoolEnv(t)
	_, err := ConfigFromURL("")
	require.Error(t, err)
}

func TestConfigFromURL_Defaults(t *testing.T) {
	clearPoolEnv(t)
	cfg, err := ConfigFromURL("postgres://localhost/anchor")
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.MaxOpenConns)
	assert.Equal(t, 10, cfg.MaxIdleConns)
	assert.Equal(t, time.Hour, cfg.ConnMaxLifetime)
	assert.Equal(t, 15*time.Minute, cfg.ConnMaxIdleTime)
}

func TestConfigFromURL_InvalidMaxOpenConns(t *testing.T) {
	clearPoolEnv(t)
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")
	_, err := ConfigFromURL("postgres://localhost/anchor")
	require.Error(t, err)
}

func TestConfigFromURL_RejectsIdleExceedingOpen(t *testing.T) {
	clearPoolEnv(t)
	t.Setenv("DB_MAX_OPEN_CONNS", "5")
	t.Setenv("DB_MAX_IDLE_CONNS", "10")
	_, err := ConfigFromURL("postgres://localhost/anchor")
	require.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, Config{MaxOpenConns: 10, MaxIdleConns: 5}.Validate())
	assert.Error(t, Config{MaxOpenConns: 5, MaxIdleConns: 10}.Validate())
	assert.Error(t, Config{MaxOpenConns: 0}.Validate())
	assert.Error(t, Config{MaxOpenConns: 10, MaxIdleConns: -1}.Validate())
}

func TestHasEmbeddedMigrations(t *testing.T) {
	ok, err := hasEmbeddedMigrations()
	require.NoError(t, err)
	assert.True(t, ok, "expected at least one embedded .sql migration file")
}

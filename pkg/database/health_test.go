package database

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealth_UnreachableDatabaseReportsUnhealthy(t *testing.T) {
	db, err := sql.Open("pgx", "postgres://nonexistent-host-for-tests:5432/anchor?connect_timeout=1")
	assert.NoError(t, err)
	defer db.Close()

	status, err := Health(context.Background(), db)
	assert.Error(t, err)
	assert.Equal(t, "unhealthy", status.Status)
}

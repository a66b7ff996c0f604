package postgres

import (
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/staffing-scheduler/pkg/core/model"
)

func TestPendingMigrations(t *testing.T) {
	migrations := fstest.MapFS{
		"migrations/002_indexes.sql": {Data: []byte("SELECT 1;")},
		"migrations/001_init.sql":    {Data: []byte("SELECT 1;")},
		"migrations/003_seed.sql":    {Data: []byte("SELECT 1;")},
		"migrations/README.md":       {Data: []byte("notes")},
	}

	pending, err := pendingMigrations(migrations, map[string]bool{"002_indexes.sql": true})
	require.NoError(t, err)

	assert.Equal(t, []string{"001_init.sql", "003_seed.sql"}, pending)
}

func TestEmbeddedMigrations(t *testing.T) {
	pending, err := pendingMigrations(migrationsFS, map[string]bool{})
	require.NoError(t, err)
	require.NotEmpty(t, pending)
	assert.Equal(t, "001_init.sql", pending[0])

	content, err := fs.ReadFile(migrationsFS, "migrations/001_init.sql")
	require.NoError(t, err)
	for _, table := range []string{"worker", "client_org", "app_user", "contract", "shift_record"} {
		assert.Contains(t, string(content), "CREATE TABLE IF NOT EXISTS "+table+" (")
	}
}

func TestPgTimeRoundTrip(t *testing.T) {
	for _, tod := range []model.TimeOfDay{{}, {Hour: 6}, {Hour: 22, Minute: 30}, {Hour: 23, Minute: 59}} {
		pg := toPgTime(tod)
		assert.True(t, pg.Valid)
		assert.Equal(t, tod, fromPgTime(pg))
	}
}

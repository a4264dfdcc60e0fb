package sharing_test

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techbluessolutions/n8n/pkg/sharing"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

var postgresContainer *postgres.PostgresContainer

func dropDb(ctx context.Context, t *testing.T, databaseURL string) {
	t.Helper()

	db, err := sql.Open("postgres", databaseURL)
	require.NoError(t, err)

	for _, table := range []string{"shared_workflows", "schema_migrations"} {
		_, err = db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE")
		require.NoError(t, err)
	}

	err = db.Close()
	require.NoError(t, err)
}

func setupTestDB(t *testing.T) (*sharing.PostgresRoleLookup, context.Context) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)

	if postgresContainer == nil || !postgresContainer.IsRunning() {
		var err error

		postgresContainer, err = postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("n8n_test"),
			postgres.WithUsername("n8n"),
			postgres.WithPassword("n8n"),
			postgres.BasicWaitStrategies(),
		)
		require.NoError(t, err)
	}

	databaseURL, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	dropDb(ctx, t, databaseURL)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	lookup, err := sharing.NewPostgresRoleLookup(ctx, logger, databaseURL)
	require.NoError(t, err)

	t.Cleanup(func() {
		dropDb(ctx, t, databaseURL)

		err = lookup.Close(ctx)
		require.NoError(t, err)

		cancel()
	})

	return lookup, ctx
}

func TestPostgresRoleLookup_FindRole(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	lookup, ctx := setupTestDB(t)

	role, err := lookup.FindRole(ctx, "user-1", "wf-1")
	require.NoError(t, err)
	assert.Empty(t, role)

	err = lookup.Share(ctx, "user-1", "wf-1", "owner")
	require.NoError(t, err)

	role, err = lookup.FindRole(ctx, "user-1", "wf-1")
	require.NoError(t, err)
	assert.Equal(t, "owner", role)

	// Upsert replaces the prior role.
	err = lookup.Share(ctx, "user-1", "wf-1", "workflow:editor")
	require.NoError(t, err)

	role, err = lookup.FindRole(ctx, "user-1", "wf-1")
	require.NoError(t, err)
	assert.Equal(t, "workflow:editor", role)
}

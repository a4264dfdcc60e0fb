package sharing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"
	"github.com/techbluessolutions/n8n/pkg/persistence/sqlbase"
)

// PostgresRoleLookup resolves roles from the shared_workflows table.
type PostgresRoleLookup struct {
	db     *sql.DB
	logger *slog.Logger
}

func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE IF NOT EXISTS shared_workflows (
				workflow_id VARCHAR(255) NOT NULL,
				user_id     VARCHAR(255) NOT NULL,
				role        VARCHAR(64)  NOT NULL,
				created_at  TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
				PRIMARY KEY (workflow_id, user_id)
			);
		`,
	}
}

// NewPostgresRoleLookup connects, pings, and migrates the sharing schema.
func NewPostgresRoleLookup(ctx context.Context, logger *slog.Logger, databaseURL string) (*PostgresRoleLookup, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	err = database.PingContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	migrationManager := sqlbase.NewMigrationManager(logger, database, migrations())

	err = migrationManager.RunMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &PostgresRoleLookup{
		db:     database,
		logger: logger.With("module", "sharing_postgres"),
	}, nil
}

// FindRole returns the stored role for the pair, or empty when none exists.
func (p *PostgresRoleLookup) FindRole(ctx context.Context, userID, workflowID string) (string, error) {
	var role string

	query := `SELECT role FROM shared_workflows WHERE user_id = $1 AND workflow_id = $2`

	err := p.db.QueryRowContext(ctx, query, userID, workflowID).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}

	if err != nil {
		return "", fmt.Errorf("failed to query sharing role: %w", err)
	}

	return role, nil
}

// Share records or updates the user's role on a workflow.
func (p *PostgresRoleLookup) Share(ctx context.Context, userID, workflowID, role string) error {
	query := `
		INSERT INTO shared_workflows (workflow_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (workflow_id, user_id) DO UPDATE SET role = EXCLUDED.role
	`

	_, err := p.db.ExecContext(ctx, query, workflowID, userID, role)
	if err != nil {
		return fmt.Errorf("failed to record sharing role: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (p *PostgresRoleLookup) Close(ctx context.Context) error {
	if p.db != nil {
		err := p.db.Close()
		if err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	return nil
}

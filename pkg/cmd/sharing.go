package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/techbluessolutions/n8n/pkg/sharing"
)

// NewRoleLookup creates the sharing role lookup backing the resolver. Without
// a database URL every lookup reports no relationship.
func NewRoleLookup(ctx context.Context, logger *slog.Logger, databaseURL string) (sharing.RoleLookup, func(context.Context) error) {
	if databaseURL == "" {
		logger.InfoContext(ctx, "Sharing role lookup disabled, no database configured")

		return sharing.NoopRoleLookup{}, func(context.Context) error { return nil }
	}

	lookup, err := sharing.NewPostgresRoleLookup(ctx, logger, databaseURL)
	if err != nil {
		panic(fmt.Errorf("failed to create sharing role lookup: %w", err))
	}

	return lookup, lookup.Close
}

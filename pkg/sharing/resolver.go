// Package sharing resolves the relationship between a user and a workflow
// for analytics enrichment.
package sharing

import (
	"context"
	"log/slog"
)

// Role is the user's relationship to a workflow.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleSharee Role = "sharee"
	RoleNone   Role = "none"
)

// RoleLookup is the external role-lookup collaborator. An empty role string
// with a nil error means no relationship exists.
type RoleLookup interface {
	FindRole(ctx context.Context, userID, workflowID string) (string, error)
}

// Resolver maps a (user, workflow) pair to a sharing role. Results are not
// cached; every call that needs a role recomputes it.
type Resolver struct {
	lookup RoleLookup
	logger *slog.Logger
}

func NewResolver(lookup RoleLookup, logger *slog.Logger) *Resolver {
	return &Resolver{
		lookup: lookup,
		logger: logger.With("module", "sharing_resolver"),
	}
}

// Resolve returns the user's role on the workflow. The lookup is skipped
// entirely when either id is empty. A lookup failure degrades to RoleNone;
// telemetry enrichment must never fail the pipeline.
func (r *Resolver) Resolve(ctx context.Context, userID, workflowID string) Role {
	if userID == "" || workflowID == "" {
		return RoleNone
	}

	role, err := r.lookup.FindRole(ctx, userID, workflowID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to look up sharing role",
			"user_id", userID, "workflow_id", workflowID, "error", err)

		return RoleNone
	}

	switch role {
	case "":
		return RoleNone
	case "owner":
		return RoleOwner
	default:
		return RoleSharee
	}
}

// NoopRoleLookup reports no relationship for every pair. Used when no
// sharing store is configured.
type NoopRoleLookup struct{}

func (NoopRoleLookup) FindRole(ctx context.Context, userID, workflowID string) (string, error) {
	return "", nil
}

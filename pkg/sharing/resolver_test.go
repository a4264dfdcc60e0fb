package sharing

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubLookup struct {
	role  string
	err   error
	calls int
}

func (s *stubLookup) FindRole(ctx context.Context, userID, workflowID string) (string, error) {
	s.calls++

	return s.role, s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func TestResolver_EmptyIDsSkipLookup(t *testing.T) {
	lookup := &stubLookup{role: "owner"}
	resolver := NewResolver(lookup, testLogger())

	assert.Equal(t, RoleNone, resolver.Resolve(context.Background(), "", "wf-1"))
	assert.Equal(t, RoleNone, resolver.Resolve(context.Background(), "user-1", ""))
	assert.Equal(t, 0, lookup.calls)
}

func TestResolver_OwnerRole(t *testing.T) {
	lookup := &stubLookup{role: "owner"}
	resolver := NewResolver(lookup, testLogger())

	assert.Equal(t, RoleOwner, resolver.Resolve(context.Background(), "user-1", "wf-1"))
	assert.Equal(t, 1, lookup.calls)
}

func TestResolver_AnyOtherRoleIsSharee(t *testing.T) {
	lookup := &stubLookup{role: "workflow:editor"}
	resolver := NewResolver(lookup, testLogger())

	assert.Equal(t, RoleSharee, resolver.Resolve(context.Background(), "user-1", "wf-1"))
}

func TestResolver_NoRole(t *testing.T) {
	lookup := &stubLookup{role: ""}
	resolver := NewResolver(lookup, testLogger())

	assert.Equal(t, RoleNone, resolver.Resolve(context.Background(), "user-1", "wf-1"))
}

func TestResolver_LookupErrorDegradesToNone(t *testing.T) {
	lookup := &stubLookup{err: errors.New("connection refused")}
	resolver := NewResolver(lookup, testLogger())

	assert.Equal(t, RoleNone, resolver.Resolve(context.Background(), "user-1", "wf-1"))
}

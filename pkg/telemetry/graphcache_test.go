package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techbluessolutions/n8n/pkg/graph"
	"github.com/techbluessolutions/n8n/pkg/models"
	"github.com/techbluessolutions/n8n/pkg/registry"
)

type countingGenerator struct {
	calls int
	graph *graph.NodeGraph
	err   error
}

func (g *countingGenerator) Generate(ctx context.Context, workflow *models.Workflow, nodeTypes *registry.NodeTypes) (*graph.NodeGraph, error) {
	g.calls++

	return g.graph, g.err
}

func TestGraphCacheGeneratesOnce(t *testing.T) {
	generator := &countingGenerator{graph: &graph.NodeGraph{NameIndices: map[string]int{"A": 0}}}
	cache := newGraphCache(generator, registry.NewDefaultNodeTypes(slog.Default()), &models.Workflow{})

	first, err := cache.Get(context.Background())
	require.NoError(t, err)

	second, err := cache.Get(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, generator.calls)
}

func TestGraphCachePropagatesGeneratorError(t *testing.T) {
	generator := &countingGenerator{err: errors.New("unknown node in connection")}
	cache := newGraphCache(generator, registry.NewDefaultNodeTypes(slog.Default()), &models.Workflow{})

	_, err := cache.Get(context.Background())
	require.Error(t, err)

	_, err = cache.Get(context.Background())
	require.Error(t, err)
	assert.Equal(t, 2, generator.calls)
}

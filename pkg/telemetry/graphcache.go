package telemetry

import (
	"context"

	"github.com/techbluessolutions/n8n/pkg/graph"
	"github.com/techbluessolutions/n8n/pkg/models"
	"github.com/techbluessolutions/n8n/pkg/registry"
)

// graphCache memoizes one graph generation per outcome dispatch. Both the
// error attribution path and the manual-execution analytics path need the
// graph; whichever runs first pays for generation, the other reuses it. The
// cache is owned by a single dispatch and never shared across outcomes.
type graphCache struct {
	generator graph.Generator
	nodeTypes *registry.NodeTypes
	workflow  *models.Workflow
	built     *graph.NodeGraph
}

func newGraphCache(generator graph.Generator, nodeTypes *registry.NodeTypes, workflow *models.Workflow) *graphCache {
	return &graphCache{
		generator: generator,
		nodeTypes: nodeTypes,
		workflow:  workflow,
	}
}

// Get returns the memoized graph, building it on first use. A generator
// failure propagates to the caller and aborts the current dispatch only.
func (c *graphCache) Get(ctx context.Context) (*graph.NodeGraph, error) {
	if c.built != nil {
		return c.built, nil
	}

	nodeGraph, err := c.generator.Generate(ctx, c.workflow, c.nodeTypes)
	if err != nil {
		return nil, err
	}

	c.built = nodeGraph

	return c.built, nil
}

package graph

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techbluessolutions/n8n/pkg/models"
	"github.com/techbluessolutions/n8n/pkg/registry"
)

func testNodeTypes() *registry.NodeTypes {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	return registry.NewDefaultNodeTypes(logger)
}

func TestDefaultGenerator_Generate(t *testing.T) {
	workflow := &models.Workflow{
		ID:   "wf-1",
		Name: "Graph Test",
		Nodes: []*models.WorkflowNode{
			{Name: "Webhook", Type: models.NodeTypeWebhook, PositionX: 0, PositionY: 0},
			{Name: "Set", Type: models.NodeTypeSet, PositionX: 400, PositionY: 0},
			{Name: "Form", Type: models.NodeTypeFormTrigger, PositionX: 0, PositionY: 300},
		},
		Connections: []*models.Connection{
			{ID: "c1", SourceNode: "Webhook", TargetNode: "Set"},
		},
	}

	generator := NewDefaultGenerator()

	nodeGraph, err := generator.Generate(context.Background(), workflow, testNodeTypes())
	require.NoError(t, err)

	assert.Len(t, nodeGraph.Nodes, 3)
	assert.Equal(t, 0, nodeGraph.NameIndices["Webhook"])
	assert.Equal(t, 1, nodeGraph.NameIndices["Set"])
	assert.Equal(t, 2, nodeGraph.NameIndices["Form"])

	// Webhook-capable nodes in node list order.
	assert.Equal(t, []string{"Webhook", "Form"}, nodeGraph.WebhookNodeNames)

	require.Len(t, nodeGraph.Edges, 1)
	assert.Equal(t, Edge{Start: 0, End: 1}, nodeGraph.Edges[0])
}

func TestDefaultGenerator_UnknownConnectionNode(t *testing.T) {
	workflow := &models.Workflow{
		ID:   "wf-2",
		Name: "Broken Graph",
		Nodes: []*models.WorkflowNode{
			{Name: "Set", Type: models.NodeTypeSet},
		},
		Connections: []*models.Connection{
			{ID: "c1", SourceNode: "Set", TargetNode: "Missing"},
		},
	}

	_, err := NewDefaultGenerator().Generate(context.Background(), workflow, testNodeTypes())
	assert.Error(t, err)
}

func TestDefaultGenerator_NilWorkflow(t *testing.T) {
	_, err := NewDefaultGenerator().Generate(context.Background(), nil, testNodeTypes())
	assert.Error(t, err)
}

func TestDefaultGenerator_NoteOverlap(t *testing.T) {
	workflow := &models.Workflow{
		ID:   "wf-3",
		Name: "Notes",
		Nodes: []*models.WorkflowNode{
			{Name: "Set", Type: models.NodeTypeSet, PositionX: 100, PositionY: 100},
		},
		Notes: []*models.Note{
			{ID: "note-over", PositionX: 50, PositionY: 50, Width: 300, Height: 200},
			{ID: "note-clear", PositionX: 2000, PositionY: 2000, Width: 100, Height: 100},
		},
	}

	nodeGraph, err := NewDefaultGenerator().Generate(context.Background(), workflow, testNodeTypes())
	require.NoError(t, err)

	require.Contains(t, nodeGraph.Notes, "note-over")
	require.Contains(t, nodeGraph.Notes, "note-clear")
	assert.True(t, nodeGraph.Notes["note-over"].Overlapping)
	assert.False(t, nodeGraph.Notes["note-clear"].Overlapping)
}

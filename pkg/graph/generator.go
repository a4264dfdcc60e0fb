package graph

import (
	"context"
	"fmt"

	"github.com/techbluessolutions/n8n/pkg/models"
	"github.com/techbluessolutions/n8n/pkg/registry"
)

// Canvas footprint of a rendered node, used for note overlap detection.
const (
	nodeWidth  = 200
	nodeHeight = 100
)

// DefaultGenerator builds graphs directly from the workflow snapshot. Node
// enumeration order is the snapshot's node list order; this ordering is part
// of the generator contract because webhook domain extraction is
// last-write-wins over it.
type DefaultGenerator struct{}

func NewDefaultGenerator() *DefaultGenerator {
	return &DefaultGenerator{}
}

func (g *DefaultGenerator) Generate(ctx context.Context, workflow *models.Workflow, nodeTypes *registry.NodeTypes) (*NodeGraph, error) {
	if workflow == nil {
		return nil, fmt.Errorf("cannot generate graph: workflow snapshot is nil")
	}

	nodeGraph := &NodeGraph{
		Nodes:       make([]Node, 0, len(workflow.Nodes)),
		Edges:       make([]Edge, 0, len(workflow.Connections)),
		NameIndices: make(map[string]int, len(workflow.Nodes)),
	}

	for i, node := range workflow.Nodes {
		nodeGraph.Nodes = append(nodeGraph.Nodes, Node{
			ID:        i,
			Type:      node.Type,
			Disabled:  node.Disabled,
			PositionX: node.PositionX,
			PositionY: node.PositionY,
		})
		nodeGraph.NameIndices[node.Name] = i

		if nodeTypes != nil && nodeTypes.IsWebhook(node.Type) {
			nodeGraph.WebhookNodeNames = append(nodeGraph.WebhookNodeNames, node.Name)
		}
	}

	for _, connection := range workflow.Connections {
		start, startOK := nodeGraph.NameIndices[connection.SourceNode]
		end, endOK := nodeGraph.NameIndices[connection.TargetNode]

		if !startOK || !endOK {
			return nil, fmt.Errorf("connection %q references unknown node", connection.ID)
		}

		nodeGraph.Edges = append(nodeGraph.Edges, Edge{Start: start, End: end})
	}

	if len(workflow.Notes) > 0 {
		nodeGraph.Notes = make(map[string]*NoteInfo, len(workflow.Notes))

		for _, note := range workflow.Notes {
			nodeGraph.Notes[note.ID] = &NoteInfo{
				Overlapping: noteOverlapsAnyNode(note, workflow.Nodes),
			}
		}
	}

	return nodeGraph, nil
}

func noteOverlapsAnyNode(note *models.Note, nodes []*models.WorkflowNode) bool {
	for _, node := range nodes {
		if rectsIntersect(
			note.PositionX, note.PositionY, note.Width, note.Height,
			node.PositionX, node.PositionY, nodeWidth, nodeHeight,
		) {
			return true
		}
	}

	return false
}

func rectsIntersect(ax, ay, aw, ah, bx, by, bw, bh int) bool {
	return ax < bx+bw && bx < ax+aw && ay < by+bh && by < ay+ah
}

// Package graph builds a structural, privacy-safe representation of a
// workflow for analytics. The graph carries node types and positions but no
// node names, parameters, or payload data.
package graph

import (
	"context"

	"github.com/techbluessolutions/n8n/pkg/models"
	"github.com/techbluessolutions/n8n/pkg/registry"
)

// Node is a single node in the structural graph, identified by its numeric
// position in the workflow's node list.
type Node struct {
	ID        int    `json:"id"`
	Type      string `json:"type"`
	Disabled  bool   `json:"disabled,omitempty"`
	PositionX int    `json:"position_x"`
	PositionY int    `json:"position_y"`
}

// Edge connects two nodes by numeric id.
type Edge struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// NoteInfo records whether a canvas note overlaps any node.
type NoteInfo struct {
	Overlapping bool `json:"overlapping"`
}

// NodeGraph is the structural graph of one workflow. It is built once per
// outcome dispatch and never mutated afterwards.
type NodeGraph struct {
	Nodes            []Node               `json:"nodes"`
	Edges            []Edge               `json:"edges"`
	NameIndices      map[string]int       `json:"name_indices"`
	Notes            map[string]*NoteInfo `json:"notes,omitempty"`
	WebhookNodeNames []string             `json:"webhook_node_names,omitempty"`
}

// Generator produces a NodeGraph from a workflow snapshot. Implementations
// must be deterministic and side-effect free for a given snapshot.
type Generator interface {
	Generate(ctx context.Context, workflow *models.Workflow, nodeTypes *registry.NodeTypes) (*NodeGraph, error)
}

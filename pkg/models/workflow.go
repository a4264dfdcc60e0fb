// Package models defines the workflow snapshot and run-result shapes consumed
// by the execution outcome event pipeline.
package models

import "time"

// Workflow is the snapshot of a workflow definition attached to a lifecycle
// notification. It is read-only from the pipeline's perspective.
type Workflow struct {
	ID          string          `json:"id"          validate:"required"`
	Name        string          `json:"name"        validate:"required,min=1"`
	Active      bool            `json:"active"`
	Nodes       []*WorkflowNode `json:"nodes"`
	Connections []*Connection   `json:"connections"`
	Notes       []*Note         `json:"notes,omitempty"`
	Settings    map[string]any  `json:"settings,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NodeByName returns the node with the given name, if present.
func (w *Workflow) NodeByName(name string) (*WorkflowNode, bool) {
	if w == nil {
		return nil, false
	}

	for _, node := range w.Nodes {
		if node.Name == name {
			return node, true
		}
	}

	return nil, false
}

// Connection connects two nodes by name and port.
type Connection struct {
	ID         string `json:"id"`
	SourceNode string `json:"source_node" validate:"required"`
	SourcePort string `json:"source_port"`
	TargetNode string `json:"target_node" validate:"required"`
	TargetPort string `json:"target_port"`
}

// Note is a free-floating annotation placed on the workflow canvas.
type Note struct {
	ID        string `json:"id"`
	PositionX int    `json:"position_x"`
	PositionY int    `json:"position_y"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

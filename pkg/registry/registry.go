// Package registry holds the node type definitions known to the relay. The
// graph generator consults it to flag webhook-capable nodes.
package registry

import (
	"log/slog"

	"github.com/techbluessolutions/n8n/pkg/models"
)

// NodeTypeDescription describes a registered node type.
type NodeTypeDescription struct {
	Name      string
	IsTrigger bool
	IsWebhook bool
}

type NodeTypes struct {
	logger *slog.Logger
	byName map[string]NodeTypeDescription
}

func NewNodeTypes(logger *slog.Logger) *NodeTypes {
	return &NodeTypes{
		logger: logger,
		byName: make(map[string]NodeTypeDescription),
	}
}

// NewDefaultNodeTypes returns a registry seeded with the built-in node types.
func NewDefaultNodeTypes(logger *slog.Logger) *NodeTypes {
	registry := NewNodeTypes(logger)

	registry.Register(NodeTypeDescription{Name: models.NodeTypeWebhook, IsTrigger: true, IsWebhook: true})
	registry.Register(NodeTypeDescription{Name: models.NodeTypeFormTrigger, IsTrigger: true, IsWebhook: true})
	registry.Register(NodeTypeDescription{Name: models.NodeTypeManualTrigger, IsTrigger: true})
	registry.Register(NodeTypeDescription{Name: models.NodeTypeScheduleTrigger, IsTrigger: true})
	registry.Register(NodeTypeDescription{Name: models.NodeTypeHTTPRequest})
	registry.Register(NodeTypeDescription{Name: models.NodeTypeSet})

	return registry
}

func (r *NodeTypes) Register(description NodeTypeDescription) {
	r.byName[description.Name] = description
}

func (r *NodeTypes) Get(name string) (NodeTypeDescription, bool) {
	description, ok := r.byName[name]

	return description, ok
}

// IsWebhook reports whether the node type is an inbound-webhook trigger.
// Unregistered types are not webhook-capable.
func (r *NodeTypes) IsWebhook(name string) bool {
	description, ok := r.byName[name]

	return ok && description.IsWebhook
}

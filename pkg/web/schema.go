package web

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Raw-body schemas checked before struct binding. The schemas guard the wire
// shape (types, required keys); struct validation afterwards enforces the
// field rules.
var (
	executionStartedSchema = eventSchema(map[string]any{
		"execution_id": map[string]any{"type": "string"},
		"workflow_id":  map[string]any{"type": "string"},
		"mode":         map[string]any{"type": "string"},
		"retry_of":     map[string]any{"type": "string"},
		"user_id":      map[string]any{"type": "string"},
	}, "execution_id", "workflow_id", "mode")

	nodeEventSchema = eventSchema(map[string]any{
		"execution_id": map[string]any{"type": "string"},
		"workflow_id":  map[string]any{"type": "string"},
		"node_name":    map[string]any{"type": "string"},
		"node_type":    map[string]any{"type": "string"},
	}, "execution_id", "workflow_id", "node_name")

	executionFinishedSchema = eventSchema(map[string]any{
		"execution_id": map[string]any{"type": "string"},
		"workflow_id":  map[string]any{"type": "string"},
		"workflow":     map[string]any{"type": "object"},
		"run":          map[string]any{"type": "object"},
		"user_id":      map[string]any{"type": "string"},
	}, "execution_id", "workflow_id")

	executionCrashedSchema = eventSchema(map[string]any{
		"execution_id":       map[string]any{"type": "string"},
		"workflow_id":        map[string]any{"type": "string"},
		"mode":               map[string]any{"type": "string"},
		"workflow":           map[string]any{"type": "object"},
		"execution_metadata": map[string]any{"type": "array"},
	}, "execution_id", "workflow_id", "mode")

	auditEventSchema = eventSchema(map[string]any{
		"event_name": map[string]any{"type": "string"},
		"payload":    map[string]any{"type": "object"},
		"actor":      map[string]any{"type": "object"},
	}, "event_name")
)

func eventSchema(properties map[string]any, required ...string) map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

// validateBodySchema checks the raw request body against the endpoint's
// schema. A body that is not a JSON object at all is reported the same way as
// a schema violation.
func validateBodySchema(body []byte, schema map[string]any) error {
	var document any

	err := json.Unmarshal(body, &document)
	if err != nil {
		return fmt.Errorf("body is not valid JSON: %w", err)
	}

	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(schema), gojsonschema.NewGoLoader(document))
	if err != nil {
		return err
	}

	if !result.Valid() {
		violations := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			violations = append(violations, desc.String())
		}

		return fmt.Errorf("schema violations: %s", strings.Join(violations, "; "))
	}

	return nil
}

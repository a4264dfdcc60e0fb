package telemetry

import (
	"strings"

	"github.com/techbluessolutions/n8n/pkg/graph"
	"github.com/techbluessolutions/n8n/pkg/models"
	"golang.org/x/net/publicsuffix"
)

// extractWebhookDomain finds the registrable domain of the caller that fired
// a webhook-capable node. Nodes are visited in the graph's enumeration order
// (the generator's node-list order) and the last node with a non-empty,
// resolvable origin header wins. Reordering the workflow's node list
// therefore changes which origin is reported when several webhook nodes
// fired.
func extractWebhookDomain(nodeGraph *graph.NodeGraph, runData map[string][]*models.TaskRun) string {
	domain := ""

	for _, nodeName := range nodeGraph.WebhookNodeNames {
		origin := firstOutputOrigin(runData[nodeName])
		if origin == "" {
			continue
		}

		registrable, err := registrableDomain(origin)
		if err != nil {
			continue
		}

		domain = registrable
	}

	return domain
}

// firstOutputOrigin reads headers.origin from the first output item of the
// first main slot of the node's first recorded run.
func firstOutputOrigin(runs []*models.TaskRun) string {
	if len(runs) == 0 {
		return ""
	}

	main := runs[0].Data.Main
	if len(main) == 0 || len(main[0]) == 0 || main[0][0] == nil {
		return ""
	}

	headers, ok := main[0][0].JSON["headers"].(map[string]any)
	if !ok {
		return ""
	}

	origin, _ := headers["origin"].(string)

	return origin
}

// registrableDomain strips the scheme from an origin value and resolves the
// public-suffix-aware registrable domain of its host.
func registrableDomain(origin string) (string, error) {
	host := strings.TrimPrefix(origin, "https://")
	host = strings.TrimPrefix(host, "http://")

	if i := strings.IndexByte(host, '/'); i >= 0 {
		host = host[:i]
	}

	if i := strings.LastIndexByte(host, ':'); i >= 0 && !strings.Contains(host[i:], "]") {
		host = host[:i]
	}

	return publicsuffix.EffectiveTLDPlusOne(host)
}

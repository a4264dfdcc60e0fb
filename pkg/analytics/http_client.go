package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

const (
	defaultBatchSize   = 20
	requestTimeout     = 10 * time.Second
	executionCountName = "Workflow execution count"
)

type trackedEvent struct {
	Event      string         `json:"event"`
	Properties map[string]any `json:"properties,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

type executionCounters struct {
	ManualSuccess int       `json:"manual_success"`
	ManualError   int       `json:"manual_error"`
	ProdSuccess   int       `json:"prod_success"`
	ProdError     int       `json:"prod_error"`
	FirstAt       time.Time `json:"first_at"`
}

// HTTPClient batches events and posts them as JSON to the analytics backend.
type HTTPClient struct {
	endpoint   string
	instanceID string
	httpClient *http.Client
	batchSize  int
	logger     *slog.Logger

	mu     sync.Mutex
	buffer []trackedEvent
	counts map[string]*executionCounters
}

func NewHTTPClient(endpoint, instanceID string, logger *slog.Logger) *HTTPClient {
	return &HTTPClient{
		endpoint:   endpoint,
		instanceID: instanceID,
		httpClient: &http.Client{Timeout: requestTimeout},
		batchSize:  defaultBatchSize,
		logger:     logger.With("module", "analytics_client"),
		counts:     make(map[string]*executionCounters),
	}
}

func (c *HTTPClient) Identify(ctx context.Context, traits map[string]any) error {
	body := map[string]any{
		"instance_id": c.instanceID,
		"traits":      traits,
		"timestamp":   time.Now().UTC(),
	}

	return c.post(ctx, "/identify", body)
}

func (c *HTTPClient) Track(ctx context.Context, eventName string, properties map[string]any) error {
	c.mu.Lock()
	c.buffer = append(c.buffer, trackedEvent{
		Event:      eventName,
		Properties: properties,
		Timestamp:  time.Now().UTC(),
	})
	full := len(c.buffer) >= c.batchSize
	c.mu.Unlock()

	if full {
		return c.Flush(ctx)
	}

	return nil
}

// TrackExecution folds one execution outcome into the per-workflow counters.
// The counters are shipped as "Workflow execution count" events by the next
// pulse or the shutdown flush.
func (c *HTTPClient) TrackExecution(ctx context.Context, properties map[string]any) error {
	workflowID, _ := properties["workflow_id"].(string)
	success, _ := properties["success"].(bool)
	manual, _ := properties["is_manual"].(bool)

	c.mu.Lock()
	defer c.mu.Unlock()

	counters, ok := c.counts[workflowID]
	if !ok {
		counters = &executionCounters{FirstAt: time.Now().UTC()}
		c.counts[workflowID] = counters
	}

	switch {
	case manual && success:
		counters.ManualSuccess++
	case manual:
		counters.ManualError++
	case success:
		counters.ProdSuccess++
	default:
		counters.ProdError++
	}

	return nil
}

// Flush posts all buffered events as one batch.
func (c *HTTPClient) Flush(ctx context.Context) error {
	c.mu.Lock()
	batch := c.buffer
	c.buffer = nil
	c.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	body := map[string]any{
		"instance_id": c.instanceID,
		"batch":       batch,
	}

	err := c.post(ctx, "/track", body)
	if err != nil {
		return fmt.Errorf("failed to flush %d analytics events: %w", len(batch), err)
	}

	return nil
}

// Pulse emits the periodic liveness event, converts the accumulated execution
// counters into events, and flushes everything.
func (c *HTTPClient) Pulse(ctx context.Context) error {
	c.drainExecutionCounts()

	err := c.Track(ctx, "pulse", map[string]any{"instance_id": c.instanceID})
	if err != nil {
		return err
	}

	return c.Flush(ctx)
}

func (c *HTTPClient) FlushOnShutdown(ctx context.Context) error {
	c.drainExecutionCounts()

	return c.Flush(ctx)
}

func (c *HTTPClient) drainExecutionCounts() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for workflowID, counters := range c.counts {
		c.buffer = append(c.buffer, trackedEvent{
			Event: executionCountName,
			Properties: map[string]any{
				"workflow_id":    workflowID,
				"manual_success": counters.ManualSuccess,
				"manual_error":   counters.ManualError,
				"prod_success":   counters.ProdSuccess,
				"prod_error":     counters.ProdError,
				"first_at":       counters.FirstAt,
			},
			Timestamp: time.Now().UTC(),
		})
	}

	c.counts = make(map[string]*executionCounters)
}

func (c *HTTPClient) post(ctx context.Context, path string, body map[string]any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal analytics payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build analytics request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("analytics request failed: %w", err)
	}

	defer func() {
		err := resp.Body.Close()
		if err != nil {
			c.logger.Error("Failed to close analytics response body", "error", err)
		}
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("analytics backend returned status %d", resp.StatusCode)
	}

	return nil
}

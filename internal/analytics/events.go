// Package analytics carries search events over Kafka: the server side
// buffers and publishes them without blocking the query path, and the
// analytics service consumes and aggregates them for dashboards.
package analytics

import "time"

// Model identifies which retrieval model served a query.
type Model string

const (
	ModelBoolean   Model = "boolean"
	ModelVector    Model = "vector"
	ModelBM25      Model = "bm25"
	ModelProximity Model = "proximity"
)

// SearchEvent is the payload published for every search request.
type SearchEvent struct {
	Model     Model     `json:"model"`
	Query     string    `json:"query"`
	TopK      int       `json:"top_k,omitempty"`
	Returned  int       `json:"returned"`
	CacheHit  bool      `json:"cache_hit"`
	LatencyMs int64     `json:"latency_ms"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
}

package llm

import (
	"context"
	"time"
)

// Priority levels (just 2)
type Priority int

const (
	PriorityCritical   Priority = 0 // Interactive analysis and chat
	PriorityBackground Priority = 1 // Retrieval indexing, everything else
)

// Request encapsulates an LLM call
type Request struct {
	ID       string
	Priority Priority
	Context  context.Context

	URL     string
	Payload map[string]interface{}

	// Response handling
	ResponseCh chan<- *Response
	ErrorCh    chan<- error

	SubmitTime time.Time
	Timeout    time.Duration
}

// Response encapsulates LLM output
type Response struct {
	StatusCode int
	Body       []byte
}

// Metrics tracks queue performance
type Metrics struct {
	CriticalEnqueued    int64
	CriticalProcessed   int64
	CriticalDropped     int64
	BackgroundEnqueued  int64
	BackgroundProcessed int64
	BackgroundDropped   int64
	CurrentQueueDepth   map[Priority]int
}

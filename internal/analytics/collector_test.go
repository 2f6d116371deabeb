package analytics

import (
	"context"
	"testing"
)

func TestTrackNeverBlocks(t *testing.T) {
	// No producer and no Start: events queue into the buffer and overflow
	// is dropped instead of blocking the request path.
	c := NewCollector(nil, 2)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			c.Track(SearchEvent{Model: ModelBM25, Query: "vaccine"})
		}
		close(done)
	}()
	<-done

	if got := len(c.eventCh); got != 2 {
		t.Errorf("buffered events = %d, want buffer capacity 2", got)
	}
}

func TestNewCollectorDefaultsBuffer(t *testing.T) {
	c := NewCollector(nil, 0)
	if got := cap(c.eventCh); got != 10000 {
		t.Errorf("default buffer = %d, want 10000", got)
	}
}

func TestTrackAfterCloseIsSafe(t *testing.T) {
	// During shutdown a handler can still be in flight when the collector
	// is closed; a late Track must be a silent drop, never a panic.
	c := NewCollector(nil, 4)
	c.Start(context.Background())
	c.Close()

	c.Track(SearchEvent{Model: ModelVector, Query: "vaccine"})
	if got := len(c.eventCh); got != 0 {
		t.Errorf("events buffered after close = %d, want 0", got)
	}

	// Close is idempotent.
	c.Close()
}

package analytics

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/scholarsearch/retrieval-platform/pkg/kafka"
)

// Collector accepts events on a buffered channel and drains them to a Kafka
// producer on a background goroutine. Track never blocks; events are dropped
// when the buffer is full.
type Collector struct {
	producer *kafka.Producer
	eventCh  chan SearchEvent
	logger   *slog.Logger
	stop     chan struct{}
	done     chan struct{}
	closed   atomic.Bool
}

// NewCollector creates a Collector with the given buffer size.
func NewCollector(producer *kafka.Producer, bufferSize int) *Collector {
	if bufferSize <= 0 {
		bufferSize = 10000
	}
	return &Collector{
		producer: producer,
		eventCh:  make(chan SearchEvent, bufferSize),
		logger:   slog.Default().With("component", "analytics-collector"),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the publishing goroutine. It drains buffered events when
// the collector is closed or ctx is cancelled.
func (c *Collector) Start(ctx context.Context) {
	go func() {
		defer close(c.done)
		for {
			select {
			case event := <-c.eventCh:
				c.publish(ctx, event)
			case <-c.stop:
				c.drainRemaining()
				return
			case <-ctx.Done():
				c.drainRemaining()
				return
			}
		}
	}()
	c.logger.Info("analytics collector started", "buffer_size", cap(c.eventCh))
}

// Track enqueues an event, dropping it when the buffer is full or the
// collector has been closed.
func (c *Collector) Track(event SearchEvent) {
	if c.closed.Load() {
		return
	}
	select {
	case c.eventCh <- event:
	default:
		c.logger.Warn("search event dropped (buffer full)")
	}
}

// Close stops accepting events and waits for the publisher to finish. The
// event channel itself stays open, so a request still in flight during
// shutdown can call Track safely; its event is simply dropped.
func (c *Collector) Close() {
	if c.closed.Swap(true) {
		return
	}
	close(c.stop)
	<-c.done
}

func (c *Collector) publish(ctx context.Context, event SearchEvent) {
	err := c.producer.Publish(ctx, kafka.Event{
		Key:   string(event.Model),
		Value: event,
	})
	if err != nil {
		c.logger.Error("failed to publish search event", "error", err)
	}
}

func (c *Collector) drainRemaining() {
	for {
		select {
		case event := <-c.eventCh:
			c.publish(context.Background(), event)
		default:
			return
		}
	}
}

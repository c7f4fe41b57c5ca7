package queue

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"marketpulse/server/internal/models"
)

var (
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueClosed = errors.New("queue is closed")
)

// PendingRecord is a resolved market record waiting to be persisted.
type PendingRecord struct {
	Record       *models.MarketRecord
	PropertyType string
	DataSource   string
}

// RecordQueue is an in-memory queue decoupling market resolution from
// persistence, so a slow or failing database write can never stall a
// resolution call. Producers Push, workers Dequeue.
type RecordQueue struct {
	items   chan *PendingRecord
	done    chan struct{}
	maxSize int
	closed  bool
	mu      sync.RWMutex
	logger  *logrus.Logger
}

// NewRecordQueue creates a new record queue with the specified buffer size
func NewRecordQueue(bufferSize int, logger *logrus.Logger) *RecordQueue {
	return &RecordQueue{
		items:   make(chan *PendingRecord, bufferSize),
		done:    make(chan struct{}),
		maxSize: bufferSize,
		logger:  logger,
	}
}

// Push adds a pending record to the queue
func (q *RecordQueue) Push(record *PendingRecord) error {
	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		return ErrQueueClosed
	}
	q.mu.RUnlock()

	// Non-blocking send to prevent deadlocks
	select {
	case q.items <- record:
		q.logger.WithFields(logrus.Fields{
			"city":  record.Record.City,
			"state": record.Record.State,
		}).Debug("Pushed record to queue")
		return nil
	default:
		return ErrQueueFull
	}
}

// Dequeue blocks until a record is available and returns it. ok is false
// once the queue is closed or the context is cancelled; buffered records
// still pending at that point are dropped.
func (q *RecordQueue) Dequeue(ctx context.Context) (*PendingRecord, bool) {
	select {
	case <-ctx.Done():
		return nil, false
	case <-q.done:
		return nil, false
	case record := <-q.items:
		return record, record != nil
	}
}

// Close stops the queue and prevents new items from being added. The
// items channel is deliberately left open: closing it would hand waiting
// consumers a nil record.
func (q *RecordQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	q.closed = true
	close(q.done)
	return nil
}

// Len returns the current number of records in the queue
func (q *RecordQueue) Len() int {
	return len(q.items)
}

// IsClosed returns whether the queue has been closed
func (q *RecordQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

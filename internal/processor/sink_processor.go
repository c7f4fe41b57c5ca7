package processor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"marketpulse/server/config"
	"marketpulse/server/internal/models"
	"marketpulse/server/internal/queue"
)

// Upserter is the slice of the database the sink processor needs.
type Upserter interface {
	UpsertMarketRecord(record *models.MarketRecord, propertyType, dataSource string) error
}

// QueueSink adapts the record queue to the cascade's sink contract. A full
// queue surfaces as an error that the cascade logs and swallows.
type QueueSink struct {
	queue *queue.RecordQueue
}

func NewQueueSink(q *queue.RecordQueue) *QueueSink {
	return &QueueSink{queue: q}
}

func (s *QueueSink) Store(record *models.MarketRecord, propertyType, dataSource string) error {
	return s.queue.Push(&queue.PendingRecord{
		Record:       record,
		PropertyType: propertyType,
		DataSource:   dataSource,
	})
}

// SinkProcessor drains the record queue into the market_intelligence
// table, retrying failed upserts.
type SinkProcessor struct {
	db        Upserter
	logger    *logrus.Logger
	config    *config.Config
	queue     *queue.RecordQueue
	waitGroup sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewSinkProcessor creates a new sink processor instance
func NewSinkProcessor(db Upserter, q *queue.RecordQueue, cfg *config.Config, logger *logrus.Logger) *SinkProcessor {
	ctx, cancel := context.WithCancel(context.Background())
	return &SinkProcessor{
		db:     db,
		queue:  q,
		config: cfg,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start launches the worker pool draining the queue
func (p *SinkProcessor) Start() {
	for i := 0; i < p.config.Sink.ProcessorCount; i++ {
		p.waitGroup.Add(1)
		go p.processLoop()
	}
}

// Stop gracefully shuts down the processor
func (p *SinkProcessor) Stop() {
	p.cancel()
	p.waitGroup.Wait()
}

// processLoop dequeues records until the queue closes or the processor
// stops. Each record is handled by exactly one worker.
func (p *SinkProcessor) processLoop() {
	defer p.waitGroup.Done()

	for {
		pending, ok := p.queue.Dequeue(p.ctx)
		if !ok {
			return
		}
		if err := p.persistRecord(pending); err != nil {
			p.logger.WithError(err).WithFields(logrus.Fields{
				"city":  pending.Record.City,
				"state": pending.Record.State,
			}).Error("Dropping market record after repeated upsert failures")
		}
	}
}

// persistRecord upserts a single record with retry logic
func (p *SinkProcessor) persistRecord(pending *queue.PendingRecord) error {
	var err error
	for attempt := 0; attempt <= p.config.Sink.MaxRetries; attempt++ {
		if attempt > 0 {
			p.logger.Infof("Retrying market record upsert, attempt %d of %d", attempt, p.config.Sink.MaxRetries)
			time.Sleep(time.Duration(p.config.Sink.RetryDelay) * time.Second)
		}

		err = p.db.UpsertMarketRecord(pending.Record, pending.PropertyType, pending.DataSource)
		if err == nil {
			p.logger.WithFields(logrus.Fields{
				"city":        pending.Record.City,
				"state":       pending.Record.State,
				"data_source": pending.DataSource,
			}).Debug("Persisted market record")
			return nil
		}

		p.logger.Errorf("Market record upsert failed: %v", err)
	}

	return fmt.Errorf("failed to persist record after %d attempts: %w", p.config.Sink.MaxRetries, err)
}

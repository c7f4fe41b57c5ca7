package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"marketpulse/server/config"
	"marketpulse/server/internal/market"
	"marketpulse/server/internal/models"
)

// MarketResolver resolves market data for a location.
type MarketResolver interface {
	Resolve(ctx context.Context, city, state, zipcode string) *models.MarketRecord
}

// RecordReader reads previously persisted market records.
type RecordReader interface {
	GetMarketRecord(city, state, propertyType string) (*models.MarketIntelligence, error)
}

// Notifier receives market-condition change alerts.
type Notifier interface {
	NotifyConditionChange(record *models.MarketRecord, previous models.MarketCondition) error
}

// Scheduler periodically re-resolves every tracked metro so the persisted
// market intelligence stays warm, and alerts when a metro's condition
// moves between runs.
type Scheduler struct {
	resolver MarketResolver
	reader   RecordReader
	notifier Notifier
	logger   *logrus.Logger
	interval time.Duration
	metros   []config.Metro
	stopChan chan struct{}
	wg       sync.WaitGroup
	jobMutex sync.Mutex // Ensures sequential refresh runs
}

// NewScheduler creates a new scheduler
func NewScheduler(resolver MarketResolver, reader RecordReader, notifier Notifier, logger *logrus.Logger, interval time.Duration, metros []config.Metro) *Scheduler {
	return &Scheduler{
		resolver: resolver,
		reader:   reader,
		notifier: notifier,
		logger:   logger,
		interval: interval,
		metros:   metros,
		stopChan: make(chan struct{}),
	}
}

// Start begins the scheduled refresh loop
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.runScheduler()
}

// runScheduler handles the refresh loop
func (s *Scheduler) runScheduler() {
	defer s.wg.Done()

	// Warm the table once at startup
	go s.RefreshAll()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.RefreshAll()
		}
	}
}

// RefreshAll re-resolves every tracked metro sequentially.
func (s *Scheduler) RefreshAll() {
	s.jobMutex.Lock()
	defer s.jobMutex.Unlock()

	s.logger.WithField("metros", len(s.metros)).Info("Starting market refresh run")

	for _, metro := range s.metros {
		s.refreshMetro(metro)
	}

	s.logger.Info("Market refresh run completed")
}

func (s *Scheduler) refreshMetro(metro config.Metro) {
	previous, err := s.reader.GetMarketRecord(metro.City, metro.State, market.DefaultPropertyType)
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"city":  metro.City,
			"state": metro.State,
		}).Error("Failed to read previous market record")
	}

	record := s.resolver.Resolve(context.Background(), metro.City, metro.State, "")

	s.logger.WithFields(logrus.Fields{
		"city":             metro.City,
		"state":            metro.State,
		"market_condition": record.MarketCondition,
		"median_price":     record.MedianPrice,
	}).Info("Refreshed metro market data")

	if previous == nil || previous.MarketCondition == string(record.MarketCondition) {
		return
	}

	if err := s.notifier.NotifyConditionChange(record, models.MarketCondition(previous.MarketCondition)); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"city":  metro.City,
			"state": metro.State,
		}).Error("Failed to send condition change alert")
	}
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	close(s.stopChan)
	s.wg.Wait()
}

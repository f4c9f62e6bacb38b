package services

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/poc3/api-backend/internal/repositories"
)

// DefaultCleanupInterval is how often the retention sweep runs
const DefaultCleanupInterval = 24 * time.Hour

// CleanupService handles periodic pruning of old check history
type CleanupService struct {
	repo      *repositories.ServiceCheckRepository
	retention time.Duration
	interval  time.Duration
	now       func() time.Time
	logger    *zap.Logger

	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
}

// NewCleanupService creates a new cleanup service keeping retention worth of history
func NewCleanupService(repo *repositories.ServiceCheckRepository, retention time.Duration, logger *zap.Logger) *CleanupService {
	return &CleanupService{
		repo:      repo,
		retention: retention,
		interval:  DefaultCleanupInterval,
		now:       time.Now,
		logger:    logger,
		done:      make(chan struct{}),
	}
}

// Start begins the periodic cleanup process
// Runs cleanup immediately, then every interval
func (s *CleanupService) Start() {
	s.runCleanup()

	s.ticker = time.NewTicker(s.interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case <-s.ticker.C:
				s.runCleanup()
			case <-s.done:
				return
			}
		}
	}()

	s.logger.Info("cleanup service started", zap.Duration("interval", s.interval), zap.Duration("retention", s.retention))
}

// Stop stops the cleanup service
func (s *CleanupService) Stop() {
	s.once.Do(func() {
		if s.ticker != nil {
			s.ticker.Stop()
		}
		close(s.done)
	})
	s.wg.Wait()
	s.logger.Info("cleanup service stopped")
}

// RunCleanupNow prunes history immediately and returns the number of deleted checks
func (s *CleanupService) RunCleanupNow() (int64, error) {
	if s.retention <= 0 {
		return 0, nil
	}

	cutoff := s.now().Add(-s.retention)
	deleted, err := s.repo.DeleteOlderThan(cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune history: %w", err)
	}

	return deleted, nil
}

func (s *CleanupService) runCleanup() {
	deleted, err := s.RunCleanupNow()
	if err != nil {
		s.logger.Error("history cleanup failed", zap.Error(err))
		return
	}

	remaining, err := s.repo.Count()
	if err != nil {
		s.logger.Warn("failed to count remaining checks", zap.Error(err))
	}
	s.logger.Info("history cleanup completed",
		zap.Int64("deleted", deleted),
		zap.Int64("remaining", remaining),
	)
}

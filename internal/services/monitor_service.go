package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/poc3/api-backend/internal/models"
	"github.com/poc3/api-backend/internal/repositories"
	"github.com/poc3/api-backend/internal/validators"
)

// TransitionNotifier is told about targets that changed status between two cycles
type TransitionNotifier interface {
	NotifyTransition(ctx context.Context, previous string, current models.ServiceResult, checkedAt time.Time) error
}

// MonitorService runs poll cycles, records them and reports status changes
type MonitorService struct {
	poller   *Poller
	repo     *repositories.ServiceCheckRepository
	notifier TransitionNotifier
	interval time.Duration
	logger   *zap.Logger

	// cycleMu serialises cycles so transitions are computed against the previous one
	cycleMu sync.Mutex

	mu         sync.RWMutex
	latest     models.PollReport
	hasLatest  bool
	lastStatus map[string]string

	done chan struct{}
	wg   sync.WaitGroup
}

// NewMonitorService creates a monitor. notifier may be nil to disable alerts;
// an interval of zero disables background polling.
func NewMonitorService(
	poller *Poller,
	repo *repositories.ServiceCheckRepository,
	notifier TransitionNotifier,
	interval time.Duration,
	logger *zap.Logger,
) *MonitorService {
	return &MonitorService{
		poller:     poller,
		repo:       repo,
		notifier:   notifier,
		interval:   interval,
		logger:     logger,
		lastStatus: make(map[string]string),
		done:       make(chan struct{}),
	}
}

// Restore loads the most recent persisted cycle so that the first live cycle
// after a restart can still detect transitions
func (s *MonitorService) Restore() error {
	checks, err := s.repo.LatestCycle()
	if err != nil {
		return fmt.Errorf("failed to restore latest cycle: %w", err)
	}
	if len(checks) == 0 {
		return nil
	}

	report := reportFromChecks(checks)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = report
	s.hasLatest = true
	for _, r := range report.AllAPIs {
		s.lastStatus[r.Name] = r.Status
	}

	s.logger.Info("restored latest poll cycle", zap.String("cycle_id", report.CycleID), zap.Int("checks", len(checks)))
	return nil
}

// RunCycle polls every target, persists the results and sends alerts for
// status changes. The report is returned even when persisting fails.
func (s *MonitorService) RunCycle(ctx context.Context) (models.PollReport, error) {
	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()

	report := s.poller.PollAll(ctx)
	checkedAt, err := validators.ParseUTCTimestamp(report.Timestamp)
	if err != nil {
		checkedAt = time.Now().UTC()
	}

	s.logger.Info("poll cycle completed",
		zap.String("cycle_id", report.CycleID),
		zap.Int("targets", len(report.AllAPIs)),
		zap.Int("healthy", report.Healthy()),
	)

	transitions := s.record(report)
	s.notify(ctx, transitions, checkedAt)

	if err := s.repo.CreateBatch(checksFromReport(report, checkedAt)); err != nil {
		return report, fmt.Errorf("failed to persist cycle %s: %w", report.CycleID, err)
	}

	return report, nil
}

type transition struct {
	previous string
	current  models.ServiceResult
}

// record stores report as the latest one and returns the targets whose status changed
func (s *MonitorService) record(report models.PollReport) []transition {
	s.mu.Lock()
	defer s.mu.Unlock()

	var changed []transition
	for _, r := range report.AllAPIs {
		previous, seen := s.lastStatus[r.Name]
		if seen && previous != r.Status {
			changed = append(changed, transition{previous: previous, current: r})
		}
		s.lastStatus[r.Name] = r.Status
	}

	s.latest = report
	s.hasLatest = true
	return changed
}

func (s *MonitorService) notify(ctx context.Context, transitions []transition, checkedAt time.Time) {
	for _, t := range transitions {
		s.logger.Warn("service status changed",
			zap.String("service", t.current.Name),
			zap.String("from", t.previous),
			zap.String("to", t.current.Status),
			zap.String("error", t.current.Error),
		)

		if s.notifier == nil {
			continue
		}
		if err := s.notifier.NotifyTransition(ctx, t.previous, t.current, checkedAt); err != nil {
			s.logger.Error("failed to send status alert", zap.String("service", t.current.Name), zap.Error(err))
		}
	}
}

// Latest returns the most recent report, if any cycle has completed
func (s *MonitorService) Latest() (models.PollReport, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, s.hasLatest
}

// Start begins background polling. It returns immediately.
func (s *MonitorService) Start(ctx context.Context) {
	if s.interval <= 0 {
		s.logger.Info("background polling disabled")
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.runLogged(ctx)
		for {
			select {
			case <-ticker.C:
				s.runLogged(ctx)
			case <-ctx.Done():
				return
			case <-s.done:
				return
			}
		}
	}()

	s.logger.Info("background polling started", zap.Duration("interval", s.interval))
}

// Stop ends background polling and waits for a running cycle to finish
func (s *MonitorService) Stop() {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	s.wg.Wait()
	s.logger.Info("background polling stopped")
}

func (s *MonitorService) runLogged(ctx context.Context) {
	if _, err := s.RunCycle(ctx); err != nil {
		s.logger.Error("poll cycle failed", zap.Error(err))
	}
}

func checksFromReport(report models.PollReport, checkedAt time.Time) []models.ServiceCheck {
	checks := make([]models.ServiceCheck, 0, len(report.AllAPIs))
	for i, r := range report.AllAPIs {
		checks = append(checks, models.ServiceCheck{
			CycleID:    report.CycleID,
			Service:    r.Name,
			URL:        r.URL,
			Position:   i,
			Status:     r.Status,
			HTTPStatus: r.HTTPStatus,
			LatencyMs:  r.LatencyMs,
			Error:      r.Error,
			Payload:    string(r.Data),
			CheckedAt:  checkedAt,
		})
	}
	return checks
}

func reportFromChecks(checks []models.ServiceCheck) models.PollReport {
	report := models.PollReport{
		CycleID:   checks[0].CycleID,
		Timestamp: validators.FormatUTCTimestamp(checks[0].CheckedAt),
		AllAPIs:   make([]models.ServiceResult, 0, len(checks)),
	}

	for _, c := range checks {
		r := models.ServiceResult{
			Name:       c.Service,
			URL:        c.URL,
			Status:     c.Status,
			HTTPStatus: c.HTTPStatus,
			LatencyMs:  c.LatencyMs,
			Error:      c.Error,
		}
		if c.Payload != "" {
			r.Data = []byte(c.Payload)
		}
		report.AllAPIs = append(report.AllAPIs, r)
	}

	return report
}

package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/poc3/api-backend/internal/models"
)

// MaxHistoryLimit bounds every history query
const MaxHistoryLimit = 1000

// HistoryFilter narrows a history query. Zero values mean "no filter".
type HistoryFilter struct {
	Service string
	Since   time.Time
	Limit   int
}

// ServiceCheckRepository handles database operations for persisted health checks
type ServiceCheckRepository struct {
	db *gorm.DB
}

// NewServiceCheckRepository creates a new service check repository instance
func NewServiceCheckRepository(db *gorm.DB) *ServiceCheckRepository {
	return &ServiceCheckRepository{db: db}
}

// CreateBatch inserts the checks of one poll cycle in a single transaction.
// Missing IDs are generated.
func (r *ServiceCheckRepository) CreateBatch(checks []models.ServiceCheck) error {
	if len(checks) == 0 {
		return nil
	}

	for i := range checks {
		if checks[i].ID == "" {
			checks[i].ID = uuid.NewString()
		}
		if checks[i].CycleID == "" {
			return fmt.Errorf("check %d has no cycle id", i)
		}
	}

	if err := r.db.Create(&checks).Error; err != nil {
		return fmt.Errorf("failed to create service checks: %w", err)
	}

	return nil
}

// List returns checks newest first. The limit is clamped to [1, MaxHistoryLimit].
func (r *ServiceCheckRepository) List(filter HistoryFilter) ([]models.ServiceCheck, error) {
	limit := filter.Limit
	if limit <= 0 || limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	query := r.db.Model(&models.ServiceCheck{})
	if filter.Service != "" {
		query = query.Where("service = ?", filter.Service)
	}
	if !filter.Since.IsZero() {
		query = query.Where("checked_at >= ?", filter.Since.UTC())
	}

	var checks []models.ServiceCheck
	if err := query.Order("checked_at DESC").Order("position ASC").Limit(limit).Find(&checks).Error; err != nil {
		return nil, fmt.Errorf("failed to list service checks: %w", err)
	}

	return checks, nil
}

// LatestCycle returns the checks of the most recent poll cycle in target order.
// Returns an empty slice when nothing has been recorded yet.
func (r *ServiceCheckRepository) LatestCycle() ([]models.ServiceCheck, error) {
	var latest models.ServiceCheck
	err := r.db.Order("checked_at DESC").First(&latest).Error
	if err == gorm.ErrRecordNotFound {
		return []models.ServiceCheck{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find latest check: %w", err)
	}

	var checks []models.ServiceCheck
	if err := r.db.Where("cycle_id = ?", latest.CycleID).Order("position ASC").Find(&checks).Error; err != nil {
		return nil, fmt.Errorf("failed to load cycle %s: %w", latest.CycleID, err)
	}

	return checks, nil
}

// DeleteOlderThan removes checks recorded before cutoff
// Returns the number of deleted rows
func (r *ServiceCheckRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result := r.db.Where("checked_at < ?", cutoff.UTC()).Delete(&models.ServiceCheck{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete old service checks: %w", result.Error)
	}

	return result.RowsAffected, nil
}

// Count returns the total number of stored checks
func (r *ServiceCheckRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.ServiceCheck{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count service checks: %w", err)
	}
	return count, nil
}

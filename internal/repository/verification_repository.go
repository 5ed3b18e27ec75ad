package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// VerificationLog is the audit row persisted for each verification request.
// The decision itself stays ephemeral; this is operational history only.
type VerificationLog struct {
	ID           uint      `gorm:"primaryKey"`
	RequestID    string    `gorm:"column:request_id;uniqueIndex;size:64"`
	Identity     string    `gorm:"column:identity;index;size:64"`
	Matched      bool      `gorm:"column:matched"`
	BestDistance float64   `gorm:"column:best_distance"`
	Backend      string    `gorm:"column:backend;size:32"`
	Details      string    `gorm:"column:details;type:text"`
	SHA1Hash     string    `gorm:"column:sha1_hash;index;size:40"`
	ProcessingMs float64   `gorm:"column:processing_ms"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

// TableName overrides the default table name.
func (VerificationLog) TableName() string {
	return "verification_logs"
}

// MetricsAggregation carries the raw aggregates computed in SQL.
type MetricsAggregation struct {
	TotalCount          int64
	MatchCount          int64
	AverageBestDistance float64
	AverageProcessingMs float64
}

// VerificationRepository provides persistence APIs for verification logs.
type VerificationRepository struct {
	db *gorm.DB
}

// NewVerificationRepository creates a new repository instance.
func NewVerificationRepository(db *gorm.DB) *VerificationRepository {
	return &VerificationRepository{db: db}
}

// AutoMigrate ensures the schema is available.
func (r *VerificationRepository) AutoMigrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&VerificationLog{})
}

// SaveLog persists a verification log entry.
func (r *VerificationRepository) SaveLog(ctx context.Context, log *VerificationLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// FindByRequestIDAndIdentity retrieves a verification log matching the
// request and the identity that issued it.
func (r *VerificationRepository) FindByRequestIDAndIdentity(ctx context.Context, requestID, identity string) (*VerificationLog, error) {
	var log VerificationLog
	if err := r.db.WithContext(ctx).First(&log, "request_id = ? AND identity = ?", requestID, identity).Error; err != nil {
		return nil, err
	}
	return &log, nil
}

// AggregateMetrics computes summary statistics over all verification logs.
func (r *VerificationRepository) AggregateMetrics(ctx context.Context) (*MetricsAggregation, error) {
	var agg MetricsAggregation
	err := r.db.WithContext(ctx).
		Model(&VerificationLog{}).
		Select(
			"COUNT(*) AS total_count, " +
				"SUM(CASE WHEN matched THEN 1 ELSE 0 END) AS match_count, " +
				"COALESCE(AVG(best_distance), 0) AS average_best_distance, " +
				"COALESCE(AVG(processing_ms), 0) AS average_processing_ms",
		).
		Scan(&agg).Error
	if err != nil {
		return nil, err
	}
	return &agg, nil
}

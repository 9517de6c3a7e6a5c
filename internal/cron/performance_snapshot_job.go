package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/arjunpatil/vendortrack-backend/pkg/db/models"
	"github.com/arjunpatil/vendortrack-backend/pkg/logger"
	"github.com/arjunpatil/vendortrack-backend/pkg/metrics"
)

// txRunner abstracts db.Client.WithTx for jobs.
type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type snapshotRepo interface {
	ListVendors(ctx context.Context) ([]models.Vendor, error)
	CreateSnapshot(ctx context.Context, snapshot *models.HistoricalPerformance) error
}

// PerformanceSnapshotJobParams configure the snapshot job.
type PerformanceSnapshotJobParams struct {
	Logger     *logger.Logger
	DB         txRunner
	Repository snapshotRepo
	Metrics    *metrics.CronJobMetrics
}

// NewPerformanceSnapshotJob builds the job that appends one historical
// performance row per vendor from the vendor's current metric columns.
func NewPerformanceSnapshotJob(params PerformanceSnapshotJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("performance repository required")
	}
	return &performanceSnapshotJob{
		logg:    params.Logger,
		db:      params.DB,
		repo:    params.Repository,
		metrics: params.Metrics,
		now:     time.Now,
	}, nil
}

type performanceSnapshotJob struct {
	logg    *logger.Logger
	db      txRunner
	repo    snapshotRepo
	metrics *metrics.CronJobMetrics
	now     func() time.Time
}

func (j *performanceSnapshotJob) Name() string { return "performance-snapshot" }

// Run snapshots every vendor. One vendor failing does not stop the sweep;
// failures are collected and reported together.
func (j *performanceSnapshotJob) Run(ctx context.Context) error {
	vendors, err := j.repo.ListVendors(ctx)
	if err != nil {
		return fmt.Errorf("list vendors: %w", err)
	}

	recordedAt := j.now().UTC()
	var errs error
	written := 0

	for i := range vendors {
		vendor := &vendors[i]
		err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
			return j.repo.CreateSnapshot(ctx, &models.HistoricalPerformance{
				ID:                  uuid.New(),
				VendorCode:          vendor.VendorCode,
				RecordedAt:          recordedAt,
				OnTimeDeliveryRate:  vendor.OnTimeDeliveryRate,
				QualityRatingAvg:    vendor.QualityRatingAvg,
				AverageResponseTime: vendor.AverageResponseTime,
				FulfillmentRate:     vendor.FulfillmentRate,
			})
		})
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("vendor %s: %w", vendor.VendorCode, err))
			continue
		}
		written++
	}

	if j.metrics != nil {
		j.metrics.SetSnapshotsWritten(written)
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"vendors":           len(vendors),
		"snapshots_written": written,
	})
	j.logg.Info(logCtx, "performance snapshot sweep complete")

	if errs != nil {
		return fmt.Errorf("performance snapshot: %w", errs)
	}
	return nil
}

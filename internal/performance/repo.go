package performance

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/arjunpatil/vendortrack-backend/pkg/db/models"
	"github.com/arjunpatil/vendortrack-backend/pkg/enums"
)

// Repository exposes the aggregate queries the metrics engine runs over purchase orders.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// CompletedCounts returns the number of completed orders for the vendor and how
// many of them were delivered by their expected date. Completed orders missing
// either delivery date count as late.
func (r *Repository) CompletedCounts(ctx context.Context, vendorCode string) (total, onTime int64, err error) {
	base := r.db.WithContext(ctx).
		Model(&models.PurchaseOrder{}).
		Where("vendor_code = ? AND status = ?", vendorCode, enums.OrderStatusCompleted)

	if err = base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	err = base.Session(&gorm.Session{}).
		Where("actual_delivery_date IS NOT NULL AND expected_delivery_date IS NOT NULL").
		Where("actual_delivery_date <= expected_delivery_date").
		Count(&onTime).Error
	return total, onTime, err
}

// QualityStats returns the mean quality rating over completed, rated orders and
// how many such orders exist.
func (r *Repository) QualityStats(ctx context.Context, vendorCode string) (avg float64, rated int64, err error) {
	row := struct {
		Avg   float64
		Rated int64
	}{}
	err = r.db.WithContext(ctx).
		Model(&models.PurchaseOrder{}).
		Select("COALESCE(AVG(quality_rating), 0) AS avg, COUNT(quality_rating) AS rated").
		Where("vendor_code = ? AND status = ? AND quality_rating IS NOT NULL", vendorCode, enums.OrderStatusCompleted).
		Scan(&row).Error
	return row.Avg, row.Rated, err
}

// ResponseWindows returns the issue/acknowledgment timestamp pairs for every
// acknowledged order that also carries an issue date.
func (r *Repository) ResponseWindows(ctx context.Context, vendorCode string) ([]ResponseWindow, error) {
	var windows []ResponseWindow
	err := r.db.WithContext(ctx).
		Model(&models.PurchaseOrder{}).
		Select("issue_date, acknowledgment_date").
		Where("vendor_code = ? AND acknowledgment_date IS NOT NULL AND issue_date IS NOT NULL", vendorCode).
		Scan(&windows).Error
	return windows, err
}

// ResponseWindow holds one order's issue-to-acknowledgment span.
type ResponseWindow struct {
	IssueDate          time.Time
	AcknowledgmentDate time.Time
}

// FulfillmentCounts returns the vendor's total order count and the count of
// orders matching the fulfillment rule (completed with no issue date).
func (r *Repository) FulfillmentCounts(ctx context.Context, vendorCode string) (total, fulfilled int64, err error) {
	base := r.db.WithContext(ctx).
		Model(&models.PurchaseOrder{}).
		Where("vendor_code = ?", vendorCode)

	if err = base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	err = base.Session(&gorm.Session{}).
		Where("status = ? AND issue_date IS NULL", enums.OrderStatusCompleted).
		Count(&fulfilled).Error
	return total, fulfilled, err
}

// UpdateVendorMetrics writes the provided metric columns to the vendor row in a single update.
func (r *Repository) UpdateVendorMetrics(ctx context.Context, vendorCode string, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Vendor{}).
		Where("vendor_code = ?", vendorCode).
		Updates(updates).Error
}

// ListVendors returns every vendor row, used by the snapshot job.
func (r *Repository) ListVendors(ctx context.Context) ([]models.Vendor, error) {
	var vendors []models.Vendor
	if err := r.db.WithContext(ctx).Order("vendor_code ASC").Find(&vendors).Error; err != nil {
		return nil, err
	}
	return vendors, nil
}

// CreateSnapshot appends an immutable historical performance record.
func (r *Repository) CreateSnapshot(ctx context.Context, snapshot *models.HistoricalPerformance) error {
	return r.db.WithContext(ctx).Create(snapshot).Error
}

// ListSnapshots returns a vendor's history newest first.
func (r *Repository) ListSnapshots(ctx context.Context, vendorCode string, limit int) ([]models.HistoricalPerformance, error) {
	var snapshots []models.HistoricalPerformance
	query := r.db.WithContext(ctx).
		Where("vendor_code = ?", vendorCode).
		Order("recorded_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&snapshots).Error; err != nil {
		return nil, err
	}
	return snapshots, nil
}

package vendor

import (
	"context"

	"gorm.io/gorm"

	"github.com/arjunpatil/vendortrack-backend/pkg/db/models"
	"github.com/arjunpatil/vendortrack-backend/pkg/pagination"
)

// VendorRepository defines persistence operations for vendors.
type VendorRepository interface {
	Create(context.Context, *models.Vendor) (*models.Vendor, error)
	FindByCode(context.Context, string) (*models.Vendor, error)
	Update(context.Context, *models.Vendor) (*models.Vendor, error)
	List(context.Context, *pagination.Cursor, int) ([]models.Vendor, error)
}

// Repository wires together vendor persistence helpers.
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

// Create inserts a new vendor row.
func (r *Repository) Create(ctx context.Context, vendor *models.Vendor) (*models.Vendor, error) {
	if err := r.db.WithContext(ctx).Create(vendor).Error; err != nil {
		return nil, err
	}
	return vendor, nil
}

// FindByCode loads a vendor by its code.
func (r *Repository) FindByCode(ctx context.Context, code string) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.db.WithContext(ctx).First(&vendor, "vendor_code = ?", code).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

// Update persists the full vendor row.
func (r *Repository) Update(ctx context.Context, vendor *models.Vendor) (*models.Vendor, error) {
	if err := r.db.WithContext(ctx).Save(vendor).Error; err != nil {
		return nil, err
	}
	return vendor, nil
}

// List returns vendors ordered by creation time, keyed for cursor pagination.
func (r *Repository) List(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.Vendor, error) {
	query := r.db.WithContext(ctx).
		Order("created_at ASC").
		Order("vendor_code ASC").
		Limit(limit)
	if cursor != nil {
		query = query.Where(
			"(created_at > ?) OR (created_at = ? AND vendor_code > ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.Key,
		)
	}

	var vendors []models.Vendor
	if err := query.Find(&vendors).Error; err != nil {
		return nil, err
	}
	return vendors, nil
}

// DeleteCascade removes the vendor together with its orders and performance
// history. Ordered deletes inside the caller's transaction, children first.
func (r *Repository) DeleteCascade(ctx context.Context, code string) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("vendor_code = ?", code).Delete(&models.PurchaseOrder{}).Error; err != nil {
		return err
	}
	if err := tx.Where("vendor_code = ?", code).Delete(&models.HistoricalPerformance{}).Error; err != nil {
		return err
	}
	return tx.Delete(&models.Vendor{}, "vendor_code = ?", code).Error
}

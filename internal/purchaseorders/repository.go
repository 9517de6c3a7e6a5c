package purchaseorder

import (
	"context"

	"gorm.io/gorm"

	"github.com/arjunpatil/vendortrack-backend/pkg/db/models"
	"github.com/arjunpatil/vendortrack-backend/pkg/pagination"
)

// PORepository defines persistence operations for purchase orders.
type PORepository interface {
	Create(context.Context, *models.PurchaseOrder) (*models.PurchaseOrder, error)
	FindByNumber(context.Context, string) (*models.PurchaseOrder, error)
	Update(context.Context, *models.PurchaseOrder) (*models.PurchaseOrder, error)
	Delete(context.Context, string) error
	List(context.Context, ListFilter, *pagination.Cursor, int) ([]models.PurchaseOrder, error)
}

// ListFilter narrows purchase order listings.
type ListFilter struct {
	VendorCode string
	Status     string
}

// Repository wires together purchase order persistence helpers.
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

// Create inserts a new purchase order row.
func (r *Repository) Create(ctx context.Context, po *models.PurchaseOrder) (*models.PurchaseOrder, error) {
	if err := r.db.WithContext(ctx).Create(po).Error; err != nil {
		return nil, err
	}
	return po, nil
}

// FindByNumber loads a purchase order by its number.
func (r *Repository) FindByNumber(ctx context.Context, number string) (*models.PurchaseOrder, error) {
	var po models.PurchaseOrder
	if err := r.db.WithContext(ctx).First(&po, "po_number = ?", number).Error; err != nil {
		return nil, err
	}
	return &po, nil
}

// Update persists the full purchase order row.
func (r *Repository) Update(ctx context.Context, po *models.PurchaseOrder) (*models.PurchaseOrder, error) {
	if err := r.db.WithContext(ctx).Save(po).Error; err != nil {
		return nil, err
	}
	return po, nil
}

// Delete removes the purchase order row.
func (r *Repository) Delete(ctx context.Context, number string) error {
	return r.db.WithContext(ctx).Delete(&models.PurchaseOrder{}, "po_number = ?", number).Error
}

// List returns purchase orders ordered by creation time, keyed for cursor pagination.
func (r *Repository) List(ctx context.Context, filter ListFilter, cursor *pagination.Cursor, limit int) ([]models.PurchaseOrder, error) {
	query := r.db.WithContext(ctx).
		Order("created_at ASC").
		Order("po_number ASC").
		Limit(limit)
	if filter.VendorCode != "" {
		query = query.Where("vendor_code = ?", filter.VendorCode)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if cursor != nil {
		query = query.Where(
			"(created_at > ?) OR (created_at = ? AND po_number > ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.Key,
		)
	}

	var orders []models.PurchaseOrder
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

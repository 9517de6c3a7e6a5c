package models

import (
	"time"

	"github.com/arjunpatil/vendortrack-backend/pkg/enums"
	"github.com/arjunpatil/vendortrack-backend/pkg/types"
)

// PurchaseOrder is an order placed with a vendor. Delivery, issue, and
// acknowledgment dates are nullable; the performance engine keys off which of
// them are set.
type PurchaseOrder struct {
	PONumber             string            `gorm:"column:po_number;primaryKey;size:50"`
	VendorCode           string            `gorm:"column:vendor_code;size:10;not null;index"`
	OrderDate            time.Time         `gorm:"column:order_date;not null"`
	ExpectedDeliveryDate *time.Time        `gorm:"column:expected_delivery_date"`
	ActualDeliveryDate   *time.Time        `gorm:"column:actual_delivery_date"`
	Items                types.LineItems   `gorm:"column:items;type:jsonb;serializer:json"`
	Quantity             int               `gorm:"column:quantity;not null"`
	Status               enums.OrderStatus `gorm:"column:status;size:20;not null"`
	QualityRating        *float64          `gorm:"column:quality_rating"`
	IssueDate            *time.Time        `gorm:"column:issue_date"`
	AcknowledgmentDate   *time.Time        `gorm:"column:acknowledgment_date"`
	CreatedAt            time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

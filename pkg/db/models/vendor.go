package models

import "time"

// Vendor is a supplier tracked with rolling performance metrics. The four
// metric columns are written exclusively by the performance engine.
type Vendor struct {
	VendorCode          string    `gorm:"column:vendor_code;primaryKey;size:10"`
	Name                string    `gorm:"column:name;size:50;not null"`
	ContactDetails      string    `gorm:"column:contact_details;not null"`
	Address             string    `gorm:"column:address;not null"`
	OnTimeDeliveryRate  float64   `gorm:"column:on_time_delivery_rate;not null;default:0"`
	QualityRatingAvg    float64   `gorm:"column:quality_rating_avg;not null;default:0"`
	AverageResponseTime float64   `gorm:"column:average_response_time;not null;default:0"`
	FulfillmentRate     float64   `gorm:"column:fulfillment_rate;not null;default:0"`
	CreatedAt           time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// HistoricalPerformance is an append-only snapshot of a vendor's metrics at a
// point in time. Rows are written by the snapshot worker, never updated.
type HistoricalPerformance struct {
	ID                  uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	VendorCode          string    `gorm:"column:vendor_code;size:10;not null;index"`
	RecordedAt          time.Time `gorm:"column:recorded_at;autoCreateTime"`
	OnTimeDeliveryRate  float64   `gorm:"column:on_time_delivery_rate;not null;default:0"`
	QualityRatingAvg    float64   `gorm:"column:quality_rating_avg;not null;default:0"`
	AverageResponseTime float64   `gorm:"column:average_response_time;not null;default:0"`
	FulfillmentRate     float64   `gorm:"column:fulfillment_rate;not null;default:0"`
}

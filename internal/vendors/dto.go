package vendor

import (
	"time"

	"github.com/arjunpatil/vendortrack-backend/pkg/db/models"
)

// VendorDTO represents the vendor payload returned to clients.
type VendorDTO struct {
	VendorCode          string    `json:"vendor_code"`
	Name                string    `json:"name"`
	ContactDetails      string    `json:"contact_details"`
	Address             string    `json:"address"`
	OnTimeDeliveryRate  float64   `json:"on_time_delivery_rate"`
	QualityRatingAvg    float64   `json:"quality_rating_avg"`
	AverageResponseTime float64   `json:"average_response_time"`
	FulfillmentRate     float64   `json:"fulfillment_rate"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// PerformanceDTO exposes only the four rolling metrics.
type PerformanceDTO struct {
	OnTimeDeliveryRate  float64 `json:"on_time_delivery_rate"`
	QualityRatingAvg    float64 `json:"quality_rating_avg"`
	AverageResponseTime float64 `json:"average_response_time"`
	FulfillmentRate     float64 `json:"fulfillment_rate"`
}

// SnapshotDTO is one historical performance record.
type SnapshotDTO struct {
	RecordedAt          time.Time `json:"recorded_at"`
	OnTimeDeliveryRate  float64   `json:"on_time_delivery_rate"`
	QualityRatingAvg    float64   `json:"quality_rating_avg"`
	AverageResponseTime float64   `json:"average_response_time"`
	FulfillmentRate     float64   `json:"fulfillment_rate"`
}

// VendorListResult carries one page of vendors plus the cursor for the next.
type VendorListResult struct {
	Vendors    []VendorDTO `json:"vendors"`
	NextCursor *string     `json:"next_cursor,omitempty"`
}

// NewVendorDTO builds a DTO from the persisted model.
func NewVendorDTO(vendor *models.Vendor) *VendorDTO {
	return &VendorDTO{
		VendorCode:          vendor.VendorCode,
		Name:                vendor.Name,
		ContactDetails:      vendor.ContactDetails,
		Address:             vendor.Address,
		OnTimeDeliveryRate:  vendor.OnTimeDeliveryRate,
		QualityRatingAvg:    vendor.QualityRatingAvg,
		AverageResponseTime: vendor.AverageResponseTime,
		FulfillmentRate:     vendor.FulfillmentRate,
		CreatedAt:           vendor.CreatedAt,
		UpdatedAt:           vendor.UpdatedAt,
	}
}

// NewPerformanceDTO projects only the metric fields.
func NewPerformanceDTO(vendor *models.Vendor) *PerformanceDTO {
	return &PerformanceDTO{
		OnTimeDeliveryRate:  vendor.OnTimeDeliveryRate,
		QualityRatingAvg:    vendor.QualityRatingAvg,
		AverageResponseTime: vendor.AverageResponseTime,
		FulfillmentRate:     vendor.FulfillmentRate,
	}
}

// NewSnapshotDTO builds a DTO from a history row.
func NewSnapshotDTO(snapshot *models.HistoricalPerformance) *SnapshotDTO {
	return &SnapshotDTO{
		RecordedAt:          snapshot.RecordedAt,
		OnTimeDeliveryRate:  snapshot.OnTimeDeliveryRate,
		QualityRatingAvg:    snapshot.QualityRatingAvg,
		AverageResponseTime: snapshot.AverageResponseTime,
		FulfillmentRate:     snapshot.FulfillmentRate,
	}
}

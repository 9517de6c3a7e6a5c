package purchaseorder

import (
	"time"

	"github.com/arjunpatil/vendortrack-backend/pkg/db/models"
	"github.com/arjunpatil/vendortrack-backend/pkg/types"
)

// PurchaseOrderDTO represents the purchase order payload returned to clients.
type PurchaseOrderDTO struct {
	PONumber             string          `json:"po_number"`
	VendorCode           string          `json:"vendor_code"`
	OrderDate            time.Time       `json:"order_date"`
	ExpectedDeliveryDate *time.Time      `json:"expected_delivery_date,omitempty"`
	ActualDeliveryDate   *time.Time      `json:"actual_delivery_date,omitempty"`
	Items                types.LineItems `json:"items"`
	Quantity             int             `json:"quantity"`
	Status               string          `json:"status"`
	QualityRating        *float64        `json:"quality_rating,omitempty"`
	IssueDate            *time.Time      `json:"issue_date,omitempty"`
	AcknowledgmentDate   *time.Time      `json:"acknowledgment_date,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// POListResult carries one page of purchase orders plus the cursor for the next.
type POListResult struct {
	PurchaseOrders []PurchaseOrderDTO `json:"purchase_orders"`
	NextCursor     *string            `json:"next_cursor,omitempty"`
}

// NewPurchaseOrderDTO builds a DTO from the persisted model.
func NewPurchaseOrderDTO(po *models.PurchaseOrder) *PurchaseOrderDTO {
	return &PurchaseOrderDTO{
		PONumber:             po.PONumber,
		VendorCode:           po.VendorCode,
		OrderDate:            po.OrderDate,
		ExpectedDeliveryDate: po.ExpectedDeliveryDate,
		ActualDeliveryDate:   po.ActualDeliveryDate,
		Items:                po.Items,
		Quantity:             po.Quantity,
		Status:               po.Status.String(),
		QualityRating:        po.QualityRating,
		IssueDate:            po.IssueDate,
		AcknowledgmentDate:   po.AcknowledgmentDate,
		CreatedAt:            po.CreatedAt,
		UpdatedAt:            po.UpdatedAt,
	}
}

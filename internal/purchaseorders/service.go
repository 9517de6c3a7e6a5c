package purchaseorder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/arjunpatil/vendortrack-backend/internal/codes"
	"github.com/arjunpatil/vendortrack-backend/internal/performance"
	"github.com/arjunpatil/vendortrack-backend/pkg/db"
	"github.com/arjunpatil/vendortrack-backend/pkg/db/models"
	"github.com/arjunpatil/vendortrack-backend/pkg/enums"
	pkgerrors "github.com/arjunpatil/vendortrack-backend/pkg/errors"
	"github.com/arjunpatil/vendortrack-backend/pkg/pagination"
	"github.com/arjunpatil/vendortrack-backend/pkg/types"
)

const numberAllocationAttempts = 3

// Service exposes purchase order management operations. Every write runs the
// performance engine inside the same transaction before returning.
type Service interface {
	Create(ctx context.Context, input CreatePOInput) (*PurchaseOrderDTO, error)
	Get(ctx context.Context, number string) (*PurchaseOrderDTO, error)
	List(ctx context.Context, filter ListFilter, params pagination.Params) (*POListResult, error)
	Update(ctx context.Context, number string, input UpdatePOInput) (*PurchaseOrderDTO, error)
	Delete(ctx context.Context, number string) error
	Acknowledge(ctx context.Context, number string) (*PurchaseOrderDTO, error)
}

// CreatePOInput holds the validated payload to create a purchase order.
type CreatePOInput struct {
	PONumber             string
	VendorCode           string
	OrderDate            *time.Time
	ExpectedDeliveryDate *time.Time
	ActualDeliveryDate   *time.Time
	IssueDate            *time.Time
	Items                types.LineItems
	Quantity             int
	Status               string
	QualityRating        *float64
}

// UpdatePOInput holds optional mutation values for a purchase order. Nil
// fields are left untouched; dates cannot be cleared once set.
type UpdatePOInput struct {
	ExpectedDeliveryDate *time.Time
	ActualDeliveryDate   *time.Time
	IssueDate            *time.Time
	Items                *types.LineItems
	Quantity             *int
	Status               *string
	QualityRating        *float64
}

type vendorChecker interface {
	FindByCode(ctx context.Context, code string) (*models.Vendor, error)
}

// numberGenerator allocates the next purchase order number inside the caller's
// transaction.
type numberGenerator func(ctx context.Context, tx *gorm.DB, now time.Time) (string, error)

// service implements the purchase order service.
type service struct {
	repo       *Repository
	vendorRepo vendorChecker
	engine     *performance.Engine
	dbClient   *db.Client
	nextNumber numberGenerator
}

// NewService constructs a purchase order service instance.
func NewService(repo *Repository, vendorRepo vendorChecker, engine *performance.Engine, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("purchase order repository required")
	}
	if vendorRepo == nil {
		return nil, fmt.Errorf("vendor repository required")
	}
	if engine == nil {
		return nil, fmt.Errorf("performance engine required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{
		repo:       repo,
		vendorRepo: vendorRepo,
		engine:     engine,
		dbClient:   dbClient,
		nextNumber: codes.NextPONumber,
	}, nil
}

// Create validates and inserts a purchase order, generating its number when
// absent, then recomputes the vendor's metrics in the same transaction.
func (s *service) Create(ctx context.Context, input CreatePOInput) (*PurchaseOrderDTO, error) {
	if _, err := s.vendorRepo.FindByCode(ctx, input.VendorCode); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown vendor").
				WithDetails(map[string]string{"vendor_code": "vendor does not exist"})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load vendor")
	}

	status := enums.OrderStatusPending
	if input.Status != "" {
		parsed, err := enums.ParseOrderStatus(input.Status)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status").
				WithDetails(map[string]string{"status": err.Error()})
		}
		status = parsed
	}

	orderDate := time.Now().UTC()
	if input.OrderDate != nil {
		orderDate = *input.OrderDate
	}

	po := &models.PurchaseOrder{
		VendorCode:           input.VendorCode,
		OrderDate:            orderDate,
		ExpectedDeliveryDate: input.ExpectedDeliveryDate,
		ActualDeliveryDate:   input.ActualDeliveryDate,
		IssueDate:            input.IssueDate,
		Items:                input.Items,
		Quantity:             input.Quantity,
		Status:               status,
		QualityRating:        input.QualityRating,
	}
	if err := validateOrder(po); err != nil {
		return nil, err
	}

	supplied := strings.TrimSpace(input.PONumber)
	attempts := numberAllocationAttempts
	if supplied != "" {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
			number := supplied
			if number == "" {
				generated, err := s.nextNumber(ctx, tx, time.Now())
				if err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "generate po number")
				}
				number = generated
			}
			po.PONumber = number

			if _, err := s.repo.WithTx(tx).Create(ctx, po); err != nil {
				return err
			}
			return s.engine.Recalculate(ctx, tx, po)
		})
		if err == nil {
			return NewPurchaseOrderDTO(po), nil
		}
		lastErr = err
		if !db.IsUniqueViolation(err, "purchase_orders_pkey") {
			break
		}
	}

	if db.IsUniqueViolation(lastErr, "purchase_orders_pkey") {
		if supplied != "" {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("purchase order %s already exists", supplied))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, lastErr, "po number allocation kept colliding")
	}
	if typed := pkgerrors.As(lastErr); typed != nil {
		return nil, lastErr
	}
	return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, lastErr, "db: insert purchase order")
}

// Get loads a single purchase order.
func (s *service) Get(ctx context.Context, number string) (*PurchaseOrderDTO, error) {
	po, err := s.loadOrder(ctx, number)
	if err != nil {
		return nil, err
	}
	return NewPurchaseOrderDTO(po), nil
}

// List returns one page of purchase orders, optionally narrowed by vendor or status.
func (s *service) List(ctx context.Context, filter ListFilter, params pagination.Params) (*POListResult, error) {
	if filter.Status != "" {
		if _, err := enums.ParseOrderStatus(filter.Status); err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter").
				WithDetails(map[string]string{"status": err.Error()})
		}
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.List(ctx, filter, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list purchase orders")
	}

	result := &POListResult{PurchaseOrders: make([]PurchaseOrderDTO, 0, len(rows))}
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	for i := range rows {
		result.PurchaseOrders = append(result.PurchaseOrders, *NewPurchaseOrderDTO(&rows[i]))
	}
	if hasMore {
		last := rows[len(rows)-1]
		next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, Key: last.PONumber})
		result.NextCursor = &next
	}
	return result, nil
}

// Update mutates the purchase order and recomputes the vendor's metrics in the
// same transaction.
func (s *service) Update(ctx context.Context, number string, input UpdatePOInput) (*PurchaseOrderDTO, error) {
	po, err := s.loadOrder(ctx, number)
	if err != nil {
		return nil, err
	}

	if input.Status != nil {
		parsed, err := enums.ParseOrderStatus(*input.Status)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status").
				WithDetails(map[string]string{"status": err.Error()})
		}
		po.Status = parsed
	}
	if input.ExpectedDeliveryDate != nil {
		po.ExpectedDeliveryDate = input.ExpectedDeliveryDate
	}
	if input.ActualDeliveryDate != nil {
		po.ActualDeliveryDate = input.ActualDeliveryDate
	}
	if input.IssueDate != nil {
		po.IssueDate = input.IssueDate
	}
	if input.Items != nil {
		po.Items = *input.Items
	}
	if input.Quantity != nil {
		po.Quantity = *input.Quantity
	}
	if input.QualityRating != nil {
		po.QualityRating = input.QualityRating
	}

	if err := validateOrder(po); err != nil {
		return nil, err
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).Update(ctx, po); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update purchase order")
		}
		return s.engine.Recalculate(ctx, tx, po)
	}); err != nil {
		return nil, err
	}
	return NewPurchaseOrderDTO(po), nil
}

// Delete removes the purchase order and refreshes the vendor's metrics.
func (s *service) Delete(ctx context.Context, number string) error {
	po, err := s.loadOrder(ctx, number)
	if err != nil {
		return err
	}
	return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Delete(ctx, number); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete purchase order")
		}
		return s.engine.RecalculateAll(ctx, tx, po.VendorCode)
	})
}

// Acknowledge stamps the acknowledgment date exactly once. A second call is
// rejected and leaves the original timestamp in place.
func (s *service) Acknowledge(ctx context.Context, number string) (*PurchaseOrderDTO, error) {
	po, err := s.loadOrder(ctx, number)
	if err != nil {
		return nil, err
	}
	if po.AcknowledgmentDate != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "purchase order already acknowledged")
	}

	now := time.Now().UTC()
	po.AcknowledgmentDate = &now

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).Update(ctx, po); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: acknowledge purchase order")
		}
		return s.engine.Recalculate(ctx, tx, po)
	}); err != nil {
		return nil, err
	}
	return NewPurchaseOrderDTO(po), nil
}

func (s *service) loadOrder(ctx context.Context, number string) (*models.PurchaseOrder, error) {
	po, err := s.repo.FindByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "purchase order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load purchase order")
	}
	return po, nil
}

// validateOrder enforces the invariants that must hold before any row is
// persisted: positive quantity, a rating inside [0,5], and delivery dates that
// do not precede the order date.
func validateOrder(po *models.PurchaseOrder) error {
	details := map[string]string{}

	if po.Quantity < 1 {
		details["quantity"] = "must be at least 1"
	}
	if po.QualityRating != nil && (*po.QualityRating < 0 || *po.QualityRating > 5) {
		details["quality_rating"] = "must be between 0 and 5"
	}
	if po.ExpectedDeliveryDate != nil && po.ExpectedDeliveryDate.Before(po.OrderDate) {
		details["expected_delivery_date"] = "cannot precede order_date"
	}
	if po.ActualDeliveryDate != nil && po.ActualDeliveryDate.Before(po.OrderDate) {
		details["actual_delivery_date"] = "cannot precede order_date"
	}

	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid purchase order").WithDetails(details)
	}
	return nil
}

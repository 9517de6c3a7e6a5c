package performance

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/arjunpatil/vendortrack-backend/pkg/db/models"
	"github.com/arjunpatil/vendortrack-backend/pkg/enums"
	pkgerrors "github.com/arjunpatil/vendortrack-backend/pkg/errors"
)

// Engine recomputes vendor performance metrics from the vendor's purchase
// orders and persists them onto the vendor row. All recomputation runs inside
// the caller's transaction so readers never observe partially updated metrics.
type Engine struct {
	repo *Repository
}

// NewEngine constructs a metrics engine.
func NewEngine(repo *Repository) (*Engine, error) {
	if repo == nil {
		return nil, fmt.Errorf("performance repository required")
	}
	return &Engine{repo: repo}, nil
}

// Recalculate recomputes the metrics affected by the triggering order write.
// On-time delivery and quality average only move when the order is completed,
// response time only when it carries an acknowledgment, and fulfillment rate
// on every write. The vendor row is updated once with all changed columns.
func (e *Engine) Recalculate(ctx context.Context, tx *gorm.DB, po *models.PurchaseOrder) error {
	if po == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "purchase order required for metric recalculation")
	}

	repo := e.repo.WithTx(tx)
	updates := map[string]any{}

	if po.Status == enums.OrderStatusCompleted {
		if err := e.applyDeliveryMetrics(ctx, repo, po, updates); err != nil {
			return err
		}
	}

	if po.AcknowledgmentDate != nil {
		if err := e.applyResponseTime(ctx, repo, po.VendorCode, updates); err != nil {
			return err
		}
	}

	if err := e.applyFulfillmentRate(ctx, repo, po.VendorCode, updates); err != nil {
		return err
	}

	if err := repo.UpdateVendorMetrics(ctx, po.VendorCode, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update vendor metrics")
	}
	return nil
}

// RecalculateAll recomputes every metric for the vendor regardless of trigger,
// used after order deletion where no surviving order drives the conditions.
func (e *Engine) RecalculateAll(ctx context.Context, tx *gorm.DB, vendorCode string) error {
	repo := e.repo.WithTx(tx)
	updates := map[string]any{}

	total, onTime, err := repo.CompletedCounts(ctx, vendorCode)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count completed orders")
	}
	updates["on_time_delivery_rate"] = ratio(onTime, total)

	avg, rated, err := repo.QualityStats(ctx, vendorCode)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: quality stats")
	}
	if rated > 0 {
		updates["quality_rating_avg"] = avg
	}

	if err := e.applyResponseTime(ctx, repo, vendorCode, updates); err != nil {
		return err
	}
	if err := e.applyFulfillmentRate(ctx, repo, vendorCode, updates); err != nil {
		return err
	}

	if err := repo.UpdateVendorMetrics(ctx, vendorCode, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update vendor metrics")
	}
	return nil
}

func (e *Engine) applyDeliveryMetrics(ctx context.Context, repo *Repository, po *models.PurchaseOrder, updates map[string]any) error {
	total, onTime, err := repo.CompletedCounts(ctx, po.VendorCode)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count completed orders")
	}
	updates["on_time_delivery_rate"] = ratio(onTime, total)

	// The average only moves when the triggering order carries a rating, and
	// only when at least one completed rated order exists. An uncomputable
	// average leaves the prior value in place rather than resetting to zero.
	if po.QualityRating != nil {
		avg, rated, err := repo.QualityStats(ctx, po.VendorCode)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: quality stats")
		}
		if rated > 0 {
			updates["quality_rating_avg"] = avg
		}
	}
	return nil
}

func (e *Engine) applyResponseTime(ctx context.Context, repo *Repository, vendorCode string, updates map[string]any) error {
	windows, err := repo.ResponseWindows(ctx, vendorCode)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: response windows")
	}
	var hours float64
	for _, w := range windows {
		hours += w.AcknowledgmentDate.Sub(w.IssueDate).Hours()
	}
	if len(windows) > 0 {
		updates["average_response_time"] = hours / float64(len(windows))
	} else {
		updates["average_response_time"] = float64(0)
	}
	return nil
}

func (e *Engine) applyFulfillmentRate(ctx context.Context, repo *Repository, vendorCode string, updates map[string]any) error {
	total, fulfilled, err := repo.FulfillmentCounts(ctx, vendorCode)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: fulfillment counts")
	}
	updates["fulfillment_rate"] = ratio(fulfilled, total)
	return nil
}

func ratio(n, d int64) float64 {
	if d == 0 {
		return 0
	}
	return 100 * float64(n) / float64(d)
}

package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/arjunpatil/vendortrack-backend/api/responses"
	"github.com/arjunpatil/vendortrack-backend/api/validators"
	purchaseorder "github.com/arjunpatil/vendortrack-backend/internal/purchaseorders"
	pkgerrors "github.com/arjunpatil/vendortrack-backend/pkg/errors"
	"github.com/arjunpatil/vendortrack-backend/pkg/logger"
	"github.com/arjunpatil/vendortrack-backend/pkg/types"
)

type poCreateRequest struct {
	PONumber             string          `json:"po_number,omitempty" validate:"omitempty,max=16"`
	VendorCode           string          `json:"vendor_code" validate:"required"`
	OrderDate            *time.Time      `json:"order_date,omitempty"`
	ExpectedDeliveryDate *time.Time      `json:"expected_delivery_date,omitempty"`
	ActualDeliveryDate   *time.Time      `json:"actual_delivery_date,omitempty"`
	IssueDate            *time.Time      `json:"issue_date,omitempty"`
	Items                types.LineItems `json:"items" validate:"required,min=1"`
	Quantity             int             `json:"quantity" validate:"required,gte=1"`
	Status               string          `json:"status,omitempty"`
	QualityRating        *float64        `json:"quality_rating,omitempty" validate:"omitempty,gte=0,lte=5"`
}

func (req poCreateRequest) toInput() purchaseorder.CreatePOInput {
	return purchaseorder.CreatePOInput{
		PONumber:             validators.SanitizeString(req.PONumber, maxFieldLen),
		VendorCode:           validators.SanitizeString(req.VendorCode, maxFieldLen),
		OrderDate:            req.OrderDate,
		ExpectedDeliveryDate: req.ExpectedDeliveryDate,
		ActualDeliveryDate:   req.ActualDeliveryDate,
		IssueDate:            req.IssueDate,
		Items:                req.Items,
		Quantity:             req.Quantity,
		Status:               validators.SanitizeString(req.Status, maxFieldLen),
		QualityRating:        req.QualityRating,
	}
}

type poUpdateRequest struct {
	ExpectedDeliveryDate *time.Time       `json:"expected_delivery_date,omitempty"`
	ActualDeliveryDate   *time.Time       `json:"actual_delivery_date,omitempty"`
	IssueDate            *time.Time       `json:"issue_date,omitempty"`
	Items                *types.LineItems `json:"items,omitempty" validate:"omitempty,min=1"`
	Quantity             *int             `json:"quantity,omitempty" validate:"omitempty,gte=1"`
	Status               *string          `json:"status,omitempty"`
	QualityRating        *float64         `json:"quality_rating,omitempty" validate:"omitempty,gte=0,lte=5"`
}

func (req poUpdateRequest) toInput() purchaseorder.UpdatePOInput {
	return purchaseorder.UpdatePOInput{
		ExpectedDeliveryDate: req.ExpectedDeliveryDate,
		ActualDeliveryDate:   req.ActualDeliveryDate,
		IssueDate:            req.IssueDate,
		Items:                req.Items,
		Quantity:             req.Quantity,
		Status:               req.Status,
		QualityRating:        req.QualityRating,
	}
}

func poNumberParam(r *http.Request) (string, error) {
	number := validators.SanitizeString(chi.URLParam(r, "poNumber"), maxFieldLen)
	if number == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "po number required")
	}
	return number, nil
}

func poCtx(r *http.Request, logg *logger.Logger, number string) context.Context {
	ctx := r.Context()
	if logg != nil {
		ctx = logg.WithPONumber(ctx, number)
	}
	return ctx
}

// POCreate records a purchase order and refreshes the vendor's metrics.
func POCreate(svc purchaseorder.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase order service unavailable"))
			return
		}

		var body poCreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Create(r.Context(), body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// POList returns one page of purchase orders with optional vendor and status
// filters.
func POList(svc purchaseorder.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase order service unavailable"))
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vendorCode := r.URL.Query().Get("vendor_code")
		if vendorCode == "" {
			vendorCode = r.URL.Query().Get("vendor")
		}
		filter := purchaseorder.ListFilter{
			VendorCode: validators.SanitizeString(vendorCode, maxFieldLen),
			Status:     validators.SanitizeString(r.URL.Query().Get("status"), maxFieldLen),
		}

		result, err := svc.List(r.Context(), filter, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func POGet(svc purchaseorder.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase order service unavailable"))
			return
		}

		number, err := poNumberParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := poCtx(r, logg, number)
		dto, err := svc.Get(ctx, number)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

func POUpdate(svc purchaseorder.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase order service unavailable"))
			return
		}

		number, err := poNumberParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body poUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := poCtx(r, logg, number)
		dto, err := svc.Update(ctx, number, body.toInput())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// PODelete removes the order and recomputes the vendor's metrics without it.
func PODelete(svc purchaseorder.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase order service unavailable"))
			return
		}

		number, err := poNumberParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := poCtx(r, logg, number)
		if err := svc.Delete(ctx, number); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"po_number": number, "status": "deleted"})
	}
}

// POAcknowledge stamps the acknowledgment time exactly once.
func POAcknowledge(svc purchaseorder.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase order service unavailable"))
			return
		}

		number, err := poNumberParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := poCtx(r, logg, number)
		dto, err := svc.Acknowledge(ctx, number)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

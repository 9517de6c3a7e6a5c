package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/arjunpatil/vendortrack-backend/api/responses"
	"github.com/arjunpatil/vendortrack-backend/api/validators"
	vendor "github.com/arjunpatil/vendortrack-backend/internal/vendors"
	pkgerrors "github.com/arjunpatil/vendortrack-backend/pkg/errors"
	"github.com/arjunpatil/vendortrack-backend/pkg/logger"
	"github.com/arjunpatil/vendortrack-backend/pkg/pagination"
)

const maxFieldLen = 512

type vendorCreateRequest struct {
	VendorCode     string `json:"vendor_code,omitempty" validate:"omitempty,max=16"`
	Name           string `json:"name" validate:"required,min=1,max=50"`
	ContactDetails string `json:"contact_details" validate:"required,min=1"`
	Address        string `json:"address" validate:"required,min=1"`
}

func (req vendorCreateRequest) toInput() vendor.CreateVendorInput {
	return vendor.CreateVendorInput{
		VendorCode:     validators.SanitizeString(req.VendorCode, maxFieldLen),
		Name:           validators.SanitizeString(req.Name, maxFieldLen),
		ContactDetails: validators.SanitizeString(req.ContactDetails, maxFieldLen),
		Address:        validators.SanitizeString(req.Address, maxFieldLen),
	}
}

type vendorUpdateRequest struct {
	Name           *string `json:"name,omitempty" validate:"omitempty,min=1,max=50"`
	ContactDetails *string `json:"contact_details,omitempty" validate:"omitempty,min=1"`
	Address        *string `json:"address,omitempty" validate:"omitempty,min=1"`
}

func (req vendorUpdateRequest) toInput() vendor.UpdateVendorInput {
	return vendor.UpdateVendorInput{
		Name:           req.Name,
		ContactDetails: req.ContactDetails,
		Address:        req.Address,
	}
}

func vendorCodeParam(r *http.Request) (string, error) {
	code := validators.SanitizeString(chi.URLParam(r, "vendorCode"), maxFieldLen)
	if code == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "vendor code required")
	}
	return code, nil
}

func vendorCtx(r *http.Request, logg *logger.Logger, code string) context.Context {
	ctx := r.Context()
	if logg != nil {
		ctx = logg.WithVendorCode(ctx, code)
	}
	return ctx
}

// VendorCreate registers a new vendor, generating a code when none supplied.
func VendorCreate(svc vendor.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vendor service unavailable"))
			return
		}

		var body vendorCreateRequest
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

// VendorList returns one page of vendors ordered by creation time.
func VendorList(svc vendor.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vendor service unavailable"))
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func VendorGet(svc vendor.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vendor service unavailable"))
			return
		}

		code, err := vendorCodeParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := vendorCtx(r, logg, code)
		dto, err := svc.Get(ctx, code)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

func VendorUpdate(svc vendor.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vendor service unavailable"))
			return
		}

		code, err := vendorCodeParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body vendorUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := vendorCtx(r, logg, code)
		dto, err := svc.Update(ctx, code, body.toInput())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// VendorDelete removes the vendor plus its purchase orders and history.
func VendorDelete(svc vendor.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vendor service unavailable"))
			return
		}

		code, err := vendorCodeParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := vendorCtx(r, logg, code)
		if err := svc.Delete(ctx, code); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"vendor_code": code, "status": "deleted"})
	}
}

// VendorPerformance exposes the current rolling metrics for a vendor.
func VendorPerformance(svc vendor.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vendor service unavailable"))
			return
		}

		code, err := vendorCodeParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := vendorCtx(r, logg, code)
		dto, err := svc.Performance(ctx, code)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// VendorHistory returns the most recent performance snapshots, newest first.
func VendorHistory(svc vendor.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vendor service unavailable"))
			return
		}

		code, err := vendorCodeParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := vendorCtx(r, logg, code)
		snapshots, err := svc.History(ctx, code, limit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, snapshots)
	}
}

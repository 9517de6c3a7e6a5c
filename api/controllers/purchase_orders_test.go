package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	purchaseorder "github.com/arjunpatil/vendortrack-backend/internal/purchaseorders"
	pkgerrors "github.com/arjunpatil/vendortrack-backend/pkg/errors"
	"github.com/arjunpatil/vendortrack-backend/pkg/pagination"
)

type stubPOService struct {
	dto        *purchaseorder.PurchaseOrderDTO
	listResult *purchaseorder.POListResult
	err        error

	lastCreate purchaseorder.CreatePOInput
	lastUpdate purchaseorder.UpdatePOInput
	lastFilter purchaseorder.ListFilter
	lastNumber string
}

func (s *stubPOService) Create(ctx context.Context, input purchaseorder.CreatePOInput) (*purchaseorder.PurchaseOrderDTO, error) {
	s.lastCreate = input
	return s.dto, s.err
}

func (s *stubPOService) Get(ctx context.Context, number string) (*purchaseorder.PurchaseOrderDTO, error) {
	s.lastNumber = number
	return s.dto, s.err
}

func (s *stubPOService) List(ctx context.Context, filter purchaseorder.ListFilter, params pagination.Params) (*purchaseorder.POListResult, error) {
	s.lastFilter = filter
	return s.listResult, s.err
}

func (s *stubPOService) Update(ctx context.Context, number string, input purchaseorder.UpdatePOInput) (*purchaseorder.PurchaseOrderDTO, error) {
	s.lastNumber = number
	s.lastUpdate = input
	return s.dto, s.err
}

func (s *stubPOService) Delete(ctx context.Context, number string) error {
	s.lastNumber = number
	return s.err
}

func (s *stubPOService) Acknowledge(ctx context.Context, number string) (*purchaseorder.PurchaseOrderDTO, error) {
	s.lastNumber = number
	return s.dto, s.err
}

func withPONumber(req *http.Request, number string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("poNumber", number)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestPOCreateSuccess(t *testing.T) {
	svc := &stubPOService{dto: &purchaseorder.PurchaseOrderDTO{PONumber: "26OD0001", VendorCode: "26VM001"}}
	handler := POCreate(svc, nil)

	payload := []byte(`{
		"vendor_code": "26VM001",
		"items": [{"sku": "WIDGET-1", "qty": 10}],
		"quantity": 10
	}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/purchase_orders", bytes.NewReader(payload))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}
	if svc.lastCreate.VendorCode != "26VM001" {
		t.Fatalf("expected vendor code passthrough got %q", svc.lastCreate.VendorCode)
	}
	if len(svc.lastCreate.Items) != 1 {
		t.Fatalf("expected one line item got %d", len(svc.lastCreate.Items))
	}

	var envelope struct {
		Data purchaseorder.PurchaseOrderDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.PONumber != "26OD0001" {
		t.Fatalf("expected generated number got %q", envelope.Data.PONumber)
	}
}

func TestPOCreateRejectsZeroQuantity(t *testing.T) {
	handler := POCreate(&stubPOService{}, nil)

	payload := []byte(`{"vendor_code":"26VM001","items":[{"sku":"W"}],"quantity":0}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/purchase_orders", bytes.NewReader(payload))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestPOCreateRejectsRatingOutOfRange(t *testing.T) {
	handler := POCreate(&stubPOService{}, nil)

	payload := []byte(`{"vendor_code":"26VM001","items":[{"sku":"W"}],"quantity":1,"quality_rating":7.5}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/purchase_orders", bytes.NewReader(payload))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestPOUpdateForwardsDates(t *testing.T) {
	svc := &stubPOService{dto: &purchaseorder.PurchaseOrderDTO{PONumber: "26OD0001"}}
	handler := POUpdate(svc, nil)

	payload := []byte(`{"status":"completed","actual_delivery_date":"2026-08-20T10:00:00Z"}`)
	req := withPONumber(httptest.NewRequest(http.MethodPut, "/api/v1/purchase_orders/26OD0001", bytes.NewReader(payload)), "26OD0001")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.lastUpdate.Status == nil || *svc.lastUpdate.Status != "completed" {
		t.Fatal("expected status update to reach the service")
	}
	want := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	if svc.lastUpdate.ActualDeliveryDate == nil || !svc.lastUpdate.ActualDeliveryDate.Equal(want) {
		t.Fatalf("expected actual delivery date %v got %v", want, svc.lastUpdate.ActualDeliveryDate)
	}
}

func TestPOAcknowledgeAlreadyAcknowledged(t *testing.T) {
	svc := &stubPOService{err: pkgerrors.New(pkgerrors.CodeValidation, "purchase order already acknowledged")}
	handler := POAcknowledge(svc, nil)

	req := withPONumber(httptest.NewRequest(http.MethodPost, "/api/v1/purchase_orders/26OD0001/acknowledge", nil), "26OD0001")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}

	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Message != "purchase order already acknowledged" {
		t.Fatalf("unexpected message %q", envelope.Error.Message)
	}
}

func TestPOListForwardsFilters(t *testing.T) {
	svc := &stubPOService{listResult: &purchaseorder.POListResult{}}
	handler := POList(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/purchase_orders?vendor_code=26VM001&status=pending", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.lastFilter.VendorCode != "26VM001" || svc.lastFilter.Status != "pending" {
		t.Fatalf("expected filters to reach service got %+v", svc.lastFilter)
	}
}

func TestPODeleteNotFound(t *testing.T) {
	svc := &stubPOService{err: pkgerrors.New(pkgerrors.CodeNotFound, "purchase order not found")}
	handler := PODelete(svc, nil)

	req := withPONumber(httptest.NewRequest(http.MethodDelete, "/api/v1/purchase_orders/26OD9999", nil), "26OD9999")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

package routes

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/arjunpatil/vendortrack-backend/internal/auth"
	purchaseorder "github.com/arjunpatil/vendortrack-backend/internal/purchaseorders"
	vendor "github.com/arjunpatil/vendortrack-backend/internal/vendors"
	pkgauth "github.com/arjunpatil/vendortrack-backend/pkg/auth"
	"github.com/arjunpatil/vendortrack-backend/pkg/config"
	"github.com/arjunpatil/vendortrack-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAuthService) Refresh(ctx context.Context, req auth.RefreshRequest) (*auth.TokenPair, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAuthService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.RegisterResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

type stubVendorService struct{}

func (stubVendorService) Create(ctx context.Context, input vendor.CreateVendorInput) (*vendor.VendorDTO, error) {
	return &vendor.VendorDTO{VendorCode: "26VM001"}, nil
}

func (stubVendorService) Get(ctx context.Context, code string) (*vendor.VendorDTO, error) {
	return &vendor.VendorDTO{VendorCode: code}, nil
}

func (stubVendorService) List(ctx context.Context, params pagination.Params) (*vendor.VendorListResult, error) {
	return &vendor.VendorListResult{}, nil
}

func (stubVendorService) Update(ctx context.Context, code string, input vendor.UpdateVendorInput) (*vendor.VendorDTO, error) {
	return &vendor.VendorDTO{VendorCode: code}, nil
}

func (stubVendorService) Delete(ctx context.Context, code string) error {
	return nil
}

func (stubVendorService) Performance(ctx context.Context, code string) (*vendor.PerformanceDTO, error) {
	return &vendor.PerformanceDTO{}, nil
}

func (stubVendorService) History(ctx context.Context, code string, limit int) ([]vendor.SnapshotDTO, error) {
	return nil, nil
}

type stubPOService struct{}

func (stubPOService) Create(ctx context.Context, input purchaseorder.CreatePOInput) (*purchaseorder.PurchaseOrderDTO, error) {
	return &purchaseorder.PurchaseOrderDTO{PONumber: "26OD0001"}, nil
}

func (stubPOService) Get(ctx context.Context, number string) (*purchaseorder.PurchaseOrderDTO, error) {
	return &purchaseorder.PurchaseOrderDTO{PONumber: number}, nil
}

func (stubPOService) List(ctx context.Context, filter purchaseorder.ListFilter, params pagination.Params) (*purchaseorder.POListResult, error) {
	return &purchaseorder.POListResult{}, nil
}

func (stubPOService) Update(ctx context.Context, number string, input purchaseorder.UpdatePOInput) (*purchaseorder.PurchaseOrderDTO, error) {
	return &purchaseorder.PurchaseOrderDTO{PONumber: number}, nil
}

func (stubPOService) Delete(ctx context.Context, number string) error {
	return nil
}

func (stubPOService) Acknowledge(ctx context.Context, number string) (*purchaseorder.PurchaseOrderDTO, error) {
	return &purchaseorder.PurchaseOrderDTO{PONumber: number}, nil
}

func testConfig(env string) *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: env, Port: "8080"},
		JWT: config.JWTConfig{Secret: "router-secret", Issuer: "vendortrack", ExpirationMinutes: 30},
	}
}

func newTestRouter(env string) http.Handler {
	cfg := testConfig(env)
	return NewRouter(cfg, nil, stubPinger{}, stubPinger{}, stubSessionChecker{}, stubAuthService{}, stubVendorService{}, stubPOService{})
}

func bearerToken(t *testing.T, cfg config.JWTConfig) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg, time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Email:  "buyer@example.com",
		JTI:    uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveUnauthenticated(t *testing.T) {
	router := newTestRouter("development")

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

func TestVendorRoutesRequireAuth(t *testing.T) {
	router := newTestRouter("development")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/vendors", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestVendorRoutesAcceptValidToken(t *testing.T) {
	cfg := testConfig("development")
	router := NewRouter(cfg, nil, stubPinger{}, stubPinger{}, stubSessionChecker{}, stubAuthService{}, stubVendorService{}, stubPOService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/vendors/26VM001/performance", nil)
	req.Header.Set("Authorization", "Bearer "+bearerToken(t, cfg.JWT))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

func TestPORoutesAcceptValidToken(t *testing.T) {
	cfg := testConfig("development")
	router := NewRouter(cfg, nil, stubPinger{}, stubPinger{}, stubSessionChecker{}, stubAuthService{}, stubVendorService{}, stubPOService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/purchase_orders/26OD0001/acknowledge", nil)
	req.Header.Set("Authorization", "Bearer "+bearerToken(t, cfg.JWT))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

func TestRegisterHiddenInProduction(t *testing.T) {
	router := newTestRouter("production")

	req := httptest.NewRequest(http.MethodPost, "/api/token/register", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound && rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected register to be unmounted in production, got %d", rec.Code)
	}
}

func TestTokenRouteMounted(t *testing.T) {
	router := newTestRouter("development")

	req := httptest.NewRequest(http.MethodPost, "/api/token", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// Empty body fails validation, which proves the handler is wired.
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

package purchaseorder

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/arjunpatil/vendortrack-backend/internal/performance"
	vendor "github.com/arjunpatil/vendortrack-backend/internal/vendors"
	"github.com/arjunpatil/vendortrack-backend/pkg/db"
	"github.com/arjunpatil/vendortrack-backend/pkg/db/models"
	"github.com/arjunpatil/vendortrack-backend/pkg/enums"
	pkgerrors "github.com/arjunpatil/vendortrack-backend/pkg/errors"
	"github.com/arjunpatil/vendortrack-backend/pkg/pagination"
	"github.com/arjunpatil/vendortrack-backend/pkg/types"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	dsn := "file:po_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Vendor{}, &models.PurchaseOrder{}, &models.HistoricalPerformance{}))

	engine, err := performance.NewEngine(performance.NewRepository(conn))
	require.NoError(t, err)
	svc, err := NewService(NewRepository(conn), vendor.NewRepository(conn), engine, db.NewFromConn(conn))
	require.NoError(t, err)
	return svc, conn
}

func mustCreateVendor(t *testing.T, conn *gorm.DB, code string) {
	t.Helper()
	require.NoError(t, conn.Create(&models.Vendor{
		VendorCode:     code,
		Name:           "Vendor " + code,
		ContactDetails: "ops@example.com",
		Address:        "1 Supply Rd",
	}).Error)
}

func vendorMetrics(t *testing.T, conn *gorm.DB, code string) *models.Vendor {
	t.Helper()
	var row models.Vendor
	require.NoError(t, conn.First(&row, "vendor_code = ?", code).Error)
	return &row
}

func TestCreateGeneratesNumberAndRunsEngine(t *testing.T) {
	svc, conn := newTestService(t)
	mustCreateVendor(t, conn, "26VM001")
	ctx := context.Background()

	orderDate := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	expected := orderDate.Add(7 * 24 * time.Hour)
	actual := orderDate.Add(5 * 24 * time.Hour)

	created, err := svc.Create(ctx, CreatePOInput{
		VendorCode:           "26VM001",
		OrderDate:            &orderDate,
		ExpectedDeliveryDate: &expected,
		ActualDeliveryDate:   &actual,
		Items:                types.LineItems{{"sku": "BOLT-01", "qty": 40}},
		Quantity:             40,
		Status:               "completed",
	})
	require.NoError(t, err)
	assert.Equal(t, time.Now().UTC().Format("06")+"OD0001", created.PONumber)
	assert.Equal(t, "completed", created.Status)

	metrics := vendorMetrics(t, conn, "26VM001")
	assert.InDelta(t, 100.0, metrics.OnTimeDeliveryRate, 0.001)
	assert.InDelta(t, 100.0, metrics.FulfillmentRate, 0.001)
}

func TestCreateRetriesWhenGeneratedNumberCollides(t *testing.T) {
	svc, conn := newTestService(t)
	mustCreateVendor(t, conn, "26VM001")
	ctx := context.Background()

	require.NoError(t, conn.Create(&models.PurchaseOrder{
		PONumber:   "26OD0777",
		VendorCode: "26VM001",
		OrderDate:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Quantity:   1,
		Status:     enums.OrderStatusPending,
	}).Error)

	// First allocation hands out an occupied number, as if a concurrent create
	// won the race between the sequence read and the insert.
	impl := svc.(*service)
	stock := impl.nextNumber
	calls := 0
	impl.nextNumber = func(ctx context.Context, tx *gorm.DB, now time.Time) (string, error) {
		calls++
		if calls == 1 {
			return "26OD0777", nil
		}
		return stock(ctx, tx, now)
	}

	created, err := svc.Create(ctx, CreatePOInput{
		VendorCode: "26VM001",
		Quantity:   2,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, time.Now().UTC().Format("06")+"OD0778", created.PONumber)

	var count int64
	require.NoError(t, conn.Model(&models.PurchaseOrder{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestCreateRejectsUnknownVendor(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), CreatePOInput{
		VendorCode: "26VM404",
		Quantity:   1,
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCreateRejectsDeliveryBeforeOrderDate(t *testing.T) {
	svc, conn := newTestService(t)
	mustCreateVendor(t, conn, "26VM001")

	orderDate := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	actual := orderDate.Add(-24 * time.Hour)

	_, err := svc.Create(context.Background(), CreatePOInput{
		VendorCode:         "26VM001",
		OrderDate:          &orderDate,
		ActualDeliveryDate: &actual,
		Quantity:           1,
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	var count int64
	require.NoError(t, conn.Model(&models.PurchaseOrder{}).Count(&count).Error)
	assert.Zero(t, count, "validation failure must not persist a row")
}

func TestAcknowledgeStampsExactlyOnce(t *testing.T) {
	svc, conn := newTestService(t)
	mustCreateVendor(t, conn, "26VM001")
	ctx := context.Background()

	issue := time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC)
	created, err := svc.Create(ctx, CreatePOInput{
		VendorCode: "26VM001",
		IssueDate:  &issue,
		Quantity:   3,
	})
	require.NoError(t, err)

	acked, err := svc.Acknowledge(ctx, created.PONumber)
	require.NoError(t, err)
	require.NotNil(t, acked.AcknowledgmentDate)
	firstStamp := *acked.AcknowledgmentDate

	// Engine recomputed response time from the stamped window.
	metrics := vendorMetrics(t, conn, "26VM001")
	assert.Greater(t, metrics.AverageResponseTime, 0.0)

	_, err = svc.Acknowledge(ctx, created.PONumber)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	reloaded, err := svc.Get(ctx, created.PONumber)
	require.NoError(t, err)
	require.NotNil(t, reloaded.AcknowledgmentDate)
	assert.True(t, reloaded.AcknowledgmentDate.Equal(firstStamp))
}

func TestUpdateToCompletedMovesOnTimeRate(t *testing.T) {
	svc, conn := newTestService(t)
	mustCreateVendor(t, conn, "26VM001")
	ctx := context.Background()

	orderDate := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	expected := orderDate.Add(7 * 24 * time.Hour)

	created, err := svc.Create(ctx, CreatePOInput{
		VendorCode:           "26VM001",
		OrderDate:            &orderDate,
		ExpectedDeliveryDate: &expected,
		Quantity:             5,
	})
	require.NoError(t, err)
	assert.Zero(t, vendorMetrics(t, conn, "26VM001").OnTimeDeliveryRate)

	late := expected.Add(48 * time.Hour)
	status := "completed"
	rating := 4.0
	_, err = svc.Update(ctx, created.PONumber, UpdatePOInput{
		ActualDeliveryDate: &late,
		Status:             &status,
		QualityRating:      &rating,
	})
	require.NoError(t, err)

	metrics := vendorMetrics(t, conn, "26VM001")
	assert.Zero(t, metrics.OnTimeDeliveryRate)
	assert.InDelta(t, 4.0, metrics.QualityRatingAvg, 0.001)
}

func TestDeleteRefreshesMetrics(t *testing.T) {
	svc, conn := newTestService(t)
	mustCreateVendor(t, conn, "26VM001")
	ctx := context.Background()

	orderDate := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	created, err := svc.Create(ctx, CreatePOInput{
		VendorCode: "26VM001",
		OrderDate:  &orderDate,
		Quantity:   2,
		Status:     "completed",
	})
	require.NoError(t, err)
	assert.InDelta(t, 100.0, vendorMetrics(t, conn, "26VM001").FulfillmentRate, 0.001)

	require.NoError(t, svc.Delete(ctx, created.PONumber))
	assert.Zero(t, vendorMetrics(t, conn, "26VM001").FulfillmentRate)

	_, err = svc.Get(ctx, created.PONumber)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestListFiltersByVendor(t *testing.T) {
	svc, conn := newTestService(t)
	mustCreateVendor(t, conn, "26VM001")
	mustCreateVendor(t, conn, "26VM002")
	ctx := context.Background()

	for _, code := range []string{"26VM001", "26VM001", "26VM002"} {
		_, err := svc.Create(ctx, CreatePOInput{VendorCode: code, Quantity: 1})
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, ListFilter{VendorCode: "26VM001"}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.PurchaseOrders, 2)
	for _, po := range page.PurchaseOrders {
		assert.Equal(t, "26VM001", po.VendorCode)
	}

	all, err := svc.List(ctx, ListFilter{}, pagination.Params{})
	require.NoError(t, err)
	assert.Len(t, all.PurchaseOrders, 3)
}

func TestListRejectsInvalidStatusFilter(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.List(context.Background(), ListFilter{Status: "shipped"}, pagination.Params{})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestStatusFilterMatchesEnum(t *testing.T) {
	svc, conn := newTestService(t)
	mustCreateVendor(t, conn, "26VM001")
	ctx := context.Background()

	_, err := svc.Create(ctx, CreatePOInput{VendorCode: "26VM001", Quantity: 1, Status: enums.OrderStatusCanceled.String()})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreatePOInput{VendorCode: "26VM001", Quantity: 1})
	require.NoError(t, err)

	page, err := svc.List(ctx, ListFilter{Status: "canceled"}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.PurchaseOrders, 1)
	assert.Equal(t, "canceled", page.PurchaseOrders[0].Status)
}

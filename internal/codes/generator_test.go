package codes

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/arjunpatil/vendortrack-backend/pkg/db/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:codes_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Vendor{}, &models.PurchaseOrder{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestNextVendorCodeStartsAtOne(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	code, err := NextVendorCode(context.Background(), db, now)
	require.NoError(t, err)
	assert.Equal(t, "26VM001", code)
}

func TestNextVendorCodeIncrementsPastMax(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	for _, existing := range []string{"26VM001", "26VM004", "26VM003"} {
		require.NoError(t, db.Create(&models.Vendor{
			VendorCode:     existing,
			Name:           "Vendor " + existing,
			ContactDetails: "ops@example.com",
			Address:        "1 Supply Rd",
		}).Error)
	}

	code, err := NextVendorCode(context.Background(), db, now)
	require.NoError(t, err)
	assert.Equal(t, "26VM005", code)
}

func TestNextVendorCodeContinuesAcrossYears(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.Create(&models.Vendor{
		VendorCode:     "25VM017",
		Name:           "Legacy Vendor",
		ContactDetails: "ops@example.com",
		Address:        "1 Supply Rd",
	}).Error)

	code, err := NextVendorCode(context.Background(), db, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "26VM018", code)
}

func TestNextVendorCodeSkipsNonNumericSuffixes(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	for _, existing := range []string{"26VM003", "26VM00A"} {
		require.NoError(t, db.Create(&models.Vendor{
			VendorCode:     existing,
			Name:           "Vendor " + existing,
			ContactDetails: "ops@example.com",
			Address:        "1 Supply Rd",
		}).Error)
	}

	code, err := NextVendorCode(context.Background(), db, now)
	require.NoError(t, err)
	assert.Equal(t, "26VM004", code)
}

func TestNextVendorCodeGrowsBeyondPadding(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, db.Create(&models.Vendor{
		VendorCode:     "26VM999",
		Name:           "Big Vendor",
		ContactDetails: "ops@example.com",
		Address:        "1 Supply Rd",
	}).Error)

	code, err := NextVendorCode(context.Background(), db, now)
	require.NoError(t, err)
	assert.Equal(t, "26VM1000", code)
}

func TestNextPONumberUsesFourDigitPadding(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	number, err := NextPONumber(context.Background(), db, now)
	require.NoError(t, err)
	assert.Equal(t, "26OD0001", number)

	require.NoError(t, db.Create(&models.Vendor{
		VendorCode:     "26VM001",
		Name:           "Vendor",
		ContactDetails: "ops@example.com",
		Address:        "1 Supply Rd",
	}).Error)
	require.NoError(t, db.Create(&models.PurchaseOrder{
		PONumber:   "26OD0041",
		VendorCode: "26VM001",
		OrderDate:  now,
		Quantity:   3,
		Status:     "pending",
	}).Error)

	number, err = NextPONumber(context.Background(), db, now)
	require.NoError(t, err)
	assert.Equal(t, "26OD0042", number)
}

package codes

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"
)

const (
	vendorCodeTag = "VM"
	poNumberTag   = "OD"

	vendorSeqWidth = 3
	poSeqWidth     = 4
)

// NextVendorCode returns the next vendor code, e.g. "26VM007". The year prefix
// reflects the clock but the sequence continues across years, so 26VM042 in
// December is followed by 27VM043 in January. Callers must run it inside the
// same transaction as the insert so the unique constraint catches concurrent
// allocations.
func NextVendorCode(ctx context.Context, tx *gorm.DB, now time.Time) (string, error) {
	seq, err := nextSequence(ctx, tx, "vendors", "vendor_code", vendorCodeTag)
	if err != nil {
		return "", fmt.Errorf("next vendor code: %w", err)
	}
	return format(yearPrefix(now)+vendorCodeTag, seq, vendorSeqWidth), nil
}

// NextPONumber returns the next purchase order number, e.g. "26OD0042".
func NextPONumber(ctx context.Context, tx *gorm.DB, now time.Time) (string, error) {
	seq, err := nextSequence(ctx, tx, "purchase_orders", "po_number", poNumberTag)
	if err != nil {
		return "", fmt.Errorf("next po number: %w", err)
	}
	return format(yearPrefix(now)+poNumberTag, seq, poSeqWidth), nil
}

// nextSequence reads the highest numeric suffix among identifiers carrying the
// tag and returns it plus one. Suffixes are compared numerically, not lexically,
// so sequences survive growing past their padded width. Identifiers with a
// non-numeric suffix, which callers may supply themselves, are skipped rather
// than aborting generation.
func nextSequence(ctx context.Context, tx *gorm.DB, table, column, tag string) (int, error) {
	var ids []string
	if err := tx.WithContext(ctx).Table(table).
		Where(fmt.Sprintf("%s LIKE ?", column), "__"+tag+"%").
		Pluck(column, &ids).Error; err != nil {
		return 0, err
	}

	max := 0
	suffixAt := len(tag) + 2
	for _, id := range ids {
		seq, err := strconv.Atoi(id[suffixAt:])
		if err != nil || seq <= max {
			continue
		}
		max = seq
	}
	return max + 1, nil
}

func format(prefix string, seq, width int) string {
	return fmt.Sprintf("%s%0*d", prefix, width, seq)
}

func yearPrefix(now time.Time) string {
	return now.UTC().Format("06")
}

package vendor

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
	pkgerrors "github.com/arjunpatil/vendortrack-backend/pkg/errors"
	"github.com/arjunpatil/vendortrack-backend/pkg/pagination"
)

// codeAllocationAttempts bounds retries when a generated vendor code loses the
// unique-constraint race against a concurrent creation.
const codeAllocationAttempts = 3

// Service exposes vendor management operations.
type Service interface {
	Create(ctx context.Context, input CreateVendorInput) (*VendorDTO, error)
	Get(ctx context.Context, code string) (*VendorDTO, error)
	List(ctx context.Context, params pagination.Params) (*VendorListResult, error)
	Update(ctx context.Context, code string, input UpdateVendorInput) (*VendorDTO, error)
	Delete(ctx context.Context, code string) error
	Performance(ctx context.Context, code string) (*PerformanceDTO, error)
	History(ctx context.Context, code string, limit int) ([]SnapshotDTO, error)
}

// CreateVendorInput holds the validated payload to create a vendor.
type CreateVendorInput struct {
	VendorCode     string
	Name           string
	ContactDetails string
	Address        string
}

// UpdateVendorInput holds optional mutation values for a vendor. The code and
// metric fields are not client-writable.
type UpdateVendorInput struct {
	Name           *string
	ContactDetails *string
	Address        *string
}

// codeGenerator allocates the next vendor code inside the caller's transaction.
type codeGenerator func(ctx context.Context, tx *gorm.DB, now time.Time) (string, error)

// service implements the vendor service.
type service struct {
	repo     *Repository
	perfRepo *performance.Repository
	dbClient *db.Client
	nextCode codeGenerator
}

// NewService constructs a vendor service instance.
func NewService(repo *Repository, perfRepo *performance.Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("vendor repository required")
	}
	if perfRepo == nil {
		return nil, fmt.Errorf("performance repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{
		repo:     repo,
		perfRepo: perfRepo,
		dbClient: dbClient,
		nextCode: codes.NextVendorCode,
	}, nil
}

// Create inserts a vendor, generating its code when the caller did not supply
// one. Generated codes retry on unique-constraint conflicts so concurrent
// creations never hand out duplicates.
func (s *service) Create(ctx context.Context, input CreateVendorInput) (*VendorDTO, error) {
	supplied := strings.TrimSpace(input.VendorCode)

	var created *models.Vendor
	attempts := codeAllocationAttempts
	if supplied != "" {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
			code := supplied
			if code == "" {
				generated, err := s.nextCode(ctx, tx, time.Now())
				if err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "generate vendor code")
				}
				code = generated
			}

			vendor := &models.Vendor{
				VendorCode:     code,
				Name:           input.Name,
				ContactDetails: input.ContactDetails,
				Address:        input.Address,
			}
			row, err := s.repo.WithTx(tx).Create(ctx, vendor)
			if err != nil {
				return err
			}
			created = row
			return nil
		})
		if err == nil {
			return NewVendorDTO(created), nil
		}
		lastErr = err
		if !db.IsUniqueViolation(err, "vendors_pkey") {
			break
		}
	}

	if db.IsUniqueViolation(lastErr, "vendors_pkey") {
		if supplied != "" {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("vendor %s already exists", supplied))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, lastErr, "vendor code allocation kept colliding")
	}
	if typed := pkgerrors.As(lastErr); typed != nil {
		return nil, lastErr
	}
	return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, lastErr, "db: insert vendor")
}

// Get loads a single vendor.
func (s *service) Get(ctx context.Context, code string) (*VendorDTO, error) {
	vendor, err := s.loadVendor(ctx, code)
	if err != nil {
		return nil, err
	}
	return NewVendorDTO(vendor), nil
}

// List returns one page of vendors.
func (s *service) List(ctx context.Context, params pagination.Params) (*VendorListResult, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.List(ctx, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list vendors")
	}

	result := &VendorListResult{Vendors: make([]VendorDTO, 0, len(rows))}
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	for i := range rows {
		result.Vendors = append(result.Vendors, *NewVendorDTO(&rows[i]))
	}
	if hasMore {
		last := rows[len(rows)-1]
		next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, Key: last.VendorCode})
		result.NextCursor = &next
	}
	return result, nil
}

// Update mutates the vendor's descriptive fields. Metrics stay untouched.
func (s *service) Update(ctx context.Context, code string, input UpdateVendorInput) (*VendorDTO, error) {
	vendor, err := s.loadVendor(ctx, code)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		vendor.Name = *input.Name
	}
	if input.ContactDetails != nil {
		vendor.ContactDetails = *input.ContactDetails
	}
	if input.Address != nil {
		vendor.Address = *input.Address
	}

	updated, err := s.repo.Update(ctx, vendor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update vendor")
	}
	return NewVendorDTO(updated), nil
}

// Delete removes the vendor and everything hanging off it in one transaction.
func (s *service) Delete(ctx context.Context, code string) error {
	if _, err := s.loadVendor(ctx, code); err != nil {
		return err
	}
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).DeleteCascade(ctx, code)
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete vendor")
	}
	return nil
}

// Performance returns only the four rolling metrics.
func (s *service) Performance(ctx context.Context, code string) (*PerformanceDTO, error) {
	vendor, err := s.loadVendor(ctx, code)
	if err != nil {
		return nil, err
	}
	return NewPerformanceDTO(vendor), nil
}

// History returns the vendor's snapshot records, newest first.
func (s *service) History(ctx context.Context, code string, limit int) ([]SnapshotDTO, error) {
	if _, err := s.loadVendor(ctx, code); err != nil {
		return nil, err
	}
	rows, err := s.perfRepo.ListSnapshots(ctx, code, pagination.NormalizeLimit(limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list snapshots")
	}
	out := make([]SnapshotDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewSnapshotDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) loadVendor(ctx context.Context, code string) (*models.Vendor, error) {
	vendor, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load vendor")
	}
	return vendor, nil
}

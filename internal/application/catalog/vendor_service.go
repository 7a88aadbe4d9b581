package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/stockroom/backend/internal/domain/catalog"
	"github.com/stockroom/backend/internal/domain/shared"
)

// VendorService manages suppliers and their lead times
type VendorService struct {
	vendorRepo catalog.VendorRepository
}

// NewVendorService creates a new VendorService
func NewVendorService(vendorRepo catalog.VendorRepository) *VendorService {
	return &VendorService{vendorRepo: vendorRepo}
}

// Create adds a vendor to the store
func (s *VendorService) Create(ctx context.Context, storeID uuid.UUID, req CreateVendorRequest) (*VendorResponse, error) {
	vendor, err := catalog.NewVendor(storeID, req.Name, req.ContactName, req.Phone, req.LeadTimeDays)
	if err != nil {
		return nil, err
	}

	if err := s.vendorRepo.Save(ctx, vendor); err != nil {
		return nil, err
	}

	response := ToVendorResponse(vendor)
	return &response, nil
}

// Get returns one vendor by ID
func (s *VendorService) Get(ctx context.Context, storeID, vendorID uuid.UUID) (*VendorResponse, error) {
	vendor, err := s.vendorRepo.FindByIDForStore(ctx, storeID, vendorID)
	if err != nil {
		return nil, err
	}
	response := ToVendorResponse(vendor)
	return &response, nil
}

// List returns vendors for the store
func (s *VendorService) List(ctx context.Context, storeID uuid.UUID, filter ListFilter) ([]VendorResponse, error) {
	filter = filter.normalized()
	vendors, err := s.vendorRepo.FindAllForStore(ctx, storeID, shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	})
	if err != nil {
		return nil, err
	}
	return ToVendorResponses(vendors), nil
}

// UpdateLeadTime changes a vendor's default production lead time
func (s *VendorService) UpdateLeadTime(ctx context.Context, storeID, vendorID uuid.UUID, days int) (*VendorResponse, error) {
	vendor, err := s.vendorRepo.FindByIDForStore(ctx, storeID, vendorID)
	if err != nil {
		return nil, err
	}

	if err := vendor.UpdateLeadTime(days); err != nil {
		return nil, err
	}

	if err := s.vendorRepo.Save(ctx, vendor); err != nil {
		return nil, err
	}

	response := ToVendorResponse(vendor)
	return &response, nil
}

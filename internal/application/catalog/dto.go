package catalog

import (
	"github.com/google/uuid"

	"github.com/stockroom/backend/internal/domain/catalog"
)

// ProductResponse is the read model of a catalog product
type ProductResponse struct {
	ID             uuid.UUID `json:"id"`
	VendorID       uuid.UUID `json:"vendor_id"`
	Name           string    `json:"name"`
	Code           string    `json:"code"`
	Unit           string    `json:"unit"`
	CostPrice      int64     `json:"cost_price"`
	RetailPrice    int64     `json:"retail_price"`
	WholesalePrice int64     `json:"wholesale_price"`
	Activated      bool      `json:"activated"`
	NeedsReview    bool      `json:"needs_review"`
	Version        int       `json:"version"`
}

// ToProductResponse converts a product to its response
func ToProductResponse(product *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:             product.ID,
		VendorID:       product.VendorID,
		Name:           product.Name,
		Code:           product.Code,
		Unit:           product.Unit,
		CostPrice:      product.CostPrice,
		RetailPrice:    product.RetailPrice,
		WholesalePrice: product.WholesalePrice,
		Activated:      product.Activated,
		NeedsReview:    product.NeedsReview,
		Version:        product.Version,
	}
}

// ToProductResponses converts a list of products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, ToProductResponse(&products[i]))
	}
	return responses
}

// VendorResponse is the read model of a vendor
type VendorResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	ContactName  string    `json:"contact_name"`
	Phone        string    `json:"phone"`
	LeadTimeDays int       `json:"lead_time_days"`
	Activated    bool      `json:"activated"`
	Version      int       `json:"version"`
}

// ToVendorResponse converts a vendor to its response
func ToVendorResponse(vendor *catalog.Vendor) VendorResponse {
	return VendorResponse{
		ID:           vendor.ID,
		Name:         vendor.Name,
		ContactName:  vendor.ContactName,
		Phone:        vendor.Phone,
		LeadTimeDays: vendor.LeadTimeDays,
		Activated:    vendor.Activated,
		Version:      vendor.Version,
	}
}

// ToVendorResponses converts a list of vendors
func ToVendorResponses(vendors []catalog.Vendor) []VendorResponse {
	responses := make([]VendorResponse, 0, len(vendors))
	for i := range vendors {
		responses = append(responses, ToVendorResponse(&vendors[i]))
	}
	return responses
}

// StoreResponse is the read model of a store
type StoreResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	Activated bool      `json:"activated"`
	Version   int       `json:"version"`
}

// ToStoreResponse converts a store to its response
func ToStoreResponse(store *catalog.Store) StoreResponse {
	return StoreResponse{
		ID:        store.ID,
		Name:      store.Name,
		Address:   store.Address,
		Phone:     store.Phone,
		Activated: store.Activated,
		Version:   store.Version,
	}
}

// ToStoreResponses converts a list of stores
func ToStoreResponses(stores []catalog.Store) []StoreResponse {
	responses := make([]StoreResponse, 0, len(stores))
	for i := range stores {
		responses = append(responses, ToStoreResponse(&stores[i]))
	}
	return responses
}

// CreateStoreRequest creates a store
type CreateStoreRequest struct {
	Name    string
	Address string
	Phone   string
}

// CreateProductRequest creates a catalog product
type CreateProductRequest struct {
	VendorID       uuid.UUID
	Name           string
	Code           string
	Unit           string
	CostPrice      int64
	RetailPrice    int64
	WholesalePrice int64
}

// ReviewProductRequest completes the review of a placeholder product
type ReviewProductRequest struct {
	Name           string
	CostPrice      int64
	RetailPrice    int64
	WholesalePrice int64
}

// CreateVendorRequest creates a vendor
type CreateVendorRequest struct {
	Name         string
	ContactName  string
	Phone        string
	LeadTimeDays int
}

// ListFilter controls catalog listing
type ListFilter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
}

func (f ListFilter) normalized() ListFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 20
	}
	return f
}

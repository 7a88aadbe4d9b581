package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/stockroom/backend/internal/domain/catalog"
	"github.com/stockroom/backend/internal/domain/shared"
)

// StoreService manages the operating units everything else is scoped
// to. Stores are created by operators, never provisioned automatically.
type StoreService struct {
	storeRepo catalog.StoreRepository
}

// NewStoreService creates a store application service
func NewStoreService(storeRepo catalog.StoreRepository) *StoreService {
	return &StoreService{storeRepo: storeRepo}
}

// Create registers a new store
func (s *StoreService) Create(ctx context.Context, req CreateStoreRequest) (*StoreResponse, error) {
	store, err := catalog.NewStore(req.Name, req.Address, req.Phone)
	if err != nil {
		return nil, err
	}
	if err := s.storeRepo.Save(ctx, store); err != nil {
		return nil, err
	}
	resp := ToStoreResponse(store)
	return &resp, nil
}

// Get returns one store by ID
func (s *StoreService) Get(ctx context.Context, id uuid.UUID) (*StoreResponse, error) {
	store, err := s.storeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToStoreResponse(store)
	return &resp, nil
}

// List returns stores matching the filter
func (s *StoreService) List(ctx context.Context, filter ListFilter) ([]StoreResponse, error) {
	f := filter.normalized()
	stores, err := s.storeRepo.FindAll(ctx, shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
		Search:   f.Search,
	})
	if err != nil {
		return nil, err
	}
	return ToStoreResponses(stores), nil
}

// Deactivate marks a store inactive. Existing documents keep their
// store reference; only new activity stops.
func (s *StoreService) Deactivate(ctx context.Context, id uuid.UUID) (*StoreResponse, error) {
	store, err := s.storeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	store.Deactivate()
	if err := s.storeRepo.Save(ctx, store); err != nil {
		return nil, err
	}
	resp := ToStoreResponse(store)
	return &resp, nil
}

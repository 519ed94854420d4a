package inventory

import (
	"context"
	"errors"

	"github.com/erp/billing/internal/domain/inventory"
	"github.com/erp/billing/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InventoryItemService handles catalog maintenance. Edits here change what
// future documents snapshot; documents already created keep their values.
type InventoryItemService struct {
	itemRepo inventory.InventoryItemRepository
	logger   *zap.Logger
}

// NewInventoryItemService creates a new InventoryItemService
func NewInventoryItemService(itemRepo inventory.InventoryItemRepository, logger *zap.Logger) *InventoryItemService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryItemService{
		itemRepo: itemRepo,
		logger:   logger,
	}
}

// Create creates a new inventory item
func (s *InventoryItemService) Create(ctx context.Context, req InventoryItemRequest) (*InventoryItemResponse, error) {
	details, err := req.toDetails()
	if err != nil {
		return nil, err
	}
	item, err := inventory.NewInventoryItem(details)
	if err != nil {
		return nil, err
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	response := ToInventoryItemResponse(item)
	return &response, nil
}

// Update replaces the editable fields of an inventory item
func (s *InventoryItemService) Update(ctx context.Context, id uuid.UUID, req InventoryItemRequest) (*InventoryItemResponse, error) {
	item, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	details, err := req.toDetails()
	if err != nil {
		return nil, err
	}
	oldPrice := item.UnitPrice
	if err := item.Update(details); err != nil {
		return nil, err
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	if !oldPrice.Equals(item.UnitPrice) {
		s.logger.Info("Inventory item price changed",
			zap.String("item_id", item.ID.String()),
			zap.Int64("old_price", oldPrice.Minor()),
			zap.Int64("new_price", item.UnitPrice.Minor()))
	}

	response := ToInventoryItemResponse(item)
	return &response, nil
}

// GetByID retrieves an inventory item by ID
func (s *InventoryItemService) GetByID(ctx context.Context, id uuid.UUID) (*InventoryItemResponse, error) {
	item, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToInventoryItemResponse(item)
	return &response, nil
}

// Delete removes an inventory item. Line items that reference it keep their
// snapshot values.
func (s *InventoryItemService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	return s.itemRepo.Delete(ctx, id)
}

// List retrieves inventory items with pagination
func (s *InventoryItemService) List(ctx context.Context, filter InventoryItemListFilter) ([]InventoryItemResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	domainFilter.Search = filter.Search
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}

	items, err := s.itemRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.itemRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToInventoryItemResponses(items), total, nil
}

func (s *InventoryItemService) find(ctx context.Context, id uuid.UUID) (*inventory.InventoryItem, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, inventory.ErrItemNotFound.WithDetail("id", id.String())
		}
		return nil, err
	}
	return item, nil
}

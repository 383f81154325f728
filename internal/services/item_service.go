package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"compras/internal/core"
	"compras/internal/lifecycle"
	"compras/internal/repo"
)

// SyncPublisher publishes ledger export messages for purchased items.
type SyncPublisher interface {
	PublishItemSync(ctx context.Context, itemID string) error
}

// ItemService orchestrates item operations: repository writes, lifecycle
// transitions and the async ledger export.
type ItemService struct {
	items     repo.ItemRepository
	publisher SyncPublisher
	now       func() time.Time
}

func NewItemService(items repo.ItemRepository, publisher SyncPublisher) *ItemService {
	return &ItemService{
		items:     items,
		publisher: publisher,
		now:       time.Now,
	}
}

// List returns all items of a profile, newest first.
func (s *ItemService) List(ctx context.Context, profileID string) ([]core.Item, error) {
	return s.items.ListByProfile(ctx, profileID)
}

// Get returns a single item by id.
func (s *ItemService) Get(ctx context.Context, id string) (core.Item, error) {
	return s.items.Get(ctx, id)
}

// Create adds a new pending item to the profile named in the draft.
func (s *ItemService) Create(ctx context.Context, draft core.ItemDraft) (core.Item, error) {
	it, err := s.items.Create(ctx, draft)
	if err != nil {
		return core.Item{}, fmt.Errorf("create item: %w", err)
	}
	return it, nil
}

// Update edits the item fields present in upd.
func (s *ItemService) Update(ctx context.Context, id string, upd core.ItemUpdate) (core.Item, error) {
	if err := s.items.Update(ctx, id, upd); err != nil {
		return core.Item{}, fmt.Errorf("update item: %w", err)
	}
	return s.items.Get(ctx, id)
}

// ChangeStatus moves an item through its lifecycle. Purchases trigger an
// async ledger export; a failed publish never fails the status change,
// the catch-up scan picks the item up later.
func (s *ItemService) ChangeStatus(ctx context.Context, id string, target core.Status, priceInput string) (core.Item, error) {
	it, err := s.items.Get(ctx, id)
	if err != nil {
		return core.Item{}, err
	}

	change, err := lifecycle.Transition(it.Status, target, priceInput, s.now())
	if err != nil {
		return core.Item{}, err
	}

	if err := s.items.ApplyStatus(ctx, id, change); err != nil {
		return core.Item{}, fmt.Errorf("apply status: %w", err)
	}

	if change.Status == core.StatusPurchased {
		s.publishSync(ctx, id)
	}

	return s.items.Get(ctx, id)
}

// Delete removes an item permanently.
func (s *ItemService) Delete(ctx context.Context, id string) error {
	if err := s.items.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

func (s *ItemService) publishSync(ctx context.Context, id string) {
	if s.publisher == nil {
		slog.DebugContext(ctx, "Sync publisher not available, skipping ledger message", "item_id", id)
		return
	}
	if err := s.publisher.PublishItemSync(ctx, id); err != nil {
		// Item is already persisted with sync_status pending.
		slog.ErrorContext(ctx, "Failed to publish ledger sync message", "item_id", id, "error", err)
	}
}

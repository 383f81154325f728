package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"compras/internal/core"
)

// MemoryItems keeps the items collection in process memory. It backs the
// "memory" data backend and doubles as the storage test double.
type MemoryItems struct {
	mu    sync.Mutex
	items map[string]core.Item

	// Now is the clock used for timestamp stamping; tests may override it.
	Now func() time.Time
}

var _ ItemRepository = (*MemoryItems)(nil)

func NewMemoryItems() *MemoryItems {
	return &MemoryItems{
		items: make(map[string]core.Item),
		Now:   time.Now,
	}
}

func (s *MemoryItems) ListByProfile(_ context.Context, profileID string) ([]core.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Item, 0)
	for _, it := range s.items {
		if it.ProfileID == profileID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		// Deterministic order for equal creation times
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *MemoryItems) Get(_ context.Context, id string) (core.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[id]
	if !ok {
		return core.Item{}, core.ErrNotFound
	}
	return it, nil
}

func (s *MemoryItems) Create(_ context.Context, draft core.ItemDraft) (core.Item, error) {
	draft = draft.Normalize()
	if err := draft.Validate(); err != nil {
		return core.Item{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.Now()
	it := core.Item{
		ID:             uuid.NewString(),
		ProfileID:      draft.ProfileID,
		Name:           draft.Name,
		Category:       draft.Category,
		Quantity:       draft.Quantity,
		EstimatedPrice: draft.EstimatedPrice,
		Priority:       draft.Priority,
		Notes:          draft.Notes,
		Status:         core.StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.items[it.ID] = it
	return it, nil
}

func (s *MemoryItems) Update(_ context.Context, id string, upd core.ItemUpdate) error {
	if err := upd.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[id]
	if !ok {
		return core.ErrNotFound
	}
	if upd.Name != nil {
		it.Name = *upd.Name
	}
	if upd.Category != nil {
		it.Category = *upd.Category
	}
	if upd.Quantity != nil {
		it.Quantity = *upd.Quantity
	}
	if upd.EstimatedPrice != nil {
		it.EstimatedPrice = *upd.EstimatedPrice
	}
	if upd.Priority != nil {
		it.Priority = *upd.Priority
	}
	if upd.Notes != nil {
		it.Notes = *upd.Notes
	}
	it.UpdatedAt = s.Now()
	s.items[id] = it
	return nil
}

func (s *MemoryItems) ApplyStatus(_ context.Context, id string, change core.StatusChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[id]
	if !ok {
		return core.ErrNotFound
	}
	it.Status = change.Status
	it.UpdatedAt = change.UpdatedAt
	if change.FinalPrice != nil {
		price := *change.FinalPrice
		it.FinalPrice = &price
	}
	if change.PurchasedAt.IsSet() {
		it.PurchasedAt = change.PurchasedAt
	}
	s.items[id] = it
	return nil
}

func (s *MemoryItems) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, id)
	return nil
}

// MemoryProfiles keeps the profiles collection in process memory.
type MemoryProfiles struct {
	mu       sync.Mutex
	profiles map[string]core.Profile

	Now func() time.Time
}

var _ ProfileRepository = (*MemoryProfiles)(nil)

func NewMemoryProfiles() *MemoryProfiles {
	return &MemoryProfiles{
		profiles: make(map[string]core.Profile),
		Now:      time.Now,
	}
}

func (s *MemoryProfiles) ListAll(_ context.Context) ([]core.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *MemoryProfiles) Get(_ context.Context, id string) (core.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[id]
	if !ok {
		return core.Profile{}, core.ErrNotFound
	}
	return p, nil
}

func (s *MemoryProfiles) Create(_ context.Context, draft core.ProfileDraft) (core.Profile, error) {
	draft = draft.Normalize()
	if err := draft.Validate(); err != nil {
		return core.Profile{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := core.Profile{
		ID:        uuid.NewString(),
		Name:      draft.Name,
		Color:     draft.Color,
		CreatedAt: s.Now(),
	}
	s.profiles[p.ID] = p
	return p, nil
}

func (s *MemoryProfiles) Update(_ context.Context, id string, upd core.ProfileUpdate) error {
	if err := upd.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[id]
	if !ok {
		return core.ErrNotFound
	}
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Color != nil {
		p.Color = *upd.Color
	}
	s.profiles[id] = p
	return nil
}

func (s *MemoryProfiles) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// No cascade: items keep referencing the deleted profile.
	delete(s.profiles, id)
	return nil
}

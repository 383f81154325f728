package core

import (
	"errors"
	"strings"
	"time"
)

const (
	StatusPending   Status = "pending"
	StatusPurchased Status = "purchased"
	StatusDiscarded Status = "discarded"
)

const (
	CategoryMercado  Category = "Mercado"
	CategoryFarmacia Category = "Farmácia"
	CategoryCasa     Category = "Casa"
	CategoryLazer    Category = "Lazer"
	CategoryOutros   Category = "Outros"
)

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type (
	Status   string
	Category string
	Priority string

	// Timestamp is an explicit optional timestamp. The zero value means
	// "absent"; storage adapters normalize their native representations
	// (NULL columns, raw values) into this type so the rest of the code
	// never inspects storage-specific shapes.
	Timestamp struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Profile is the identity under which items are scoped.
	Profile struct {
		ID        string
		Name      string
		Color     string
		CreatedAt time.Time
	}

	// Item is a shopping-list entry owned by exactly one profile.
	// FinalPrice is set only when the item is purchased; PurchasedAt is
	// stamped on the pending → purchased transition and deliberately kept
	// when the item is restored (views key off Status, not PurchasedAt).
	Item struct {
		ID             string
		ProfileID      string
		Name           string
		Category       Category
		Quantity       int
		EstimatedPrice Money
		FinalPrice     *Money
		Priority       Priority
		Notes          string
		Status         Status
		CreatedAt      time.Time
		UpdatedAt      time.Time
		PurchasedAt    Timestamp
	}

	// ItemDraft carries the user-supplied fields for a new item. The
	// repository assigns the id, forces status=pending and stamps the
	// creation timestamps.
	ItemDraft struct {
		ProfileID      string
		Name           string
		Category       Category
		Quantity       int
		EstimatedPrice Money
		Priority       Priority
		Notes          string
	}

	// ItemUpdate is a partial field edit; nil fields are left untouched.
	ItemUpdate struct {
		Name           *string
		Category       *Category
		Quantity       *int
		EstimatedPrice *Money
		Priority       *Priority
		Notes          *string
	}

	// ProfileDraft carries the user-supplied fields for a new profile.
	ProfileDraft struct {
		Name  string
		Color string
	}

	// ProfileUpdate is a partial profile edit; nil fields are left untouched.
	ProfileUpdate struct {
		Name  *string
		Color *string
	}

	// StatusChange is the persisted outcome of a lifecycle transition.
	// FinalPrice and PurchasedAt are populated only for purchases.
	StatusChange struct {
		Status      Status
		FinalPrice  *Money
		PurchasedAt Timestamp
		UpdatedAt   time.Time
	}
)

var (
	ErrNotFound          = errors.New("not found")
	ErrEmptyName         = errors.New("empty name")
	ErrInvalidCategory   = errors.New("invalid category")
	ErrInvalidPriority   = errors.New("invalid priority")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrUnknownStatus     = errors.New("unknown status")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// NewTimestamp wraps a concrete time into a set Timestamp.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// IsSet reports whether the timestamp carries a value.
func (t Timestamp) IsSet() bool {
	return !t.IsZero()
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPurchased, StatusDiscarded:
		return true
	default:
		return false
	}
}

func (c Category) IsValid() bool {
	switch c {
	case CategoryMercado, CategoryFarmacia, CategoryCasa, CategoryLazer, CategoryOutros:
		return true
	default:
		return false
	}
}

// Categories returns the fixed category set in display order.
func Categories() []Category {
	return []Category{CategoryMercado, CategoryFarmacia, CategoryCasa, CategoryLazer, CategoryOutros}
}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// Rank maps a priority to its sort position in the fixed order
// {high, medium, low}. Unrecognized priorities sort as low.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// Normalize applies draft defaults: quantity 1, priority medium, trimmed
// name and notes.
func (d ItemDraft) Normalize() ItemDraft {
	d.Name = strings.TrimSpace(d.Name)
	d.Notes = strings.TrimSpace(d.Notes)
	if d.Quantity <= 0 {
		d.Quantity = 1
	}
	if d.Priority == "" {
		d.Priority = PriorityMedium
	}
	return d
}

func (d ItemDraft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrEmptyName
	}
	if !d.Category.IsValid() {
		return ErrInvalidCategory
	}
	if d.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if d.EstimatedPrice.Cents < 0 {
		return ErrInvalidAmount
	}
	if !d.Priority.IsValid() {
		return ErrInvalidPriority
	}
	return nil
}

func (u ItemUpdate) Validate() error {
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return ErrEmptyName
	}
	if u.Category != nil && !u.Category.IsValid() {
		return ErrInvalidCategory
	}
	if u.Quantity != nil && *u.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if u.EstimatedPrice != nil && u.EstimatedPrice.Cents < 0 {
		return ErrInvalidAmount
	}
	if u.Priority != nil && !u.Priority.IsValid() {
		return ErrInvalidPriority
	}
	return nil
}

func (d ProfileDraft) Normalize() ProfileDraft {
	d.Name = strings.TrimSpace(d.Name)
	d.Color = strings.TrimSpace(d.Color)
	return d
}

func (d ProfileDraft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (u ProfileUpdate) Validate() error {
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

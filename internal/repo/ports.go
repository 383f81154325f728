// Package repo declares the repository ports the core consumes and an
// in-memory implementation used by tests and the "memory" backend.
package repo

import (
	"context"

	"compras/internal/core"
)

type (
	// ItemRepository is the narrow interface through which the core talks
	// to the items collection. Implementations assign ids, stamp
	// timestamps and translate their native errors into core sentinels.
	ItemRepository interface {
		// ListByProfile returns the profile's items ordered by creation
		// time descending.
		ListByProfile(ctx context.Context, profileID string) ([]core.Item, error)

		// Get returns a single item by id, or core.ErrNotFound.
		Get(ctx context.Context, id string) (core.Item, error)

		// Create assigns an id, forces status=pending and stamps
		// CreatedAt = UpdatedAt = now.
		Create(ctx context.Context, draft core.ItemDraft) (core.Item, error)

		// Update merges the non-nil fields and stamps UpdatedAt.
		Update(ctx context.Context, id string, upd core.ItemUpdate) error

		// ApplyStatus persists a lifecycle transition.
		ApplyStatus(ctx context.Context, id string, change core.StatusChange) error

		// Delete removes the item permanently.
		Delete(ctx context.Context, id string) error
	}

	// ProfileRepository manages the profiles collection. Ordering is
	// computed client-side; profile deletion never cascades to items.
	ProfileRepository interface {
		// ListAll returns every profile ordered by creation time descending.
		ListAll(ctx context.Context) ([]core.Profile, error)

		// Get returns a single profile by id, or core.ErrNotFound.
		Get(ctx context.Context, id string) (core.Profile, error)

		// Create assigns an id and stamps CreatedAt.
		Create(ctx context.Context, draft core.ProfileDraft) (core.Profile, error)

		// Update merges the non-nil fields.
		Update(ctx context.Context, id string, upd core.ProfileUpdate) error

		// Delete removes the profile. Items referencing it are left in
		// place (orphaned), so this never fails on a non-empty profile.
		Delete(ctx context.Context, id string) error
	}
)

package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"compras/internal/core"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "compras.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestItemRepo_CreateAndGet(t *testing.T) {
	db := openTestDB(t)
	items := db.Items()
	ctx := context.Background()

	created, err := items.Create(ctx, core.ItemDraft{
		ProfileID:      "p1",
		Name:           "Arroz",
		Category:       core.CategoryMercado,
		Quantity:       2,
		EstimatedPrice: core.Money{Cents: 1850},
		Priority:       core.PriorityHigh,
		Notes:          "5kg",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := items.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Arroz" || got.Category != core.CategoryMercado || got.Quantity != 2 {
		t.Errorf("got %+v", got)
	}
	if got.EstimatedPrice.Cents != 1850 {
		t.Errorf("EstimatedPrice = %d, want 1850", got.EstimatedPrice.Cents)
	}
	if got.Status != core.StatusPending {
		t.Errorf("Status = %q, want pending", got.Status)
	}
	if got.FinalPrice != nil {
		t.Errorf("FinalPrice = %v, want nil", got.FinalPrice)
	}
	if got.PurchasedAt.IsSet() {
		t.Error("PurchasedAt must be absent on a new item")
	}
}

func TestItemRepo_GetMissing(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.Items().Get(context.Background(), "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestItemRepo_ListByProfileOrder(t *testing.T) {
	db := openTestDB(t)
	items := db.Items()
	ctx := context.Background()

	clock := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	items.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	first, _ := items.Create(ctx, core.ItemDraft{ProfileID: "p1", Name: "Leite", Category: core.CategoryMercado})
	second, _ := items.Create(ctx, core.ItemDraft{ProfileID: "p1", Name: "Café", Category: core.CategoryMercado})
	items.Create(ctx, core.ItemDraft{ProfileID: "p2", Name: "Sabão", Category: core.CategoryCasa})

	got, err := items.ListByProfile(ctx, "p1")
	if err != nil {
		t.Fatalf("ListByProfile: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != second.ID || got[1].ID != first.ID {
		t.Error("items not ordered newest first")
	}
}

func TestItemRepo_ApplyStatusSyncFlow(t *testing.T) {
	db := openTestDB(t)
	items := db.Items()
	ctx := context.Background()

	it, _ := items.Create(ctx, core.ItemDraft{ProfileID: "p1", Name: "Arroz", Category: core.CategoryMercado})

	now := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)
	err := items.ApplyStatus(ctx, it.ID, core.StatusChange{
		Status:      core.StatusPurchased,
		FinalPrice:  &core.Money{Cents: 1850},
		PurchasedAt: core.NewTimestamp(now),
		UpdatedAt:   now,
	})
	if err != nil {
		t.Fatalf("ApplyStatus: %v", err)
	}

	got, _ := items.Get(ctx, it.ID)
	if got.Status != core.StatusPurchased {
		t.Errorf("Status = %q, want purchased", got.Status)
	}
	if got.FinalPrice == nil || got.FinalPrice.Cents != 1850 {
		t.Errorf("FinalPrice = %v, want 1850", got.FinalPrice)
	}
	if !got.PurchasedAt.IsSet() || !got.PurchasedAt.Time.Equal(now) {
		t.Errorf("PurchasedAt = %v, want %v", got.PurchasedAt, now)
	}

	// The purchase queues the item for ledger export.
	pending, err := items.ListPendingSync(ctx, 10)
	if err != nil {
		t.Fatalf("ListPendingSync: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != it.ID {
		t.Fatalf("pending = %d items, want the purchased one", len(pending))
	}

	if err := items.MarkSynced(ctx, it.ID); err != nil {
		t.Fatalf("MarkSynced: %v", err)
	}
	pending, _ = items.ListPendingSync(ctx, 10)
	if len(pending) != 0 {
		t.Errorf("pending after MarkSynced = %d, want 0", len(pending))
	}
}

func TestItemRepo_RestoreLeavesSyncQueue(t *testing.T) {
	db := openTestDB(t)
	items := db.Items()
	ctx := context.Background()

	it, _ := items.Create(ctx, core.ItemDraft{ProfileID: "p1", Name: "Arroz", Category: core.CategoryMercado})

	now := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)
	items.ApplyStatus(ctx, it.ID, core.StatusChange{
		Status:      core.StatusPurchased,
		FinalPrice:  &core.Money{Cents: 100},
		PurchasedAt: core.NewTimestamp(now),
		UpdatedAt:   now,
	})
	items.ApplyStatus(ctx, it.ID, core.StatusChange{
		Status:    core.StatusPending,
		UpdatedAt: now.Add(time.Hour),
	})

	got, _ := items.Get(ctx, it.ID)
	if got.Status != core.StatusPending {
		t.Errorf("Status = %q, want pending", got.Status)
	}
	if !got.PurchasedAt.IsSet() {
		t.Error("restore must keep purchased_at")
	}

	// Only purchased items are export candidates; the restored item drops
	// out of the queue even though its sync_status is still pending.
	pending, _ := items.ListPendingSync(ctx, 10)
	if len(pending) != 0 {
		t.Errorf("pending = %d, want 0 after restore", len(pending))
	}
}

func TestItemRepo_MarkSyncError(t *testing.T) {
	db := openTestDB(t)
	items := db.Items()
	ctx := context.Background()

	it, _ := items.Create(ctx, core.ItemDraft{ProfileID: "p1", Name: "Arroz", Category: core.CategoryMercado})
	now := time.Now()
	items.ApplyStatus(ctx, it.ID, core.StatusChange{
		Status:      core.StatusPurchased,
		FinalPrice:  &core.Money{Cents: 100},
		PurchasedAt: core.NewTimestamp(now),
		UpdatedAt:   now,
	})

	if err := items.MarkSyncError(ctx, it.ID); err != nil {
		t.Fatalf("MarkSyncError: %v", err)
	}
	pending, _ := items.ListPendingSync(ctx, 10)
	if len(pending) != 0 {
		t.Errorf("errored item still in pending queue")
	}
}

func TestItemRepo_UpdateMissing(t *testing.T) {
	db := openTestDB(t)
	name := "x"
	err := db.Items().Update(context.Background(), "missing", core.ItemUpdate{Name: &name})
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestProfileRepo_CRUD(t *testing.T) {
	db := openTestDB(t)
	profiles := db.Profiles()
	ctx := context.Background()

	p, err := profiles.Create(ctx, core.ProfileDraft{Name: "Ana", Color: "#ff8800"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := profiles.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Ana" || got.Color != "#ff8800" {
		t.Errorf("got %+v", got)
	}

	name := "Ana Paula"
	if err := profiles.Update(ctx, p.ID, core.ProfileUpdate{Name: &name}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ = profiles.Get(ctx, p.ID)
	if got.Name != name {
		t.Errorf("Name = %q, want %q", got.Name, name)
	}

	if err := profiles.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := profiles.Get(ctx, p.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Get after delete = %v, want ErrNotFound", err)
	}
}

func TestProfileRepo_DeleteDoesNotCascade(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	p, _ := db.Profiles().Create(ctx, core.ProfileDraft{Name: "Ana"})
	it, _ := db.Items().Create(ctx, core.ItemDraft{ProfileID: p.ID, Name: "Arroz", Category: core.CategoryMercado})

	if err := db.Profiles().Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	// The item survives as an orphan under the old profile id.
	got, err := db.Items().Get(ctx, it.ID)
	if err != nil {
		t.Fatalf("Get item after profile delete: %v", err)
	}
	if got.ProfileID != p.ID {
		t.Errorf("ProfileID = %q, want %q", got.ProfileID, p.ID)
	}
}

func TestTimestampRoundTrip(t *testing.T) {
	ts := time.Date(2026, time.March, 15, 10, 30, 0, 123000000, time.UTC)
	if got := fromMillis(toMillis(ts)); !got.Equal(ts) {
		t.Errorf("round trip = %v, want %v", got, ts)
	}

	if v := toNullMillis(core.Timestamp{}); v.Valid {
		t.Error("absent timestamp must map to NULL")
	}
	if got := fromNullMillis(toNullMillis(core.NewTimestamp(ts))); !got.Time.Equal(ts) {
		t.Errorf("null round trip = %v, want %v", got.Time, ts)
	}
}

package lifecycle

import (
	"testing"
	"time"

	"compras/internal/core"
)

func TestMonthNavigation(t *testing.T) {
	jan := Month{Year: 2026, Month: time.January}

	if got := jan.Prev(); got != (Month{Year: 2025, Month: time.December}) {
		t.Errorf("Prev() = %v, want Dec 2025", got)
	}
	if got := jan.Next(); got != (Month{Year: 2026, Month: time.February}) {
		t.Errorf("Next() = %v, want Feb 2026", got)
	}

	dec := Month{Year: 2025, Month: time.December}
	if got := dec.Next(); got != jan {
		t.Errorf("Next() = %v, want Jan 2026", got)
	}
}

func TestMonthContains(t *testing.T) {
	m := Month{Year: 2026, Month: time.March}

	if !m.Contains(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("first instant of the month must match")
	}
	if !m.Contains(time.Date(2026, time.March, 31, 23, 59, 59, 0, time.UTC)) {
		t.Error("last day of the month must match")
	}
	if m.Contains(time.Date(2026, time.February, 28, 12, 0, 0, 0, time.UTC)) {
		t.Error("previous month must not match")
	}
	if m.Contains(time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("next month must not match")
	}
	if m.Contains(time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)) {
		t.Error("same month in another year must not match")
	}
}

func TestBacklog(t *testing.T) {
	items := []core.Item{
		{ID: "a", Status: core.StatusPending},
		{ID: "b", Status: core.StatusPurchased},
		{ID: "c", Status: core.StatusPending, PurchasedAt: core.NewTimestamp(time.Now())},
		{ID: "d", Status: core.StatusDiscarded},
	}

	got := Backlog(items)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	// Restored items belong to the backlog regardless of PurchasedAt.
	if got[0].ID != "a" || got[1].ID != "c" {
		t.Errorf("backlog ids = %s, %s, want a, c", got[0].ID, got[1].ID)
	}
}

func TestApplyFilter(t *testing.T) {
	backlog := []core.Item{
		{ID: "leite", Name: "Leite", Category: core.CategoryMercado, Priority: core.PriorityLow},
		{ID: "arroz", Name: "Arroz", Category: core.CategoryMercado, Priority: core.PriorityHigh},
		{ID: "sabao", Name: "Sabão", Category: core.CategoryCasa, Priority: core.PriorityMedium},
		{ID: "feijao", Name: "Feijão", Category: core.CategoryMercado, Priority: core.PriorityHigh},
	}

	t.Run("sorts by priority, stable within rank", func(t *testing.T) {
		got := ApplyFilter(backlog, Filter{})
		wantOrder := []string{"arroz", "feijao", "sabao", "leite"}
		if len(got) != len(wantOrder) {
			t.Fatalf("len = %d, want %d", len(got), len(wantOrder))
		}
		for i, id := range wantOrder {
			if got[i].ID != id {
				t.Errorf("position %d = %s, want %s", i, got[i].ID, id)
			}
		}
	})

	t.Run("category filter", func(t *testing.T) {
		got := ApplyFilter(backlog, Filter{Category: core.CategoryCasa})
		if len(got) != 1 || got[0].ID != "sabao" {
			t.Errorf("got %d items, want only sabao", len(got))
		}
	})

	t.Run("all matches everything", func(t *testing.T) {
		got := ApplyFilter(backlog, Filter{Category: "all", Priority: "all"})
		if len(got) != len(backlog) {
			t.Errorf("len = %d, want %d", len(got), len(backlog))
		}
	})

	t.Run("search is case-insensitive substring", func(t *testing.T) {
		got := ApplyFilter(backlog, Filter{Search: "aRr"})
		if len(got) != 1 || got[0].ID != "arroz" {
			t.Errorf("got %d items, want only arroz", len(got))
		}
	})

	t.Run("combined filters", func(t *testing.T) {
		got := ApplyFilter(backlog, Filter{Category: core.CategoryMercado, Priority: core.PriorityHigh})
		if len(got) != 2 {
			t.Errorf("len = %d, want 2", len(got))
		}
	})
}

func TestMonthlyLedger(t *testing.T) {
	march := Month{Year: 2026, Month: time.March}
	inMarch := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	inFeb := time.Date(2026, time.February, 10, 12, 0, 0, 0, time.UTC)

	items := []core.Item{
		{ID: "p1", Status: core.StatusPurchased, PurchasedAt: core.NewTimestamp(inMarch)},
		{ID: "p2", Status: core.StatusPurchased, PurchasedAt: core.NewTimestamp(inFeb)},
		{ID: "d1", Status: core.StatusDiscarded, UpdatedAt: inMarch},
		{ID: "pending", Status: core.StatusPending, UpdatedAt: inMarch},
		// Purchased in February but edited in March: the purchase date wins.
		{ID: "p3", Status: core.StatusPurchased, PurchasedAt: core.NewTimestamp(inFeb), UpdatedAt: inMarch},
	}

	t.Run("all", func(t *testing.T) {
		got := MonthlyLedger(items, march, LedgerAll)
		if len(got) != 2 {
			t.Fatalf("len = %d, want 2", len(got))
		}
		if got[0].ID != "p1" || got[1].ID != "d1" {
			t.Errorf("ids = %s, %s, want p1, d1", got[0].ID, got[1].ID)
		}
	})

	t.Run("purchased only", func(t *testing.T) {
		got := MonthlyLedger(items, march, LedgerPurchased)
		if len(got) != 1 || got[0].ID != "p1" {
			t.Errorf("got %d items, want only p1", len(got))
		}
	})

	t.Run("discarded only", func(t *testing.T) {
		got := MonthlyLedger(items, march, LedgerDiscarded)
		if len(got) != 1 || got[0].ID != "d1" {
			t.Errorf("got %d items, want only d1", len(got))
		}
	})

	t.Run("adjacent months do not leak", func(t *testing.T) {
		feb := MonthlyLedger(items, march.Prev(), LedgerAll)
		for _, it := range feb {
			if it.ID == "p1" || it.ID == "d1" {
				t.Errorf("march item %s leaked into february", it.ID)
			}
		}
	})
}

func TestRecentActivity(t *testing.T) {
	base := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	ledger := []core.Item{
		{ID: "old", UpdatedAt: base},
		{ID: "newest", UpdatedAt: base.Add(48 * time.Hour)},
		{ID: "mid", UpdatedAt: base.Add(24 * time.Hour)},
	}

	got := RecentActivity(ledger, 2)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != "newest" || got[1].ID != "mid" {
		t.Errorf("order = %s, %s, want newest, mid", got[0].ID, got[1].ID)
	}

	// The input slice must not be reordered.
	if ledger[0].ID != "old" {
		t.Error("RecentActivity mutated its input")
	}

	if got := RecentActivity(ledger, 10); len(got) != 3 {
		t.Errorf("oversized limit: len = %d, want 3", len(got))
	}
}

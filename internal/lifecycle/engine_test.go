package lifecycle

import (
	"errors"
	"testing"
	"time"

	"compras/internal/core"
)

func TestTransition(t *testing.T) {
	now := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)

	t.Run("purchase stamps price and timestamp", func(t *testing.T) {
		change, err := Transition(core.StatusPending, core.StatusPurchased, "18,50", now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if change.Status != core.StatusPurchased {
			t.Errorf("Status = %q, want purchased", change.Status)
		}
		if change.FinalPrice == nil || change.FinalPrice.Cents != 1850 {
			t.Errorf("FinalPrice = %v, want 1850 cents", change.FinalPrice)
		}
		if !change.PurchasedAt.IsSet() || !change.PurchasedAt.Time.Equal(now) {
			t.Errorf("PurchasedAt = %v, want %v", change.PurchasedAt, now)
		}
		if !change.UpdatedAt.Equal(now) {
			t.Errorf("UpdatedAt = %v, want %v", change.UpdatedAt, now)
		}
	})

	t.Run("purchase with unparsable price defaults to zero", func(t *testing.T) {
		change, err := Transition(core.StatusPending, core.StatusPurchased, "abc", now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if change.FinalPrice == nil || change.FinalPrice.Cents != 0 {
			t.Errorf("FinalPrice = %v, want explicit zero", change.FinalPrice)
		}
	})

	t.Run("purchase with empty price is explicit zero", func(t *testing.T) {
		change, err := Transition(core.StatusPending, core.StatusPurchased, "", now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if change.FinalPrice == nil || change.FinalPrice.Cents != 0 {
			t.Errorf("FinalPrice = %v, want explicit zero", change.FinalPrice)
		}
	})

	t.Run("discard carries no price", func(t *testing.T) {
		change, err := Transition(core.StatusPending, core.StatusDiscarded, "18,50", now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if change.FinalPrice != nil {
			t.Errorf("FinalPrice = %v, want nil", change.FinalPrice)
		}
		if change.PurchasedAt.IsSet() {
			t.Error("PurchasedAt should not be stamped on discard")
		}
	})

	t.Run("restore from purchased", func(t *testing.T) {
		change, err := Transition(core.StatusPurchased, core.StatusPending, "", now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if change.Status != core.StatusPending {
			t.Errorf("Status = %q, want pending", change.Status)
		}
		// Restore never resets PurchasedAt; the change simply leaves it out.
		if change.PurchasedAt.IsSet() {
			t.Error("restore should not carry a PurchasedAt")
		}
	})

	t.Run("restore from discarded", func(t *testing.T) {
		if _, err := Transition(core.StatusDiscarded, core.StatusPending, "", now); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("invalid transitions", func(t *testing.T) {
		cases := []struct{ from, to core.Status }{
			{core.StatusPurchased, core.StatusDiscarded},
			{core.StatusDiscarded, core.StatusPurchased},
			{core.StatusPending, core.StatusPending},
			{core.StatusPurchased, core.StatusPurchased},
		}
		for _, c := range cases {
			if _, err := Transition(c.from, c.to, "", now); !errors.Is(err, core.ErrInvalidTransition) {
				t.Errorf("%s -> %s: error = %v, want ErrInvalidTransition", c.from, c.to, err)
			}
		}
	})

	t.Run("unknown target status", func(t *testing.T) {
		if _, err := Transition(core.StatusPending, "bought", "", now); !errors.Is(err, core.ErrUnknownStatus) {
			t.Errorf("error = %v, want ErrUnknownStatus", err)
		}
	})
}

func TestEffectiveDate(t *testing.T) {
	purchased := time.Date(2026, time.January, 31, 23, 0, 0, 0, time.UTC)
	updated := time.Date(2026, time.February, 1, 1, 0, 0, 0, time.UTC)

	it := core.Item{UpdatedAt: updated, PurchasedAt: core.NewTimestamp(purchased)}
	if got := EffectiveDate(it); !got.Equal(purchased) {
		t.Errorf("EffectiveDate = %v, want PurchasedAt %v", got, purchased)
	}

	it.PurchasedAt = core.Timestamp{}
	if got := EffectiveDate(it); !got.Equal(updated) {
		t.Errorf("EffectiveDate = %v, want UpdatedAt %v", got, updated)
	}
}

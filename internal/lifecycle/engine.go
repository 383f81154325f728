// Package lifecycle owns the item state machine, the monthly bucketing
// rule and the aggregations every view is derived from.
package lifecycle

import (
	"fmt"
	"time"

	"compras/internal/core"
)

// Transition computes the StatusChange for moving an item from its current
// status to target. Allowed moves: pending → purchased|discarded, and
// purchased|discarded → pending (restore). Everything else is rejected.
//
// priceInput is only consulted for purchases: when it parses as a
// non-negative price it becomes the final price, otherwise the final price
// defaults to zero. Restores do not clear PurchasedAt; a later re-purchase
// simply overwrites it.
func Transition(current, target core.Status, priceInput string, now time.Time) (core.StatusChange, error) {
	if !target.IsValid() {
		return core.StatusChange{}, fmt.Errorf("transition to %q: %w", target, core.ErrUnknownStatus)
	}

	change := core.StatusChange{Status: target, UpdatedAt: now}

	switch {
	case current == core.StatusPending && target == core.StatusPurchased:
		cents, err := core.ParsePriceToCents(priceInput)
		if err != nil {
			cents = 0
		}
		change.FinalPrice = &core.Money{Cents: cents}
		change.PurchasedAt = core.NewTimestamp(now)
		return change, nil

	case current == core.StatusPending && target == core.StatusDiscarded:
		return change, nil

	case current != core.StatusPending && target == core.StatusPending:
		return change, nil

	default:
		return core.StatusChange{}, fmt.Errorf("%s → %s: %w", current, target, core.ErrInvalidTransition)
	}
}

// EffectiveDate resolves the timestamp used to assign a non-pending item to
// a calendar month: PurchasedAt when present, else UpdatedAt. Items with
// neither degrade to the zero time, which matches no real month.
func EffectiveDate(it core.Item) time.Time {
	if it.PurchasedAt.IsSet() {
		return it.PurchasedAt.Time
	}
	return it.UpdatedAt
}

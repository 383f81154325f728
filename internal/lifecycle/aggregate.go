package lifecycle

import "compras/internal/core"

// spendOf resolves the per-item spend contribution: final price when set,
// estimated price otherwise, times the quantity (minimum 1).
func spendOf(it core.Item) core.Money {
	price := it.EstimatedPrice
	if it.FinalPrice != nil {
		price = *it.FinalPrice
	}
	return price.Mul(it.Quantity)
}

// TotalSpent sums the spend contribution of every purchased item.
// Order-independent: plain commutative sum over the slice.
func TotalSpent(items []core.Item) core.Money {
	var total core.Money
	for _, it := range items {
		if it.Status == core.StatusPurchased {
			total = total.Add(spendOf(it))
		}
	}
	return total
}

// TotalEstimatedPending sums estimated price × quantity over pending items.
func TotalEstimatedPending(items []core.Item) core.Money {
	var total core.Money
	for _, it := range items {
		if it.Status == core.StatusPending {
			total = total.Add(it.EstimatedPrice.Mul(it.Quantity))
		}
	}
	return total
}

// CategoryCounts counts pending items per category. Categories with no
// pending items are omitted rather than zero-filled.
func CategoryCounts(items []core.Item) map[core.Category]int {
	counts := make(map[core.Category]int)
	for _, it := range items {
		if it.Status == core.StatusPending {
			counts[it.Category]++
		}
	}
	return counts
}

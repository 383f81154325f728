package lifecycle

import (
	"sort"
	"strings"
	"time"

	"compras/internal/core"
)

// Month identifies a calendar month; the day component is never part of
// month matching.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf extracts the calendar month of a timestamp.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// Prev shifts the selection back by exactly one calendar month.
func (m Month) Prev() Month {
	t := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	return MonthOf(t)
}

// Next shifts the selection forward by exactly one calendar month.
func (m Month) Next() Month {
	t := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return MonthOf(t)
}

// Contains reports whether t falls in this year+month.
func (m Month) Contains(t time.Time) bool {
	return t.Year() == m.Year && t.Month() == m.Month
}

// LedgerFilter narrows the monthly ledger by status.
type LedgerFilter string

const (
	LedgerAll       LedgerFilter = "all"
	LedgerPurchased LedgerFilter = "purchased"
	LedgerDiscarded LedgerFilter = "discarded"
)

func (f LedgerFilter) IsValid() bool {
	switch f {
	case LedgerAll, LedgerPurchased, LedgerDiscarded:
		return true
	default:
		return false
	}
}

// Filter narrows the backlog; zero values ("" / CategoryAll / PriorityAll)
// match everything.
type Filter struct {
	Category core.Category // empty or "all" matches every category
	Priority core.Priority // empty or "all" matches every priority
	Search   string        // case-insensitive substring match on the name
}

const filterAll = "all"

func (f Filter) matches(it core.Item) bool {
	if f.Category != "" && string(f.Category) != filterAll && it.Category != f.Category {
		return false
	}
	if f.Priority != "" && string(f.Priority) != filterAll && it.Priority != f.Priority {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(it.Name), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

// Backlog returns the pending items. It is a perpetual queue: month
// selection never applies here.
func Backlog(items []core.Item) []core.Item {
	out := make([]core.Item, 0, len(items))
	for _, it := range items {
		if it.Status == core.StatusPending {
			out = append(out, it)
		}
	}
	return out
}

// ApplyFilter narrows the backlog with the catalog filter and sorts the
// result by priority in the fixed order {high, medium, low}. The sort is
// stable: items with equal priority keep their incoming order.
func ApplyFilter(backlog []core.Item, f Filter) []core.Item {
	out := make([]core.Item, 0, len(backlog))
	for _, it := range backlog {
		if f.matches(it) {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority.Rank() < out[j].Priority.Rank()
	})
	return out
}

// MonthlyLedger returns the non-pending items whose effective date falls in
// the selected month, narrowed by the ledger filter.
func MonthlyLedger(items []core.Item, m Month, f LedgerFilter) []core.Item {
	out := make([]core.Item, 0)
	for _, it := range items {
		if it.Status == core.StatusPending {
			continue
		}
		if !m.Contains(EffectiveDate(it)) {
			continue
		}
		if f == LedgerPurchased && it.Status != core.StatusPurchased {
			continue
		}
		if f == LedgerDiscarded && it.Status != core.StatusDiscarded {
			continue
		}
		out = append(out, it)
	}
	return out
}

// RecentActivity returns the ledger sorted by UpdatedAt descending,
// truncated to the n most recent entries.
func RecentActivity(ledger []core.Item, n int) []core.Item {
	out := make([]core.Item, len(ledger))
	copy(out, ledger)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

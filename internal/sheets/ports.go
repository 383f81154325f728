package sheets

import (
	"context"

	"compras/internal/core"
)

// LedgerEntry is one exported row: a purchased item together with the
// profile it belongs to.
type LedgerEntry struct {
	Item    core.Item
	Profile core.Profile
}

// LedgerWriter appends purchased items to an external ledger.
type LedgerWriter interface {
	Append(ctx context.Context, entry LedgerEntry) (rowRef string, err error)
}

// Package worker exports purchased items to the Google Sheets ledger.
// The AMQP queue is the fast path; a periodic catch-up scan over
// sync_status covers lost messages and worker downtime.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"compras/internal/amqp"
	"compras/internal/core"
	"compras/internal/sheets"
	"compras/internal/storage"
)

// LedgerWorker consumes sync messages and appends the referenced items
// to the ledger spreadsheet.
type LedgerWorker struct {
	items     *storage.ItemRepo
	profiles  *storage.ProfileRepo
	ledger    sheets.LedgerWriter
	batchSize int

	mu           sync.Mutex
	profileNames map[string]core.Profile
}

func NewLedgerWorker(items *storage.ItemRepo, profiles *storage.ProfileRepo, ledger sheets.LedgerWriter, batchSize int) *LedgerWorker {
	return &LedgerWorker{
		items:        items,
		profiles:     profiles,
		ledger:       ledger,
		batchSize:    batchSize,
		profileNames: make(map[string]core.Profile),
	}
}

// HandleSyncMessage processes a single item sync message from AMQP
func (w *LedgerWorker) HandleSyncMessage(ctx context.Context, msg *amqp.ItemSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message", "item_id", msg.ItemID)

	it, err := w.items.Get(ctx, msg.ItemID)
	if errors.Is(err, core.ErrNotFound) {
		// Deleted between purchase and export; nothing to do.
		slog.WarnContext(ctx, "Item gone before ledger export", "item_id", msg.ItemID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get item from storage: %w", err)
	}

	if it.Status != core.StatusPurchased {
		// Restored to pending before the worker got to it.
		slog.InfoContext(ctx, "Item no longer purchased, skipping export",
			"item_id", it.ID, "status", string(it.Status))
		return nil
	}

	return w.exportItem(ctx, it)
}

// ProcessPendingSync exports any purchased items the queue missed.
func (w *LedgerWorker) ProcessPendingSync(ctx context.Context) error {
	pending, err := w.items.ListPendingSync(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list pending sync items: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending ledger exports", "count", len(pending))

	for _, it := range pending {
		if err := w.exportItem(ctx, it); err != nil {
			slog.ErrorContext(ctx, "Failed to export item", "item_id", it.ID, "error", err)
			continue
		}
	}

	return nil
}

// StartupSyncCheck drains the pending backlog once at worker startup,
// using a larger batch to recover from downtime.
func (w *LedgerWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.items.ListPendingSync(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("list pending sync items for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending ledger exports found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending ledger exports on startup", "count", len(pending))

	successCount := 0
	errorCount := 0
	for _, it := range pending {
		if err := w.exportItem(ctx, it); err != nil {
			slog.ErrorContext(ctx, "Failed to export item during startup", "item_id", it.ID, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", successCount,
		"errors", errorCount)

	return nil
}

func (w *LedgerWorker) exportItem(ctx context.Context, it core.Item) error {
	profile, err := w.profileOf(ctx, it.ProfileID)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("get profile: %w", err)
	}
	// Orphaned items still export, with an empty profile name.

	ref, err := w.ledger.Append(ctx, sheets.LedgerEntry{Item: it, Profile: profile})
	if err != nil {
		if markErr := w.items.MarkSyncError(ctx, it.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "item_id", it.ID, "error", markErr)
		}
		return fmt.Errorf("append to ledger: %w", err)
	}

	if err := w.items.MarkSynced(ctx, it.ID); err != nil {
		// The row is written; marking will be retried by the catch-up scan.
		slog.ErrorContext(ctx, "Failed to mark as synced", "item_id", it.ID, "error", err)
	}

	slog.InfoContext(ctx, "Exported item to ledger",
		"item_id", it.ID,
		"sheets_ref", ref,
		"name", it.Name)

	return nil
}

// profileOf memoizes profile lookups; names change rarely and the worker
// restarts often enough for staleness not to matter.
func (w *LedgerWorker) profileOf(ctx context.Context, id string) (core.Profile, error) {
	w.mu.Lock()
	p, ok := w.profileNames[id]
	w.mu.Unlock()
	if ok {
		return p, nil
	}

	p, err := w.profiles.Get(ctx, id)
	if err != nil {
		return core.Profile{}, err
	}

	w.mu.Lock()
	w.profileNames[id] = p
	w.mu.Unlock()
	return p, nil
}

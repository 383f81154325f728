package storage

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"compras/internal/core"
)

// ItemRepo implements repo.ItemRepository on SQLite.
type ItemRepo struct {
	db  *sql.DB
	now func() time.Time
}

const itemColumns = `id, profile_id, name, category, quantity, estimated_cents,
	final_cents, priority, notes, status, created_at, updated_at, purchased_at`

func (r *ItemRepo) ListByProfile(ctx context.Context, profileID string) ([]core.Item, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE profile_id = ? ORDER BY created_at DESC, id DESC`,
		profileID)
	if err != nil {
		return nil, wrap("list items", err)
	}
	defer rows.Close()

	var items []core.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, wrap("scan item", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list items", err)
	}
	return items, nil
}

func (r *ItemRepo) Get(ctx context.Context, id string) (core.Item, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Item{}, core.ErrNotFound
	}
	if err != nil {
		return core.Item{}, wrap("get item", err)
	}
	return it, nil
}

func (r *ItemRepo) Create(ctx context.Context, draft core.ItemDraft) (core.Item, error) {
	draft = draft.Normalize()
	if err := draft.Validate(); err != nil {
		return core.Item{}, err
	}

	now := r.now()
	it := core.Item{
		ID:             uuid.NewString(),
		ProfileID:      draft.ProfileID,
		Name:           draft.Name,
		Category:       draft.Category,
		Quantity:       draft.Quantity,
		EstimatedPrice: draft.EstimatedPrice,
		Priority:       draft.Priority,
		Notes:          draft.Notes,
		Status:         core.StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO items (id, profile_id, name, category, quantity, estimated_cents,
			priority, notes, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		it.ID, it.ProfileID, it.Name, string(it.Category), it.Quantity,
		it.EstimatedPrice.Cents, string(it.Priority), it.Notes, string(it.Status),
		toMillis(it.CreatedAt), toMillis(it.UpdatedAt))
	if err != nil {
		return core.Item{}, wrap("create item", err)
	}

	slog.InfoContext(ctx, "Item created",
		"id", it.ID,
		"profile_id", it.ProfileID,
		"name", it.Name,
		"category", string(it.Category))

	return it, nil
}

func (r *ItemRepo) Update(ctx context.Context, id string, upd core.ItemUpdate) error {
	if err := upd.Validate(); err != nil {
		return err
	}

	sets := []string{"updated_at = ?"}
	args := []any{toMillis(r.now())}
	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, strings.TrimSpace(*upd.Name))
	}
	if upd.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, string(*upd.Category))
	}
	if upd.Quantity != nil {
		sets = append(sets, "quantity = ?")
		args = append(args, *upd.Quantity)
	}
	if upd.EstimatedPrice != nil {
		sets = append(sets, "estimated_cents = ?")
		args = append(args, upd.EstimatedPrice.Cents)
	}
	if upd.Priority != nil {
		sets = append(sets, "priority = ?")
		args = append(args, string(*upd.Priority))
	}
	if upd.Notes != nil {
		sets = append(sets, "notes = ?")
		args = append(args, strings.TrimSpace(*upd.Notes))
	}
	args = append(args, id)

	res, err := r.db.ExecContext(ctx,
		`UPDATE items SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return wrap("update item", err)
	}
	return requireRow(res, "update item")
}

func (r *ItemRepo) ApplyStatus(ctx context.Context, id string, change core.StatusChange) error {
	sets := []string{"status = ?", "updated_at = ?"}
	args := []any{string(change.Status), toMillis(change.UpdatedAt)}
	if change.FinalPrice != nil {
		sets = append(sets, "final_cents = ?")
		args = append(args, change.FinalPrice.Cents)
	}
	if change.PurchasedAt.IsSet() {
		sets = append(sets, "purchased_at = ?")
		args = append(args, change.PurchasedAt.UnixMilli())
	}
	if change.Status == core.StatusPurchased {
		// Queue the purchase for ledger export
		sets = append(sets, "sync_status = 'pending'")
	}
	args = append(args, id)

	res, err := r.db.ExecContext(ctx,
		`UPDATE items SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return wrap("apply status", err)
	}
	if err := requireRow(res, "apply status"); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Item status applied",
		"id", id,
		"status", string(change.Status))
	return nil
}

func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id); err != nil {
		return wrap("delete item", err)
	}
	return nil
}

// ListPendingSync returns purchased items still waiting for ledger export.
// This backs the worker's catch-up pass when AMQP messages are lost.
func (r *ItemRepo) ListPendingSync(ctx context.Context, limit int) ([]core.Item, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items
		WHERE status = 'purchased' AND sync_status = 'pending'
		ORDER BY updated_at ASC LIMIT ?`, limit)
	if err != nil {
		return nil, wrap("list pending sync", err)
	}
	defer rows.Close()

	var items []core.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, wrap("scan item", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list pending sync", err)
	}
	return items, nil
}

// MarkSynced records a successful ledger export.
func (r *ItemRepo) MarkSynced(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE items SET sync_status = 'synced' WHERE id = ?`, id); err != nil {
		return wrap("mark synced", err)
	}
	return nil
}

// MarkSyncError records a permanently failed ledger export.
func (r *ItemRepo) MarkSyncError(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE items SET sync_status = 'error' WHERE id = ?`, id); err != nil {
		return wrap("mark sync error", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (core.Item, error) {
	var (
		it          core.Item
		category    string
		priority    string
		status      string
		created     int64
		updated     int64
		finalCents  sql.NullInt64
		purchasedAt sql.NullInt64
	)
	err := row.Scan(&it.ID, &it.ProfileID, &it.Name, &category, &it.Quantity,
		&it.EstimatedPrice.Cents, &finalCents, &priority, &it.Notes, &status,
		&created, &updated, &purchasedAt)
	if err != nil {
		return core.Item{}, err
	}
	it.Category = core.Category(category)
	it.Priority = core.Priority(priority)
	it.Status = core.Status(status)
	it.CreatedAt = fromMillis(created)
	it.UpdatedAt = fromMillis(updated)
	it.PurchasedAt = fromNullMillis(purchasedAt)
	if finalCents.Valid {
		it.FinalPrice = &core.Money{Cents: finalCents.Int64}
	}
	return it, nil
}

func requireRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return wrap(op, err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

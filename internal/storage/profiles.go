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

// ProfileRepo implements repo.ProfileRepository on SQLite.
type ProfileRepo struct {
	db  *sql.DB
	now func() time.Time
}

func (r *ProfileRepo) ListAll(ctx context.Context) ([]core.Profile, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, color, created_at FROM profiles ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, wrap("list profiles", err)
	}
	defer rows.Close()

	var profiles []core.Profile
	for rows.Next() {
		var (
			p       core.Profile
			created int64
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Color, &created); err != nil {
			return nil, wrap("scan profile", err)
		}
		p.CreatedAt = fromMillis(created)
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list profiles", err)
	}
	return profiles, nil
}

func (r *ProfileRepo) Get(ctx context.Context, id string) (core.Profile, error) {
	var (
		p       core.Profile
		created int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, color, created_at FROM profiles WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.Color, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Profile{}, core.ErrNotFound
	}
	if err != nil {
		return core.Profile{}, wrap("get profile", err)
	}
	p.CreatedAt = fromMillis(created)
	return p, nil
}

func (r *ProfileRepo) Create(ctx context.Context, draft core.ProfileDraft) (core.Profile, error) {
	draft = draft.Normalize()
	if err := draft.Validate(); err != nil {
		return core.Profile{}, err
	}

	p := core.Profile{
		ID:        uuid.NewString(),
		Name:      draft.Name,
		Color:     draft.Color,
		CreatedAt: r.now(),
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO profiles (id, name, color, created_at) VALUES (?, ?, ?, ?)`,
		p.ID, p.Name, p.Color, toMillis(p.CreatedAt))
	if err != nil {
		return core.Profile{}, wrap("create profile", err)
	}

	slog.InfoContext(ctx, "Profile created", "id", p.ID, "name", p.Name)
	return p, nil
}

func (r *ProfileRepo) Update(ctx context.Context, id string, upd core.ProfileUpdate) error {
	if err := upd.Validate(); err != nil {
		return err
	}

	sets := make([]string, 0, 2)
	args := make([]any, 0, 3)
	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, strings.TrimSpace(*upd.Name))
	}
	if upd.Color != nil {
		sets = append(sets, "color = ?")
		args = append(args, strings.TrimSpace(*upd.Color))
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)

	res, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return wrap("update profile", err)
	}
	return requireRow(res, "update profile")
}

// Delete removes the profile document only. Items referencing it become
// orphaned on purpose; there is no cascade and no failure on non-empty
// profiles.
func (r *ProfileRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id); err != nil {
		return wrap("delete profile", err)
	}
	return nil
}

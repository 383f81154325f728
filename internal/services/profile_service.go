package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"compras/internal/core"
	"compras/internal/repo"
	"compras/internal/session"
)

// ProfileService manages profiles together with the persisted active
// selection.
type ProfileService struct {
	profiles repo.ProfileRepository
	session  *session.Session
}

func NewProfileService(profiles repo.ProfileRepository, sess *session.Session) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		session:  sess,
	}
}

// List returns all profiles.
func (s *ProfileService) List(ctx context.Context) ([]core.Profile, error) {
	return s.profiles.ListAll(ctx)
}

// Get returns a single profile by id.
func (s *ProfileService) Get(ctx context.Context, id string) (core.Profile, error) {
	return s.profiles.Get(ctx, id)
}

// Create adds a new profile.
func (s *ProfileService) Create(ctx context.Context, draft core.ProfileDraft) (core.Profile, error) {
	p, err := s.profiles.Create(ctx, draft)
	if err != nil {
		return core.Profile{}, fmt.Errorf("create profile: %w", err)
	}
	return p, nil
}

// Update edits the profile fields present in upd.
func (s *ProfileService) Update(ctx context.Context, id string, upd core.ProfileUpdate) (core.Profile, error) {
	if err := s.profiles.Update(ctx, id, upd); err != nil {
		return core.Profile{}, fmt.Errorf("update profile: %w", err)
	}
	return s.profiles.Get(ctx, id)
}

// Delete removes a profile. Its items are left in place; the deletion
// also clears the session when the deleted profile was the active one.
func (s *ProfileService) Delete(ctx context.Context, id string) error {
	if err := s.profiles.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}

	if s.session.ActiveProfile() == id {
		if err := s.session.Clear(); err != nil {
			slog.ErrorContext(ctx, "Failed to clear session after profile deletion", "profile_id", id, "error", err)
		}
	}
	return nil
}

// Select makes the given profile the active one. The profile must exist.
func (s *ProfileService) Select(ctx context.Context, id string) (core.Profile, error) {
	p, err := s.profiles.Get(ctx, id)
	if err != nil {
		return core.Profile{}, err
	}
	if err := s.session.Select(id); err != nil {
		return core.Profile{}, fmt.Errorf("persist selection: %w", err)
	}
	return p, nil
}

// Logout clears the active selection.
func (s *ProfileService) Logout(ctx context.Context) error {
	if err := s.session.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Active returns the currently selected profile. core.ErrNotFound means
// no selection, or a selection pointing at a deleted profile.
func (s *ProfileService) Active(ctx context.Context) (core.Profile, error) {
	id := s.session.ActiveProfile()
	if id == "" {
		return core.Profile{}, core.ErrNotFound
	}
	p, err := s.profiles.Get(ctx, id)
	if errors.Is(err, core.ErrNotFound) {
		// Stale selection, drop it.
		if clearErr := s.session.Clear(); clearErr != nil {
			slog.ErrorContext(ctx, "Failed to clear stale session", "profile_id", id, "error", clearErr)
		}
		return core.Profile{}, core.ErrNotFound
	}
	return p, err
}

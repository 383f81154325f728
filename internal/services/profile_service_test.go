package services

import (
	"context"
	"errors"
	"testing"

	"compras/internal/core"
	"compras/internal/repo"
	"compras/internal/session"
)

func newProfileFixture(t *testing.T) (*ProfileService, *repo.MemoryProfiles) {
	t.Helper()
	profiles := repo.NewMemoryProfiles()
	sess, err := session.Load(t.TempDir())
	if err != nil {
		t.Fatalf("session.Load: %v", err)
	}
	return NewProfileService(profiles, sess), profiles
}

func TestProfileService_SelectAndActive(t *testing.T) {
	svc, _ := newProfileFixture(t)
	ctx := context.Background()

	ana, err := svc.Create(ctx, core.ProfileDraft{Name: "Ana"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	selected, err := svc.Select(ctx, ana.ID)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if selected.ID != ana.ID {
		t.Errorf("Select returned %q, want %q", selected.ID, ana.ID)
	}

	active, err := svc.Active(ctx)
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	if active.ID != ana.ID {
		t.Errorf("Active = %q, want %q", active.ID, ana.ID)
	}
}

func TestProfileService_SelectUnknownProfile(t *testing.T) {
	svc, _ := newProfileFixture(t)
	if _, err := svc.Select(context.Background(), "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestProfileService_ActiveWithoutSelection(t *testing.T) {
	svc, _ := newProfileFixture(t)
	if _, err := svc.Active(context.Background()); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestProfileService_Logout(t *testing.T) {
	svc, _ := newProfileFixture(t)
	ctx := context.Background()

	ana, _ := svc.Create(ctx, core.ProfileDraft{Name: "Ana"})
	svc.Select(ctx, ana.ID)

	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := svc.Active(ctx); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Active after logout = %v, want ErrNotFound", err)
	}
}

func TestProfileService_DeleteActiveProfileClearsSession(t *testing.T) {
	svc, _ := newProfileFixture(t)
	ctx := context.Background()

	ana, _ := svc.Create(ctx, core.ProfileDraft{Name: "Ana"})
	svc.Select(ctx, ana.ID)

	if err := svc.Delete(ctx, ana.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Active(ctx); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Active after delete = %v, want ErrNotFound", err)
	}
}

func TestProfileService_DeleteOtherProfileKeepsSession(t *testing.T) {
	svc, _ := newProfileFixture(t)
	ctx := context.Background()

	ana, _ := svc.Create(ctx, core.ProfileDraft{Name: "Ana"})
	bruno, _ := svc.Create(ctx, core.ProfileDraft{Name: "Bruno"})
	svc.Select(ctx, ana.ID)

	if err := svc.Delete(ctx, bruno.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	active, err := svc.Active(ctx)
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	if active.ID != ana.ID {
		t.Errorf("Active = %q, want %q", active.ID, ana.ID)
	}
}

func TestProfileService_StaleSelectionIsCleared(t *testing.T) {
	profiles := repo.NewMemoryProfiles()
	sess, err := session.Load(t.TempDir())
	if err != nil {
		t.Fatalf("session.Load: %v", err)
	}
	// Simulate a selection surviving from a previous run whose profile is
	// gone from the store.
	if err := sess.Select("ghost"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	svc := NewProfileService(profiles, sess)

	if _, err := svc.Active(context.Background()); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("Active = %v, want ErrNotFound", err)
	}
	if sess.ActiveProfile() != "" {
		t.Error("stale selection should have been cleared")
	}
}

func TestProfileService_Update(t *testing.T) {
	svc, _ := newProfileFixture(t)
	ctx := context.Background()

	ana, _ := svc.Create(ctx, core.ProfileDraft{Name: "Ana"})

	name := "Ana Paula"
	got, err := svc.Update(ctx, ana.ID, core.ProfileUpdate{Name: &name})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Name != name {
		t.Errorf("Name = %q, want %q", got.Name, name)
	}
}

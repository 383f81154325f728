// Package session holds the persisted selection state: the currently
// active profile id, stored in a small JSON file outside the document
// store. It is an explicit object injected into the HTTP layer rather
// than an ambient singleton.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

const stateFile = "session.json"

type state struct {
	ProfileID string `json:"profile_id"`
}

// Session is safe for concurrent use by HTTP handlers.
type Session struct {
	mu        sync.Mutex
	path      string
	profileID string
}

// Load reads the persisted selection from dir. A missing file is a clean
// logged-out state, not an error.
func Load(dir string) (*Session, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create session directory: %w", err)
	}

	s := &Session{path: filepath.Join(dir, stateFile)}

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var st state
	if err := json.Unmarshal(raw, &st); err != nil {
		// A corrupt state file degrades to logged-out rather than failing
		// startup.
		slog.Warn("Session file unreadable, starting logged out", "path", s.path, "error", err)
		return s, nil
	}
	s.profileID = st.ProfileID
	return s, nil
}

// ActiveProfile returns the selected profile id, or "" when logged out.
func (s *Session) ActiveProfile() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profileID
}

// Select persists the given profile id as the active selection.
func (s *Session) Select(profileID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(state{ProfileID: profileID})
	if err != nil {
		return fmt.Errorf("marshal session state: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0644); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	s.profileID = profileID
	return nil
}

// Clear removes the persisted selection (logout, or deletion of the
// active profile).
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	s.profileID = ""
	return nil
}

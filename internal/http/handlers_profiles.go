package http

import (
	"net/http"
	"strings"

	"compras/internal/core"
)

type createProfileRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type updateProfileRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

func (s *Server) handleProfiles(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListProfiles(w, r)
	case http.MethodPost:
		s.handleCreateProfile(w, r)
	case http.MethodPut:
		s.handleUpdateProfile(w, r)
	case http.MethodDelete:
		s.handleDeleteProfile(w, r)
	default:
		MethodNotAllowedError("GET, POST, PUT, DELETE").Write(w)
	}
}

func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.profiles.List(r.Context())
	if err != nil {
		FromError(err).Write(w)
		return
	}

	views := make([]profileView, 0, len(profiles))
	for _, p := range profiles {
		views = append(views, toProfileView(p))
	}
	NewResponse().JSON(views).Write(w)
}

func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var req createProfileRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	p, err := s.profiles.Create(r.Context(), core.ProfileDraft{
		Name:  sanitizeInput(req.Name),
		Color: sanitizeInput(req.Color),
	})
	if err != nil {
		FromError(err).Write(w)
		return
	}

	NewResponse().Status(http.StatusCreated).JSON(toProfileView(p)).Write(w)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		BadRequestError("missing id").Write(w)
		return
	}

	var req updateProfileRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	p, err := s.profiles.Update(r.Context(), id, core.ProfileUpdate{
		Name:  sanitizePtr(req.Name),
		Color: sanitizePtr(req.Color),
	})
	if err != nil {
		FromError(err).Write(w)
		return
	}

	NewResponse().JSON(toProfileView(p)).Write(w)
}

// handleDeleteProfile removes the profile document only; its items stay
// behind, invisible until re-adopted under the same profile id.
func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		BadRequestError("missing id").Write(w)
		return
	}

	if err := s.profiles.Delete(r.Context(), id); err != nil {
		FromError(err).Write(w)
		return
	}

	NewResponse().Status(http.StatusNoContent).Write(w)
}

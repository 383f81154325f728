package http

import (
	"net/http"
	"strings"
)

type selectProfileRequest struct {
	ProfileID string `json:"profile_id"`
}

// handleSessionProfile exposes the persisted active-profile selection:
// GET reads it, POST selects a profile, DELETE logs out.
func (s *Server) handleSessionProfile(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		p, err := s.profiles.Active(r.Context())
		if err != nil {
			FromError(err).Write(w)
			return
		}
		NewResponse().JSON(toProfileView(p)).Write(w)

	case http.MethodPost:
		var req selectProfileRequest
		if err := DecodeJSON(w, r, &req); err != nil {
			BadRequestError(err.Error()).Write(w)
			return
		}
		id := strings.TrimSpace(req.ProfileID)
		if id == "" {
			BadRequestError("missing profile_id").Write(w)
			return
		}

		p, err := s.profiles.Select(r.Context(), id)
		if err != nil {
			FromError(err).Write(w)
			return
		}
		NewResponse().JSON(toProfileView(p)).Write(w)

	case http.MethodDelete:
		if err := s.profiles.Logout(r.Context()); err != nil {
			FromError(err).Write(w)
			return
		}
		NewResponse().Status(http.StatusNoContent).Write(w)

	default:
		MethodNotAllowedError("GET, POST, DELETE").Write(w)
	}
}

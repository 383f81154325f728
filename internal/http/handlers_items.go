package http

import (
	"log/slog"
	"net/http"
	"strings"

	"compras/internal/core"
)

type createItemRequest struct {
	ProfileID      string `json:"profile_id"`
	Name           string `json:"name"`
	Category       string `json:"category"`
	Quantity       int    `json:"quantity"`
	EstimatedPrice string `json:"estimated_price"`
	Priority       string `json:"priority"`
	Notes          string `json:"notes"`
}

type updateItemRequest struct {
	Name           *string `json:"name"`
	Category       *string `json:"category"`
	Quantity       *int    `json:"quantity"`
	EstimatedPrice *string `json:"estimated_price"`
	Priority       *string `json:"priority"`
	Notes          *string `json:"notes"`
}

type statusChangeRequest struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	FinalPrice string `json:"final_price"`
}

func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListItems(w, r)
	case http.MethodPost:
		s.handleCreateItem(w, r)
	case http.MethodPut:
		s.handleUpdateItem(w, r)
	case http.MethodDelete:
		s.handleDeleteItem(w, r)
	default:
		MethodNotAllowedError("GET, POST, PUT, DELETE").Write(w)
	}
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	profileID := strings.TrimSpace(r.URL.Query().Get("profile_id"))
	if profileID == "" {
		BadRequestError("missing profile_id").Write(w)
		return
	}

	items, err := s.listItems(r.Context(), profileID)
	if err != nil {
		slog.ErrorContext(r.Context(), "List items failed", "profile_id", profileID, "error", err)
		FromError(err).Write(w)
		return
	}

	NewResponse().JSON(toItemViews(items)).Write(w)
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	if strings.TrimSpace(req.ProfileID) == "" {
		BadRequestError("missing profile_id").Write(w)
		return
	}

	cents, err := core.ParsePriceToCents(req.EstimatedPrice)
	if err != nil {
		FromError(err).Write(w)
		return
	}

	draft := core.ItemDraft{
		ProfileID:      strings.TrimSpace(req.ProfileID),
		Name:           sanitizeInput(req.Name),
		Category:       core.Category(strings.TrimSpace(req.Category)),
		Quantity:       req.Quantity,
		EstimatedPrice: core.Money{Cents: cents},
		Priority:       core.Priority(strings.TrimSpace(req.Priority)),
		Notes:          sanitizeInput(req.Notes),
	}

	it, err := s.items.Create(r.Context(), draft)
	if err != nil {
		FromError(err).Write(w)
		return
	}

	s.invalidateItems(it.ProfileID)
	NewResponse().Status(http.StatusCreated).JSON(toItemView(it)).Write(w)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		BadRequestError("missing id").Write(w)
		return
	}

	var req updateItemRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	upd := core.ItemUpdate{
		Name:     sanitizePtr(req.Name),
		Quantity: req.Quantity,
		Notes:    sanitizePtr(req.Notes),
	}
	if req.Category != nil {
		c := core.Category(strings.TrimSpace(*req.Category))
		upd.Category = &c
	}
	if req.Priority != nil {
		p := core.Priority(strings.TrimSpace(*req.Priority))
		upd.Priority = &p
	}
	if req.EstimatedPrice != nil {
		cents, err := core.ParsePriceToCents(*req.EstimatedPrice)
		if err != nil {
			FromError(err).Write(w)
			return
		}
		upd.EstimatedPrice = &core.Money{Cents: cents}
	}

	it, err := s.items.Update(r.Context(), id, upd)
	if err != nil {
		FromError(err).Write(w)
		return
	}

	s.invalidateItems(it.ProfileID)
	NewResponse().JSON(toItemView(it)).Write(w)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		BadRequestError("missing id").Write(w)
		return
	}

	// Fetch first so the profile's cache entry can be invalidated.
	it, err := s.items.Get(r.Context(), id)
	if err != nil {
		FromError(err).Write(w)
		return
	}

	if err := s.items.Delete(r.Context(), id); err != nil {
		FromError(err).Write(w)
		return
	}

	s.invalidateItems(it.ProfileID)
	NewResponse().Status(http.StatusNoContent).Write(w)
}

func (s *Server) handleItemStatus(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodPost); resp != nil {
		resp.Write(w)
		return
	}

	var req statusChangeRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	if strings.TrimSpace(req.ID) == "" {
		BadRequestError("missing id").Write(w)
		return
	}

	it, err := s.items.ChangeStatus(r.Context(), strings.TrimSpace(req.ID),
		core.Status(strings.TrimSpace(req.Status)), req.FinalPrice)
	if err != nil {
		FromError(err).Write(w)
		return
	}

	s.invalidateItems(it.ProfileID)
	NewResponse().JSON(toItemView(it)).Write(w)
}

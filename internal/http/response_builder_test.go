package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"compras/internal/core"
)

func TestResponseBuilder_Basic(t *testing.T) {
	w := httptest.NewRecorder()

	NewResponse().
		Status(http.StatusCreated).
		JSON(map[string]string{"id": "abc"}).
		Write(w)

	if w.Code != http.StatusCreated {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusCreated)
	}
	if got := w.Header().Get("Content-Type"); !strings.HasPrefix(got, "application/json") {
		t.Errorf("Content-Type = %q, want application/json", got)
	}
	if !strings.Contains(w.Body.String(), `"id":"abc"`) {
		t.Errorf("Body = %q", w.Body.String())
	}
}

func TestResponseBuilder_CustomHeader(t *testing.T) {
	w := httptest.NewRecorder()

	NewResponse().
		Header("X-Custom", "value").
		Write(w)

	if got := w.Header().Get("X-Custom"); got != "value" {
		t.Errorf("X-Custom = %q, want %q", got, "value")
	}
}

func TestResponseBuilder_EmptyBody(t *testing.T) {
	w := httptest.NewRecorder()

	NewResponse().Status(http.StatusNoContent).Write(w)

	if w.Code != http.StatusNoContent {
		t.Errorf("Status code = %d, want 204", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("Body = %q, want empty", w.Body.String())
	}
}

func TestResponseBuilder_UnmarshalableBody(t *testing.T) {
	w := httptest.NewRecorder()

	// Channels cannot be marshaled; the builder degrades to a 500.
	NewResponse().JSON(make(chan int)).Write(w)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Status code = %d, want 500", w.Code)
	}
}

func TestMethodNotAllowedError(t *testing.T) {
	w := httptest.NewRecorder()

	MethodNotAllowedError("GET, POST").Write(w)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Status code = %d, want 405", w.Code)
	}
	if got := w.Header().Get("Allow"); got != "GET, POST" {
		t.Errorf("Allow = %q, want %q", got, "GET, POST")
	}
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "not found", err: core.ErrNotFound, wantStatus: http.StatusNotFound},
		{name: "wrapped not found", err: fmt.Errorf("get item: %w", core.ErrNotFound), wantStatus: http.StatusNotFound},
		{name: "empty name", err: core.ErrEmptyName, wantStatus: http.StatusUnprocessableEntity},
		{name: "invalid category", err: core.ErrInvalidCategory, wantStatus: http.StatusUnprocessableEntity},
		{name: "invalid quantity", err: core.ErrInvalidQuantity, wantStatus: http.StatusUnprocessableEntity},
		{name: "invalid amount", err: core.ErrInvalidAmount, wantStatus: http.StatusUnprocessableEntity},
		{name: "unknown status", err: core.ErrUnknownStatus, wantStatus: http.StatusConflict},
		{name: "invalid transition", err: core.ErrInvalidTransition, wantStatus: http.StatusConflict},
		{name: "unexpected error", err: errors.New("disk on fire"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			FromError(tt.err).Write(w)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestFromError_HidesInternalDetails(t *testing.T) {
	w := httptest.NewRecorder()
	FromError(errors.New("dsn=user:password@host")).Write(w)

	if strings.Contains(w.Body.String(), "password") {
		t.Errorf("internal error leaked into the response: %s", w.Body.String())
	}
}

func TestRequireMethod(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)

	if resp := RequireMethod(req, http.MethodPost); resp != nil {
		t.Error("matching method should pass")
	}
	if resp := RequireMethod(req, http.MethodGet, http.MethodDelete); resp == nil {
		t.Error("mismatched method should be rejected")
	}
}

package http

import (
	"log/slog"
	"net/http"
	"strings"

	"compras/internal/core"
	"compras/internal/lifecycle"
)

const recentActivityLimit = 5

// handleDashboard returns the profile's dashboard: the filtered backlog
// sorted by priority, the aggregate totals and the most recent ledger
// activity.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w)
		return
	}

	query := r.URL.Query()
	profileID := strings.TrimSpace(query.Get("profile_id"))
	if profileID == "" {
		BadRequestError("missing profile_id").Write(w)
		return
	}

	current, err := s.profiles.Get(r.Context(), profileID)
	if err != nil {
		FromError(err).Write(w)
		return
	}

	items, err := s.listItems(r.Context(), profileID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Dashboard list failed", "profile_id", profileID, "error", err)
		FromError(err).Write(w)
		return
	}

	filter := lifecycle.Filter{
		Category: core.Category(strings.TrimSpace(query.Get("category"))),
		Priority: core.Priority(strings.TrimSpace(query.Get("priority"))),
		Search:   strings.TrimSpace(query.Get("search")),
	}

	backlog := lifecycle.ApplyFilter(lifecycle.Backlog(items), filter)

	now := lifecycle.MonthOf(timeNow())
	ledger := lifecycle.MonthlyLedger(items, now, lifecycle.LedgerAll)

	view := dashboardView{
		Profile:               toProfileView(current),
		Backlog:               toItemViews(backlog),
		TotalSpent:            toMoneyView(lifecycle.TotalSpent(ledger)),
		TotalEstimatedPending: toMoneyView(lifecycle.TotalEstimatedPending(items)),
		CategoryCounts:        toCategoryCounts(lifecycle.CategoryCounts(items)),
		RecentActivity:        toItemViews(lifecycle.RecentActivity(ledger, recentActivityLimit)),
	}

	NewResponse().JSON(view).Write(w)
}

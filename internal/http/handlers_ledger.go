package http

import (
	"net/http"
	"strings"
	"time"

	"compras/internal/lifecycle"
)

// handleLedger returns the monthly ledger: non-pending items whose
// effective date falls in the selected month, narrowed by the status
// filter, with the spent total for the selection.
func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
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

	params := ParseMonthParams(query)
	month := lifecycle.Month{Year: params.Year, Month: time.Month(params.Month)}

	filter := lifecycle.LedgerFilter(strings.TrimSpace(query.Get("filter")))
	if filter == "" {
		filter = lifecycle.LedgerAll
	}
	if !filter.IsValid() {
		BadRequestError("invalid filter: must be all, purchased or discarded").Write(w)
		return
	}

	items, err := s.listItems(r.Context(), profileID)
	if err != nil {
		FromError(err).Write(w)
		return
	}

	ledger := lifecycle.MonthlyLedger(items, month, filter)

	view := ledgerView{
		Year:       month.Year,
		Month:      int(month.Month),
		Filter:     string(filter),
		Items:      toItemViews(ledger),
		TotalSpent: toMoneyView(lifecycle.TotalSpent(ledger)),
	}

	NewResponse().JSON(view).Write(w)
}

package http

import (
	"time"

	"compras/internal/core"
)

// View types are the JSON shapes the API exposes. Money travels both as
// raw cents and as the formatted display string so clients never
// reimplement the formatting rule.

type profileView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type itemView struct {
	ID             string     `json:"id"`
	ProfileID      string     `json:"profile_id"`
	Name           string     `json:"name"`
	Category       string     `json:"category"`
	Quantity       int        `json:"quantity"`
	EstimatedCents int64      `json:"estimated_cents"`
	EstimatedPrice string     `json:"estimated_price"`
	FinalCents     *int64     `json:"final_cents,omitempty"`
	FinalPrice     string     `json:"final_price,omitempty"`
	Priority       string     `json:"priority"`
	Notes          string     `json:"notes,omitempty"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	PurchasedAt    *time.Time `json:"purchased_at,omitempty"`
}

type moneyView struct {
	Cents     int64  `json:"cents"`
	Formatted string `json:"formatted"`
}

type dashboardView struct {
	Profile               profileView    `json:"profile"`
	Backlog               []itemView     `json:"backlog"`
	TotalSpent            moneyView      `json:"total_spent"`
	TotalEstimatedPending moneyView      `json:"total_estimated_pending"`
	CategoryCounts        map[string]int `json:"category_counts"`
	RecentActivity        []itemView     `json:"recent_activity"`
}

type ledgerView struct {
	Year       int        `json:"year"`
	Month      int        `json:"month"`
	Filter     string     `json:"filter"`
	Items      []itemView `json:"items"`
	TotalSpent moneyView  `json:"total_spent"`
}

func toProfileView(p core.Profile) profileView {
	return profileView{
		ID:        p.ID,
		Name:      p.Name,
		Color:     p.Color,
		CreatedAt: p.CreatedAt,
	}
}

func toItemView(it core.Item) itemView {
	v := itemView{
		ID:             it.ID,
		ProfileID:      it.ProfileID,
		Name:           it.Name,
		Category:       string(it.Category),
		Quantity:       it.Quantity,
		EstimatedCents: it.EstimatedPrice.Cents,
		EstimatedPrice: it.EstimatedPrice.Format(),
		Priority:       string(it.Priority),
		Notes:          it.Notes,
		Status:         string(it.Status),
		CreatedAt:      it.CreatedAt,
		UpdatedAt:      it.UpdatedAt,
	}
	if it.FinalPrice != nil {
		cents := it.FinalPrice.Cents
		v.FinalCents = &cents
		v.FinalPrice = it.FinalPrice.Format()
	}
	if it.PurchasedAt.IsSet() {
		t := it.PurchasedAt.Time
		v.PurchasedAt = &t
	}
	return v
}

func toItemViews(items []core.Item) []itemView {
	out := make([]itemView, 0, len(items))
	for _, it := range items {
		out = append(out, toItemView(it))
	}
	return out
}

func toMoneyView(m core.Money) moneyView {
	return moneyView{Cents: m.Cents, Formatted: m.Format()}
}

func toCategoryCounts(counts map[core.Category]int) map[string]int {
	out := make(map[string]int, len(counts))
	for c, n := range counts {
		out[string(c)] = n
	}
	return out
}

package handlers

import (
	"net/http"
	"strings"

	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/history"
	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/models"
)

// HistoryFeed runs the history query pipeline.
type HistoryFeed interface {
	Query(filter history.Filter) history.Result
}

// HistoryHandler serves the unified vehicle history.
type HistoryHandler struct {
	feed HistoryFeed
}

func NewHistoryHandler(feed HistoryFeed) *HistoryHandler {
	return &HistoryHandler{feed: feed}
}

type historyEventView struct {
	models.HistoryEvent
	VehicleLabel string `json:"vehicle_label"`
}

type historyResponse struct {
	Events []historyEventView `json:"events"`
	Total  int                `json:"total"`
}

// Get returns the history filtered by ?vehicle= and ?kind=. Both default to
// "all"; a selector matching nothing yields an empty list.
func (h *HistoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	kind := strings.ToLower(strings.TrimSpace(q.Get("kind")))
	if kind != "" && kind != history.All && !models.IsValidEventKind(models.EventKind(kind)) {
		writeJSON(w, http.StatusOK, historyResponse{Events: []historyEventView{}})
		return
	}

	res := h.feed.Query(history.Filter{
		VehicleID: q.Get("vehicle"),
		Kind:      kind,
	})

	events := make([]historyEventView, len(res.Events))
	for i, e := range res.Events {
		events[i] = historyEventView{HistoryEvent: e, VehicleLabel: res.Label(e.VehicleID)}
	}
	writeJSON(w, http.StatusOK, historyResponse{Events: events, Total: res.Total})
}

package handlers

import (
	"context"
	"net/http"

	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/models"
)

// CatalogStore is the catalog persistence used by CatalogHandler.
type CatalogStore interface {
	ServicesByCategory(category models.ServiceCategory) []models.Service
	Centers() []models.Center
	Center(id string) (models.Center, error)
	Quotes() []models.Quote
	RequestQuote(ctx context.Context, req models.QuoteRequest) (models.Quote, error)
}

// CatalogHandler serves the service catalog, centers and quote requests.
type CatalogHandler struct {
	catalog CatalogStore
}

func NewCatalogHandler(catalog CatalogStore) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// Services lists catalog services, optionally narrowed by ?category=.
func (h *CatalogHandler) Services(w http.ResponseWriter, r *http.Request) {
	category := models.ServiceCategory(r.URL.Query().Get("category"))
	if category != "" && !models.IsValidCategory(category) {
		http.Error(w, "Invalid category", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, h.catalog.ServicesByCategory(category))
}

// Centers lists the service centers.
func (h *CatalogHandler) Centers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.Centers())
}

// Quotes lists the quote requests.
func (h *CatalogHandler) Quotes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.Quotes())
}

// RequestQuote prices a set of catalog services for a vehicle.
func (h *CatalogHandler) RequestQuote(w http.ResponseWriter, r *http.Request) {
	var req models.QuoteRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	quote, err := h.catalog.RequestQuote(r.Context(), req)
	if err != nil {
		writeError(w, err, "request_quote")
		return
	}
	writeJSON(w, http.StatusCreated, quote)
}

package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/models"
)

// FinanceStore is the invoice persistence used by FinanceHandler.
type FinanceStore interface {
	Invoices() []models.Invoice
	Summary() models.FinanceSummary
	Pay(ctx context.Context, id string) (models.Invoice, error)
}

// FinanceHandler serves invoices and the finance summary.
type FinanceHandler struct {
	finance FinanceStore
}

func NewFinanceHandler(finance FinanceStore) *FinanceHandler {
	return &FinanceHandler{finance: finance}
}

func (h *FinanceHandler) Invoices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.finance.Invoices())
}

func (h *FinanceHandler) Summary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.finance.Summary())
}

// Pay settles an invoice. Paying a paid invoice returns it unchanged.
func (h *FinanceHandler) Pay(w http.ResponseWriter, r *http.Request) {
	invoice, err := h.finance.Pay(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err, "pay_invoice")
		return
	}
	writeJSON(w, http.StatusOK, invoice)
}

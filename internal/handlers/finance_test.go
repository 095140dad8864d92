package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/models"
)

func TestFinanceHandler(t *testing.T) {
	env := newTestEnv(t)
	token := env.customer(t)

	w := env.do(t, http.MethodGet, "/api/invoices", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var invoices []models.Invoice
	decode(t, w, &invoices)
	require.Len(t, invoices, 3)
	assert.Equal(t, models.InvoiceOverdue, invoices[1].Status)

	w = env.do(t, http.MethodGet, "/api/finance/summary", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var before models.FinanceSummary
	decode(t, w, &before)
	assert.Equal(t, 3, before.InvoiceCount)
	assert.Equal(t, 1, before.OverdueCount)

	w = env.do(t, http.MethodPost, "/api/invoices/inv-3/pay", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var paid models.Invoice
	decode(t, w, &paid)
	assert.Equal(t, models.InvoicePaid, paid.Status)
	assert.NotNil(t, paid.PaidAt)

	w = env.do(t, http.MethodPost, "/api/invoices/inv-3/pay", token, nil)
	assert.Equal(t, http.StatusOK, w.Code, "paying twice is a no-op")

	w = env.do(t, http.MethodGet, "/api/finance/summary", token, nil)
	var after models.FinanceSummary
	decode(t, w, &after)
	assert.InDelta(t, before.TotalPaid+447.26, after.TotalPaid, 0.001)
	assert.InDelta(t, before.TotalOutstanding-447.26, after.TotalOutstanding, 0.001)

	w = env.do(t, http.MethodPost, "/api/invoices/inv-9/pay", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

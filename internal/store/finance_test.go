package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/models"
)

func TestFinanceStore_InvoicesAndSummary(t *testing.T) {
	s := NewFinanceStore(openKV(t), testOptions())
	require.NoError(t, s.Load(context.Background()))

	invoices := s.Invoices()
	require.Len(t, invoices, 3)
	assert.Equal(t, models.InvoicePaid, invoices[0].Status)
	assert.Equal(t, models.InvoiceOverdue, invoices[1].Status)
	assert.Equal(t, models.InvoicePending, invoices[2].Status)

	summary := s.Summary()
	assert.Equal(t, 3, summary.InvoiceCount)
	assert.InDelta(t, 166.71, summary.TotalPaid, 0.001)
	assert.InDelta(t, 550.68, summary.TotalOutstanding, 0.001)
	assert.Equal(t, 1, summary.OverdueCount)
}

func TestFinanceStore_Pay(t *testing.T) {
	ctx := context.Background()
	kv := openKV(t)
	s := NewFinanceStore(kv, testOptions())
	require.NoError(t, s.Load(ctx))

	paid, err := s.Pay(ctx, "inv-2")
	require.NoError(t, err)
	assert.Equal(t, models.InvoicePaid, paid.Status)
	require.NotNil(t, paid.PaidAt)

	again, err := s.Pay(ctx, "inv-2")
	require.NoError(t, err)
	assert.Equal(t, paid.PaidAt.Unix(), again.PaidAt.Unix())

	_, err = s.Pay(ctx, "inv-404")
	assert.ErrorIs(t, err, ErrNotFound)

	reloaded := NewFinanceStore(kv, testOptions())
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, 0, reloaded.Summary().OverdueCount)
}

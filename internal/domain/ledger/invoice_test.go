package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInvoice(t *testing.T) {
	businessID := uuid.New()
	supplierID := uuid.New()
	date := time.Date(2026, time.May, 3, 0, 0, 0, 0, time.UTC)

	t.Run("derives VAT and total from rate", func(t *testing.T) {
		inv, err := NewInvoice(businessID, supplierID, "INV-1001", date, d("1000"), d("18"))
		require.NoError(t, err)

		assert.True(t, inv.VATAmount.Equal(d("180")), "got %s", inv.VATAmount)
		assert.True(t, inv.Total.Equal(d("1180")), "got %s", inv.Total)
		assert.Equal(t, InvoiceStatusOpen, inv.Status)

		events := inv.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeInvoiceCreated, events[0].EventType())
	})

	t.Run("rounds VAT to agorot", func(t *testing.T) {
		inv, err := NewInvoice(businessID, supplierID, "INV-1002", date, d("33.33"), d("18"))
		require.NoError(t, err)
		// 33.33 * 0.18 = 5.9994 -> 6.00
		assert.True(t, inv.VATAmount.Equal(d("6")), "got %s", inv.VATAmount)
		assert.True(t, inv.Total.Equal(d("39.33")), "got %s", inv.Total)
	})

	t.Run("fails with empty number", func(t *testing.T) {
		_, err := NewInvoice(businessID, supplierID, "  ", date, d("100"), d("18"))
		assert.Error(t, err)
	})

	t.Run("fails with negative subtotal", func(t *testing.T) {
		_, err := NewInvoice(businessID, supplierID, "INV-1003", date, d("-1"), d("18"))
		assert.Error(t, err)
	})
}

func TestNewInvoiceWithVAT(t *testing.T) {
	inv, err := NewInvoiceWithVAT(uuid.New(), uuid.New(), "INV-2001",
		time.Date(2026, time.May, 3, 0, 0, 0, 0, time.UTC), d("500"), d("85.50"))
	require.NoError(t, err)

	assert.True(t, inv.VATAmount.Equal(d("85.50")))
	assert.True(t, inv.Total.Equal(d("585.50")))
}

func TestInvoice_Lifecycle(t *testing.T) {
	newOpenInvoice := func(t *testing.T) *Invoice {
		inv, err := NewInvoice(uuid.New(), uuid.New(), "INV-3001",
			time.Date(2026, time.May, 3, 0, 0, 0, 0, time.UTC), d("1000"), d("18"))
		require.NoError(t, err)
		inv.ClearDomainEvents()
		return inv
	}

	t.Run("mark paid then reopen", func(t *testing.T) {
		inv := newOpenInvoice(t)
		require.NoError(t, inv.MarkPaid())
		assert.Equal(t, InvoiceStatusPaid, inv.Status)
		assert.Error(t, inv.MarkPaid())

		require.NoError(t, inv.Reopen())
		assert.Equal(t, InvoiceStatusOpen, inv.Status)
	})

	t.Run("cancel open invoice", func(t *testing.T) {
		inv := newOpenInvoice(t)
		require.NoError(t, inv.Cancel())
		assert.Equal(t, InvoiceStatusCancelled, inv.Status)
		assert.Error(t, inv.Cancel())
		assert.Error(t, inv.MarkPaid())
	})

	t.Run("paid invoice cannot be cancelled", func(t *testing.T) {
		inv := newOpenInvoice(t)
		require.NoError(t, inv.MarkPaid())
		assert.Error(t, inv.Cancel())
	})

	t.Run("only open invoices can be edited", func(t *testing.T) {
		inv := newOpenInvoice(t)
		require.NoError(t, inv.UpdateAmounts(d("2000"), d("360")))
		assert.True(t, inv.Total.Equal(d("2360")))

		require.NoError(t, inv.MarkPaid())
		assert.Error(t, inv.UpdateAmounts(d("100"), d("18")))
	})
}

func TestInvoice_AttachFile(t *testing.T) {
	inv, err := NewInvoice(uuid.New(), uuid.New(), "INV-4001",
		time.Date(2026, time.May, 3, 0, 0, 0, 0, time.UTC), d("1000"), d("18"))
	require.NoError(t, err)

	require.NoError(t, inv.AttachFile("https://files.example.com/biz/inv-4001.pdf"))
	assert.Equal(t, "https://files.example.com/biz/inv-4001.pdf", inv.FileURL)
}

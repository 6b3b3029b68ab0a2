package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReceivedInvoice(t *testing.T) *CarrierInvoice {
	t.Helper()
	ci, err := NewCarrierInvoice(uuid.New(), uuid.New(), "CAR-0815", time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	return ci
}

func carrierLine(t *testing.T, desc, invoiced, expected string) CarrierInvoiceLine {
	t.Helper()
	l := NewCarrierInvoiceLine(desc, eur(t, invoiced))
	l.ExpectedAmount = eur(t, expected)
	return l
}

func TestNewCarrierInvoice(t *testing.T) {
	t.Run("registered as received", func(t *testing.T) {
		ci := newReceivedInvoice(t)
		assert.Equal(t, CarrierInvoiceReceived, ci.Status)
		assert.False(t, ci.ReceivedAt.IsZero())
	})

	t.Run("invalid input rejected", func(t *testing.T) {
		_, err := NewCarrierInvoice(uuid.New(), uuid.New(), "", time.Now())
		assert.Error(t, err)
		_, err = NewCarrierInvoice(uuid.New(), uuid.Nil, "CAR-1", time.Now())
		assert.Error(t, err)
		_, err = NewCarrierInvoice(uuid.New(), uuid.New(), "CAR-1", time.Time{})
		assert.Error(t, err)
	})
}

func TestCarrierInvoiceLines(t *testing.T) {
	t.Run("variance per line and total", func(t *testing.T) {
		ci := newReceivedInvoice(t)
		require.NoError(t, ci.AddLine(carrierLine(t, "Freight", "1100.00", "1000.00")))
		require.NoError(t, ci.AddLine(carrierLine(t, "Toll", "45.00", "45.00")))

		assert.Equal(t, "100.00", ci.Lines[0].Variance().Amount().StringFixed(2))
		assert.Equal(t, "1145.00", ci.TotalInvoiced().Amount().StringFixed(2))
		assert.Equal(t, "100.00", ci.TotalVariance().Amount().StringFixed(2))
	})

	t.Run("lines frozen once review starts", func(t *testing.T) {
		ci := newReceivedInvoice(t)
		require.NoError(t, ci.AddLine(carrierLine(t, "Freight", "100.00", "100.00")))
		require.NoError(t, ci.StartReview(uuid.New()))
		assert.Error(t, ci.AddLine(carrierLine(t, "Extra", "10.00", "0.00")))
	})

	t.Run("anomaly requires severity", func(t *testing.T) {
		l := NewCarrierInvoiceLine("Freight", eur(t, "100.00"))
		l.AnomalyType = AnomalyDuplicate
		assert.Error(t, l.Validate())
	})
}

func TestCarrierInvoiceAmend(t *testing.T) {
	t.Run("corrects header while received", func(t *testing.T) {
		ci := newReceivedInvoice(t)
		corrected := time.Now().Add(-48 * time.Hour)
		require.NoError(t, ci.Amend("CAR-0815-B", corrected))
		assert.Equal(t, "CAR-0815-B", ci.InvoiceNumber)
		assert.True(t, ci.InvoiceDate.Equal(corrected))
	})

	t.Run("invalid input rejected", func(t *testing.T) {
		ci := newReceivedInvoice(t)
		assert.Error(t, ci.Amend("  ", time.Now()))
		assert.Error(t, ci.Amend("CAR-1", time.Time{}))
	})

	t.Run("frozen once review starts", func(t *testing.T) {
		ci := newReceivedInvoice(t)
		require.NoError(t, ci.AddLine(carrierLine(t, "Freight", "100.00", "100.00")))
		require.NoError(t, ci.StartReview(uuid.New()))
		assert.Error(t, ci.Amend("CAR-0815-B", time.Now()))
	})
}

func TestCarrierInvoiceWorkflow(t *testing.T) {
	inReview := func(t *testing.T) *CarrierInvoice {
		ci := newReceivedInvoice(t)
		require.NoError(t, ci.AddLine(carrierLine(t, "Freight", "100.00", "100.00")))
		require.NoError(t, ci.StartReview(uuid.New()))
		return ci
	}

	t.Run("happy path to paid", func(t *testing.T) {
		ci := inReview(t)
		require.NoError(t, ci.Validate())
		require.NoError(t, ci.Approve(uuid.New()))
		require.NoError(t, ci.MarkPaid())
		assert.Equal(t, CarrierInvoicePaid, ci.Status)
		require.NotNil(t, ci.PaidAt)
		assert.True(t, ci.Status.IsTerminal())
	})

	t.Run("approve before validate rejected", func(t *testing.T) {
		ci := inReview(t)
		assert.Error(t, ci.Approve(uuid.New()))
	})

	t.Run("pay before approve rejected", func(t *testing.T) {
		ci := inReview(t)
		require.NoError(t, ci.Validate())
		assert.Error(t, ci.MarkPaid())
	})

	t.Run("review requires lines", func(t *testing.T) {
		ci := newReceivedInvoice(t)
		assert.Error(t, ci.StartReview(uuid.New()))
	})

	t.Run("double review rejected", func(t *testing.T) {
		ci := inReview(t)
		assert.Error(t, ci.StartReview(uuid.New()))
	})

	t.Run("dispute requires reason and resumes review", func(t *testing.T) {
		ci := inReview(t)
		assert.Error(t, ci.Dispute("  "))
		require.NoError(t, ci.Dispute("Toll billed twice"))
		assert.Equal(t, CarrierInvoiceDisputed, ci.Status)

		require.NoError(t, ci.ResumeReview())
		assert.Equal(t, CarrierInvoiceUnderReview, ci.Status)
		assert.Empty(t, ci.DisputeReason)
	})

	t.Run("disputed invoice can be rejected", func(t *testing.T) {
		ci := inReview(t)
		require.NoError(t, ci.Dispute("Unknown charge"))
		require.NoError(t, ci.Reject("Carrier could not substantiate the charge"))
		assert.Equal(t, CarrierInvoiceRejected, ci.Status)
		assert.True(t, ci.Status.IsTerminal())
	})

	t.Run("validated invoice can be rejected with reason", func(t *testing.T) {
		ci := inReview(t)
		require.NoError(t, ci.Validate())
		assert.Error(t, ci.Reject(""))
		require.NoError(t, ci.Reject("Budget hold"))
	})

	t.Run("high severity anomaly blocks validation", func(t *testing.T) {
		ci := inReview(t)
		require.NoError(t, ci.FlagLineAnomaly(ci.Lines[0].ID, AnomalyPriceVariance, SeverityHigh, "Rate 40% above contract"))
		assert.Error(t, ci.Validate())
		require.NoError(t, ci.Dispute("Rate 40% above contract"))
	})

	t.Run("low severity anomaly still validates", func(t *testing.T) {
		ci := inReview(t)
		require.NoError(t, ci.FlagLineAnomaly(ci.Lines[0].ID, AnomalyPriceVariance, SeverityLow, "Rounding difference"))
		assert.True(t, ci.HasAnomalies())
		require.NoError(t, ci.Validate())
	})

	t.Run("anomalies only flagged during review", func(t *testing.T) {
		ci := newReceivedInvoice(t)
		require.NoError(t, ci.AddLine(carrierLine(t, "Freight", "100.00", "100.00")))
		assert.Error(t, ci.FlagLineAnomaly(ci.Lines[0].ID, AnomalyDuplicate, SeverityMedium, "x"))
	})

	t.Run("terminal states accept nothing", func(t *testing.T) {
		ci := inReview(t)
		require.NoError(t, ci.Validate())
		require.NoError(t, ci.Reject("No contract coverage"))

		assert.Error(t, ci.StartReview(uuid.New()))
		assert.Error(t, ci.Validate())
		assert.Error(t, ci.Approve(uuid.New()))
		assert.Error(t, ci.MarkPaid())
	})
}

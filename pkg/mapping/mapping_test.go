package mapping

import (
	"testing"
	"time"

	"github.com/chris/scheduled-withdrawals/pkg/api"
	"github.com/chris/scheduled-withdrawals/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestToApiTransaction(t *testing.T) {
	due := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tx := &models.Transaction{
		Id:           "tx-1",
		WalletId:     "wallet-1",
		Kind:         models.WITHDRAWAL,
		Amount:       1000,
		ScheduledFor: &due,
		Status:       models.PENDING,
	}

	out := ToApiTransaction(tx)

	assert.Equal(t, "tx-1", out.Id)
	assert.Equal(t, api.WITHDRAWAL, out.Kind)
	assert.Equal(t, api.TransactionStatusPENDING, out.Status)
	assert.Equal(t, &due, out.ScheduledFor)
}

func TestToApiLedgerEntry(t *testing.T) {
	t.Run("Debit Only", func(t *testing.T) {
		out := ToApiLedgerEntry(&models.LedgerEntry{EntryID: "e-1", Debit: 1000})
		if assert.NotNil(t, out.Debit) {
			assert.Equal(t, int64(1000), *out.Debit)
		}
		assert.Nil(t, out.Credit)
	})

	t.Run("Credit Only", func(t *testing.T) {
		out := ToApiLedgerEntry(&models.LedgerEntry{EntryID: "e-2", Credit: 500})
		assert.Nil(t, out.Debit)
		if assert.NotNil(t, out.Credit) {
			assert.Equal(t, int64(500), *out.Credit)
		}
	})
}

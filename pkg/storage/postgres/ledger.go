package postgres

import (
	"context"
	"fmt"

	"github.com/chris/scheduled-withdrawals/pkg/models"
)

func (s *Store) ListLedgerEntries(ctx context.Context, walletID string, limit int32) ([]models.LedgerEntry, error) {
	query := `SELECT entry_id, transaction_id, wallet_id, debit, credit, description, timestamp
        FROM ledger_entries WHERE wallet_id = $1 ORDER BY timestamp DESC`
	args := []any{walletID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query for ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []models.LedgerEntry
	for rows.Next() {
		var e models.LedgerEntry
		if err := rows.Scan(&e.EntryID, &e.TransactionID, &e.WalletID, &e.Debit, &e.Credit, &e.Description, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		e.Timestamp = e.Timestamp.UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

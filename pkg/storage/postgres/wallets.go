package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/chris/scheduled-withdrawals/pkg/models"
	"github.com/chris/scheduled-withdrawals/pkg/storage"
	"github.com/jackc/pgx/v5"
)

// walletColumns selects a wallet with its reservation derived from the pending withdrawals.
const walletColumns = `w.id, w.owner_id, w.balance,
        COALESCE((SELECT SUM(t.amount) FROM transactions t
                  WHERE t.wallet_id = w.id AND t.kind = 'WITHDRAWAL' AND t.status = 'PENDING'), 0),
        w.version, w.created_at`

func (s *Store) CreateWallet(ctx context.Context, wallet *models.Wallet) (*models.Wallet, error) {
	const query = `INSERT INTO wallets (id, owner_id, balance, version, created_at) VALUES ($1, $2, $3, 0, $4)`
	if _, err := s.db.Exec(ctx, query, wallet.Id, wallet.OwnerId, wallet.Balance, wallet.CreatedAt); err != nil {
		if isUniqueViolation(err, "wallets_owner_id_key") {
			return nil, fmt.Errorf("%w: %s", storage.ErrWalletExists, wallet.OwnerId)
		}
		if isUniqueViolation(err, "wallets_pkey") {
			return nil, fmt.Errorf("wallet with ID %s already exists", wallet.Id)
		}
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}

	w := *wallet
	w.Reserved = 0
	w.Version = 0
	return &w, nil
}

func (s *Store) GetWallet(ctx context.Context, walletID string) (*models.Wallet, error) {
	return getWallet(ctx, s.db, walletID)
}

func (s *Store) ListWallets(ctx context.Context) ([]models.Wallet, error) {
	rows, err := s.db.Query(ctx, `SELECT `+walletColumns+` FROM wallets w ORDER BY w.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}
	defer rows.Close()

	var wallets []models.Wallet
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, *w)
	}
	return wallets, rows.Err()
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func getWallet(ctx context.Context, q querier, walletID string) (*models.Wallet, error) {
	w, err := scanWallet(q.QueryRow(ctx, `SELECT `+walletColumns+` FROM wallets w WHERE w.id = $1`, walletID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", storage.ErrWalletNotFound, walletID)
	}
	return w, err
}

// lockWallet takes the wallet row lock for the rest of the transaction.
func lockWallet(ctx context.Context, tx pgx.Tx, walletID string) error {
	var id string
	err := tx.QueryRow(ctx, `SELECT id FROM wallets WHERE id = $1 FOR UPDATE`, walletID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", storage.ErrWalletNotFound, walletID)
	}
	if err != nil {
		return fmt.Errorf("failed to lock wallet: %w", err)
	}
	return nil
}

func scanWallet(row pgx.Row) (*models.Wallet, error) {
	var w models.Wallet
	if err := row.Scan(&w.Id, &w.OwnerId, &w.Balance, &w.Reserved, &w.Version, &w.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan wallet: %w", err)
	}
	w.CreatedAt = w.CreatedAt.UTC()
	return &w, nil
}

package wallet

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/communipay/communipay/internal/apperr"
	"github.com/communipay/communipay/internal/storage"
)

const walletColumns = `id, owner_id, token, balance, community_id, is_shared, created_at`

// PostgresStore persists wallets and memberships in PostgreSQL.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore builds a Postgres-backed wallet store.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Create inserts a wallet record.
func (s *PostgresStore) Create(ctx context.Context, w Wallet) error {
	q := storage.QuerierFrom(ctx, s.db)
	_, err := q.Exec(ctx, `INSERT INTO wallets (id, owner_id, token, balance, community_id, is_shared, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		w.ID, w.OwnerID, w.Token, w.Balance, w.CommunityID, w.IsShared, w.CreatedAt.UTC())
	return err
}

// Get fetches a wallet by id.
func (s *PostgresStore) Get(ctx context.Context, id string) (Wallet, error) {
	q := storage.QuerierFrom(ctx, s.db)
	row := q.QueryRow(ctx, `SELECT `+walletColumns+` FROM wallets WHERE id = $1`, id)
	w, err := scanWallet(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Wallet{}, apperr.New(apperr.CodeInvalidWalletID, "wallet not found").With("wallet_id", id)
		}
		return Wallet{}, err
	}
	return w, nil
}

// GetOwned fetches a wallet filtered to its owner.
func (s *PostgresStore) GetOwned(ctx context.Context, id, ownerID string) (Wallet, error) {
	q := storage.QuerierFrom(ctx, s.db)
	row := q.QueryRow(ctx, `SELECT `+walletColumns+` FROM wallets WHERE id = $1 AND owner_id = $2`, id, ownerID)
	w, err := scanWallet(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Wallet{}, apperr.New(apperr.CodeInvalidWalletID, "wallet not found or not owned").
				With("wallet_id", id).With("owner_id", ownerID)
		}
		return Wallet{}, err
	}
	return w, nil
}

// ListOwned returns the user's non-shared wallets.
func (s *PostgresStore) ListOwned(ctx context.Context, userID string) ([]Wallet, error) {
	q := storage.QuerierFrom(ctx, s.db)
	rows, err := q.Query(ctx, `SELECT `+walletColumns+` FROM wallets
        WHERE owner_id = $1 AND is_shared = FALSE ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWallets(rows)
}

// ListAccessible returns owned wallets plus wallets shared with the user.
// The UNION deduplicates by row; owned wallets come first in the result.
func (s *PostgresStore) ListAccessible(ctx context.Context, userID string) ([]Wallet, error) {
	q := storage.QuerierFrom(ctx, s.db)
	rows, err := q.Query(ctx, `
        SELECT `+walletColumns+`, 0 AS rank FROM wallets WHERE owner_id = $1
        UNION
        SELECT w.id, w.owner_id, w.token, w.balance, w.community_id, w.is_shared, w.created_at, 1 AS rank
        FROM wallets w
        JOIN wallet_members m ON m.wallet_id = w.id
        WHERE m.user_id = $1 AND w.owner_id <> $1
        ORDER BY rank, created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Wallet
	seen := make(map[string]struct{})
	for rows.Next() {
		var w Wallet
		var rank int
		if err := rows.Scan(&w.ID, &w.OwnerID, &w.Token, &w.Balance, &w.CommunityID, &w.IsShared, &w.CreatedAt, &rank); err != nil {
			return nil, err
		}
		if _, dup := seen[w.ID]; dup {
			continue
		}
		seen[w.ID] = struct{}{}
		out = append(out, w)
	}
	return out, rows.Err()
}

// ApplyDelta adjusts the balance in one conditional update. The predicate
// re-checks sufficiency at write time, which is the authoritative guard
// against concurrent debits driving the balance negative.
func (s *PostgresStore) ApplyDelta(ctx context.Context, id string, delta int64) (Wallet, error) {
	q := storage.QuerierFrom(ctx, s.db)
	row := q.QueryRow(ctx, `UPDATE wallets SET balance = balance + $2
        WHERE id = $1 AND balance + $2 >= 0
        RETURNING `+walletColumns, id, delta)
	w, err := scanWallet(row)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Wallet{}, err
	}

	// No row matched: distinguish a missing wallet from insufficient funds.
	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM wallets WHERE id = $1)`, id).Scan(&exists); err != nil {
		return Wallet{}, err
	}
	if !exists {
		return Wallet{}, apperr.New(apperr.CodeInvalidWalletID, "wallet not found").With("wallet_id", id)
	}
	return Wallet{}, apperr.New(apperr.CodeInsufficientFunds, "balance would go negative").
		With("wallet_id", id).With("delta", delta)
}

// ListMembers returns the memberships attached to a wallet.
func (s *PostgresStore) ListMembers(ctx context.Context, walletID string) ([]Membership, error) {
	q := storage.QuerierFrom(ctx, s.db)
	rows, err := q.Query(ctx, `SELECT wallet_id, user_id, role, created_at
        FROM wallet_members WHERE wallet_id = $1 ORDER BY created_at`, walletID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Membership
	for rows.Next() {
		var m Membership
		if err := rows.Scan(&m.WalletID, &m.UserID, &m.Role, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// AddMember inserts a membership row. A unique violation under concurrent
// sharing maps to the duplicate-share validation error.
func (s *PostgresStore) AddMember(ctx context.Context, m Membership) error {
	q := storage.QuerierFrom(ctx, s.db)
	_, err := q.Exec(ctx, `INSERT INTO wallet_members (wallet_id, user_id, role, created_at)
        VALUES ($1, $2, $3, $4)`, m.WalletID, m.UserID, m.Role, m.CreatedAt.UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperr.New(apperr.CodeWalletAlreadyShared, "wallet already shared with user").
				With("wallet_id", m.WalletID).With("recipient_id", m.UserID)
		}
		return err
	}
	return nil
}

// SetShared flips the derived is_shared flag.
func (s *PostgresStore) SetShared(ctx context.Context, walletID string, shared bool) error {
	q := storage.QuerierFrom(ctx, s.db)
	_, err := q.Exec(ctx, `UPDATE wallets SET is_shared = $2 WHERE id = $1`, walletID, shared)
	return err
}

func scanWallet(row pgx.Row) (Wallet, error) {
	var w Wallet
	if err := row.Scan(&w.ID, &w.OwnerID, &w.Token, &w.Balance, &w.CommunityID, &w.IsShared, &w.CreatedAt); err != nil {
		return Wallet{}, err
	}
	w.CreatedAt = w.CreatedAt.UTC()
	return w, nil
}

func collectWallets(rows pgx.Rows) ([]Wallet, error) {
	var out []Wallet
	for rows.Next() {
		var w Wallet
		if err := rows.Scan(&w.ID, &w.OwnerID, &w.Token, &w.Balance, &w.CommunityID, &w.IsShared, &w.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/communipay/communipay/internal/apperr"
	"github.com/communipay/communipay/internal/storage"
)

const txColumns = `id, amount, description, sender_id, sender_wallet_id, receiver_id,
        receiver_wallet_id, community_id, type, subtype, status, created_at`

// PostgresLedger persists transactions in PostgreSQL.
type PostgresLedger struct {
	db *pgxpool.Pool
}

// NewPostgresLedger builds a Postgres-backed ledger.
func NewPostgresLedger(db *pgxpool.Pool) *PostgresLedger {
	return &PostgresLedger{db: db}
}

// CreateCompleted inserts a finalized transaction in one step.
func (l *PostgresLedger) CreateCompleted(ctx context.Context, spec CompletedSpec) (Transaction, error) {
	q := storage.QuerierFrom(ctx, l.db)
	row := q.QueryRow(ctx, `INSERT INTO transactions
        (id, amount, description, sender_id, sender_wallet_id, receiver_id,
         receiver_wallet_id, community_id, type, subtype, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        RETURNING `+txColumns,
		uuid.NewString(), spec.Amount, spec.Description, spec.SenderID, spec.SenderWalletID,
		spec.ReceiverID, spec.ReceiverWalletID, spec.CommunityID,
		spec.Type, spec.Subtype, StatusCompleted, time.Now().UTC())
	return scanTransaction(row)
}

// CreatePlaceholder reserves a ledger entry with sender fields unset.
func (l *PostgresLedger) CreatePlaceholder(ctx context.Context, spec PlaceholderSpec) (Transaction, error) {
	q := storage.QuerierFrom(ctx, l.db)
	row := q.QueryRow(ctx, `INSERT INTO transactions
        (id, amount, description, receiver_id, receiver_wallet_id, community_id,
         type, subtype, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING `+txColumns,
		uuid.NewString(), spec.Amount, spec.Description, spec.ReceiverID, spec.ReceiverWalletID,
		spec.CommunityID, spec.Type, spec.Subtype, StatusPlaceholder, time.Now().UTC())
	return scanTransaction(row)
}

// CompletePlaceholder finalizes a placeholder. The WHERE predicate on the
// current status is the concurrency guard: exactly one concurrent attempt
// can match the PLACEHOLDER row.
func (l *PostgresLedger) CompletePlaceholder(ctx context.Context, id, senderID, senderWalletID string) (Transaction, error) {
	q := storage.QuerierFrom(ctx, l.db)
	row := q.QueryRow(ctx, `UPDATE transactions
        SET sender_id = $2, sender_wallet_id = $3, status = $4
        WHERE id = $1 AND status = $5
        RETURNING `+txColumns,
		id, senderID, senderWalletID, StatusCompleted, StatusPlaceholder)
	txn, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Transaction{}, apperr.New(apperr.CodeTransactionNotPlaceholder, "transaction is not a placeholder").
				With("transaction_id", id)
		}
		return Transaction{}, err
	}
	return txn, nil
}

// ListByWallet pages transactions touching the wallet, newest first.
func (l *PostgresLedger) ListByWallet(ctx context.Context, walletID string, limit, offset int) ([]Transaction, error) {
	q := storage.QuerierFrom(ctx, l.db)
	rows, err := q.Query(ctx, `SELECT `+txColumns+` FROM transactions
        WHERE sender_wallet_id = $1 OR receiver_wallet_id = $1
        ORDER BY created_at DESC, id
        LIMIT $2 OFFSET $3`, walletID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, txn)
	}
	return out, rows.Err()
}

func scanTransaction(row pgx.Row) (Transaction, error) {
	var t Transaction
	if err := row.Scan(&t.ID, &t.Amount, &t.Description, &t.SenderID, &t.SenderWalletID,
		&t.ReceiverID, &t.ReceiverWalletID, &t.CommunityID, &t.Type, &t.Subtype,
		&t.Status, &t.CreatedAt); err != nil {
		return Transaction{}, err
	}
	t.CreatedAt = t.CreatedAt.UTC()
	return t, nil
}

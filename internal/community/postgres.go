package community

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/communipay/communipay/internal/apperr"
	"github.com/communipay/communipay/internal/storage"
)

// PostgresStore reads communities from PostgreSQL.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore builds a Postgres-backed community store.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Get fetches a community by id.
func (s *PostgresStore) Get(ctx context.Context, id string) (Community, error) {
	q := storage.QuerierFrom(ctx, s.db)
	row := q.QueryRow(ctx, `SELECT id, status, is_public FROM communities WHERE id = $1`, id)
	var c Community
	if err := row.Scan(&c.ID, &c.Status, &c.IsPublic); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Community{}, apperr.New(apperr.CodeInvalidCommunityID, "community not found").With("community_id", id)
		}
		return Community{}, err
	}
	return c, nil
}

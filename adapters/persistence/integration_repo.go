package persistence

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/portfolio-builder/internal/domain/integration"
	"github.com/khoahotran/portfolio-builder/pkg/apperror"
	"github.com/khoahotran/portfolio-builder/pkg/logger"
)

type postgresIntegrationRepo struct {
	db      *pgxpool.Pool
	logger  logger.Logger
	timeout queryTimeout
}

func NewPostgresIntegrationRepo(db *pgxpool.Pool, log logger.Logger, timeout time.Duration) integration.Repository {
	return &postgresIntegrationRepo{db: db, logger: log, timeout: queryTimeout(timeout)}
}

const integrationColumns = "user_id, provider, connected, access_token, refresh_token, expires_at, last_synced_at, updated_at"

func scanIntegration(row pgx.Row) (*integration.Integration, error) {
	i := &integration.Integration{}
	err := row.Scan(
		&i.UserID,
		&i.Provider,
		&i.Connected,
		&i.AccessToken,
		&i.RefreshToken,
		&i.ExpiresAt,
		&i.LastSyncedAt,
		&i.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return i, nil
}

func (r *postgresIntegrationRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*integration.Integration, error) {
	ctx, cancel := r.timeout.ctx(ctx)
	defer cancel()

	sql, args, err := psql.Select(integrationColumns).
		From("integrations").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("provider").
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build list integrations query", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, storeError("failed to query integrations", "Integration", userID.String(), err)
	}
	defer rows.Close()

	out := make([]*integration.Integration, 0)
	for rows.Next() {
		i, err := scanIntegration(rows)
		if err != nil {
			return nil, apperror.NewStoreUnavailable("failed to scan integration row", err)
		}
		out = append(out, i)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewStoreUnavailable("error iterating integration rows", err)
	}
	return out, nil
}

func (r *postgresIntegrationRepo) Find(ctx context.Context, userID uuid.UUID, provider string) (*integration.Integration, error) {
	ctx, cancel := r.timeout.ctx(ctx)
	defer cancel()

	sql, args, err := psql.Select(integrationColumns).
		From("integrations").
		Where(sq.Eq{"user_id": userID, "provider": provider}).
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build find integration query", err)
	}

	i, err := scanIntegration(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, storeError("failed to query integration", "Integration", provider, err)
	}
	return i, nil
}

func (r *postgresIntegrationRepo) Upsert(ctx context.Context, i *integration.Integration) error {
	ctx, cancel := r.timeout.ctx(ctx)
	defer cancel()

	query := `
		INSERT INTO integrations (user_id, provider, connected, access_token, refresh_token, expires_at, last_synced_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, provider) DO UPDATE SET
			connected = EXCLUDED.connected,
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			expires_at = EXCLUDED.expires_at,
			last_synced_at = EXCLUDED.last_synced_at,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.Exec(ctx, query,
		i.UserID, i.Provider, i.Connected, i.AccessToken, i.RefreshToken,
		i.ExpiresAt, i.LastSyncedAt, i.UpdatedAt,
	)
	if err != nil {
		return storeError("failed to upsert integration", "Integration", i.Provider, err)
	}
	return nil
}

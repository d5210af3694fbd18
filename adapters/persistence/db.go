package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-builder/internal/config"
	"github.com/khoahotran/portfolio-builder/pkg/apperror"
	"github.com/khoahotran/portfolio-builder/pkg/logger"
)

const uniqueViolation = "23505"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func NewPostgresPool(ctx context.Context, cfg config.Config, log logger.Logger) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.DB.DSN)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DB.QueryTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Info("Connected to PostgreSQL", zap.Int32("max_conns", pool.Config().MaxConns))
	return pool, nil
}

// queryTimeout bounds every repository call so a stalled database surfaces
// as StoreUnavailable instead of hanging the request.
type queryTimeout time.Duration

func (t queryTimeout) ctx(parent context.Context) (context.Context, context.CancelFunc) {
	if t <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, time.Duration(t))
}

func isUniqueViolation(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return pgErr, true
	}
	return nil, false
}

// storeError maps a driver failure to the application taxonomy. Missing rows
// become NotFound; everything else is treated as the store being unavailable.
func storeError(op, resource, id string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.NewNotFound(resource, id)
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperror.NewStoreUnavailable(op, err)
}

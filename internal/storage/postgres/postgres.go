// Package postgres provides a PostgreSQL-backed implementation of the
// storage.Store interface using gorm and the pgx driver.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/loekvdlooilionx/votejam/internal/models"
	"github.com/loekvdlooilionx/votejam/internal/storage"
)

// Ensure PostgresStore implements storage.Store
var _ storage.Store = (*PostgresStore)(nil)

// PostgresStore implements storage.Store on PostgreSQL.
//
// Week activation locks the group row FOR UPDATE. Track and vote inserts
// lock the week row FOR SHARE, which conflicts with the UPDATE that closes
// a week. Votes additionally take a transaction-scoped advisory lock keyed
// by week and user so concurrent casts by one user are serialized before
// the budget sum is read.
type PostgresStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

// New connects to PostgreSQL and creates the schema if needed.
func New(dsn string, logger *slog.Logger) (*PostgresStore, error) {
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open gorm postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("resolve postgres sql db handle: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := db.WithContext(ctx).Exec(schema).Error; err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &PostgresStore{db: db, logger: logger}, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// classified lists the errors the store returns as-is.
var classified = []error{
	models.ErrStoreUnavailable,
	models.ErrInactiveWeek,
	models.ErrDuplicateTrack,
	models.ErrBudgetExceeded,
	models.ErrTrackNotInWeek,
	models.ErrConflict,
	models.ErrUserNotFound,
	models.ErrGroupNotFound,
	models.ErrWeekNotFound,
	models.ErrTrackNotFound,
	models.ErrNotMember,
	models.ErrInviteCodeTaken,
	models.ErrEmailExists,
}

// fail logs a driver failure and wraps it as models.ErrStoreUnavailable.
// Errors that already carry a domain meaning pass through untouched.
func (s *PostgresStore) fail(op string, err error, attrs ...any) error {
	for _, known := range classified {
		if errors.Is(err, known) {
			return err
		}
	}
	fields := append([]any{"op", op, "error", err.Error()}, attrs...)
	s.logger.Error("postgres store operation failed", fields...)
	return fmt.Errorf("failed to %s: %w: %w", op, models.ErrStoreUnavailable, err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    avatar_url TEXT NOT NULL DEFAULT '',
    password_hash TEXT NOT NULL,
    created_at BIGINT NOT NULL,
    updated_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS groups (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    invite_code TEXT NOT NULL UNIQUE,
    created_by TEXT NOT NULL,
    created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS group_members (
    group_id TEXT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL,
    role TEXT NOT NULL CHECK (role IN ('admin', 'member')),
    joined_at BIGINT NOT NULL,
    seq BIGSERIAL,
    PRIMARY KEY (group_id, user_id)
);

CREATE TABLE IF NOT EXISTS group_weeks (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
    week_number INTEGER NOT NULL,
    year INTEGER NOT NULL,
    week_start BIGINT NOT NULL,
    week_end BIGINT NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT FALSE,
    created_at BIGINT NOT NULL,
    seq BIGSERIAL
);

CREATE TABLE IF NOT EXISTS tracks (
    id TEXT PRIMARY KEY,
    seq BIGSERIAL,
    group_week_id TEXT NOT NULL REFERENCES group_weeks(id) ON DELETE CASCADE,
    catalog_id TEXT NOT NULL,
    title TEXT NOT NULL,
    artist TEXT NOT NULL,
    album TEXT NOT NULL DEFAULT '',
    artwork_url TEXT NOT NULL DEFAULT '',
    preview_url TEXT NOT NULL DEFAULT '',
    added_by TEXT NOT NULL,
    added_at BIGINT NOT NULL,
    UNIQUE (group_week_id, catalog_id)
);

CREATE TABLE IF NOT EXISTS votes (
    id TEXT PRIMARY KEY,
    seq BIGSERIAL,
    track_id TEXT NOT NULL REFERENCES tracks(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL,
    group_week_id TEXT NOT NULL REFERENCES group_weeks(id) ON DELETE CASCADE,
    coins_spent INTEGER NOT NULL CHECK (coins_spent > 0),
    voted_at BIGINT NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_group_weeks_one_active ON group_weeks(group_id) WHERE is_active;
CREATE INDEX IF NOT EXISTS idx_group_weeks_group_id ON group_weeks(group_id);
CREATE INDEX IF NOT EXISTS idx_group_members_user_id ON group_members(user_id);
CREATE INDEX IF NOT EXISTS idx_tracks_group_week_id ON tracks(group_week_id);
CREATE INDEX IF NOT EXISTS idx_votes_week_user ON votes(group_week_id, user_id);
CREATE INDEX IF NOT EXISTS idx_votes_track_id ON votes(track_id);
`

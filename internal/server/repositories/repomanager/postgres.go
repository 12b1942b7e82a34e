// Package repomanager assembles persistence backends: the PostgreSQL backend
// with its goose migrations, the one-time fail-open selection between it and
// the file fallback, and call instrumentation.
package repomanager

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/ghiblifav/internal/dbx"
	"github.com/dmitrijs2005/ghiblifav/internal/server/migrations"
	"github.com/dmitrijs2005/ghiblifav/internal/server/models"
	"github.com/dmitrijs2005/ghiblifav/internal/server/repositories/favorites"
	"github.com/dmitrijs2005/ghiblifav/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresBackend serves every operation from PostgreSQL. Each operation is a
// single statement, so no transactions are involved.
type PostgresBackend struct {
	users     *users.PostgresRepository
	favorites *favorites.PostgresRepository
	db        *sql.DB
}

// NewPostgresBackend binds both repositories to db.
func NewPostgresBackend(db *sql.DB) *PostgresBackend {
	return &PostgresBackend{
		users:     users.NewPostgresRepository(db),
		favorites: favorites.NewPostgresRepository(db),
		db:        db,
	}
}

func (b *PostgresBackend) UpsertUser(ctx context.Context, in models.UpsertUser) (*models.User, error) {
	return b.users.UpsertUser(ctx, in)
}

func (b *PostgresBackend) GetUserByOpenID(ctx context.Context, openID string) (*models.User, error) {
	return b.users.GetUserByOpenID(ctx, openID)
}

func (b *PostgresBackend) DeleteUser(ctx context.Context, openID string) error {
	return b.users.DeleteUser(ctx, openID)
}

func (b *PostgresBackend) AddFavorite(ctx context.Context, userID int64, movieID string, data models.MovieData) error {
	return b.favorites.AddFavorite(ctx, userID, movieID, data)
}

func (b *PostgresBackend) RemoveFavorite(ctx context.Context, userID int64, movieID string) error {
	return b.favorites.RemoveFavorite(ctx, userID, movieID)
}

func (b *PostgresBackend) ListFavorites(ctx context.Context, userID int64) ([]models.Favorite, error) {
	return b.favorites.ListFavorites(ctx, userID)
}

func (b *PostgresBackend) IsFavorited(ctx context.Context, userID int64, movieID string) (bool, error) {
	return b.favorites.IsFavorited(ctx, userID, movieID)
}

// Close releases the pool.
func (b *PostgresBackend) Close() error {
	return b.db.Close()
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

// openDB is a seam for tests; production opens pgx and pings.
var openDB = func(ctx context.Context, dsn string, timeout time.Duration) (*sql.DB, error) {
	return dbx.Open(ctx, "pgx", dsn, timeout)
}

// PostgresConnector returns the ConnectFunc used by Selector: open, ping
// within timeout, migrate. Any failure leaves nothing open behind.
func PostgresConnector(dsn string, timeout time.Duration) ConnectFunc {
	return func(ctx context.Context) (Backend, error) {
		db, err := openDB(ctx, dsn, timeout)
		if err != nil {
			return nil, err
		}

		if err := RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}

		return NewPostgresBackend(db), nil
	}
}

// Package favorites provides the PostgreSQL favorites repository.
package favorites

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/ghiblifav/internal/dbx"
	"github.com/dmitrijs2005/ghiblifav/internal/server/models"
)

// PostgresRepository implements favorites storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// AddFavorite inserts a row without checking for an existing pair.
func (r *PostgresRepository) AddFavorite(ctx context.Context, userID int64, movieID string, data models.MovieData) error {
	query := `
		INSERT INTO favorites (user_id, ghibli_movie_id, movie_title, movie_description, release_date, running_time)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		userID, movieID, strArg(data.Title), strArg(data.Description), strArg(data.ReleaseDate), strArg(data.RunningTime))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// RemoveFavorite deletes every matching row. Nothing to delete is not an error.
func (r *PostgresRepository) RemoveFavorite(ctx context.Context, userID int64, movieID string) error {
	query := `DELETE FROM favorites WHERE user_id = $1 AND ghibli_movie_id = $2`

	if _, err := r.db.ExecContext(ctx, query, userID, movieID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// ListFavorites returns the user's favorites, oldest first; id breaks ties.
func (r *PostgresRepository) ListFavorites(ctx context.Context, userID int64) ([]models.Favorite, error) {
	query := `
		SELECT id, user_id, ghibli_movie_id, movie_title, movie_description, release_date, running_time, created_at
		FROM favorites
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Favorite, 0)
	for rows.Next() {
		var (
			f                               models.Favorite
			title, desc, release, runningTm sql.NullString
		)
		if err := rows.Scan(&f.ID, &f.UserID, &f.GhibliMovieID, &title, &desc, &release, &runningTm, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		f.MovieTitle = ptr(title)
		f.MovieDescription = ptr(desc)
		f.ReleaseDate = ptr(release)
		f.RunningTime = ptr(runningTm)
		result = append(result, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) IsFavorited(ctx context.Context, userID int64, movieID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND ghibli_movie_id = $2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, movieID).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func strArg(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func ptr(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	s := n.String
	return &s
}

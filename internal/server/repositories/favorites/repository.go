package favorites

import (
	"context"

	"github.com/dmitrijs2005/ghiblifav/internal/server/models"
)

// Repository is the favorites half of a persistence backend.
type Repository interface {
	AddFavorite(ctx context.Context, userID int64, movieID string, data models.MovieData) error
	RemoveFavorite(ctx context.Context, userID int64, movieID string) error
	ListFavorites(ctx context.Context, userID int64) ([]models.Favorite, error)
	IsFavorited(ctx context.Context, userID int64, movieID string) (bool, error)
}

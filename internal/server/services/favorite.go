package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/ghiblifav/internal/common"
	"github.com/dmitrijs2005/ghiblifav/internal/logging"
	"github.com/dmitrijs2005/ghiblifav/internal/server/models"
	"github.com/dmitrijs2005/ghiblifav/internal/server/repositories/favorites"
)

// FavoriteService manages a user's favorite movies.
//
// Add does not look for an existing (user, movie) pair first, so racing
// callers can create duplicates; Remove deletes all of them.
type FavoriteService struct {
	repo   favorites.Repository
	logger logging.Logger
}

func NewFavoriteService(repo favorites.Repository, l logging.Logger) *FavoriteService {
	return &FavoriteService{repo: repo, logger: l.With("module", "favorite_service")}
}

func (s *FavoriteService) Add(ctx context.Context, userID int64, movieID string, data models.MovieData) error {
	if movieID == "" {
		return fmt.Errorf("%w: ghibliMovieId is required", common.ErrInvalidArgument)
	}

	if err := s.repo.AddFavorite(ctx, userID, movieID, data); err != nil {
		return s.failure(ctx, "add favorite", userID, err)
	}
	return nil
}

func (s *FavoriteService) Remove(ctx context.Context, userID int64, movieID string) error {
	if movieID == "" {
		return fmt.Errorf("%w: ghibliMovieId is required", common.ErrInvalidArgument)
	}

	if err := s.repo.RemoveFavorite(ctx, userID, movieID); err != nil {
		return s.failure(ctx, "remove favorite", userID, err)
	}
	return nil
}

// List returns favorites oldest first.
func (s *FavoriteService) List(ctx context.Context, userID int64) ([]models.Favorite, error) {
	list, err := s.repo.ListFavorites(ctx, userID)
	if err != nil {
		return nil, s.failure(ctx, "list favorites", userID, err)
	}
	return list, nil
}

func (s *FavoriteService) IsFavorited(ctx context.Context, userID int64, movieID string) (bool, error) {
	if movieID == "" {
		return false, fmt.Errorf("%w: ghibliMovieId is required", common.ErrInvalidArgument)
	}

	ok, err := s.repo.IsFavorited(ctx, userID, movieID)
	if err != nil {
		return false, s.failure(ctx, "check favorite", userID, err)
	}
	return ok, nil
}

func (s *FavoriteService) failure(ctx context.Context, op string, userID int64, err error) error {
	s.logger.Error(ctx, "favorites "+op+" failed", "userId", userID, "error", err)
	return fmt.Errorf("%w: %s: %w", common.ErrPersistenceFailure, op, err)
}

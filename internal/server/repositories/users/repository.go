package users

import (
	"context"

	"github.com/dmitrijs2005/ghiblifav/internal/server/models"
)

// Repository is the user half of a persistence backend.
type Repository interface {
	UpsertUser(ctx context.Context, in models.UpsertUser) (*models.User, error)
	GetUserByOpenID(ctx context.Context, openID string) (*models.User, error)
	DeleteUser(ctx context.Context, openID string) error
}

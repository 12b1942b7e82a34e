// Package services contains server-side business logic over a persistence
// backend. This file implements UserService: upserting users on sign-in and
// looking them up by openId.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/ghiblifav/internal/common"
	"github.com/dmitrijs2005/ghiblifav/internal/logging"
	"github.com/dmitrijs2005/ghiblifav/internal/server/models"
	"github.com/dmitrijs2005/ghiblifav/internal/server/repositories/users"
)

// UserService manages user records keyed by openId.
type UserService struct {
	repo        users.Repository
	ownerOpenID string
	logger      logging.Logger
	now         func() time.Time
}

// NewUserService constructs a UserService. ownerOpenID may be empty, in
// which case nobody is promoted automatically.
func NewUserService(repo users.Repository, ownerOpenID string, l logging.Logger) *UserService {
	return &UserService{
		repo:        repo,
		ownerOpenID: ownerOpenID,
		logger:      l.With("module", "user_service"),
		now:         time.Now,
	}
}

// UpsertUser creates the user or applies patch to the existing one. The
// owner becomes admin only when created without an explicit role.
// lastSignedIn is refreshed on every call.
func (s *UserService) UpsertUser(ctx context.Context, openID string, patch models.UserPatch) (*models.User, error) {
	if openID == "" {
		return nil, fmt.Errorf("%w: openId is required", common.ErrInvalidArgument)
	}
	if patch.Role != nil && !patch.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", common.ErrInvalidArgument, *patch.Role)
	}

	defaultRole := models.RoleUser
	if s.ownerOpenID != "" && openID == s.ownerOpenID {
		defaultRole = models.RoleAdmin
	}

	u, err := s.repo.UpsertUser(ctx, models.UpsertUser{
		OpenID:      openID,
		Patch:       patch,
		DefaultRole: defaultRole,
		Now:         s.now(),
	})
	if err != nil {
		s.logger.Error(ctx, "failed to upsert user", "openId", openID, "error", err)
		return nil, fmt.Errorf("%w: upsert user: %w", common.ErrPersistenceFailure, err)
	}

	return u, nil
}

// GetUserByOpenID returns common.ErrorNotFound when there is no such user.
func (s *UserService) GetUserByOpenID(ctx context.Context, openID string) (*models.User, error) {
	if openID == "" {
		return nil, fmt.Errorf("%w: openId is required", common.ErrInvalidArgument)
	}

	u, err := s.repo.GetUserByOpenID(ctx, openID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "failed to get user", "openId", openID, "error", err)
		return nil, fmt.Errorf("%w: get user: %w", common.ErrPersistenceFailure, err)
	}

	return u, nil
}

// Package filestore is the development fallback backend: users and favorites
// live in one JSON document that is rewritten in full on every mutation.
//
// There is no locking. Two processes (or two concurrent requests) writing at
// the same time can lose an update; the store is only meant for a single
// local developer.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"time"

	"github.com/dmitrijs2005/ghiblifav/internal/common"
	"github.com/dmitrijs2005/ghiblifav/internal/filex"
	"github.com/dmitrijs2005/ghiblifav/internal/server/models"
)

type document struct {
	Users          []models.User     `json:"users"`
	Favorites      []models.Favorite `json:"favorites"`
	NextUserID     int64             `json:"nextUserId"`
	NextFavoriteID int64             `json:"nextFavoriteId"`
}

func emptyDocument() *document {
	return &document{
		Users:          []models.User{},
		Favorites:      []models.Favorite{},
		NextUserID:     1,
		NextFavoriteID: 1,
	}
}

type Store struct {
	path string
	now  func() time.Time
}

// New returns a store over path, creating the directory and an empty
// document when the file does not exist yet.
func New(path string) (*Store, error) {
	s := &Store{path: path, now: time.Now}

	if err := filex.EnsureParentDir(path); err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := s.save(emptyDocument()); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	return s, nil
}

// Path returns the document location.
func (s *Store) Path() string { return s.path }

func (s *Store) load() (*document, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return emptyDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	doc := emptyDocument()
	if err := json.Unmarshal(b, doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	if doc.Users == nil {
		doc.Users = []models.User{}
	}
	if doc.Favorites == nil {
		doc.Favorites = []models.Favorite{}
	}

	return doc, nil
}

func (s *Store) save(doc *document) error {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return filex.WriteFileAtomic(s.path, b, 0o600)
}

func (s *Store) UpsertUser(_ context.Context, in models.UpsertUser) (*models.User, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	lastSignedIn := in.Now
	if in.Patch.LastSignedIn != nil {
		lastSignedIn = *in.Patch.LastSignedIn
	}

	var user *models.User
	for i := range doc.Users {
		if doc.Users[i].OpenID == in.OpenID {
			user = &doc.Users[i]
			break
		}
	}

	if user != nil {
		in.Patch.Apply(user)
		user.LastSignedIn = lastSignedIn
		user.UpdatedAt = in.Now
	} else {
		doc.Users = append(doc.Users, models.User{
			ID:           doc.NextUserID,
			OpenID:       in.OpenID,
			Role:         in.DefaultRole,
			CreatedAt:    in.Now,
			UpdatedAt:    in.Now,
			LastSignedIn: lastSignedIn,
		})
		doc.NextUserID++
		user = &doc.Users[len(doc.Users)-1]
		in.Patch.Apply(user)
	}

	out := *user
	if err := s.save(doc); err != nil {
		return nil, err
	}

	return &out, nil
}

func (s *Store) GetUserByOpenID(_ context.Context, openID string) (*models.User, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	for _, u := range doc.Users {
		if u.OpenID == openID {
			return &u, nil
		}
	}

	return nil, common.ErrorNotFound
}

// DeleteUser removes the user together with their favorites, like the
// relational foreign key does. Unknown users are ignored.
func (s *Store) DeleteUser(_ context.Context, openID string) error {
	doc, err := s.load()
	if err != nil {
		return err
	}

	var userID int64
	users := doc.Users[:0]
	for _, u := range doc.Users {
		if u.OpenID == openID {
			userID = u.ID
			continue
		}
		users = append(users, u)
	}
	if userID == 0 {
		return nil
	}
	doc.Users = users
	doc.Favorites = dropFavorites(doc.Favorites, func(f models.Favorite) bool { return f.UserID == userID })

	return s.save(doc)
}

func (s *Store) AddFavorite(_ context.Context, userID int64, movieID string, data models.MovieData) error {
	doc, err := s.load()
	if err != nil {
		return err
	}

	doc.Favorites = append(doc.Favorites, models.Favorite{
		ID:               doc.NextFavoriteID,
		UserID:           userID,
		GhibliMovieID:    movieID,
		MovieTitle:       data.Title,
		MovieDescription: data.Description,
		ReleaseDate:      data.ReleaseDate,
		RunningTime:      data.RunningTime,
		CreatedAt:        s.now(),
	})
	doc.NextFavoriteID++

	return s.save(doc)
}

func (s *Store) RemoveFavorite(_ context.Context, userID int64, movieID string) error {
	doc, err := s.load()
	if err != nil {
		return err
	}

	before := len(doc.Favorites)
	doc.Favorites = dropFavorites(doc.Favorites, func(f models.Favorite) bool {
		return f.UserID == userID && f.GhibliMovieID == movieID
	})
	if len(doc.Favorites) == before {
		return nil
	}

	return s.save(doc)
}

// ListFavorites orders by CreatedAt, then by id, which is insertion order.
func (s *Store) ListFavorites(_ context.Context, userID int64) ([]models.Favorite, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	result := make([]models.Favorite, 0)
	for _, f := range doc.Favorites {
		if f.UserID == userID {
			result = append(result, f)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

func (s *Store) IsFavorited(_ context.Context, userID int64, movieID string) (bool, error) {
	doc, err := s.load()
	if err != nil {
		return false, err
	}

	for _, f := range doc.Favorites {
		if f.UserID == userID && f.GhibliMovieID == movieID {
			return true, nil
		}
	}

	return false, nil
}

func dropFavorites(in []models.Favorite, drop func(models.Favorite) bool) []models.Favorite {
	out := make([]models.Favorite, 0, len(in))
	for _, f := range in {
		if !drop(f) {
			out = append(out, f)
		}
	}
	return out
}

// Package users provides the PostgreSQL user repository.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/ghiblifav/internal/common"
	"github.com/dmitrijs2005/ghiblifav/internal/dbx"
	"github.com/dmitrijs2005/ghiblifav/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, open_id, name, email, login_method, role, created_at, updated_at, last_signed_in`

// UpsertUser inserts or updates the user keyed by open_id in one statement.
// The has* flags keep columns the patch does not mention untouched on update,
// while last_signed_in and updated_at are always refreshed.
func (r *PostgresRepository) UpsertUser(ctx context.Context, in models.UpsertUser) (*models.User, error) {
	query :=
		`INSERT INTO users (open_id, name, email, login_method, role, last_signed_in, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		 ON CONFLICT (open_id) DO UPDATE SET
			name = CASE WHEN $8::boolean THEN EXCLUDED.name ELSE users.name END,
			email = CASE WHEN $9::boolean THEN EXCLUDED.email ELSE users.email END,
			login_method = CASE WHEN $10::boolean THEN EXCLUDED.login_method ELSE users.login_method END,
			role = CASE WHEN $11::boolean THEN EXCLUDED.role ELSE users.role END,
			last_signed_in = EXCLUDED.last_signed_in,
			updated_at = EXCLUDED.updated_at
		 RETURNING ` + userColumns

	p := in.Patch

	role := in.DefaultRole
	if p.Role != nil {
		role = *p.Role
	}

	lastSignedIn := in.Now
	if p.LastSignedIn != nil {
		lastSignedIn = *p.LastSignedIn
	}

	row := r.db.QueryRowContext(ctx, query,
		in.OpenID, nullArg(p.Name), nullArg(p.Email), nullArg(p.LoginMethod), string(role), lastSignedIn, in.Now,
		p.Name != nil, p.Email != nil, p.LoginMethod != nil, p.Role != nil,
	)

	user, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetUserByOpenID(ctx context.Context, openID string) (*models.User, error) {
	query :=
		`SELECT ` + userColumns + ` FROM users
		 WHERE open_id = $1
		 `

	user, err := scanUser(r.db.QueryRowContext(ctx, query, openID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

// DeleteUser removes the user; favorites go with it through ON DELETE CASCADE.
func (r *PostgresRepository) DeleteUser(ctx context.Context, openID string) error {
	query := `DELETE FROM users WHERE open_id = $1`

	if _, err := r.db.ExecContext(ctx, query, openID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	var (
		u                          models.User
		name, email, loginMethod   sql.NullString
		role                       string
		created, updated, lastSeen time.Time
	)

	if err := row.Scan(&u.ID, &u.OpenID, &name, &email, &loginMethod, &role, &created, &updated, &lastSeen); err != nil {
		return nil, err
	}

	u.Name = ptr(name)
	u.Email = ptr(email)
	u.LoginMethod = ptr(loginMethod)
	u.Role = models.Role(role)
	u.CreatedAt = created
	u.UpdatedAt = updated
	u.LastSignedIn = lastSeen

	return &u, nil
}

// nullArg turns an absent or null patch field into a SQL NULL.
func nullArg(v *sql.NullString) any {
	if v == nil || !v.Valid {
		return nil
	}
	return v.String
}

func ptr(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	s := n.String
	return &s
}

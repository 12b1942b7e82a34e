// Package models holds the records shared by storage, services and the
// HTTP layer. JSON names match the file fallback document.
package models

import (
	"database/sql"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID           int64     `json:"id"`
	OpenID       string    `json:"openId"`
	Name         *string   `json:"name"`
	Email        *string   `json:"email"`
	LoginMethod  *string   `json:"loginMethod"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	LastSignedIn time.Time `json:"lastSignedIn"`
}

// UserPatch carries a partial user update. A nil field was not provided and
// keeps its stored value (or column default on create). For the text fields
// a non-nil pointer with Valid=false writes NULL.
type UserPatch struct {
	Name         *sql.NullString
	Email        *sql.NullString
	LoginMethod  *sql.NullString
	Role         *Role
	LastSignedIn *time.Time
}

// UpsertUser is what a backend needs to insert-or-update one user.
// DefaultRole applies only when a row is created and Patch.Role is nil;
// Now stamps timestamps the patch leaves out.
type UpsertUser struct {
	OpenID      string
	Patch       UserPatch
	DefaultRole Role
	Now         time.Time
}

// Apply writes the present patch fields onto u.
func (p UserPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = nullToPtr(*p.Name)
	}
	if p.Email != nil {
		u.Email = nullToPtr(*p.Email)
	}
	if p.LoginMethod != nil {
		u.LoginMethod = nullToPtr(*p.LoginMethod)
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
}

// Value is a helper for building patches: Value("x") sets the field.
func Value(s string) *sql.NullString {
	return &sql.NullString{String: s, Valid: true}
}

// Null is a helper for building patches that clear a field.
func Null() *sql.NullString {
	return &sql.NullString{}
}

func nullToPtr(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	s := n.String
	return &s
}

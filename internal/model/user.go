package model

import (
	"net/url"
	"time"

	"github.com/iliyamo/labquiz/internal/search"
)

// User represents a row in the `users` table.
//
// Fields:
//  ID           – primary key identifier of the user.
//  FirstName    – given name.
//  LastName     – family name.
//  BannerID     – unique institutional id number.
//  Email        – optional contact address.
//  PasswordHash – bcrypt hash; empty when the user cannot log in.
type User struct {
	ID           uint64  `json:"id"`            // users.id
	FirstName    string  `json:"first_name"`    // users.first_name
	LastName     string  `json:"last_name"`     // users.last_name
	BannerID     uint32  `json:"banner_id"`     // users.banner_id
	Email        *string `json:"email"`         // users.email (nullable)
	PasswordHash string  `json:"-"`             // users.password_hash (nullable)
}

// NewUser is the payload for creating a user.
type NewUser struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	BannerID  uint32  `json:"banner_id"`
	Email     *string `json:"email"`
}

// PartialUser carries the fields of an update. Nil pointers are left
// unchanged; Email distinguishes "not sent" from an explicit null.
type PartialUser struct {
	FirstName *string          `json:"first_name"`
	LastName  *string          `json:"last_name"`
	BannerID  *uint32          `json:"banner_id"`
	Email     Nullable[string] `json:"email"`
}

// UserSearch holds one search term per searchable users column.
type UserSearch struct {
	FirstName search.Term[string]
	LastName  search.Term[string]
	BannerID  search.Term[uint32]
	Email     search.NullableTerm[string]
}

// UserList wraps search results.
type UserList struct {
	Users []User `json:"users"`
}

// RefreshToken models an entry in the `refresh_tokens` table. The plain
// token is not stored; only its SHA‑256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA‑256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}

// ParseUserSearch binds the search terms of a user listing.
func ParseUserSearch(values url.Values) (UserSearch, error) {
	b := search.NewBinder(values)
	s := UserSearch{
		FirstName: search.BindTerm(b, "first_name", search.String),
		LastName:  search.BindTerm(b, "last_name", search.String),
		BannerID:  search.BindTerm(b, "banner_id", search.Uint32),
		Email:     search.BindNullable(b, "email", search.String),
	}
	return s, b.Err()
}

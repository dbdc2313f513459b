package model

import (
	"net/url"

	"github.com/iliyamo/labquiz/internal/search"
)

// Access is a named capability, a row of the `access` table. Name is unique.
// PermissionLevel, when set, is the minimum grant level needed to pass the
// gate for this capability.
type Access struct {
	ID              uint64  `json:"id"`               // access.id
	Name            string  `json:"access_name"`      // access.name
	PermissionLevel *string `json:"permission_level"` // access.permission_level (nullable)
}

// NewAccess is the payload for registering a capability.
type NewAccess struct {
	Name            string  `json:"access_name"`
	PermissionLevel *string `json:"permission_level"`
}

// PartialAccess carries the fields of an access update.
type PartialAccess struct {
	Name            *string          `json:"access_name"`
	PermissionLevel Nullable[string] `json:"permission_level"`
}

// UserAccess is a grant linking a user to an access, a row of the
// `user_access` table. (UserID, AccessID) is unique.
type UserAccess struct {
	PermissionID    uint64  `json:"permission_id"`    // user_access.permission_id
	UserID          uint64  `json:"user_id"`          // user_access.user_id
	AccessID        uint64  `json:"access_id"`        // user_access.access_id
	PermissionLevel *string `json:"permission_level"` // user_access.permission_level (nullable)
}

// NewUserAccess is the payload for creating a grant.
type NewUserAccess struct {
	UserID          uint64  `json:"user_id"`
	AccessID        uint64  `json:"access_id"`
	PermissionLevel *string `json:"permission_level"`
}

// PartialUserAccess carries the only mutable field of a grant.
type PartialUserAccess struct {
	PermissionLevel Nullable[string] `json:"permission_level"`
}

// JoinedUserAccess is the read-only listing projection of a grant together
// with the holder's identity.
type JoinedUserAccess struct {
	PermissionID uint64 `json:"permission_id"`
	UserID       uint64 `json:"user_id"`
	AccessID     uint64 `json:"access_id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	BannerID     uint32 `json:"banner_id"`
}

// JoinedUserAccessList wraps grant search results.
type JoinedUserAccessList struct {
	Entries []JoinedUserAccess `json:"entries"`
}

// UserAccessSearch holds one search term per searchable grant column.
type UserAccessSearch struct {
	AccessID        search.Term[uint64]
	UserID          search.Term[uint64]
	PermissionLevel search.NullableTerm[string]
}

// ParseUserAccessSearch binds the search terms of a grant listing.
func ParseUserAccessSearch(values url.Values) (UserAccessSearch, error) {
	b := search.NewBinder(values)
	s := UserAccessSearch{
		AccessID:        search.BindTerm(b, "access_id", search.Uint64),
		UserID:          search.BindTerm(b, "user_id", search.Uint64),
		PermissionLevel: search.BindNullable(b, "permission_level", search.String),
	}
	return s, b.Err()
}

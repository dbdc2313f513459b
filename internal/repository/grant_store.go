package repository

import (
	"context"

	"github.com/iliyamo/labquiz/internal/database"
	"github.com/iliyamo/labquiz/internal/model"
)

// GrantStore answers the two lookups the permission gate needs. It holds no
// state besides the connection, so every check reads the current rows.
type GrantStore struct {
	access *AccessRepo
	grants *UserAccessRepo
	lock   string
}

// NewGrantStore returns a GrantStore over db, which may be the pool or a
// transaction.
func NewGrantStore(db DBTX) *GrantStore {
	return &GrantStore{access: NewAccessRepo(db), grants: NewUserAccessRepo(db, nil)}
}

// NewLockingGrantStore returns a GrantStore for use inside tx whose reads
// take shared locks on the rows they return. A grant checked this way cannot
// be revoked or altered by another transaction until tx ends.
func NewLockingGrantStore(tx DBTX, driver string) *GrantStore {
	s := NewGrantStore(tx)
	s.lock = sharedLock(driver)
	return s
}

// sharedLock is the clause that makes a SELECT take shared row locks.
// SQLite needs none: a reading transaction already holds a database-wide
// SHARED lock that keeps writers from committing.
func sharedLock(driver string) string {
	if driver == database.DriverMySQL {
		return " LOCK IN SHARE MODE"
	}
	return ""
}

// AccessByName resolves a capability by name.
func (s *GrantStore) AccessByName(ctx context.Context, name string) (model.Access, error) {
	return s.access.getByName(ctx, name, s.lock)
}

// GrantFor returns the grant of accessID to userID.
func (s *GrantStore) GrantFor(ctx context.Context, userID, accessID uint64) (model.UserAccess, error) {
	return s.grants.find(ctx, userID, accessID, s.lock)
}

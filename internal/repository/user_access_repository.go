package repository

import (
	"context"
	"database/sql"

	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/iliyamo/labquiz/internal/model"
	"github.com/iliyamo/labquiz/internal/search"
)

// UserAccessRepo persists grants in the `user_access` table. The table has a
// unique key on (user_id, access_id); Create relies on it instead of checking
// for an existing row first, so concurrent grants of the same pair cannot
// both succeed.
type UserAccessRepo struct {
	db     DBTX
	logger *zap.Logger
}

func NewUserAccessRepo(db DBTX, logger *zap.Logger) *UserAccessRepo {
	return &UserAccessRepo{db: db, logger: logger}
}

// Search lists grants joined with the holder's identity.
func (r *UserAccessRepo) Search(ctx context.Context, s model.UserAccessSearch) (model.JoinedUserAccessList, error) {
	f := search.NewFilter(r.logger)
	search.Number(f, "ua.access_id", s.AccessID)
	search.Number(f, "ua.user_id", s.UserID)
	f.NullableText("ua.permission_level", s.PermissionLevel)
	where, args := f.Where()

	q := `SELECT ua.permission_id, u.id, a.id, u.first_name, u.last_name, u.banner_id
		FROM user_access ua
		JOIN access a ON a.id = ua.access_id
		JOIN users u  ON u.id = ua.user_id` + where + `
		ORDER BY ua.permission_id`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return model.JoinedUserAccessList{}, errors.Annotate(err, "searching user access")
	}
	defer rows.Close()

	out := model.JoinedUserAccessList{Entries: []model.JoinedUserAccess{}}
	for rows.Next() {
		var e model.JoinedUserAccess
		if err := rows.Scan(&e.PermissionID, &e.UserID, &e.AccessID, &e.FirstName, &e.LastName, &e.BannerID); err != nil {
			return model.JoinedUserAccessList{}, errors.Trace(err)
		}
		out.Entries = append(out.Entries, e)
	}
	return out, errors.Trace(rows.Err())
}

// Get fetches a grant by its permission id.
func (r *UserAccessRepo) Get(ctx context.Context, permissionID uint64) (model.UserAccess, error) {
	g, err := scanGrant(r.db.QueryRowContext(ctx,
		"SELECT permission_id, user_id, access_id, permission_level FROM user_access WHERE permission_id = ?",
		permissionID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.UserAccess{}, errors.NotFoundf("user access %d", permissionID)
	}
	return g, errors.Trace(err)
}

// Find fetches the grant of accessID to userID.
func (r *UserAccessRepo) Find(ctx context.Context, userID, accessID uint64) (model.UserAccess, error) {
	return r.find(ctx, userID, accessID, "")
}

// find appends lock to the lookup, see sharedLock.
func (r *UserAccessRepo) find(ctx context.Context, userID, accessID uint64, lock string) (model.UserAccess, error) {
	g, err := scanGrant(r.db.QueryRowContext(ctx,
		"SELECT permission_id, user_id, access_id, permission_level FROM user_access WHERE user_id = ? AND access_id = ?"+lock,
		userID, accessID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.UserAccess{}, errors.NotFoundf("access %d for user %d", accessID, userID)
	}
	return g, errors.Trace(err)
}

// Check reports whether userID holds accessID.
func (r *UserAccessRepo) Check(ctx context.Context, userID, accessID uint64) (bool, error) {
	_, err := r.Find(ctx, userID, accessID)
	if errors.Is(err, errors.NotFound) {
		return false, nil
	}
	if err != nil {
		return false, errors.Trace(err)
	}
	return true, nil
}

// Create inserts a grant. If the user already holds the access, ErrConflict
// is returned and the existing grant is left untouched.
func (r *UserAccessRepo) Create(ctx context.Context, g model.NewUserAccess) (model.UserAccess, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO user_access (user_id, access_id, permission_level) VALUES (?, ?, ?)",
		g.UserID, g.AccessID, g.PermissionLevel)
	if err != nil {
		return model.UserAccess{}, translate(err, "granting access %d to user %d", g.AccessID, g.UserID)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.UserAccess{}, errors.Trace(err)
	}
	return r.Get(ctx, uint64(id))
}

// Update changes the permission level of a grant.
func (r *UserAccessRepo) Update(ctx context.Context, permissionID uint64, p model.PartialUserAccess) error {
	if !p.PermissionLevel.Set {
		return nil
	}
	_, err := r.db.ExecContext(ctx,
		"UPDATE user_access SET permission_level = ? WHERE permission_id = ?",
		p.PermissionLevel.Value, permissionID)
	return errors.Annotatef(err, "updating user access %d", permissionID)
}

// Delete revokes a grant. Deleting a missing grant is not an error.
func (r *UserAccessRepo) Delete(ctx context.Context, permissionID uint64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM user_access WHERE permission_id = ?", permissionID)
	return errors.Annotatef(err, "deleting user access %d", permissionID)
}

func scanGrant(row rowScanner) (model.UserAccess, error) {
	var (
		g     model.UserAccess
		level sql.NullString
	)
	if err := row.Scan(&g.PermissionID, &g.UserID, &g.AccessID, &level); err != nil {
		return model.UserAccess{}, err
	}
	g.PermissionLevel = nullString(level)
	return g, nil
}

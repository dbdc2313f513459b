package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/iliyamo/labquiz/internal/model"
	"github.com/iliyamo/labquiz/internal/search"
	"github.com/iliyamo/labquiz/internal/utils"
)

const userColumns = "id, first_name, last_name, banner_id, email, COALESCE(password_hash, '')"

// UserRepo persists rows of the `users` table.
type UserRepo struct {
	db     DBTX
	logger *zap.Logger
}

func NewUserRepo(db DBTX, logger *zap.Logger) *UserRepo {
	return &UserRepo{db: db, logger: logger}
}

// Search returns all users matching every term in s.
func (r *UserRepo) Search(ctx context.Context, s model.UserSearch) (model.UserList, error) {
	f := search.NewFilter(r.logger)
	f.Text("first_name", s.FirstName)
	f.Text("last_name", s.LastName)
	search.Number(f, "banner_id", s.BannerID)
	f.NullableText("email", s.Email)
	where, args := f.Where()

	rows, err := r.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users"+where+" ORDER BY id", args...)
	if err != nil {
		return model.UserList{}, errors.Annotate(err, "searching users")
	}
	defer rows.Close()

	out := model.UserList{Users: []model.User{}}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return model.UserList{}, errors.Trace(err)
		}
		out.Users = append(out.Users, u)
	}
	return out, errors.Trace(rows.Err())
}

// Get fetches a user by id.
func (r *UserRepo) Get(ctx context.Context, id uint64) (model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, errors.NotFoundf("user %d", id)
	}
	return u, errors.Trace(err)
}

// GetByBannerID fetches a user by banner id. Used for login.
func (r *UserRepo) GetByBannerID(ctx context.Context, bannerID uint32) (model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE banner_id = ?", bannerID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, errors.NotFoundf("user with banner id %d", bannerID)
	}
	return u, errors.Trace(err)
}

// Create inserts a user and returns the stored row.
func (r *UserRepo) Create(ctx context.Context, u model.NewUser) (model.User, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (first_name, last_name, banner_id, email) VALUES (?, ?, ?, ?)",
		strings.TrimSpace(u.FirstName), strings.TrimSpace(u.LastName), u.BannerID, u.Email)
	if err != nil {
		return model.User{}, translate(err, "creating user")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, errors.Trace(err)
	}
	return r.Get(ctx, uint64(id))
}

// Update applies the set fields of p. Updating a missing user is not an error.
func (r *UserRepo) Update(ctx context.Context, id uint64, p model.PartialUser) error {
	set := newAssignments()
	if p.FirstName != nil {
		set.add("first_name", strings.TrimSpace(*p.FirstName))
	}
	if p.LastName != nil {
		set.add("last_name", strings.TrimSpace(*p.LastName))
	}
	if p.BannerID != nil {
		set.add("banner_id", *p.BannerID)
	}
	if p.Email.Set {
		set.add("email", p.Email.Value)
	}
	if set.empty() {
		return nil
	}
	_, err := r.db.ExecContext(ctx, "UPDATE users SET "+set.sql()+" WHERE id = ?", append(set.args, id)...)
	return translate(err, "updating user %d", id)
}

// SetPassword stores a bcrypt hash of plain for the user.
func (r *UserRepo) SetPassword(ctx context.Context, id uint64, plain string, cost int) error {
	hash, err := utils.HashPassword(plain, cost)
	if err != nil {
		return errors.Trace(err)
	}
	res, err := r.db.ExecContext(ctx, "UPDATE users SET password_hash = ? WHERE id = ?", hash, id)
	if err != nil {
		return errors.Annotatef(err, "setting password for user %d", id)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NotFoundf("user %d", id)
	}
	return nil
}

// Delete removes a user. Deleting a missing user is not an error.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	return errors.Annotatef(err, "deleting user %d", id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (model.User, error) {
	var (
		u     model.User
		email sql.NullString
	)
	if err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.BannerID, &email, &u.PasswordHash); err != nil {
		return model.User{}, err
	}
	u.Email = nullString(email)
	return u, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

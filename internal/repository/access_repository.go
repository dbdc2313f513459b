package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/juju/errors"

	"github.com/iliyamo/labquiz/internal/model"
)

// AccessRepo persists named capabilities in the `access` table.
type AccessRepo struct {
	db DBTX
}

func NewAccessRepo(db DBTX) *AccessRepo { return &AccessRepo{db: db} }

// Get fetches an access by id.
func (r *AccessRepo) Get(ctx context.Context, id uint64) (model.Access, error) {
	a, err := scanAccess(r.db.QueryRowContext(ctx,
		"SELECT id, name, permission_level FROM access WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Access{}, errors.NotFoundf("access %d", id)
	}
	return a, errors.Trace(err)
}

// GetByName resolves a capability name. The name is unique in the table.
func (r *AccessRepo) GetByName(ctx context.Context, name string) (model.Access, error) {
	return r.getByName(ctx, name, "")
}

func (r *AccessRepo) getByName(ctx context.Context, name, lock string) (model.Access, error) {
	a, err := scanAccess(r.db.QueryRowContext(ctx,
		"SELECT id, name, permission_level FROM access WHERE name = ?"+lock, name))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Access{}, errors.NotFoundf("access %q", name)
	}
	return a, errors.Trace(err)
}

// List returns every registered capability ordered by id.
func (r *AccessRepo) List(ctx context.Context) ([]model.Access, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, permission_level FROM access ORDER BY id")
	if err != nil {
		return nil, errors.Annotate(err, "listing access")
	}
	defer rows.Close()

	out := []model.Access{}
	for rows.Next() {
		a, err := scanAccess(rows)
		if err != nil {
			return nil, errors.Trace(err)
		}
		out = append(out, a)
	}
	return out, errors.Trace(rows.Err())
}

// Create registers a capability. A duplicate name yields ErrConflict.
func (r *AccessRepo) Create(ctx context.Context, a model.NewAccess) (model.Access, error) {
	name := strings.TrimSpace(a.Name)
	if name == "" {
		return model.Access{}, errors.NotValidf("empty access name")
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO access (name, permission_level) VALUES (?, ?)", name, a.PermissionLevel)
	if err != nil {
		return model.Access{}, translate(err, "creating access %q", name)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Access{}, errors.Trace(err)
	}
	return r.Get(ctx, uint64(id))
}

// Update applies the set fields of p.
func (r *AccessRepo) Update(ctx context.Context, id uint64, p model.PartialAccess) error {
	set := newAssignments()
	if p.Name != nil {
		set.add("name", strings.TrimSpace(*p.Name))
	}
	if p.PermissionLevel.Set {
		set.add("permission_level", p.PermissionLevel.Value)
	}
	if set.empty() {
		return nil
	}
	_, err := r.db.ExecContext(ctx, "UPDATE access SET "+set.sql()+" WHERE id = ?", append(set.args, id)...)
	return translate(err, "updating access %d", id)
}

// Delete removes a capability. Deleting a missing id is not an error.
func (r *AccessRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM access WHERE id = ?", id)
	return errors.Annotatef(err, "deleting access %d", id)
}

func scanAccess(row rowScanner) (model.Access, error) {
	var (
		a     model.Access
		level sql.NullString
	)
	if err := row.Scan(&a.ID, &a.Name, &level); err != nil {
		return model.Access{}, err
	}
	a.PermissionLevel = nullString(level)
	return a, nil
}

// Ensure returns the capability called name, registering it without a
// required level if it does not exist yet.
func (r *AccessRepo) Ensure(ctx context.Context, name string) (model.Access, error) {
	a, err := r.Create(ctx, model.NewAccess{Name: name})
	if errors.Is(err, ErrConflict) {
		return r.GetByName(ctx, name)
	}
	return a, err
}

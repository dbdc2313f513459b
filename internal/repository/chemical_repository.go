package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/iliyamo/labquiz/internal/model"
	"github.com/iliyamo/labquiz/internal/search"
)

const chemicalColumns = "id, name, formula, storage_location"

// ChemicalRepo persists rows of the `chemicals` table.
type ChemicalRepo struct {
	db     DBTX
	logger *zap.Logger
}

func NewChemicalRepo(db DBTX, logger *zap.Logger) *ChemicalRepo {
	return &ChemicalRepo{db: db, logger: logger}
}

func (r *ChemicalRepo) Search(ctx context.Context, s model.ChemicalSearch) (model.ChemicalList, error) {
	f := search.NewFilter(r.logger)
	f.Text("name", s.Name)
	f.NullableText("formula", s.Formula)
	f.NullableText("storage_location", s.StorageLocation)
	where, args := f.Where()

	rows, err := r.db.QueryContext(ctx, "SELECT "+chemicalColumns+" FROM chemicals"+where+" ORDER BY id", args...)
	if err != nil {
		return model.ChemicalList{}, errors.Annotate(err, "searching chemicals")
	}
	defer rows.Close()

	out := model.ChemicalList{Chemicals: []model.Chemical{}}
	for rows.Next() {
		ch, err := scanChemical(rows)
		if err != nil {
			return model.ChemicalList{}, errors.Trace(err)
		}
		out.Chemicals = append(out.Chemicals, ch)
	}
	return out, errors.Trace(rows.Err())
}

func (r *ChemicalRepo) Get(ctx context.Context, id uint64) (model.Chemical, error) {
	ch, err := scanChemical(r.db.QueryRowContext(ctx, "SELECT "+chemicalColumns+" FROM chemicals WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Chemical{}, errors.NotFoundf("chemical %d", id)
	}
	return ch, errors.Trace(err)
}

func (r *ChemicalRepo) Create(ctx context.Context, c model.NewChemical) (model.Chemical, error) {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return model.Chemical{}, errors.NotValidf("empty chemical name")
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO chemicals (name, formula, storage_location) VALUES (?, ?, ?)",
		name, c.Formula, c.StorageLocation)
	if err != nil {
		return model.Chemical{}, translate(err, "creating chemical %q", name)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Chemical{}, errors.Trace(err)
	}
	return r.Get(ctx, uint64(id))
}

func (r *ChemicalRepo) Update(ctx context.Context, id uint64, p model.PartialChemical) error {
	set := newAssignments()
	if p.Name != nil {
		set.add("name", strings.TrimSpace(*p.Name))
	}
	if p.Formula.Set {
		set.add("formula", p.Formula.Value)
	}
	if p.StorageLocation.Set {
		set.add("storage_location", p.StorageLocation.Value)
	}
	if set.empty() {
		return nil
	}
	_, err := r.db.ExecContext(ctx, "UPDATE chemicals SET "+set.sql()+" WHERE id = ?", append(set.args, id)...)
	return translate(err, "updating chemical %d", id)
}

func (r *ChemicalRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM chemicals WHERE id = ?", id)
	return errors.Annotatef(err, "deleting chemical %d", id)
}

func scanChemical(row rowScanner) (model.Chemical, error) {
	var (
		c                model.Chemical
		formula, storage sql.NullString
	)
	if err := row.Scan(&c.ID, &c.Name, &formula, &storage); err != nil {
		return model.Chemical{}, err
	}
	c.Formula = nullString(formula)
	c.StorageLocation = nullString(storage)
	return c, nil
}

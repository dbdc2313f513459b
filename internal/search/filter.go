package search

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Integer is the set of column types compiled as numeric fields.
type Integer interface {
	~int | ~int32 | ~int64 | ~uint | ~uint32 | ~uint64
}

// Predicate is a single compiled condition with its bound arguments.
type Predicate struct {
	SQL  string
	Args []any
}

// Filter accumulates predicates in the order fields are added. An empty
// filter renders no WHERE clause, which selects the unfiltered collection.
type Filter struct {
	logger *zap.Logger
	preds  []Predicate
}

// NewFilter returns an empty filter. The logger receives a warning when a
// partial search has to be degraded to an exact match.
func NewFilter(logger *zap.Logger) *Filter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Filter{logger: logger}
}

// Text compiles a term over a text column.
func (f *Filter) Text(column string, t Term[string]) *Filter {
	return f.text(column, t.kind, t.value)
}

// NullableText compiles a nullable term over a text column.
func (f *Filter) NullableText(column string, t NullableTerm[string]) *Filter {
	return f.text(column, t.kind, t.value)
}

// Number compiles a term over a numeric column. Substring matching has no
// meaning there so Partial is compiled as equality and a warning is logged.
func Number[T Integer](f *Filter, column string, t Term[T]) *Filter {
	return number(f, column, t.kind, t.value)
}

// NullableNumber compiles a nullable term over a numeric column.
func NullableNumber[T Integer](f *Filter, column string, t NullableTerm[T]) *Filter {
	return number(f, column, t.kind, t.value)
}

// Predicates returns the compiled predicates in declaration order.
func (f *Filter) Predicates() []Predicate { return f.preds }

// Where renders the conjunction of all predicates as a WHERE clause with a
// leading space, or an empty string when the filter is empty.
func (f *Filter) Where() (string, []any) {
	if len(f.preds) == 0 {
		return "", nil
	}
	conds := make([]string, 0, len(f.preds))
	var args []any
	for _, p := range f.preds {
		conds = append(conds, p.SQL)
		args = append(args, p.Args...)
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (f *Filter) text(column string, kind Kind, v string) *Filter {
	switch kind {
	case Exact:
		f.add(column+" = ?", v)
	case Partial:
		f.add(column+" LIKE ? ESCAPE '!'", "%"+escapeLike(v)+"%")
	default:
		f.nullity(column, kind)
	}
	return f
}

func number[T Integer](f *Filter, column string, kind Kind, v T) *Filter {
	switch kind {
	case Partial:
		f.logger.Warn("partial search is not supported on numeric columns, using exact match",
			zap.String("column", column),
			zap.String("value", fmt.Sprint(v)),
		)
		fallthrough
	case Exact:
		f.add(column+" = ?", v)
	default:
		f.nullity(column, kind)
	}
	return f
}

func (f *Filter) nullity(column string, kind Kind) {
	switch kind {
	case IsNull:
		f.add(column + " IS NULL")
	case IsNotNull:
		f.add(column + " IS NOT NULL")
	}
}

func (f *Filter) add(sql string, args ...any) {
	f.preds = append(f.preds, Predicate{SQL: sql, Args: args})
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string { return likeEscaper.Replace(s) }

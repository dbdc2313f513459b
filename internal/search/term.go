// Package search turns partially specified query criteria into SQL filter
// predicates. Each searchable field is described by a Term (or NullableTerm
// for optional columns) that is either unconstrained, an exact match, a
// substring match, or a nullity check. Handlers bind url query values into a
// resource-specific struct of terms and repositories compile that struct into
// a WHERE clause with a Filter.
package search

import "github.com/juju/errors"

// ErrMalformedQuery is returned when a query value does not follow the
// search grammar or names a field that is not searchable.
const ErrMalformedQuery = errors.ConstError("malformed search query")

// Kind identifies which state a term is in.
type Kind int

const (
	// NoSearch leaves the field unconstrained.
	NoSearch Kind = iota
	// Exact requires the field to equal the value.
	Exact
	// Partial requires the field to contain the value.
	Partial
	// IsNull requires the field to be null. Nullable terms only.
	IsNull
	// IsNotNull requires the field to be present. Nullable terms only.
	IsNotNull
)

func (k Kind) String() string {
	switch k {
	case NoSearch:
		return "no-search"
	case Exact:
		return "exact"
	case Partial:
		return "partial"
	case IsNull:
		return "null"
	case IsNotNull:
		return "notnull"
	}
	return "unknown"
}

// Term is the search state of a non-nullable field. The zero value is NoSearch.
type Term[T any] struct {
	kind  Kind
	value T
}

// ExactTerm returns a term matching fields equal to v.
func ExactTerm[T any](v T) Term[T] { return Term[T]{kind: Exact, value: v} }

// PartialTerm returns a term matching fields containing v.
func PartialTerm[T any](v T) Term[T] { return Term[T]{kind: Partial, value: v} }

// Kind reports the state of the term.
func (t Term[T]) Kind() Kind { return t.kind }

// Value returns the payload and whether the term carries one.
func (t Term[T]) Value() (T, bool) {
	return t.value, t.kind == Exact || t.kind == Partial
}

// NullableTerm is the search state of a nullable field. The zero value is
// NoSearch.
type NullableTerm[T any] struct {
	kind  Kind
	value T
}

// ExactNullable returns a nullable term matching fields equal to v.
func ExactNullable[T any](v T) NullableTerm[T] { return NullableTerm[T]{kind: Exact, value: v} }

// PartialNullable returns a nullable term matching fields containing v.
func PartialNullable[T any](v T) NullableTerm[T] { return NullableTerm[T]{kind: Partial, value: v} }

// NullTerm returns a nullable term matching null fields.
func NullTerm[T any]() NullableTerm[T] { return NullableTerm[T]{kind: IsNull} }

// NotNullTerm returns a nullable term matching non-null fields.
func NotNullTerm[T any]() NullableTerm[T] { return NullableTerm[T]{kind: IsNotNull} }

// Kind reports the state of the term.
func (t NullableTerm[T]) Kind() Kind { return t.kind }

// Value returns the payload and whether the term carries one.
func (t NullableTerm[T]) Value() (T, bool) {
	return t.value, t.kind == Exact || t.kind == Partial
}

package search

import (
	"net/url"
	"sort"

	"github.com/juju/errors"
)

// Binder reads search terms out of url query values. Every field a resource
// supports is bound once; Err then reports the first parse failure or any
// query key that no field claimed.
type Binder struct {
	values url.Values
	known  map[string]bool
	err    error
}

// NewBinder wraps the query values of a search request.
func NewBinder(values url.Values) *Binder {
	return &Binder{values: values, known: make(map[string]bool)}
}

// BindTerm binds a non-nullable field. A field missing from the query is
// NoSearch.
func BindTerm[T any](b *Binder, field string, parse Parser[T]) Term[T] {
	raw, ok := b.lookup(field)
	if !ok {
		return Term[T]{}
	}
	t, err := ParseTerm(raw, parse)
	if err != nil {
		b.fail(errors.Annotatef(err, "field %q", field))
		return Term[T]{}
	}
	return t
}

// BindNullable binds a nullable field. A field missing from the query is
// NoSearch.
func BindNullable[T any](b *Binder, field string, parse Parser[T]) NullableTerm[T] {
	raw, ok := b.lookup(field)
	if !ok {
		return NullableTerm[T]{}
	}
	t, err := ParseNullableTerm(raw, parse)
	if err != nil {
		b.fail(errors.Annotatef(err, "field %q", field))
		return NullableTerm[T]{}
	}
	return t
}

// Err returns the first binding error, or an error naming an unrecognised
// query field.
func (b *Binder) Err() error {
	if b.err != nil {
		return b.err
	}
	keys := make([]string, 0, len(b.values))
	for k := range b.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !b.known[k] {
			return errors.Annotatef(ErrMalformedQuery, "unrecognised search field %q", k)
		}
	}
	return nil
}

func (b *Binder) lookup(field string) (string, bool) {
	b.known[field] = true
	vals, ok := b.values[field]
	if !ok {
		return "", false
	}
	if len(vals) != 1 {
		b.fail(errors.Annotatef(ErrMalformedQuery, "field %q given %d times", field, len(vals)))
		return "", false
	}
	return vals[0], true
}

func (b *Binder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

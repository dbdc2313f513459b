package search

import (
	"strconv"
	"strings"

	"github.com/juju/errors"
)

const (
	exactPrefix   = "exact:"
	partialPrefix = "partial:"
	nullTag       = "null"
	notNullTag    = "notnull"
)

// Parser decodes a query payload into a field value.
type Parser[T any] func(string) (T, error)

// String accepts any payload verbatim.
func String(s string) (string, error) { return s, nil }

// Uint64 parses a base 10 unsigned 64 bit payload.
func Uint64(s string) (uint64, error) { return strconv.ParseUint(s, 10, 64) }

// Uint32 parses a base 10 unsigned 32 bit payload.
func Uint32(s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	return uint32(n), err
}

// ParseTerm decodes raw query text into a Term. Only exact: and partial:
// values are accepted; NoSearch is never produced from text.
func ParseTerm[T any](raw string, parse Parser[T]) (Term[T], error) {
	kind, v, err := parseTagged(raw, parse, false)
	if err != nil {
		return Term[T]{}, err
	}
	return Term[T]{kind: kind, value: v}, nil
}

// ParseNullableTerm decodes raw query text into a NullableTerm. In addition
// to exact: and partial: it accepts the bare tags null and notnull.
func ParseNullableTerm[T any](raw string, parse Parser[T]) (NullableTerm[T], error) {
	kind, v, err := parseTagged(raw, parse, true)
	if err != nil {
		return NullableTerm[T]{}, err
	}
	return NullableTerm[T]{kind: kind, value: v}, nil
}

func parseTagged[T any](raw string, parse Parser[T], nullable bool) (Kind, T, error) {
	var zero T
	switch {
	case strings.HasPrefix(raw, exactPrefix):
		v, err := parsePayload(raw[len(exactPrefix):], parse)
		return Exact, v, err
	case strings.HasPrefix(raw, partialPrefix):
		v, err := parsePayload(raw[len(partialPrefix):], parse)
		return Partial, v, err
	case nullable && raw == nullTag:
		return IsNull, zero, nil
	case nullable && raw == notNullTag:
		return IsNotNull, zero, nil
	}
	return NoSearch, zero, errors.Annotatef(ErrMalformedQuery, "unrecognised search value %q", raw)
}

func parsePayload[T any](payload string, parse Parser[T]) (T, error) {
	var zero T
	if payload == "" {
		return zero, errors.Annotate(ErrMalformedQuery, "empty search payload")
	}
	v, err := parse(payload)
	if err != nil {
		return zero, errors.Annotatef(ErrMalformedQuery, "invalid search payload %q", payload)
	}
	return v, nil
}

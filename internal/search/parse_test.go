package search

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestParseTermExact(t *testing.T) {
	c := qt.New(t)
	term, err := ParseTerm("exact:Anna", String)
	c.Assert(err, qt.IsNil)
	c.Assert(term.Kind(), qt.Equals, Exact)
	v, ok := term.Value()
	c.Assert(ok, qt.IsTrue)
	c.Assert(v, qt.Equals, "Anna")
}

func TestParseTermPartialKeepsColons(t *testing.T) {
	c := qt.New(t)
	term, err := ParseTerm("partial:a:b", String)
	c.Assert(err, qt.IsNil)
	c.Assert(term.Kind(), qt.Equals, Partial)
	v, _ := term.Value()
	c.Assert(v, qt.Equals, "a:b")
}

func TestParseTermNumeric(t *testing.T) {
	c := qt.New(t)
	term, err := ParseTerm("exact:1001", Uint32)
	c.Assert(err, qt.IsNil)
	v, _ := term.Value()
	c.Assert(v, qt.Equals, uint32(1001))
}

func TestParseTermMalformed(t *testing.T) {
	for _, raw := range []string{
		"",
		"Anna",
		"EXACT:Anna",
		"exact:",
		"partial:",
		"null",
		"notnull",
		"like:Anna",
	} {
		t.Run(raw, func(t *testing.T) {
			_, err := ParseTerm(raw, String)
			qt.Assert(t, err, qt.ErrorIs, ErrMalformedQuery)
		})
	}
}

func TestParseTermBadPayload(t *testing.T) {
	c := qt.New(t)
	_, err := ParseTerm("exact:abc", Uint64)
	c.Assert(err, qt.ErrorIs, ErrMalformedQuery)

	_, err = ParseTerm("exact:4294967296", Uint32)
	c.Assert(err, qt.ErrorIs, ErrMalformedQuery)
}

func TestParseNullableTerm(t *testing.T) {
	c := qt.New(t)
	tests := []struct {
		raw  string
		kind Kind
		val  string
	}{
		{"exact:a@b.c", Exact, "a@b.c"},
		{"partial:b.c", Partial, "b.c"},
		{"null", IsNull, ""},
		{"notnull", IsNotNull, ""},
	}
	for _, test := range tests {
		term, err := ParseNullableTerm(test.raw, String)
		c.Assert(err, qt.IsNil, qt.Commentf(test.raw))
		c.Assert(term.Kind(), qt.Equals, test.kind)
		v, _ := term.Value()
		c.Assert(v, qt.Equals, test.val)
	}
}

func TestParseNullableTermMalformed(t *testing.T) {
	c := qt.New(t)
	for _, raw := range []string{"NULL", "nul", "null:", "notnull:x", "exact:"} {
		_, err := ParseNullableTerm(raw, String)
		c.Assert(err, qt.ErrorIs, ErrMalformedQuery, qt.Commentf(raw))
	}
}

func TestZeroTermsAreNoSearch(t *testing.T) {
	c := qt.New(t)
	var term Term[string]
	var nterm NullableTerm[uint64]
	c.Assert(term.Kind(), qt.Equals, NoSearch)
	c.Assert(nterm.Kind(), qt.Equals, NoSearch)
	_, ok := term.Value()
	c.Assert(ok, qt.IsFalse)
}
